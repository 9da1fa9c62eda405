// Package ratelimit provides per-key rate limiting middleware.
package ratelimit

import (
	"encoding/json"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/mandalnilabja/klingate/internal/transport/http/middleware/auth"
)

// Limiter tracks one token bucket per API key. Limits are expressed as
// requests per minute with a burst of the full minute allowance.
type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// New creates a new rate limiter.
func New() *Limiter {
	return &Limiter{limiters: make(map[string]*rate.Limiter)}
}

// Allow checks if a request is allowed under the rate limit.
// A rateLimit of 0 or less means unlimited.
func (l *Limiter) Allow(keyID string, rateLimit int) bool {
	if rateLimit <= 0 {
		return true
	}

	l.mu.Lock()
	lim, ok := l.limiters[keyID]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(rateLimit)/60.0, rateLimit)
		l.limiters[keyID] = lim
	}
	l.mu.Unlock()

	return lim.Allow()
}

// Middleware returns an HTTP middleware that enforces rate limits.
// Must be used after APIKeyAuth middleware (needs key in context).
func Middleware(limiter *Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := auth.GetAPIKey(r.Context())
			if key == nil {
				// No key in context = not authenticated, let handler decide
				next.ServeHTTP(w, r)
				return
			}

			if !limiter.Allow(key.ID, key.RateLimit) {
				writeTooManyRequests(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// writeTooManyRequests writes a JSON 429 response.
func writeTooManyRequests(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", "60")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"message": "rate limit exceeded",
			"type":    "rate_limit_error",
		},
	})
}

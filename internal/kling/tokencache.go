package kling

import (
	"sync"
	"time"
)

// refreshBuffer is how long before nominal expiry a cached token is treated
// as already expired. Regenerating early avoids signing a request with a
// token that expires mid-flight.
const refreshBuffer = 60 * time.Second

type cachedToken struct {
	token     string
	expiresAt time.Time
}

// TokenCache amortizes token signing across repeated calls with the same
// key. Entries are keyed by APIKey.ID, never by secret, so key replacement
// invalidates by id. Safe for concurrent use.
type TokenCache struct {
	mu      sync.Mutex
	entries map[string]cachedToken
	now     func() time.Time
}

// NewTokenCache creates an empty token cache.
func NewTokenCache() *TokenCache {
	return &TokenCache{
		entries: make(map[string]cachedToken),
		now:     time.Now,
	}
}

// GetOrCreate returns the cached token for the key, signing a fresh one when
// the entry is missing or within refreshBuffer of expiry.
func (c *TokenCache) GetOrCreate(key *APIKey) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if entry, ok := c.entries[key.ID]; ok && entry.expiresAt.Sub(now) > refreshBuffer {
		return entry.token
	}

	token := SignToken(key.AccessKey, key.SecretKey, now)
	c.entries[key.ID] = cachedToken{
		token:     token,
		expiresAt: now.Add(tokenLifetime),
	}
	return token
}

// Retain drops every cached entry whose key ID is not in live.
func (c *TokenCache) Retain(live map[string]bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id := range c.entries {
		if !live[id] {
			delete(c.entries, id)
		}
	}
}

// Package infra implements the unauthenticated infrastructure endpoints:
// root status, health and cache metrics.
package infra

import (
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/mandalnilabja/klingate/internal/transport/http/middleware/auth"
)

// Handlers holds the dependencies for infrastructure HTTP handlers.
type Handlers struct {
	Cache     *ristretto.Cache[string, *auth.CachedAPIKey]
	StartTime time.Time
}

// New creates a new instance of infrastructure handlers.
func New(cache *ristretto.Cache[string, *auth.CachedAPIKey], startTime time.Time) *Handlers {
	return &Handlers{
		Cache:     cache,
		StartTime: startTime,
	}
}

// Package admin implements the management API: Kling credential pool,
// client API keys, usage reporting and system information.
package admin

import (
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/mandalnilabja/klingate/internal/kling"
	"github.com/mandalnilabja/klingate/internal/storage"
	"github.com/mandalnilabja/klingate/internal/transport/http/middleware/auth"
)

// Handlers holds the dependencies for admin HTTP handlers.
type Handlers struct {
	Storage   storage.Storage
	Client    *kling.Client
	StartTime time.Time

	// StaticKeys are the env-configured credentials. They have no stored
	// row, so every pool sync must carry them alongside the stored set.
	StaticKeys []*kling.APIKey

	APIKeyCache *ristretto.Cache[string, *auth.CachedAPIKey]
}

// New creates a new instance of admin handlers.
func New(store storage.Storage, client *kling.Client, staticKeys []*kling.APIKey, startTime time.Time, apiKeyCache *ristretto.Cache[string, *auth.CachedAPIKey]) *Handlers {
	return &Handlers{
		Storage:     store,
		Client:      client,
		StartTime:   startTime,
		StaticKeys:  staticKeys,
		APIKeyCache: apiKeyCache,
	}
}

// InvalidateAPIKeyCache removes a cached API key entry by its prefix.
func (h *Handlers) InvalidateAPIKeyCache(keyPrefix string) {
	if h.APIKeyCache != nil && keyPrefix != "" {
		h.APIKeyCache.Del("apikey:" + keyPrefix)
	}
}

// syncKeyPool pushes the env-configured keys plus the stored credential
// set into the dispatching client, replacing the pool wholesale. Called
// after every credential mutation.
func (h *Handlers) syncKeyPool() error {
	if h.Client == nil {
		return nil
	}
	stored, err := h.Storage.ListKlingKeys()
	if err != nil {
		return err
	}
	keys := make([]*kling.APIKey, 0, len(h.StaticKeys)+len(stored))
	keys = append(keys, h.StaticKeys...)
	keys = append(keys, storage.PoolKeys(stored)...)
	h.Client.UpdateKeys(keys)
	return nil
}

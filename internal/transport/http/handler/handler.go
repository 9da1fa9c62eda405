// Package handler composes the HTTP handler groups of the gateway.
package handler

import (
	"log/slog"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/mandalnilabja/klingate/internal/generation"
	"github.com/mandalnilabja/klingate/internal/kling"
	"github.com/mandalnilabja/klingate/internal/storage"
	"github.com/mandalnilabja/klingate/internal/transport/http/handler/admin"
	"github.com/mandalnilabja/klingate/internal/transport/http/handler/generate"
	"github.com/mandalnilabja/klingate/internal/transport/http/handler/infra"
	"github.com/mandalnilabja/klingate/internal/transport/http/middleware/auth"
)

// Repo composes all domain-specific handlers.
type Repo struct {
	Generate *generate.Handlers
	Admin    *admin.Handlers
	Infra    *infra.Handlers
}

// NewRepo creates a new instance of the composed handler repository.
// staticKeys are the env-configured Kling credentials; the admin handlers
// keep them in every pool sync since they have no stored row.
func NewRepo(svc *generation.Service, store storage.Storage, staticKeys []*kling.APIKey, cache *ristretto.Cache[string, *auth.CachedAPIKey], logger *slog.Logger) *Repo {
	startTime := time.Now()
	return &Repo{
		Generate: generate.New(svc, store, logger),
		Admin:    admin.New(store, svc.Client(), staticKeys, startTime, cache),
		Infra:    infra.New(cache, startTime),
	}
}

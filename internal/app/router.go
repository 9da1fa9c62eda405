package app

import (
	"log/slog"
	"net/http"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mandalnilabja/klingate/internal/storage"
	"github.com/mandalnilabja/klingate/internal/transport/http/handler"
	"github.com/mandalnilabja/klingate/internal/transport/http/middleware"
	"github.com/mandalnilabja/klingate/internal/transport/http/middleware/auth"
	"github.com/mandalnilabja/klingate/internal/transport/http/middleware/ratelimit"
)

// RouterOptions configures the HTTP router behavior.
type RouterOptions struct {
	Logger      *slog.Logger
	Storage     storage.Storage
	APIKeyCache *ristretto.Cache[string, *auth.CachedAPIKey]
}

// NewRouter creates and configures the HTTP router with all application routes.
// Returns an http.Handler with middleware applied.
// opts must not be nil - all routes require authentication configuration.
func NewRouter(repo *handler.Repo, opts *RouterOptions) http.Handler {
	mux := http.NewServeMux()

	// Public routes (no auth)
	mux.HandleFunc("GET /api/health", repo.Infra.HealthCheck)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Generation routes require an API key with the generate scope and
	// pass through per-key rate limiting.
	apiKeyAuth := auth.APIKeyAuth(opts.Storage, opts.APIKeyCache)
	rateLimit := ratelimit.Middleware(ratelimit.New())
	generateScope := auth.RequireScope("generate")
	withKey := func(h http.HandlerFunc) http.Handler {
		return apiKeyAuth(rateLimit(generateScope(h)))
	}

	// Omni video
	mux.Handle("POST /v1/videos/omni-video", withKey(repo.Generate.CreateOmniVideo))
	mux.Handle("GET /v1/videos/omni-video", withKey(repo.Generate.ListOmniVideoTasks))
	mux.Handle("GET /v1/videos/omni-video/{id}", withKey(repo.Generate.GetOmniVideoTask))

	// Image generation
	mux.Handle("POST /v1/images/generations", withKey(repo.Generate.CreateImage))
	mux.Handle("GET /v1/images/generations/{id}", withKey(repo.Generate.GetImageTask))

	// Motion control
	mux.Handle("POST /v1/videos/motion-control", withKey(repo.Generate.CreateMotionControl))
	mux.Handle("GET /v1/videos/motion-control", withKey(repo.Generate.ListMotionControlTasks))
	mux.Handle("GET /v1/videos/motion-control/{id}", withKey(repo.Generate.GetMotionControlTask))

	// Lip sync (two-step: identify faces, then bind audio)
	mux.Handle("POST /v1/videos/identify-face", withKey(repo.Generate.IdentifyFaces))
	mux.Handle("GET /v1/videos/identify-face/{id}", withKey(repo.Generate.GetFaceIdentifyResult))
	mux.Handle("POST /v1/videos/advanced-lip-sync", withKey(repo.Generate.CreateLipSync))
	mux.Handle("GET /v1/videos/advanced-lip-sync/{id}", withKey(repo.Generate.GetLipSyncTask))

	// Element library
	mux.Handle("POST /v1/elements/image-character", withKey(repo.Generate.CreateImageElement))
	mux.Handle("POST /v1/elements/video-character", withKey(repo.Generate.CreateVideoElement))
	mux.Handle("GET /v1/elements", withKey(repo.Generate.ListElements))
	mux.Handle("GET /v1/elements/{id}", withKey(repo.Generate.GetElement))
	mux.Handle("DELETE /v1/elements/{id}", withKey(repo.Generate.DeleteElement))

	// Cost estimation (local, but still key-gated)
	mux.Handle("POST /v1/cost/estimate", withKey(repo.Generate.EstimateCost))

	// Admin API routes (require admin auth)
	registerAdminRoutes(mux, repo, opts)

	// Root returns JSON status
	mux.HandleFunc("GET /", repo.Infra.RootStatus)

	// Apply middleware chain (order: outer to inner)
	var h http.Handler = mux

	// Request logging (if logger provided)
	if opts.Logger != nil {
		h = middleware.RequestLogger(opts.Logger)(h)
	}

	// Request ID (always applied)
	h = middleware.RequestID(h)

	// CORS (always applied)
	h = middleware.CORS(h)

	return h
}

// registerAdminRoutes adds all admin API routes to the router.
func registerAdminRoutes(mux *http.ServeMux, repo *handler.Repo, opts *RouterOptions) {
	// Create admin auth middleware using stored password hash
	adminAuth := auth.AdminAuth(opts.Storage)

	// Helper to wrap handler with admin auth
	withAuth := func(h http.HandlerFunc) http.Handler {
		return adminAuth(h)
	}

	// Kling credential management
	mux.Handle("POST /api/admin/keys", withAuth(repo.Admin.CreateKlingKey))
	mux.Handle("GET /api/admin/keys", withAuth(repo.Admin.ListKlingKeys))
	mux.Handle("GET /api/admin/keys/stats", withAuth(repo.Admin.GetKeyPoolStats))
	mux.Handle("GET /api/admin/keys/{id}", withAuth(repo.Admin.GetKlingKey))
	mux.Handle("PUT /api/admin/keys/{id}", withAuth(repo.Admin.UpdateKlingKey))
	mux.Handle("DELETE /api/admin/keys/{id}", withAuth(repo.Admin.DeleteKlingKey))
	mux.Handle("POST /api/admin/keys/{id}/enable", withAuth(repo.Admin.SetKlingKeyEnabled(true)))
	mux.Handle("POST /api/admin/keys/{id}/disable", withAuth(repo.Admin.SetKlingKeyEnabled(false)))

	// API key management
	mux.Handle("POST /api/admin/apikeys", withAuth(repo.Admin.CreateAPIKey))
	mux.Handle("GET /api/admin/apikeys", withAuth(repo.Admin.ListAPIKeys))
	mux.Handle("GET /api/admin/apikeys/{id}", withAuth(repo.Admin.GetAPIKeyByID))
	mux.Handle("PUT /api/admin/apikeys/{id}", withAuth(repo.Admin.UpdateAPIKey))
	mux.Handle("DELETE /api/admin/apikeys/{id}", withAuth(repo.Admin.DeleteAPIKey))
	mux.Handle("POST /api/admin/apikeys/{id}/rotate", withAuth(repo.Admin.RotateAPIKey))

	// Password management
	mux.Handle("PUT /api/admin/password", withAuth(repo.Admin.ChangeAdminPassword))

	// Usage and logs
	mux.Handle("GET /api/admin/usage", withAuth(repo.Admin.GetUsageStats))
	mux.Handle("GET /api/admin/usage/daily", withAuth(repo.Admin.GetDailyUsage))
	mux.Handle("GET /api/admin/logs", withAuth(repo.Admin.GetRequestLogs))
	mux.Handle("DELETE /api/admin/logs", withAuth(repo.Admin.DeleteRequestLogs))

	// System info
	mux.Handle("GET /api/admin/health", withAuth(repo.Admin.AdminHealth))
	mux.Handle("GET /api/admin/info", withAuth(repo.Admin.AdminInfo))
	mux.Handle("GET /api/admin/cache", withAuth(repo.Infra.CacheStats))
}

package main

import (
	"errors"
	"log"
	"log/slog"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/joho/godotenv"

	"github.com/mandalnilabja/klingate/internal/app"
	"github.com/mandalnilabja/klingate/internal/config"
	"github.com/mandalnilabja/klingate/internal/generation"
	"github.com/mandalnilabja/klingate/internal/kling"
	"github.com/mandalnilabja/klingate/internal/storage"
	"github.com/mandalnilabja/klingate/internal/transport/http/handler"
	"github.com/mandalnilabja/klingate/internal/transport/http/middleware/auth"
)

func main() {
	// .env is optional; real environment variables take priority either way
	_ = godotenv.Load()

	logger := setupLogger()
	slog.SetDefault(logger)

	if err := config.EnsureDataDir(); err != nil {
		log.Fatalf("failed to create data directory: %v", err)
	}
	if err := config.EnsureConfigFile(); err != nil {
		logger.Warn("failed to write default config file", "error", err)
	}
	cfg := config.Load()

	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to open storage: %v", err)
	}
	defer store.Close()

	if err := ensureAdminPassword(store); err != nil {
		log.Fatalf("admin password setup failed: %v", err)
	}

	// The pool starts from env-configured keys plus whatever the admin API
	// has stored; later credential changes re-sync the pool at runtime.
	// The env set is handed to the admin handlers too so syncs keep it.
	envKeys := config.LoadKeys(logger)
	keys := append([]*kling.APIKey{}, envKeys...)
	if stored, serr := store.ListKlingKeys(); serr == nil {
		keys = append(keys, storage.PoolKeys(stored)...)
	} else {
		logger.Warn("failed to load stored Kling keys", "error", serr)
	}

	// KLING_MAX_RETRIES=0 means no retries; the client reserves the zero
	// value for its default.
	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = kling.NoRetries
	}

	client := kling.New(kling.Config{
		Keys:           keys,
		DefaultRegion:  kling.Region(cfg.DefaultRegion),
		MaxRetries:     maxRetries,
		RequestTimeout: cfg.RequestTimeout,
		ExhaustedCodes: cfg.ExhaustedCodes,
		BaseURLs: map[kling.Region]string{
			kling.RegionGlobal: cfg.GlobalBaseURL,
			kling.RegionCN:     cfg.CNBaseURL,
		},
		Logger: logger,
		// Keep the stored record in step with the pool so an exhausted key
		// stays disabled across restarts. Env-only keys have no stored row;
		// ErrNotFound is expected for them.
		OnExhausted: func(keyID string) {
			if err := store.SetKlingKeyEnabled(keyID, false); err != nil && !errors.Is(err, storage.ErrNotFound) {
				logger.Warn("failed to persist key exhaustion", "key_id", keyID, "error", err)
			}
		},
	})

	apiKeyCache, err := ristretto.NewCache(&ristretto.Config[string, *auth.CachedAPIKey]{
		NumCounters: 1e4,
		MaxCost:     1 << 20,
		BufferItems: 64,
		Metrics:     true,
	})
	if err != nil {
		log.Fatalf("failed to create API key cache: %v", err)
	}

	repo := handler.NewRepo(generation.NewService(client), store, envKeys, apiKeyCache, logger)
	router := app.NewRouter(repo, &app.RouterOptions{
		Logger:      logger,
		Storage:     store,
		APIKeyCache: apiKeyCache,
	})

	printStartupBanner(cfg)

	if err := app.NewServer(cfg, router).Start(); err != nil {
		log.Fatal(err)
	}
}

package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	accessgate "dealerportal/contexts/identity-access/access-gate"
	postgresadapter "dealerportal/contexts/identity-access/access-gate/adapters/postgres"
	"dealerportal/internal/platform/cache"
	"dealerportal/internal/platform/config"
	"dealerportal/internal/platform/db"
	"dealerportal/internal/platform/httpserver"
	"dealerportal/internal/platform/preferences"
	"dealerportal/pkg/identity"

	"golang.org/x/sync/errgroup"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server        *httpserver.Server
	postgres      *db.Postgres
	redis         *cache.Client
	shutdownGrace time.Duration
	logger        *slog.Logger
}

func BuildAPI(ctx context.Context) (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")

	var (
		pg     *db.Postgres
		module accessgate.Module
	)
	if strings.TrimSpace(cfg.PostgresDSN) != "" {
		pg, err = db.Connect(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		repo := postgresadapter.NewRepository(pg.DB, logger)
		module = accessgate.NewModule(accessgate.Dependencies{
			Records:     repo,
			Clock:       postgresadapter.SystemClock{},
			IDGenerator: postgresadapter.UUIDGenerator{},
			Logger:      logger,
		})
	} else {
		logger.Warn("POSTGRES_DSN not set, using in-memory record store",
			"event", "bootstrap_memory_store",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		module = accessgate.NewInMemoryModule(logger)
	}

	verifier, err := buildVerifier(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	var (
		redis *cache.Client
		prefs preferences.Store
	)
	if cfg.EnablePreferences {
		if strings.TrimSpace(cfg.RedisAddr) != "" {
			redis, err = cache.New(cfg.RedisAddr, cfg.RedisPassword)
			if err != nil {
				return nil, err
			}
			prefs = preferences.NewRedisStore(redis.Client)
		} else {
			prefs = preferences.NewMemoryStore()
		}
	}

	server := httpserver.New(module, verifier, prefs, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:        server,
		postgres:      pg,
		redis:         redis,
		shutdownGrace: cfg.ShutdownGrace,
		logger:        logger,
	}, nil
}

func buildVerifier(ctx context.Context, cfg config.Config, logger *slog.Logger) (identity.Verifier, error) {
	switch cfg.IdentityMode {
	case "oidc":
		if strings.TrimSpace(cfg.IdentityIssuer) == "" {
			return nil, fmt.Errorf("IDENTITY_ISSUER is required when IDENTITY_MODE=oidc")
		}
		return identity.NewOIDCVerifier(ctx, cfg.IdentityIssuer, cfg.IdentityClientID)
	case "dev":
		logger.Warn("using dev identity provider",
			"event", "bootstrap_dev_identity",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		return identity.NewDevProvider(cfg.SessionSecret), nil
	default:
		return nil, fmt.Errorf("unknown IDENTITY_MODE %q", cfg.IdentityMode)
	}
}

func (a *APIApp) Run(ctx context.Context) error {
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(a.server.Start)
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownGrace)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})
	return group.Wait()
}

func (a *APIApp) Close() error {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}

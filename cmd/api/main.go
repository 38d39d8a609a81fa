// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Aegis dashboard API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from .env and environment variables.
//  3. Connect to PostgreSQL and run migrations, or seed the in-memory demo store.
//  4. Connect to Redis when configured.
//  5. Build the token service, session backend and route guard.
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/aegis/internal/access"
	"github.com/taibuivan/aegis/internal/api"
	"github.com/taibuivan/aegis/internal/dashboard"
	"github.com/taibuivan/aegis/internal/guard"
	"github.com/taibuivan/aegis/internal/platform/config"
	"github.com/taibuivan/aegis/internal/platform/constants"
	"github.com/taibuivan/aegis/internal/platform/migration"
	pgstore "github.com/taibuivan/aegis/internal/platform/postgres"
	redisstore "github.com/taibuivan/aegis/internal/platform/redis"
	"github.com/taibuivan/aegis/internal/platform/sec"
	"github.com/taibuivan/aegis/internal/session"
	"github.com/taibuivan/aegis/internal/users/account"
	"github.com/taibuivan/aegis/internal/users/admin"
	"github.com/taibuivan/aegis/internal/users/auth"
)

// demoPassword is shared by the seeded accounts of the in-memory store.
const demoPassword = "aegis2026"

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load(".env")
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("session_backend", cfg.SessionBackend),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	health := api.HealthDependencies{}

	// ── 3. User Store ─────────────────────────────────────────────────────
	var users account.UserRepository
	if cfg.DatabaseURL != "" {
		pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
		must(log, err, "connect to postgres")
		defer func() {
			log.Info("closing_postgres_pool")
			pool.Close()
		}()

		must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

		users = account.NewUserRepository(pool)
		health.CheckDatabase = pgstore.Checker(pool)
	} else {
		hash, err := sec.HashPassword(demoPassword)
		must(log, err, "hash demo password")

		users = account.NewMemoryUserRepository(account.DemoUsers(hash)...)
		log.Warn("demo_user_store_enabled", slog.String("reason", "DATABASE_URL is empty"))
	}

	// ── 4. Redis ──────────────────────────────────────────────────────────
	var rdb *goredis.Client
	refreshTokens := auth.RefreshTokenRepository(auth.NewMemoryRefreshTokenRepository())
	if cfg.RedisURL != "" {
		rdb, err = redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing_redis_client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis_close_error", slog.Any("error", cerr))
			}
		}()

		refreshTokens = auth.NewRedisRefreshTokenRepository(rdb)
		health.CheckCache = redisstore.Checker(rdb)
	}

	// ── 5. Tokens, Sessions and the Guard ─────────────────────────────────
	tokens, err := newTokenService(cfg, log)
	must(log, err, "initialize jwt service")

	backend, err := newSessionBackend(cfg, rdb)
	must(log, err, "initialize session backend")

	routes := access.DefaultRoutes().WithFallback(cfg.UnlistedRouteLevel)
	if routes.Fallback() == access.LevelPublic {
		log.Warn("unlisted_routes_public", slog.String("hint", "set UNLISTED_ROUTE_LEVEL to fail closed"))
	}
	routeGuard := guard.New(routes, cfg.LoginPath)

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(health, log)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(auth.NewService(users, refreshTokens, tokens), !cfg.IsDevelopment()),
		Admin:     admin.NewHandler(admin.NewService(users)),
		Plans:     dashboard.NewPlanHandler(dashboard.NewPlanService(dashboard.NewPlanStore(dashboard.SeedPlans()...))),
		Feed:      dashboard.NewFeedHandler(dashboard.NewFeed(dashboard.SeedPosts()...)),
		Access:    dashboard.NewAccessHandler(routes),
		Pages:     dashboard.NewPageHandler(routeGuard),
	}

	sessions := api.Sessions{
		Backend: backend,
		Options: []session.Option{session.WithVerifier(tokens)},
	}

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, sessions, handlers)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting_down_server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// newTokenService loads the RS256 key pair, or generates a throwaway one when
// no paths are configured. Tokens signed by a throwaway key die with the process.
func newTokenService(cfg *config.Config, log *slog.Logger) (*sec.TokenService, error) {
	if cfg.JWTPrivKeyPath != "" {
		return sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	}
	if cfg.IsProduction() {
		return nil, errors.New("JWT key paths are required in production")
	}

	log.Warn("ephemeral_jwt_key_enabled")
	return sec.NewEphemeralTokenService(constants.AuthIssuer)
}

func newSessionBackend(cfg *config.Config, rdb *goredis.Client) (session.Backend, error) {
	secure := !cfg.IsDevelopment()

	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		if rdb == nil {
			return nil, errors.New("redis session backend requires REDIS_URL")
		}
		return session.NewRedisBackend(rdb, cfg.SessionTTL, secure), nil
	case config.SessionBackendMemory:
		return session.NewMemoryBackend(), nil
	default:
		hashKey, blockKey, err := cfg.SessionKeys()
		if err != nil {
			return nil, err
		}
		return session.NewCookieBackend(hashKey, blockKey, cfg.SessionTTL, secure), nil
	}
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}

// Copyright (c) 2026 Brandgate. All rights reserved.
// Author: dev@brandgate.io

// Command api is the entry point for the Brandgate HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Load and validate the brand registry.
//  4. Connect to PostgreSQL (pgxpool).
//  5. Connect to Redis.
//  6. Run database migrations (idempotent).
//  7. Initialize the session controller (restore probe).
//  8. Wire HTTP handlers.
//  9. Start HTTP server with graceful shutdown.
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

	"github.com/superdwayne/brandgate/internal/api"
	"github.com/superdwayne/brandgate/internal/auth"
	"github.com/superdwayne/brandgate/internal/brand"
	"github.com/superdwayne/brandgate/internal/platform/config"
	"github.com/superdwayne/brandgate/internal/platform/constants"
	"github.com/superdwayne/brandgate/internal/platform/migration"
	pgstore "github.com/superdwayne/brandgate/internal/platform/postgres"
	redisstore "github.com/superdwayne/brandgate/internal/platform/redis"
	"github.com/superdwayne/brandgate/internal/settings"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[Brandgate] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Brand Registry ─────────────────────────────────────────────────
	// A defective registry (duplicate ids, cross-brand domains, missing
	// endpoints) must abort boot before anything touches the network.
	registry, err := brand.LoadFromFile(cfg.BrandRegistryPath)
	must(log, err, "load brand registry")

	log.Info("brand_registry_loaded",
		slog.Int("brands", len(registry.List())),
		slog.String("default_brand", cfg.DefaultBrand),
	)

	// ── 4. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 5. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 6. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 7. Session Controller ─────────────────────────────────────────────
	sessionStore := auth.NewRedisSessionStore(rdb)
	controller, err := auth.NewSessionController(registry, cfg.DefaultBrand, sessionStore, log)
	must(log, err, "construct session controller")
	defer controller.Close()

	must(log, controller.Init(startupCtx), "initialize session controller")

	// ── 8. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
		CheckController: func() error {
			if controller.Current().Loading {
				return errors.New("session controller restore probe incomplete")
			}
			return nil
		},
	}, log)

	// ── 9. Domain Wiring ──────────────────────────────────────────────────
	authHandler := auth.NewHandler(controller)
	brandHandler := brand.NewHandler(registry)

	settingsRepository := settings.NewPostgresRepository(pool)
	settingsService := settings.NewService(settingsRepository, registry, log)
	settingsHandler := settings.NewHandler(settingsService)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Brand:     brandHandler,
		Settings:  settingsHandler,
	}

	server := api.NewServer(cfg, log, handlers)

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
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
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}

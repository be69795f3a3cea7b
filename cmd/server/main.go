package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/accessdesk/user-portal/internal/api"
	"github.com/accessdesk/user-portal/internal/core/service"
	"github.com/accessdesk/user-portal/internal/infrastructure/config"
	"github.com/accessdesk/user-portal/internal/infrastructure/db/postgres"
	redisinfra "github.com/accessdesk/user-portal/internal/infrastructure/db/redis"
	"github.com/accessdesk/user-portal/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Backing stores ---
	db, err := postgres.Open(ctx, postgres.Config{
		DSN:          cfg.Postgres.DSN,
		MaxOpenConns: cfg.Postgres.MaxOpenConns,
		MaxIdleConns: cfg.Postgres.MaxIdleConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection failed")
	}
	defer db.Close()

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("schema migration failed")
	}

	// Redis only backs the login throttle; start degraded without it.
	rdb, err := redisinfra.Connect(ctx, redisinfra.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, login throttling disabled")
		rdb = nil
	} else {
		defer rdb.Close()
	}

	// --- Startup sequence: warm the cache, then bootstrap, then serve.
	// Traffic is not admitted until both complete.
	cache := service.NewCredentialCache(
		service.NewPasswordCodec(),
		cfg.Seed.AdminPassword, cfg.Seed.UserPassword, cfg.Seed.TestPassword,
		log,
	)
	if err := cache.Initialize(); err != nil {
		log.Fatal().Err(err).Msg("credential cache warm-up failed")
	}

	directory := postgres.NewDirectory(db)
	bootstrapper := service.NewBootstrapper(directory, cache, log)
	if err := bootstrapper.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("bootstrap failed")
	}

	// --- HTTP server ---
	e := api.NewRouter(api.RouterDeps{
		DB:        db,
		Redis:     rdb,
		Cache:     cache,
		JWTSecret: cfg.JWT.Secret,
		TokenTTL:  cfg.JWT.TokenTTL,
		Log:       log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting HTTP server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

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

	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"

	"github.com/letsssgooo/quizServer/internal/auth"
	"github.com/letsssgooo/quizServer/internal/bootstrap"
	"github.com/letsssgooo/quizServer/internal/config"
	"github.com/letsssgooo/quizServer/internal/httpapi"
	"github.com/letsssgooo/quizServer/internal/metrics"
	"github.com/letsssgooo/quizServer/internal/quiz"
	"github.com/letsssgooo/quizServer/internal/scheduler"
	"github.com/letsssgooo/quizServer/internal/seed"
	"github.com/letsssgooo/quizServer/internal/submitguard"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("quiz server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".env", os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	log, err := bootstrap.SetupLogger(os.Stdout, cfg.LogLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(log)
	slog.Info("starting quiz server...", slog.String("storage", cfg.StorageDriver))

	if cfg.JWTSecret == config.DefaultJWTSecret {
		slog.Warn("JWT_SECRET is not set, using the default secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage
	store, err := bootstrap.OpenStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			slog.Error("failed to close storage", slog.Any("error", err))
		}
	}()

	if cfg.SeedOnStart {
		catalog, err := seed.Default()
		if err != nil {
			return err
		}
		if _, err := seed.Load(ctx, store, catalog, cfg.BcryptCost); err != nil {
			return err
		}
	}

	// Submit guard
	var (
		guard   submitguard.Guard
		sweeper scheduler.Sweeper
	)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			return err
		}
		guard = submitguard.NewRedisGuard(rdb, cfg.SubmitGuardTTL)
		slog.Info("submit guard uses redis", slog.String("addr", cfg.RedisAddr))
	} else {
		memGuard := submitguard.NewMemoryGuard(cfg.SubmitGuardTTL)
		guard, sweeper = memGuard, memGuard
	}

	reg := metrics.NewProcessRegistry()
	m := metrics.NewMetrics(reg)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	authService := auth.NewService(store, tokens, cfg.BcryptCost)
	engine := quiz.NewEngine(store, guard)

	jobs := scheduler.New(engine, sweeper, m)
	if err := jobs.Start(); err != nil {
		return err
	}
	defer jobs.Stop()

	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: httpapi.NewRouter(httpapi.Deps{
			Auth:       authService,
			Engine:     engine,
			Metrics:    m,
			CORSOrigin: cfg.CORSOrigin,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", slog.String("addr", cfg.HTTPAddr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

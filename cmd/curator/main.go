package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/curatorhq/curator/pkg/api"
	"github.com/curatorhq/curator/pkg/auth"
	"github.com/curatorhq/curator/pkg/config"
	"github.com/curatorhq/curator/pkg/content"
	"github.com/curatorhq/curator/pkg/observability"
	"github.com/curatorhq/curator/pkg/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := observability.NewLogger(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	metrics := observability.NewMetrics(nil)

	db, err := storage.Open(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	migrations := append(auth.Migrations(cfg.Storage.Driver), content.Migrations(cfg.Storage.Driver)...)
	if err := storage.Migrate(ctx, db, migrations, log); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	hasher := auth.NewHasher(cfg.Auth.HashCost, log)
	userStore := auth.NewUserStore(db)
	sessionStore := auth.NewSessionStore(db)

	cache, err := buildCache(cfg, log)
	if err != nil {
		return err
	}

	opts := []auth.ServiceOption{
		auth.WithSessionTTL(cfg.Auth.SessionTTL),
		auth.WithMetrics(metrics),
	}
	if cache != nil {
		opts = append(opts, auth.WithCache(cache))
	}
	authService, err := auth.NewService(userStore, sessionStore, hasher, log, opts...)
	if err != nil {
		return fmt.Errorf("failed to build auth service: %w", err)
	}

	if _, err := auth.EnsureAdmin(ctx, userStore, hasher, log); err != nil {
		return fmt.Errorf("failed to bootstrap admin account: %w", err)
	}

	articleStore := content.NewStore(db)
	articleService := content.NewService(articleStore, log, metrics)

	server := api.NewServer(authService, articleService, metrics, log)

	httpServer := &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      server,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	sweeper, err := auth.NewSweeper(authService, cfg.Auth.SweepSchedule, log)
	if err != nil {
		return fmt.Errorf("failed to configure session sweeper: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.WithField("addr", httpServer.Addr).Info("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		sweeper.Start()
		<-gctx.Done()
		sweeper.Stop()
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down HTTP server")
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("shutdown complete")
	return nil
}

func buildCache(cfg *config.Config, log *logrus.Logger) (auth.PrincipalCache, error) {
	switch cfg.Cache.Backend {
	case "none":
		return nil, nil
	case "lru":
		return auth.NewLRUCache(cfg.Cache.LRUSize, cfg.Cache.TTL), nil
	case "redis":
		redisOpts, err := redis.ParseURL(cfg.Cache.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis URL: %w", err)
		}
		return auth.NewRedisCache(redis.NewClient(redisOpts), cfg.Cache.TTL, log), nil
	default:
		return nil, fmt.Errorf("unsupported cache backend: %q", cfg.Cache.Backend)
	}
}

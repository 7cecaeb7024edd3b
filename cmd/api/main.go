package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/user/page-analyzer/internal/adapter/httpfetch"
	"github.com/user/page-analyzer/internal/adapter/memory"
	"github.com/user/page-analyzer/internal/adapter/postgres"
	redisadapter "github.com/user/page-analyzer/internal/adapter/redis"
	"github.com/user/page-analyzer/internal/adapter/sqlite"
	"github.com/user/page-analyzer/internal/delivery/http/handler"
	"github.com/user/page-analyzer/internal/delivery/http/router"
	"github.com/user/page-analyzer/internal/delivery/http/view"
	"github.com/user/page-analyzer/internal/repository"
	"github.com/user/page-analyzer/internal/usecase"
	"github.com/user/page-analyzer/pkg/config"
	"github.com/user/page-analyzer/pkg/logger"
	"go.uber.org/zap"
)

// storage bundles the repositories of the selected backend.
type storage struct {
	urls   repository.URLRepository
	checks repository.CheckRepository
	ping   handler.HealthCheck
	close  func()
}

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	// --- Logger ---
	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("could not initialize logger: %v", err)
	}
	defer zlog.Sync()
	zap.ReplaceGlobals(zlog)

	ctx := context.Background()

	// --- Storage ---
	store, err := openStorage(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to open storage", zap.Error(err))
	}
	defer store.close()

	// --- Flash messages ---
	flashes, closeFlashes, err := openFlashStore(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to open flash store", zap.Error(err))
	}
	defer closeFlashes()

	// --- Fetcher ---
	proxies, err := cfg.ProxyURLs()
	if err != nil {
		zlog.Fatal("invalid proxy configuration", zap.Error(err))
	}
	fetcher := httpfetch.New(httpfetch.Options{
		Timeout: cfg.FetchTimeout(),
		Rotator: httpfetch.NewRotator(proxies, cfg.UserAgents()),
		Logger:  zlog.Named("fetcher"),
	})

	// --- Use Cases ---
	urlManager := usecase.NewURLManager(store.urls, store.checks, zlog.Named("urls"))
	checker := usecase.NewChecker(store.urls, store.checks, fetcher, zlog.Named("checks"))

	// --- HTTP Server ---
	views, err := view.NewRenderer()
	if err != nil {
		zlog.Fatal("failed to parse templates", zap.Error(err))
	}
	apiHandler := handler.NewHandler(urlManager, checker, flashes, views,
		map[string]handler.HealthCheck{
			"database": store.ping,
			"flash":    flashes.Ping,
		},
		zlog.Named("http"),
	)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router.New(apiHandler, zlog, cfg.SessionCookie, cfg.RequestTimeout()),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout() + 5*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("could not start server", zap.Error(err))
		}
	}()
	zlog.Info("server started", zap.String("port", cfg.ServerPort))

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error("server forced to shutdown", zap.Error(err))
	}

	zlog.Info("server exiting")
}

func openStorage(ctx context.Context, cfg *config.Config, zlog *zap.Logger) (*storage, error) {
	driver, dsn := cfg.DatabaseDSN()
	switch driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, dsn)
		if err != nil {
			return nil, err
		}
		zlog.Info("PostgreSQL connection pool established")
		return &storage{
			urls:   postgres.NewURLRepo(pool),
			checks: postgres.NewCheckRepo(pool),
			ping:   pool.Ping,
			close:  pool.Close,
		}, nil
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, dsn)
		if err != nil {
			return nil, err
		}
		zlog.Info("SQLite database opened", zap.String("path", dsn))
		return &storage{
			urls:   sqlite.NewURLRepo(db),
			checks: sqlite.NewCheckRepo(db),
			ping:   db.PingContext,
			close:  func() { db.Close() },
		}, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}
}

// openFlashStore uses Redis when REDIS_ADDR is set and falls back to an
// in-process store otherwise.
func openFlashStore(ctx context.Context, cfg *config.Config, zlog *zap.Logger) (repository.FlashStore, func(), error) {
	if cfg.RedisAddr == "" {
		zlog.Info("REDIS_ADDR not set, keeping flash messages in memory")
		return memory.NewFlashRepo(cfg.FlashTTL()), func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, nil, fmt.Errorf("unable to connect to redis: %w", err)
	}
	zlog.Info("Redis connection established", zap.String("addr", cfg.RedisAddr))
	return redisadapter.NewFlashRepo(rdb, cfg.FlashTTL()), func() { rdb.Close() }, nil
}

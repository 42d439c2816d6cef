// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/ngo-events/internal/analytics"
	"github.com/Shivanand-hulikatti/ngo-events/internal/cache"
	"github.com/Shivanand-hulikatti/ngo-events/internal/config"
	"github.com/Shivanand-hulikatti/ngo-events/internal/database"
	"github.com/Shivanand-hulikatti/ngo-events/internal/discovery"
	"github.com/Shivanand-hulikatti/ngo-events/internal/handler"
	"github.com/Shivanand-hulikatti/ngo-events/internal/logger"
	"github.com/Shivanand-hulikatti/ngo-events/internal/repository"
	"github.com/Shivanand-hulikatti/ngo-events/internal/repository/memory"
	"github.com/Shivanand-hulikatti/ngo-events/internal/repository/mongo"
	"github.com/Shivanand-hulikatti/ngo-events/internal/repository/postgres"
	"github.com/Shivanand-hulikatti/ngo-events/internal/repository/sqlite"
	"github.com/Shivanand-hulikatti/ngo-events/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.New(cfg.Environment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	// ── 1. Open the event store ──────────────────────────────────────────
	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open event store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer closeStore()
	log.Info("Event store ready", zap.String("driver", cfg.StoreDriver))

	// ── 2. Wire up layers ────────────────────────────────────────────────
	var statsCache analytics.Cache
	if cfg.RedisAddr != "" {
		rc := cache.NewRedisCache(cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB))
		if err := rc.Ping(ctx); err != nil {
			log.Warn("Redis unavailable, statistics will not be cached", zap.Error(err))
		} else {
			statsCache = rc
		}
		defer rc.Close()
	}

	eventSvc := service.NewEventService(store, log, service.WithRetry(cfg.MaxRetries, cfg.RetryBackoff))
	disc := discovery.NewService(store)
	stats := analytics.NewEngine(store, statsCache, cfg.StatsCacheTTL, log)
	eventHandler := handler.NewEventHandler(eventSvc, disc, stats, log)

	// ── 3. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      handler.NewRouter(eventHandler, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
		return
	}
	log.Info("Server stopped")
}

// openStore builds the configured backend and a func that releases it.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.EventStore, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := database.NewPool(ctx, cfg.Postgres, log)
		if err != nil {
			return nil, nil, err
		}
		store := postgres.NewEventStore(pool, log)
		if err := store.InitSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil

	case config.DriverSQLite:
		store, err := sqlite.Open(cfg.SQLitePath, log)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil

	case config.DriverMongo:
		client, err := database.NewMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		store := mongo.NewEventStore(client.Database(cfg.Mongo.Database), log)
		if err := store.InitIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, err
		}
		return store, func() { _ = client.Disconnect(context.Background()) }, nil

	default:
		return memory.New(), func() {}, nil
	}
}

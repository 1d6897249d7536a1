package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	customerapp "github.com/crmlite/backend/internal/application/customer"
	"github.com/crmlite/backend/internal/application/importer"
	"github.com/crmlite/backend/internal/infrastructure/cache"
	"github.com/crmlite/backend/internal/infrastructure/config"
	"github.com/crmlite/backend/internal/infrastructure/logger"
	"github.com/crmlite/backend/internal/infrastructure/persistence"
	"github.com/crmlite/backend/internal/interfaces/http/handler"
	"github.com/crmlite/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting crmlite backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	resultCache := newResultCache(cfg, log)

	// Repositories
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	analyticsRepo := persistence.NewGormAnalyticsRepository(db.DB)

	// Application services
	customerService := customerapp.NewService(customerRepo, customerRepo)
	searchService := customerapp.NewSearchService(analyticsRepo, resultCache, log)
	analyticsService := customerapp.NewAnalyticsService(analyticsRepo, resultCache, log)
	importService := importer.NewCustomerImportService(customerRepo, cfg.Import.MaxRowErrors, log)
	exportService := importer.NewCustomerExportService(customerRepo)

	// HTTP layer
	r := router.New(log).
		Register(handler.NewSystemHandler(db)).
		Register(handler.NewCustomerHandler(customerService, searchService)).
		Register(handler.NewAnalyticsHandler(analyticsService)).
		Register(handler.NewImportHandler(importService, exportService, cfg.Import.MaxFileSizeBytes))

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r.Setup(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}

// newResultCache selects the cache backend from configuration. A Redis
// connection failure falls back to the in-process cache so the service
// still comes up.
func newResultCache(cfg *config.Config, log *zap.Logger) cache.ResultCache {
	if cfg.Cache.Backend == "redis" {
		rc, err := cache.NewRedisResultCache(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn("Redis unavailable, using in-memory result cache", zap.Error(err))
			return cache.NewMemoryResultCache()
		}
		log.Info("Using Redis result cache")
		return rc
	}
	return cache.NewMemoryResultCache()
}

// @title           Skofie API
// @version         1.0.0
// @description     Course catalog and mock purchase API for the Skofie learning platform

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8001
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"skofie/internal/cache"
	"skofie/internal/config"
	"skofie/internal/database"
	"skofie/internal/events"
	"skofie/internal/middleware"
	"skofie/internal/repositories"
	"skofie/internal/response"
	"skofie/internal/router"
	"skofie/internal/services"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(&cfg.Logging)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	logger.Info("Starting Skofie application")
	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
	)

	dbManager, err := database.Init(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbManager.Close()
	logger.Info("Database initialized successfully")

	cacheLayer, err := cache.New(&cache.Config{
		Provider:  cfg.Cache.Provider,
		TTL:       cfg.Cache.DefaultTTL,
		RedisURL:  cfg.Cache.RedisURL,
		KeyPrefix: cfg.Cache.KeyPrefix,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create cache", zap.Error(err))
	}
	defer cacheLayer.Close()

	bus := events.NewInMemoryBus(4, 256, logger)
	events.RegisterLoggingSubscribers(bus, logger)
	defer bus.Stop()

	repos := repositories.NewCollection(dbManager, logger)
	serviceCollection := services.NewServiceCollection(repos, cacheLayer, bus, cfg, logger)

	authMiddleware := middleware.NewAuthMiddleware(serviceCollection.Auth, logger)

	responseConfig := response.DefaultConfig()
	responseConfig.MaskInternalErrors = cfg.Server.Environment == "production"
	responseConfig.PrettyJSON = cfg.Server.Environment == "development"
	responseBuilder := response.NewBuilder(responseConfig, logger)

	handler := router.SetupRouter(router.Dependencies{
		Services:       serviceCollection,
		AuthMiddleware: authMiddleware,
		Builder:        responseBuilder,
		DB:             dbManager,
		Cache:          cacheLayer,
		Events:         bus,
		CORSOrigin:     cfg.Server.CORSOrigin,
		Logger:         logger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("Shutdown signal received", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
	logger.Info("Server stopped")
}

// initLogger initializes the structured logger from the logging config
func initLogger(cfg *config.LoggingConfig) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.Format == "json" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	zapConfig.Level = level

	return zapConfig.Build()
}

package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"courier-stats/internal/core/config"
	"courier-stats/internal/core/httpclient"
	"courier-stats/internal/core/logger"
	"courier-stats/internal/core/server"
	statsadapter "courier-stats/internal/features/stats/adapters"
	statshandler "courier-stats/internal/features/stats/handler"
	statsservice "courier-stats/internal/features/stats/service"

	"go.uber.org/zap"
)

// @title Courier Stats API
// @version 1.0
// @description This API aggregates customer delivery success and cancellation counts from Bangladeshi couriers.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
		zap.Duration("http_timeout", cfg.HTTPTimeout()),
		zap.Bool("proxy_enabled", cfg.Proxy.Enabled),
	)

	// Initialize Stats Providers
	factories := statsadapter.NewFactories(cfg.Couriers, httpclient.Options{
		Timeout: cfg.HTTPTimeout(),
		Proxy:   cfg.Proxy.Settings(),
	})

	// Initialize Stats Service & Handler
	statsSvc := statsservice.NewStatsService(cfg.Credentials, factories)
	statsHdl := statshandler.NewStatsHandler(statsSvc)

	for key, value := range cfg.Credentials.Map() {
		if value == "" {
			l.Warn("Courier credential not configured", zap.String("key", key))
		}
	}

	srv := server.New(cfg)

	// Register Routes
	srv.App.Get("/stats/:phone", statsHdl.GetAllStats)
	srv.App.Get("/stats/:phone/:provider", statsHdl.GetProviderStats)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		if err := srv.Shutdown(); err != nil {
			l.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}

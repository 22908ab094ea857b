// Package main provides the entry point for the HedgeBets API server.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/J-cmar/hedgebets/internal/config"
	"github.com/J-cmar/hedgebets/internal/health"
	"github.com/J-cmar/hedgebets/internal/logger"
	"github.com/J-cmar/hedgebets/internal/metrics"
	"github.com/J-cmar/hedgebets/internal/ml"
	"github.com/J-cmar/hedgebets/internal/scheduler"
	"github.com/J-cmar/hedgebets/internal/scoring"
	"github.com/J-cmar/hedgebets/internal/server"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	// Load configuration
	cfg, err := config.LoadWithDefaults(os.Getenv("HEDGEBETS_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Set up logging
	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"version":     version,
	}).Info("HedgeBets scoring service starting")

	metrics.InitRegistry()

	// Initialize model service client
	modelClient := ml.NewHTTPClient(&cfg.ModelService, appLog)
	cachedClient := ml.NewCachedClient(
		modelClient,
		time.Duration(cfg.ModelService.CacheTTLSeconds)*time.Second,
		cfg.ModelService.CacheMaxSize,
		appLog,
	)
	defer func() {
		if err := cachedClient.Close(); err != nil {
			appLog.WithError(err).Error("Failed to close model client")
		}
	}()

	appLog.WithField("model_service_url", cfg.ModelServiceURL()).Info("Model client initialized")

	scorer := scoring.New(cfg.Scoring)

	// Set up signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start health check server
	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     version,
		Commit:      commit,
		Port:        healthPort(cfg),
		Logger:      appLog,
		Model:       cachedClient,
	})
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}

	// Start background jobs
	sched := scheduler.New(appLog)
	if err := sched.ScheduleModelHealthProbe(cfg.ModelService.HealthProbeSchedule, cachedClient, healthServer); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule health probe")
	}
	if err := sched.ScheduleCacheStatsExport(cfg.ModelService.CacheStatsSchedule, cachedClient); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule cache stats export")
	}
	if err := sched.Start(); err != nil {
		appLog.WithError(err).Fatal("Failed to start scheduler")
	}

	// Start API server
	apiServer := server.New(cfg, scorer, cachedClient, appLog)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- apiServer.Start()
	}()

	healthServer.SetReady(true)
	appLog.WithField("addr", cfg.ListenAddr()).Info("HedgeBets scoring service running")

	select {
	case sig := <-sigChan:
		appLog.WithField("signal", sig).Info("Shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			appLog.WithError(err).Error("API server failed")
		}
	}

	// Graceful shutdown
	appLog.Info("Initiating graceful shutdown...")
	healthServer.SetReady(false)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		appLog.WithError(err).Error("Error during API server shutdown")
	}
	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Error during scheduler shutdown")
	}
	cancel()

	appLog.Info("HedgeBets scoring service shut down successfully")
}

func healthPort(cfg *config.Config) string {
	if cfg.Server.HealthPort == 0 {
		return ""
	}
	return fmt.Sprintf("%d", cfg.Server.HealthPort)
}

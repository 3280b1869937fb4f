package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anushahashmi071/CareGroup-sub003/internal/notifications"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/config"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/database"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/logger"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/monitoring"
)

// The notifier runs the batch notification generator on an interval. It is
// safe to run alongside other notifier instances: each pass takes an
// advisory lock, and losing the race just skips the pass.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	// Initialize database connection
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	metrics := monitoring.NewMetricsCollector("notifier")
	db.SetMetrics(metrics)
	repository := notifications.NewRepository(db, logger)
	generator := notifications.NewGenerator(repository, db, &cfg.Notifier, metrics, logger)

	interval := time.Duration(cfg.Notifier.IntervalMinutes) * time.Minute
	logger.Infof("Starting notifier with a %s interval", interval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Run one pass immediately so a fresh deployment does not wait a full
	// interval
	if err := generator.Run(ctx); err != nil {
		logger.Errorf("Notifier run failed: %v", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := generator.Run(ctx); err != nil {
				logger.Errorf("Notifier run failed: %v", err)
			}
		case <-quit:
			logger.Info("Shutting down notifier...")
			return
		}
	}
}

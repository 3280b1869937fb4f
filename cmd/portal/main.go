package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anushahashmi071/CareGroup-sub003/internal/portal"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/config"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	// Initialize the doctor portal
	service, err := portal.New(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize doctor portal: %v", err)
	}

	// Start service in a goroutine
	go func() {
		if err := service.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start doctor portal: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down doctor portal...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := service.Stop(ctx); err != nil {
		logger.Errorf("Error during shutdown: %v", err)
	}
	logger.Info("Doctor portal stopped")
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/travel-ledger/internal/api"
	"github.com/travel-ledger/internal/components"
	"github.com/travel-ledger/internal/config"
	"github.com/travel-ledger/internal/logger"
)

func main() {
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	cfg, err := config.LoadConfig("ledger_api")
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	ledger, err := components.NewLedger(appCtx, log, cfg)
	if err != nil {
		log.Error("Failed to initialize ledger", "storage_driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}

	server := api.NewServer(log, cfg, &api.Services{
		Entries:  ledger.Entries,
		Currency: ledger.Currency,
		Reports:  ledger.Reports,
		Snapshot: ledger.Snapshot,
		Settings: ledger.Settings,
	})
	log.Info("Ledger API ready", "storage_driver", cfg.Storage.Driver, "rate_source", cfg.FX.SourceURL)

	errChan := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	// Stop accepting requests before the stores go away
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	if closeErr := ledger.Close(shutdownCtx); closeErr != nil {
		log.Error("Error closing ledger storage", "error", closeErr)
		if err == nil {
			err = closeErr
		}
	}

	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}

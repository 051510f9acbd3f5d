package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ReputationMonitor/internal/app"
	"ReputationMonitor/internal/config"
	"ReputationMonitor/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application := app.New(cfg, logger)

	var err error
	if cfg.Scheduler.Enabled {
		err = application.RunScheduled(ctx)
	} else {
		err = application.Run(ctx)
	}

	if closeErr := application.Close(); closeErr != nil {
		logger.Warn("shutdown cleanup", "error", closeErr)
	}

	if err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}

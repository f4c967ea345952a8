package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"dhaba/internal/amqp"
	"dhaba/internal/config"
	"dhaba/internal/export"
	"dhaba/internal/report"
	"dhaba/internal/services"
	"dhaba/internal/storage"
	"dhaba/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting dhaba-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// Google Sheets export is optional
	var exporter worker.SummaryExporter
	if cfg.SheetsSpreadsheetID != "" {
		sheets, err := export.NewSheetsExporter(context.Background(), cfg.SheetsSpreadsheetID, cfg.SheetsSheetName)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets exporter", "error", err)
			os.Exit(1)
		}
		exporter = sheets
		logger.Info("Google Sheets exporter initialized", "spreadsheet_id", cfg.SheetsSpreadsheetID)
	} else {
		logger.Info("Google Sheets export disabled - no SHEETS_SPREADSHEET_ID provided")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	engine := report.NewEngine(repo)
	summarySvc := services.NewSummaryService(engine, repo)
	recomputeWorker := worker.NewRecomputeWorker(summarySvc, exporter)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Recompute the trailing days on startup to recover from messages
	// missed while the worker was down.
	logger.Info("Performing startup backfill...", "days", cfg.BacklogDays)
	if err := recomputeWorker.Backfill(ctx, cfg.BacklogDays); err != nil {
		logger.Error("Startup backfill failed", "error", err)
		// Don't exit - continue with normal operation
	}

	// Nightly rollover finalizes yesterday and seeds today
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.NightlyCronSpec, func() {
		if err := recomputeWorker.NightlyRollover(ctx); err != nil {
			logger.Error("Nightly rollover failed", "error", err)
		}
	}); err != nil {
		logger.Error("Failed to schedule nightly rollover", "error", err, "spec", cfg.NightlyCronSpec)
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	go func() {
		if err := amqpClient.ConsumeRecompute(ctx, recomputeWorker.HandleRecomputeMessage); err != nil {
			if err != context.Canceled {
				logger.Error("Message consumption failed", "error", err)
			}
			cancel()
		}
	}()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Shutting down worker...")
	cancel()

	// Give in-flight recomputes a moment to finish
	stopCtx := scheduler.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
		logger.Warn("Shutdown timeout reached")
	}
	logger.Info("Worker shutdown complete")
}

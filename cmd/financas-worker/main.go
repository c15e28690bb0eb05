package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"financas/internal/amqp"
	"financas/internal/config"
	"financas/internal/export"
	"financas/internal/export/google"
	"financas/internal/export/memory"
	applog "financas/internal/log"
	"financas/internal/storage"
	"financas/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     applog.DefaultConfig().Level,
		Component: applog.ComponentWorker,
	})
	applog.SetDefault(logger)

	logger.Info("starting financas-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("failed to open database", applog.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Without a spreadsheet ID the worker still runs, appending to an
	// in-process store. Useful for local development against a broker.
	var ledger export.LedgerWriter
	if cfg.ExportSpreadsheetID != "" {
		sheets, err := google.New(ctx, cfg.ExportSpreadsheetID, cfg.ExportSheetName)
		if err != nil {
			logger.Error("failed to initialize Google Sheets client", applog.FieldError, err)
			os.Exit(1)
		}
		ledger = sheets
		logger.Info("Google Sheets ledger initialized",
			"spreadsheet_id", cfg.ExportSpreadsheetID, "sheet", cfg.ExportSheetName)
	} else {
		ledger = memory.New()
		logger.Warn("no EXPORT_SPREADSHEET_ID provided, ledger rows stay in memory")
	}

	w := worker.NewExportWorker(repo, ledger, cfg.ExportBatchSize, cfg.ExportInterval, logger)

	if err := w.StartupCheck(ctx); err != nil {
		logger.Error("startup check failed", applog.FieldError, err)
		// keep going, the periodic scan retries
	}

	g, ctx := errgroup.WithContext(ctx)

	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("failed to initialize AMQP client", applog.FieldError, err)
			os.Exit(1)
		}
		defer amqpClient.Close()

		g.Go(func() error {
			return amqpClient.ConsumeLedgerExports(ctx, func(msg *amqp.LedgerExportMessage) error {
				return w.HandleExportMessage(ctx, msg)
			})
		})
		logger.Info("consuming export messages", "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled, relying on the periodic scan only")
	}

	g.Go(func() error {
		return w.Run(ctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped with error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("worker stopped")
}

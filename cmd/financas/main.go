package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"financas/internal/amqp"
	"financas/internal/auth"
	"financas/internal/config"
	apphttp "financas/internal/http"
	applog "financas/internal/log"
	"financas/internal/services"
	"financas/internal/storage"
)

func main() {
	// .env is for local development, absent in containers
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

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

	// The export queue is optional: without it purchases and entries
	// still land in SQLite with export_status pending, and the worker's
	// periodic scan picks them up once a broker is configured.
	var queue services.ExportQueue
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, exports rely on the periodic scan", applog.FieldError, err)
		} else {
			defer amqpClient.Close()
			queue = amqpClient
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	} else {
		logger.Info("AMQP disabled, no AMQP_URL provided")
	}

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	resolver := services.NewResolver(repo)
	categories := services.NewCategoryService(repo, services.NewTotalsCache(1000, 5*time.Minute))

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Users:      services.NewUserService(repo, issuer, cfg.BcryptCost),
		Categories: categories,
		Cards:      services.NewCardService(repo),
		Accounts:   services.NewAccountService(repo),
		Purchases:  services.NewPurchaseService(repo, resolver, categories, queue, logger),
		Entries:    services.NewEntryService(repo, resolver, categories, queue, logger),
		Issuer:     issuer,
		Logger:     logger,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", applog.FieldError, err)
		}
		cancel()
	}()

	logger.Info("starting financas server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("server stopped")
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"spentnest/internal/amqp"
	"spentnest/internal/api"
	"spentnest/internal/bus"
	"spentnest/internal/config"
	"spentnest/internal/export/google"
	apphttp "spentnest/internal/http"
	applog "spentnest/internal/log"
	"spentnest/internal/session"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	backend := api.NewClientWithHTTP(cfg.APIBaseURL, &http.Client{Timeout: cfg.APITimeout})

	var sessions session.Store
	switch cfg.SessionBackend {
	case "sqlite":
		store, err := session.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to open session store", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		sessions = store
		logger.Info("Initialized sqlite session store", "path", cfg.SQLiteDBPath)
	default:
		sessions = session.NewMemoryStore()
		logger.Info("Initialized in-memory session store")
	}
	defer sessions.Close()

	events := bus.New()
	if cfg.AMQPURL != "" {
		mirror, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			// The mirror is best-effort. The gateway runs without it.
			logger.Warn("AMQP mirror unavailable", "error", err)
		} else {
			events.SetMirror(mirror)
			defer mirror.Close()
			logger.Info("Initialized AMQP event mirror", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	var exporter apphttp.Exporter
	if cfg.SheetsExportEnabled() {
		cli, err := google.New(context.Background(), cfg)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets exporter", "error", err)
			os.Exit(1)
		}
		exporter = cli
		logger.Info("Initialized Google Sheets exporter", "spreadsheet", cfg.GoogleSpreadsheetID)
	}

	srv := apphttp.NewServer(":"+cfg.Port, backend, sessions, events, exporter)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 15 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting spentnest gateway", "port", cfg.Port, "api", cfg.APIBaseURL, "sessions", cfg.SessionBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

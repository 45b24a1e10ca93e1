// Command spentnest-worker consumes entity-changed events from the
// AMQP exchange the gateway publishes to and records them in a local
// SQLite audit log.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"spentnest/internal/amqp"
	"spentnest/internal/audit"
	"spentnest/internal/config"
	applog "spentnest/internal/log"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Component: "worker"})
	applog.SetDefault(logger)

	logger.Info("Starting spentnest-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	recorder, err := audit.NewRecorder(cfg.AuditDBPath)
	if err != nil {
		logger.Error("Failed to open audit log", "error", err, "path", cfg.AuditDBPath)
		os.Exit(1)
	}
	defer recorder.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	handle := func(ctx context.Context, msg *amqp.EntityChangedMessage) error {
		return recorder.Record(ctx, audit.Entry{
			Entity:     msg.Entity,
			Action:     msg.Action,
			UserID:     msg.UserID,
			OccurredAt: msg.Timestamp,
		})
	}

	logger.Info("Consuming entity changed events",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue,
		"audit_db", cfg.AuditDBPath)

	// Reconnect with backoff when the broker connection drops.
	for attempt := 0; ; attempt++ {
		err := amqpClient.ConsumeEntityChanged(ctx, handle)
		if ctx.Err() != nil {
			break
		}
		delay := 1 * time.Second
		if attempt > 0 {
			delay = 5 * time.Second
		}
		logger.Warn("Consumption interrupted, retrying", "error", err, "delay", delay)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
		}
	}

	logger.Info("Worker stopped gracefully")
}

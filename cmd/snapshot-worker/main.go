// Command snapshot-worker writes history snapshots requested over AMQP by an
// API running with SNAPSHOT_DISPATCH=amqp.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"troskovi/internal/amqp"
	"troskovi/internal/config"
	"troskovi/internal/database"
	apperrors "troskovi/internal/errors"
	"troskovi/internal/history"
	"troskovi/internal/logger"
	"troskovi/internal/services"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Named("snapshot-worker")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, err := database.NewManager(database.NewConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	snapshotService := services.NewSnapshotService(dbManager.DB(), history.NewStore(cfg.DataDir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := amqp.DialWithRetry(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return fmt.Errorf("failed to connect to AMQP: %w", err)
	}
	defer client.Close()

	consumeErr := make(chan error, 1)
	go func() {
		consumeErr <- client.ConsumeSnapshots(ctx, func(ctx context.Context, msg *amqp.SnapshotMessage) error {
			err := snapshotService.Snapshot(ctx, msg.PersonID, msg.Month)
			if errors.Is(err, apperrors.ErrPersonNotFound) {
				// deleted after the request was published
				log.Warnw("Dropping snapshot request", "person_id", msg.PersonID, "month", msg.Month)
				return nil
			}
			if err != nil {
				return err
			}
			log.Infow("Snapshot written", "person_id", msg.PersonID, "month", msg.Month,
				"queued_for", time.Since(msg.RequestedAt).Round(time.Millisecond))
			return nil
		})
	}()

	log.Infow("Snapshot worker started", "queue", cfg.AMQPQueue)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Infow("Shutting down worker", "signal", sig.String())
	case err := <-consumeErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("consumer stopped: %w", err)
		}
		return nil
	}

	cancel()
	select {
	case <-consumeErr:
	case <-time.After(shutdownTimeout):
		log.Warn("Consumer did not stop in time")
	}

	log.Info("Worker stopped")
	return nil
}

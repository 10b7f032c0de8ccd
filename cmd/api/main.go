package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"troskovi/internal/amqp"
	"troskovi/internal/config"
	"troskovi/internal/database"
	"troskovi/internal/dispatch"
	"troskovi/internal/history"
	"troskovi/internal/logger"
	"troskovi/internal/server"
	"troskovi/internal/services"
	"troskovi/internal/validator"

	"github.com/gin-gonic/gin"
)

// @title           Troskovi API
// @version         1.0
// @description     Monthly income and expense ledger with reports, history snapshots and document exports.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

const shutdownTimeout = 30 * time.Second

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.Register()

	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	db := dbManager.DB()
	store := history.NewStore(appConfig.DataDir)
	snapshotService := services.NewSnapshotService(db, store)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dispatcher, err := newDispatcher(ctx, appConfig, snapshotService.Snapshot)
	if err != nil {
		return err
	}

	eventService := services.NewEventService(db)
	router := server.NewRouter(server.Services{
		Persons:    services.NewPersonService(db, store),
		Categories: services.NewCategoryService(db, eventService, dispatcher),
		Ledger:     services.NewLedgerService(db, eventService, dispatcher),
		Reports:    services.NewReportService(db),
		Snapshots:  snapshotService,
		Events:     eventService,
		Exports: services.NewExportService(db, store, services.ExportOptions{
			UploadDir: appConfig.UploadDir,
			KeepCopy:  appConfig.ExportKeepCopy,
		}),
	}, server.Options{
		PipelineAPIKey: appConfig.PipelineAPIKey,
		Swagger:        appConfig.Env != "production",
	})

	srv := &http.Server{
		Addr:           ":" + appConfig.Port,
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("Starting Troskovi server on port %s (snapshots: %s)", appConfig.Port, appConfig.SnapshotDispatch)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info("Shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Server shutdown failed", "error", err)
	}
	// pending snapshot requests are flushed after the last request finished
	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.Errorw("Snapshot dispatcher did not drain", "error", err)
	}

	log.Info("Server stopped")
	return nil
}

func newDispatcher(ctx context.Context, cfg *config.Config, fn dispatch.SnapshotFunc) (dispatch.Dispatcher, error) {
	switch cfg.SnapshotDispatch {
	case config.DispatchAMQP:
		client, err := amqp.DialWithRetry(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to AMQP: %w", err)
		}
		return dispatch.NewAMQP(client), nil
	case config.DispatchSync:
		return dispatch.NewSync(fn), nil
	default:
		return dispatch.NewLocal(fn, cfg.SnapshotWorkers, cfg.SnapshotQueueSize, cfg.SnapshotTimeout), nil
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"lexia/internal/amqp"
	"lexia/internal/cli"
	"lexia/internal/config"
	applog "lexia/internal/log"
	"lexia/internal/metrics"
	gsheet "lexia/internal/sheets/google"
	"lexia/internal/storage"
	"lexia/internal/worker"
)

func main() {
	cfg, logger := cli.Bootstrap(applog.ComponentWorker, (*config.Config).ValidateSheets)
	logger.Info("Starting lexia-worker")

	ctx, stop := cli.SignalContext()
	defer stop()

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	exporter, err := gsheet.New(ctx, gsheet.Options{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleSheetName,
		CredentialsJSON: cfg.GoogleCredentialsJSON,
		CredentialsFile: cfg.GoogleCredentialsFile,
	})
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	m := metrics.New()
	if cfg.MetricsAddr != "" {
		go serveMetrics(ctx, logger, cfg.MetricsAddr, m)
	}

	syncWorker := worker.NewSyncWorker(repo, exporter, m, cfg.SyncBatchSize)

	// Rows written while the worker was down have no message in flight.
	logger.Info("Performing startup sync check...")
	if err := syncWorker.StartupSyncCheck(ctx); err != nil {
		logger.Error("Failed startup sync check", "error", err)
	}

	if err := syncWorker.Run(ctx, client, cfg.SyncInterval); err != nil {
		logger.Error("Worker stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}

func serveMetrics(ctx context.Context, logger *applog.Logger, addr string, m *metrics.Metrics) {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("Serving worker metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Metrics server error", "error", err)
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"lexia/internal/amqp"
	"lexia/internal/backend"
	"lexia/internal/cache"
	"lexia/internal/cli"
	"lexia/internal/config"
	apphttp "lexia/internal/http"
	applog "lexia/internal/log"
	"lexia/internal/metrics"
	"lexia/internal/services"
)

func main() {
	cfg, logger := cli.Bootstrap(applog.ComponentApp, (*config.Config).Validate)

	ctx, stop := cli.SignalContext()
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	store, err := backend.NewFactory(logger.Logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer store.Close()

	m := metrics.New()

	reportCache := cache.NewLRUCache[services.Report](256, cfg.ReportCacheTTL)
	cacheManager := cache.NewManager()
	cacheManager.Register(reportCache)
	cacheManager.Start(ctx, time.Minute)
	defer cacheManager.Stop()

	// AMQP is optional: without it the worker's pending sweep still finds
	// unsynced rows in the shared database.
	var publisher services.Publisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without sync", "error", err)
		} else {
			defer client.Close()
			publisher = client
			logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Records:           services.NewRecordService(store.Store, publisher, cfg.Settings, reportCache),
		Bookings:          services.NewBookingService(store.Store, cfg.Settings.TimeSlots, m),
		Reports:           services.NewReportService(store.Store, store.Store, cfg.Settings.AnnualTarget, reportCache, m),
		Catalog:           services.NewCatalogService(store.Store, reportCache),
		Subscriptions:     services.NewSubscriptionService(store.Store, cfg.Settings),
		Projects:          services.NewProjectService(store.Store),
		Metrics:           m,
		Logger:            logger,
		Ready:             store.Ready,
		RequestsPerMinute: cfg.RequestsPerMinute,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting lexia server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Error("Server error", "error", err, "port", cfg.Port)
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}
	logger.Info("Server stopped gracefully")
}

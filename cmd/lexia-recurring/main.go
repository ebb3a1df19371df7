package main

import (
	"os"
	"time"

	"lexia/internal/amqp"
	"lexia/internal/cli"
	"lexia/internal/config"
	applog "lexia/internal/log"
	"lexia/internal/services"
	"lexia/internal/storage"
)

func main() {
	cfg, logger := cli.Bootstrap(applog.ComponentRecurring, (*config.Config).Validate)
	logger.Info("Starting lexia-recurring")

	ctx, stop := cli.SignalContext()
	defer stop()

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// Generated records are announced like any other write so lexia-worker
	// mirrors them to the sheet.
	var publisher services.Publisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing in SQLite-only mode", "error", err)
		} else {
			defer client.Close()
			publisher = client
		}
	} else {
		logger.Info("AMQP disabled - generated records wait for the worker's pending sweep")
	}

	records := services.NewRecordService(repo, publisher, cfg.Settings)
	processor := services.NewRecurringProcessor(repo, records)

	logger.Info("Recurring processor configured",
		"interval", cfg.RecurringInterval,
		"sqlite_db", cfg.SQLiteDBPath)

	run := func(now time.Time) {
		count, err := processor.ProcessDue(ctx, now)
		if err != nil {
			logger.Error("Recurring processing failed", "error", err)
			return
		}
		logger.Info("Recurring processing complete",
			"records_created", count,
			"next_check", now.Add(cfg.RecurringInterval).Format("15:04:05"))
	}

	run(time.Now())

	ticker := time.NewTicker(cfg.RecurringInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("Recurring worker shutdown complete")
			return
		case now := <-ticker.C:
			run(now)
		}
	}
}

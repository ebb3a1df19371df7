package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"

	"lexia/internal/amqp"
	"lexia/internal/core"
	"lexia/internal/metrics"
	"lexia/internal/sheets"
)

// Store is what the worker needs from the database: the record itself and
// its sync bookkeeping.
type Store interface {
	GetRecord(ctx context.Context, id int64) (core.LedgerRecord, error)
	sheets.SyncTracker
}

// SyncWorker mirrors ledger records into the spreadsheet.
type SyncWorker struct {
	store     Store
	exporter  sheets.RowExporter
	breaker   *gobreaker.CircuitBreaker
	metrics   *metrics.Metrics
	batchSize int
}

func NewSyncWorker(store Store, exporter sheets.RowExporter, m *metrics.Metrics, batchSize int) *SyncWorker {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &SyncWorker{
		store:    store,
		exporter: exporter,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "sheets-export",
			MaxRequests: 3,
			Interval:    30 * time.Second,
			Timeout:     10 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 5 && failureRatio >= 0.6
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				slog.Warn("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			},
		}),
		metrics:   m,
		batchSize: batchSize,
	}
}

// HandleMessage is the AMQP consumer callback. Upsert failures are dropped
// from the queue since the record stays pending and the periodic sweep
// exports it later. Delete failures have no such fallback and are returned
// as amqp.ErrRetry so the delivery is requeued after a delay.
func (w *SyncWorker) HandleMessage(ctx context.Context, msg *amqp.RecordSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"id", msg.ID,
		"op", msg.Op,
		"version", msg.Version)

	switch msg.Op {
	case amqp.OpDelete:
		return w.deleteRow(ctx, msg.ID)
	default:
		return w.syncRecord(ctx, msg.ID)
	}
}

// syncRecord exports the current state of a record and marks the version it
// read as synced. A message carrying an older version therefore still ships
// the latest data. A record that no longer exists is acknowledged without
// error; its delete message will clear the row.
func (w *SyncWorker) syncRecord(ctx context.Context, id int64) error {
	rec, err := w.store.GetRecord(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		slog.InfoContext(ctx, "Record gone before sync, skipping", "id", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get record: %w", err)
	}

	res, err := w.breaker.Execute(func() (any, error) {
		return w.exporter.AppendRecord(ctx, rec)
	})
	w.metrics.SyncResult(string(amqp.OpUpsert), err)
	if err != nil {
		if markErr := w.store.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("export record: %w", err)
	}

	// An update racing this export keeps the record pending.
	if err := w.store.MarkSynced(ctx, id, rec.Version); err != nil {
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", id, "error", err)
	}

	slog.InfoContext(ctx, "Synced record",
		"id", id,
		"version", rec.Version,
		"sheets_ref", res,
		"amount", rec.Amount.Cents)
	return nil
}

func (w *SyncWorker) deleteRow(ctx context.Context, id int64) error {
	_, err := w.breaker.Execute(func() (any, error) {
		return nil, w.exporter.DeleteRecordRow(ctx, id)
	})
	w.metrics.SyncResult(string(amqp.OpDelete), err)
	if err != nil {
		return fmt.Errorf("delete row: %w: %w", err, amqp.ErrRetry)
	}
	slog.InfoContext(ctx, "Deleted record row", "id", id)
	return nil
}

// ProcessPending exports up to limit records still marked pending. It backs
// up the queue when messages are lost or the worker was down.
func (w *SyncWorker) ProcessPending(ctx context.Context, limit int) (synced, failed int, err error) {
	pending, err := w.store.PendingSync(ctx, limit)
	if err != nil {
		return 0, 0, fmt.Errorf("get pending records: %w", err)
	}
	for _, p := range pending {
		if ctx.Err() != nil {
			return synced, failed, ctx.Err()
		}
		if err := w.syncRecord(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to sync pending record", "id", p.ID, "error", err)
			failed++
			continue
		}
		synced++
	}
	if len(pending) > 0 {
		slog.InfoContext(ctx, "Pending sync pass completed",
			"total", len(pending),
			"synced", synced,
			"errors", failed)
	}
	return synced, failed, nil
}

// StartupSyncCheck runs one larger pending pass before consuming messages.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	_, _, err := w.ProcessPending(ctx, w.batchSize*5)
	return err
}

// Consumer delivers queued sync messages to a handler.
type Consumer interface {
	ConsumeRecordSync(ctx context.Context, handler func(context.Context, *amqp.RecordSyncMessage) error) error
}

// Run consumes messages and sweeps pending records every interval until ctx
// is done or the consumer fails. A nil consumer runs the sweep alone.
func (w *SyncWorker) Run(ctx context.Context, consumer Consumer, interval time.Duration) error {
	g, ctx := errgroup.WithContext(ctx)

	if consumer != nil {
		g.Go(func() error {
			return consumer.ConsumeRecordSync(ctx, w.HandleMessage)
		})
	}

	g.Go(func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if _, _, err := w.ProcessPending(ctx, w.batchSize); err != nil && ctx.Err() == nil {
					slog.ErrorContext(ctx, "Periodic sync failed", "error", err)
				}
			}
		}
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

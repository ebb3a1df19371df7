package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lexia/internal/core"
	"lexia/internal/sheets"
)

// RecurringProcessor materializes due subscriptions into ledger records.
type RecurringProcessor struct {
	subs    sheets.SubscriptionStore
	records *RecordService
}

func NewRecurringProcessor(subs sheets.SubscriptionStore, records *RecordService) *RecurringProcessor {
	return &RecurringProcessor{subs: subs, records: records}
}

// ProcessDue creates one record, dated today, for every active subscription
// that is due, and returns how many it created. A failing subscription is
// logged and skipped so the others still run. Running twice on the same
// day creates nothing the second time.
func (p *RecurringProcessor) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	if p.subs == nil || p.records == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}
	subs, err := p.subs.ListSubscriptions(ctx)
	if err != nil {
		return 0, fmt.Errorf("list subscriptions: %w", err)
	}
	today := core.DateOf(now)

	slog.InfoContext(ctx, "Processing subscriptions",
		"total", len(subs),
		"processing_date", today.String())

	created := 0
	for _, s := range subs {
		if ctx.Err() != nil {
			return created, ctx.Err()
		}
		if !s.ActiveOn(today) {
			continue
		}
		checker, err := GetDuenessChecker(s.Every)
		if err != nil {
			slog.ErrorContext(ctx, "Skipping subscription", "id", s.ID, "error", err)
			continue
		}
		if !checker.IsDue(s.LastGenerated, today, s.StartDate) {
			continue
		}

		rec, err := p.records.Create(ctx, s.Record(today))
		if err != nil {
			slog.ErrorContext(ctx, "Failed to create record from subscription",
				"subscription_id", s.ID,
				"name", s.Name,
				"error", err)
			continue
		}
		// The record exists either way; a failed mark means it may be
		// generated again on the next run.
		if err := p.subs.MarkSubscriptionGenerated(ctx, s.ID, today); err != nil {
			slog.ErrorContext(ctx, "Failed to update last generated date",
				"subscription_id", s.ID,
				"error", err)
		}
		created++
		slog.InfoContext(ctx, "Created record from subscription",
			"subscription_id", s.ID,
			"record_id", rec.ID,
			"amount", rec.Amount.Cents,
			"frequency", s.Every)
	}

	slog.InfoContext(ctx, "Subscription processing complete",
		"created", created,
		"total_checked", len(subs))
	return created, nil
}

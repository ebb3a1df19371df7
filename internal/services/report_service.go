package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"lexia/internal/cache"
	"lexia/internal/core"
	"lexia/internal/metrics"
	"lexia/internal/sheets"
)

// Report is the dashboard payload plus the item catalog it was computed with.
type Report struct {
	From      core.Date      `json:"from"`
	To        core.Date      `json:"to"`
	Dashboard core.Dashboard `json:"dashboard"`
	Items     []core.Item    `json:"items"`
}

// MonthlyReport is the twelve-month breakdown of one calendar year.
type MonthlyReport struct {
	Year    int                `json:"year"`
	Buckets []core.MonthBucket `json:"buckets"`
	Totals  core.Totals        `json:"totals"`
}

// ReportService computes read-only views over the ledger. Results are cached
// until the next write purges the cache.
type ReportService struct {
	records      sheets.RecordStore
	items        sheets.ItemStore
	annualTarget int64
	cache        cache.Cache[Report]
	metrics      *metrics.Metrics
	now          func() time.Time
}

func NewReportService(records sheets.RecordStore, items sheets.ItemStore, annualTarget int64, c cache.Cache[Report], m *metrics.Metrics) *ReportService {
	return &ReportService{
		records:      records,
		items:        items,
		annualTarget: annualTarget,
		cache:        c,
		metrics:      m,
		now:          time.Now,
	}
}

// Dashboard aggregates records within [from, to]. A zero ref means today.
func (s *ReportService) Dashboard(ctx context.Context, from, to, ref core.Date) (Report, error) {
	if !ref.Valid() {
		ref = core.DateOf(s.now())
	}
	key := fmt.Sprintf("dashboard|%s|%s|%s", from, to, ref)
	var gen uint64
	if s.cache != nil {
		gen = s.cache.Generation()
		if r, ok := s.cache.Get(key); ok {
			s.metrics.CacheHit("dashboard")
			return r, nil
		}
		s.metrics.CacheMiss("dashboard")
	}

	var (
		recs  []core.LedgerRecord
		items []core.Item
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		recs, err = s.records.ListRecords(gctx, from, to)
		if err != nil {
			return fmt.Errorf("load records: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if s.items == nil {
			return nil
		}
		var err error
		items, err = s.items.ListItems(gctx)
		if err != nil {
			return fmt.Errorf("load items: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	r := Report{
		From:      from,
		To:        to,
		Dashboard: core.BuildDashboard(recs, ref, s.annualTarget),
		Items:     items,
	}
	if s.cache != nil {
		s.cache.SetIfGeneration(key, r, gen)
	}
	return r, nil
}

func (s *ReportService) Monthly(ctx context.Context, year int) (MonthlyReport, error) {
	from, to := core.NewDate(year, 1, 1), core.NewDate(year, 12, 31)
	recs, err := s.records.ListRecords(ctx, from, to)
	if err != nil {
		return MonthlyReport{}, fmt.Errorf("load records: %w", err)
	}
	return MonthlyReport{
		Year:    year,
		Buckets: core.MonthlyBuckets(recs, year),
		Totals:  core.ComputeTotals(recs),
	}, nil
}

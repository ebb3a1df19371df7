package core

import (
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Aggregations over a snapshot of ledger records. None of these mutate the
// input. Records whose Date is unknown are skipped by every date-bucketed
// aggregation and still counted by the date-independent ones (Totals,
// CategoryBreakdown, UniqueItemCounts).

// ComputeTotals sums income and expense across all records.
func ComputeTotals(records []LedgerRecord) Totals {
	var t Totals
	for _, r := range records {
		switch r.Category {
		case Income:
			t.Income += r.Amount.Cents
		case Expense:
			t.Expense += r.Amount.Cents
		}
	}
	t.Profit = t.Income - t.Expense
	return t
}

// MonthlyBuckets partitions the records dated in year by calendar month.
// The result always has 12 entries, January first.
func MonthlyBuckets(records []LedgerRecord, year int) []MonthBucket {
	buckets := make([]MonthBucket, 12)
	for i := range buckets {
		buckets[i].Month = i + 1
	}
	for _, r := range records {
		if !r.Date.Valid() || r.Date.Year() != year {
			continue
		}
		b := &buckets[r.Date.Month()-1]
		switch r.Category {
		case Income:
			b.Income += r.Amount.Cents
		case Expense:
			b.Expense += r.Amount.Cents
		}
	}
	for i := range buckets {
		buckets[i].Profit = buckets[i].Income - buckets[i].Expense
	}
	return buckets
}

// netByPeriod groups signed amounts by "YYYY-MM" and returns the keys sorted.
func netByPeriod(records []LedgerRecord) ([]string, map[string]int64) {
	net := make(map[string]int64)
	for _, r := range records {
		if !r.Date.Valid() {
			continue
		}
		net[r.Date.PeriodKey()] += r.Signed()
	}
	keys := make([]string, 0, len(net))
	for k := range net {
		keys = append(keys, k)
	}
	// Keys are zero-padded so lexical order is chronological.
	sort.Strings(keys)
	return keys, net
}

// MonthlyNetSeries returns each period's net (income - expense) in
// chronological order.
func MonthlyNetSeries(records []LedgerRecord) []SeriesPoint {
	keys, net := netByPeriod(records)
	out := make([]SeriesPoint, 0, len(keys))
	withYear := spansYears(keys)
	for _, k := range keys {
		out = append(out, SeriesPoint{Period: k, Label: periodLabel(k, withYear), Value: net[k]})
	}
	return out
}

// CumulativeProfitSeries returns the running sum of per-period net values.
func CumulativeProfitSeries(records []LedgerRecord) []SeriesPoint {
	keys, net := netByPeriod(records)
	out := make([]SeriesPoint, 0, len(keys))
	var cumulative int64
	withYear := spansYears(keys)
	for _, k := range keys {
		cumulative += net[k]
		out = append(out, SeriesPoint{Period: k, Label: periodLabel(k, withYear), Value: cumulative})
	}
	return out
}

// spansYears reports whether the sorted "YYYY-MM" keys cover more than one
// calendar year.
func spansYears(keys []string) bool {
	if len(keys) < 2 {
		return false
	}
	first, _, _ := strings.Cut(keys[0], "-")
	last, _, _ := strings.Cut(keys[len(keys)-1], "-")
	return first != last
}

// periodLabel turns "2024-03" into "3月", or "2024年3月" with withYear.
func periodLabel(key string, withYear bool) string {
	y, m, ok := strings.Cut(key, "-")
	if !ok {
		return key
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return key
	}
	if withYear {
		return y + "年" + strconv.Itoa(n) + "月"
	}
	return strconv.Itoa(n) + "月"
}

// CategoryBreakdown sums the records of one category by account type, in
// first-seen order. Types with no records do not appear.
func CategoryBreakdown(records []LedgerRecord, category Category) []CategoryAmount {
	idx := make(map[string]int)
	var out []CategoryAmount
	for _, r := range records {
		if r.Category != category {
			continue
		}
		i, ok := idx[r.AccountType]
		if !ok {
			i = len(out)
			idx[r.AccountType] = i
			out = append(out, CategoryAmount{Name: r.AccountType})
		}
		out[i].Value += r.Amount.Cents
	}
	return out
}

// YearToDateIncome sums income dated in ref's year up to and including
// ref's month.
func YearToDateIncome(records []LedgerRecord, ref Date) int64 {
	var ytd int64
	for _, r := range records {
		if r.Category != Income || !r.Date.Valid() {
			continue
		}
		if r.Date.Year() == ref.Year() && r.Date.Month() <= ref.Month() {
			ytd += r.Amount.Cents
		}
	}
	return ytd
}

// ProjectedAnnualTotal extrapolates year-to-date income linearly:
// round(ytd / monthIndex * 12). The formula is deliberately naive; callers
// compare it against a fixed annual target.
func ProjectedAnnualTotal(records []LedgerRecord, ref Date) int64 {
	if !ref.Valid() {
		return 0
	}
	ytd := YearToDateIncome(records, ref)
	return decimal.NewFromInt(ytd).
		Mul(decimal.NewFromInt(12)).
		Div(decimal.NewFromInt(int64(ref.Month()))).
		Round(0).
		IntPart()
}

// FilterByDateRange keeps records dated within [from, to]. A zero bound is
// open. With no bounds every record is returned; with any bound, records of
// unknown date are dropped.
func FilterByDateRange(records []LedgerRecord, from, to Date) []LedgerRecord {
	if !from.Valid() && !to.Valid() {
		return append([]LedgerRecord(nil), records...)
	}
	out := make([]LedgerRecord, 0, len(records))
	for _, r := range records {
		if !r.Date.Valid() {
			continue
		}
		if from.Valid() && r.Date.Before(from.Time) {
			continue
		}
		if to.Valid() && r.Date.After(to.Time) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Ratio divides a by b, returning 0 when b is 0.
func Ratio(a, b int64) float64 {
	if b == 0 {
		return 0
	}
	return decimal.NewFromInt(a).Div(decimal.NewFromInt(b)).InexactFloat64()
}

// KPISummary bundles the annual projection against target with the item
// completion ratio.
func KPISummary(records []LedgerRecord, ref Date, annualTarget int64) KPI {
	projected := ProjectedAnnualTotal(records, ref)
	items := UniqueItemCounts(records)
	return KPI{
		ReferenceDate:   ref.String(),
		YearToDate:      YearToDateIncome(records, ref),
		Projected:       projected,
		Target:          annualTarget,
		Attainment:      Ratio(projected, annualTarget),
		Shortfall:       annualTarget > 0 && projected < annualTarget,
		Items:           items,
		CompletionRatio: items.CompletionRatio(),
	}
}

// BuildDashboard computes the full overview for one snapshot.
func BuildDashboard(records []LedgerRecord, ref Date, annualTarget int64) Dashboard {
	year := ref.Year()
	if !ref.Valid() {
		year = 0
	}
	return Dashboard{
		Totals:     ComputeTotals(records),
		Cumulative: CumulativeProfitSeries(records),
		Monthly:    MonthlyNetSeries(records),
		Buckets:    MonthlyBuckets(records, year),
		Expenses:   CategoryBreakdown(records, Expense),
		KPI:        KPISummary(records, ref, annualTarget),
	}
}

package core

// Totals is the all-time (or filtered) income, expense and profit.
type Totals struct {
	Income  int64 `json:"income"`
	Expense int64 `json:"expense"`
	Profit  int64 `json:"profit"`
}

// MonthBucket holds the sums for one calendar month of a year.
type MonthBucket struct {
	Month   int   `json:"month"` // 1-12
	Income  int64 `json:"income"`
	Expense int64 `json:"expense"`
	Profit  int64 `json:"profit"`
}

// SeriesPoint is one period of a chart series. Period is the sortable
// "YYYY-MM" key, Label the month label shown on an axis (with the year
// when the series spans more than one).
type SeriesPoint struct {
	Period string `json:"period"`
	Label  string `json:"label"`
	Value  int64  `json:"value"`
}

// CategoryAmount represents an amount aggregated by account type.
type CategoryAmount struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// ItemCounts counts distinct items across the ledger.
type ItemCounts struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// KPI compares the naive annual projection with the configured target.
type KPI struct {
	ReferenceDate   string     `json:"referenceDate"`
	YearToDate      int64      `json:"yearToDate"`
	Projected       int64      `json:"projected"`
	Target          int64      `json:"target"`
	Attainment      float64    `json:"attainment"`
	Shortfall       bool       `json:"shortfall"`
	Items           ItemCounts `json:"items"`
	CompletionRatio float64    `json:"completionRatio"`
}

// Dashboard is everything the finance overview renders from one snapshot.
type Dashboard struct {
	Totals     Totals           `json:"totals"`
	Cumulative []SeriesPoint    `json:"cumulative"`
	Monthly    []SeriesPoint    `json:"monthly"`
	Buckets    []MonthBucket    `json:"buckets"`
	Expenses   []CategoryAmount `json:"expenses"`
	KPI        KPI              `json:"kpi"`
}

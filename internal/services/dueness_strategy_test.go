package services

import (
	"errors"
	"testing"

	"lexia/internal/core"
)

func day(s string) core.Date {
	if s == "" {
		return core.Date{}
	}
	return core.ParseDateLenient(s)
}

func TestDuenessCheckers(t *testing.T) {
	tests := []struct {
		name  string
		every core.Frequency
		start string
		last  string
		today string
		want  bool
	}{
		{"daily never generated", core.Daily, "2024-01-01", "", "2024-01-15", true},
		{"daily generated today", core.Daily, "2024-01-01", "2024-01-15", "2024-01-15", false},
		{"daily generated yesterday", core.Daily, "2024-01-01", "2024-01-14", "2024-01-15", true},

		{"weekly 3 days ago", core.Weekly, "2024-01-01", "2024-01-12", "2024-01-15", false},
		{"weekly 7 days ago", core.Weekly, "2024-01-01", "2024-01-08", "2024-01-15", true},
		{"weekly 10 days ago", core.Weekly, "2024-01-01", "2024-01-05", "2024-01-15", true},

		{"monthly same month", core.Monthly, "2024-01-10", "2024-01-10", "2024-01-31", false},
		{"monthly before target day", core.Monthly, "2024-01-10", "2024-01-10", "2024-02-09", false},
		{"monthly on target day", core.Monthly, "2024-01-10", "2024-01-10", "2024-02-10", true},
		{"monthly skipped month", core.Monthly, "2024-01-10", "2024-01-10", "2024-03-01", false},
		{"monthly 31st clamps in february", core.Monthly, "2024-01-31", "2024-01-31", "2024-02-29", true},
		{"monthly 31st not yet in april", core.Monthly, "2024-01-31", "2024-03-31", "2024-04-29", false},
		{"monthly 31st on april 30", core.Monthly, "2024-01-31", "2024-03-31", "2024-04-30", true},
		{"monthly clock went backwards", core.Monthly, "2024-01-10", "2024-03-10", "2024-02-20", false},

		{"yearly same year", core.Yearly, "2023-06-15", "2024-06-15", "2024-12-31", false},
		{"yearly before month", core.Yearly, "2023-06-15", "2024-06-15", "2025-05-30", false},
		{"yearly before day", core.Yearly, "2023-06-15", "2024-06-15", "2025-06-14", false},
		{"yearly on day", core.Yearly, "2023-06-15", "2024-06-15", "2025-06-15", true},
		{"yearly past month", core.Yearly, "2023-06-15", "2024-06-15", "2025-07-01", true},
		{"yearly leap day in common year", core.Yearly, "2024-02-29", "2024-02-29", "2025-02-28", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker, err := GetDuenessChecker(tt.every)
			if err != nil {
				t.Fatalf("GetDuenessChecker: %v", err)
			}
			got := checker.IsDue(day(tt.last), day(tt.today), day(tt.start))
			if got != tt.want {
				t.Errorf("IsDue(last=%s, today=%s, start=%s) = %v, want %v", tt.last, tt.today, tt.start, got, tt.want)
			}
		})
	}
}

func TestGetDuenessChecker_Unknown(t *testing.T) {
	if _, err := GetDuenessChecker("hourly"); !errors.Is(err, core.ErrInvalidFrequency) {
		t.Fatalf("expected ErrInvalidFrequency, got %v", err)
	}
}

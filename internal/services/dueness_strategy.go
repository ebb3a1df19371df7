package services

import (
	"fmt"
	"time"

	"lexia/internal/core"
)

// DuenessChecker decides whether a subscription owes a record on today,
// given the date of its last generated record (zero if none) and its start
// date. Each frequency has its own checker.
type DuenessChecker interface {
	IsDue(last, today, start core.Date) bool
}

type DailyChecker struct{}

// IsDue returns true once per calendar day.
func (DailyChecker) IsDue(last, today, _ core.Date) bool {
	return !last.Valid() || today.After(last.Time)
}

type WeeklyChecker struct{}

// IsDue returns true when 7 or more days have passed since the last record.
func (WeeklyChecker) IsDue(last, today, _ core.Date) bool {
	if !last.Valid() {
		return true
	}
	return today.Sub(last.Time) >= 7*24*time.Hour
}

type MonthlyChecker struct{}

// IsDue returns true in a new month once the start date's day is reached.
// A start on the 31st falls due on the last day of shorter months.
func (MonthlyChecker) IsDue(last, today, start core.Date) bool {
	if !last.Valid() {
		return true
	}
	if !today.After(last.Time) {
		return false
	}
	if last.Year() == today.Year() && last.Month() == today.Month() {
		return false
	}
	return today.Day() >= clampDay(today.Year(), today.Month(), start.Day())
}

type YearlyChecker struct{}

// IsDue returns true in a new year once the start date's month and day are
// reached. A Feb 29 start falls due on Feb 28 in common years.
func (YearlyChecker) IsDue(last, today, start core.Date) bool {
	if !last.Valid() {
		return true
	}
	if today.Year() <= last.Year() {
		return false
	}
	if today.Month() != start.Month() {
		return today.Month() > start.Month()
	}
	return today.Day() >= clampDay(today.Year(), today.Month(), start.Day())
}

func clampDay(year, month, day int) int {
	last := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		return last
	}
	return day
}

var duenessStrategies = map[core.Frequency]DuenessChecker{
	core.Daily:   DailyChecker{},
	core.Weekly:  WeeklyChecker{},
	core.Monthly: MonthlyChecker{},
	core.Yearly:  YearlyChecker{},
}

// GetDuenessChecker returns the checker for a frequency.
func GetDuenessChecker(f core.Frequency) (DuenessChecker, error) {
	checker, ok := duenessStrategies[f]
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidFrequency, f)
	}
	return checker, nil
}

package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxNoteRunes = 1000

const (
	Income  Category = "Income"
	Expense Category = "Expense"
)

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// DateLayout is the wire and storage format for calendar days.
const DateLayout = "2006-01-02"

type (
	Category string

	BookingStatus string

	// Date is a calendar day in UTC. The zero value means "unknown" and is
	// what an unparseable date decodes to.
	Date struct {
		time.Time
	}

	// Money is a non-negative quantity in minor units of an unspecified currency.
	Money struct {
		Cents int64
	}

	LedgerRecord struct {
		ID           int64
		Category     Category
		AccountType  string
		Date         Date
		Amount       Money
		Counterparty string
		ItemName     string
		ItemID       *int64 // weak reference to an Item, nil or 0 means unlinked
		Note         string
		Version      int64 // storage revision, bumped on every update
	}

	Item struct {
		ID   int64
		Name string
	}

	Booking struct {
		ID              int64
		PatientName     string
		Phone           string
		Email           string
		AppointmentDate Date
		AppointmentTime string
		Notes           string
		Status          BookingStatus
	}
)

var (
	ErrInvalidDay         = errors.New("invalid day")
	ErrInvalidMonth       = errors.New("invalid month")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrEmptyAccountType   = errors.New("empty account type")
	ErrUnknownAccountType = errors.New("unknown account type")
	ErrNoteTooLong        = errors.New("note too long (max 1000 characters)")
	ErrEmptyName          = errors.New("empty name")
	ErrInvalidTimeSlot    = errors.New("invalid time slot")
	ErrInvalidStatus      = errors.New("invalid booking status")
	ErrInvalidGranularity = errors.New("invalid granularity")
	ErrSlotTaken          = errors.New("time slot already booked")
	ErrNotFound           = errors.New("not found")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day, keeping the wall clock date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate accepts YYYY-MM-DD, YYYY/MM/DD and RFC 3339 timestamps.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrInvalidDate
	}
	for _, layout := range []string{DateLayout, "2006/01/02", time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, ErrInvalidDate
}

// ParseDateLenient returns the zero Date for unparseable input.
func ParseDateLenient(s string) Date {
	d, _ := ParseDate(s)
	return d
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// Valid reports whether the date carries a real calendar day.
func (d Date) Valid() bool {
	return !d.IsZero()
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// String formats the date as YYYY-MM-DD, or "" when unknown.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// PeriodKey returns the zero-padded "YYYY-MM" key of the date's month.
func (d Date) PeriodKey() string {
	return d.Format("2006-01")
}

// AddDays returns the date shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.AddDate(0, 0, n)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON never fails on a bad date string; the date is left unknown
// so aggregations can skip it.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*d = ParseDateLenient(s)
	return nil
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (c Category) Valid() bool {
	return c == Income || c == Expense
}

// ParseCategory matches case-insensitively.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return Income, nil
	case "expense":
		return Expense, nil
	}
	return "", ErrInvalidCategory
}

// Signed returns +amount for income and -amount for expense.
func (r LedgerRecord) Signed() int64 {
	if r.Category == Income {
		return r.Amount.Cents
	}
	return -r.Amount.Cents
}

func (r LedgerRecord) Validate() error {
	if !r.Category.Valid() {
		return ErrInvalidCategory
	}
	if strings.TrimSpace(r.AccountType) == "" {
		return ErrEmptyAccountType
	}
	if err := r.Date.Validate(); err != nil {
		return errors.Join(ErrInvalidDate, err)
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if utf8.RuneCountInString(r.Note) > maxNoteRunes {
		return ErrNoteTooLong
	}
	return nil
}

func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// Occupies reports whether a booking in this status holds its slot.
func (s BookingStatus) Occupies() bool {
	return s != StatusCancelled
}

// Validate checks the booking against the configured slot vocabulary.
// An empty vocabulary accepts any non-empty time label.
func (b Booking) Validate(timeSlots []string) error {
	if strings.TrimSpace(b.PatientName) == "" {
		return ErrEmptyName
	}
	if err := b.AppointmentDate.Validate(); err != nil {
		return errors.Join(ErrInvalidDate, err)
	}
	if strings.TrimSpace(b.AppointmentTime) == "" {
		return ErrInvalidTimeSlot
	}
	if len(timeSlots) > 0 {
		found := false
		for _, t := range timeSlots {
			if t == b.AppointmentTime {
				found = true
				break
			}
		}
		if !found {
			return ErrInvalidTimeSlot
		}
	}
	if b.Status != "" && !b.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

var validationErrs = []error{
	ErrInvalidDay, ErrInvalidMonth, ErrInvalidDate, ErrInvalidAmount,
	ErrInvalidCategory, ErrEmptyAccountType, ErrUnknownAccountType,
	ErrNoteTooLong, ErrEmptyName, ErrInvalidTimeSlot, ErrInvalidStatus,
	ErrInvalidGranularity, ErrInvalidFrequency, ErrInvalidProjectStatus,
	ErrInvalidDirection,
}

// IsValidation reports whether err was caused by rejected input rather than
// a storage or transport failure.
func IsValidation(err error) bool {
	for _, target := range validationErrs {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

package core

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

// Frequency is how often a subscription materializes a ledger record.
type Frequency string

// Subscription is a template for a ledger record that repeats, such as a
// monthly retainer or a software licence. The generator turns it into a
// LedgerRecord once per period, starting on StartDate.
type Subscription struct {
	ID           int64
	Name         string
	Category     Category
	AccountType  string
	Amount       Money
	Counterparty string
	ItemName     string
	ItemID       *int64
	Note         string
	Every        Frequency
	StartDate    Date
	EndDate      Date // zero means open-ended
	// LastGenerated is the date of the most recent generated record, zero
	// until the first one.
	LastGenerated Date
}

var ErrInvalidFrequency = errors.New("invalid frequency")

func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// ParseFrequency matches case-insensitively; an empty value is Monthly.
func ParseFrequency(s string) (Frequency, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Monthly, nil
	}
	if f := Frequency(s); f.Valid() {
		return f, nil
	}
	return "", ErrInvalidFrequency
}

func (s Subscription) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if !s.Category.Valid() {
		return ErrInvalidCategory
	}
	if strings.TrimSpace(s.AccountType) == "" {
		return ErrEmptyAccountType
	}
	if err := s.Amount.Validate(); err != nil {
		return err
	}
	if utf8.RuneCountInString(s.Note) > maxNoteRunes {
		return ErrNoteTooLong
	}
	if !s.Every.Valid() {
		return ErrInvalidFrequency
	}
	if err := s.StartDate.Validate(); err != nil {
		return errors.Join(ErrInvalidDate, err)
	}
	if s.EndDate.Valid() && s.EndDate.Before(s.StartDate.Time) {
		return errors.Join(ErrInvalidDate, errors.New("end date must not be before start date"))
	}
	return nil
}

// ActiveOn reports whether d falls inside the subscription's date window.
func (s Subscription) ActiveOn(d Date) bool {
	if !d.Valid() || d.Before(s.StartDate.Time) {
		return false
	}
	return !s.EndDate.Valid() || !d.After(s.EndDate.Time)
}

// Record is the ledger entry the subscription produces on d.
func (s Subscription) Record(d Date) LedgerRecord {
	note := s.Note
	if note == "" {
		note = s.Name
	}
	return LedgerRecord{
		Category:     s.Category,
		AccountType:  s.AccountType,
		Date:         d,
		Amount:       s.Amount,
		Counterparty: s.Counterparty,
		ItemName:     s.ItemName,
		ItemID:       s.ItemID,
		Note:         note,
	}
}

package core

import (
	"errors"
	"testing"
)

func validSubscription() Subscription {
	return Subscription{
		Name:        "Hosting",
		Category:    Expense,
		AccountType: "通信費",
		Amount:      Money{Cents: 1200},
		Every:       Monthly,
		StartDate:   NewDate(2024, 1, 31),
	}
}

func TestParseFrequency(t *testing.T) {
	tests := []struct {
		in   string
		want Frequency
		err  bool
	}{
		{"", Monthly, false},
		{"Weekly", Weekly, false},
		{" yearly ", Yearly, false},
		{"hourly", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFrequency(tt.in)
		if (err != nil) != tt.err || got != tt.want {
			t.Errorf("ParseFrequency(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestSubscriptionValidate(t *testing.T) {
	if err := validSubscription().Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Subscription)
		want   error
	}{
		{"empty name", func(s *Subscription) { s.Name = " " }, ErrEmptyName},
		{"bad category", func(s *Subscription) { s.Category = "Other" }, ErrInvalidCategory},
		{"empty account type", func(s *Subscription) { s.AccountType = "" }, ErrEmptyAccountType},
		{"negative amount", func(s *Subscription) { s.Amount.Cents = -1 }, ErrInvalidAmount},
		{"bad frequency", func(s *Subscription) { s.Every = "hourly" }, ErrInvalidFrequency},
		{"no start date", func(s *Subscription) { s.StartDate = Date{} }, ErrInvalidDate},
		{"end before start", func(s *Subscription) { s.EndDate = NewDate(2023, 12, 31) }, ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSubscription()
			tt.mutate(&s)
			if err := s.Validate(); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
			if !IsValidation(s.Validate()) {
				t.Fatalf("%v should be a validation error", s.Validate())
			}
		})
	}
}

func TestSubscriptionActiveOn(t *testing.T) {
	s := validSubscription()
	s.EndDate = NewDate(2024, 6, 30)

	cases := map[string]bool{
		"2024-01-30": false,
		"2024-01-31": true,
		"2024-06-30": true,
		"2024-07-01": false,
	}
	for d, want := range cases {
		if got := s.ActiveOn(mustDate(t, d)); got != want {
			t.Errorf("ActiveOn(%s) = %v, want %v", d, got, want)
		}
	}
	if s.ActiveOn(Date{}) {
		t.Error("zero date should never be active")
	}
}

func TestSubscriptionRecord(t *testing.T) {
	id := int64(3)
	s := validSubscription()
	s.ItemID = &id
	s.Counterparty = "ISP"

	r := s.Record(NewDate(2024, 2, 29))
	if err := r.Validate(); err != nil {
		t.Fatalf("generated record invalid: %v", err)
	}
	if r.Note != "Hosting" || r.Counterparty != "ISP" || *r.ItemID != 3 || r.Date.String() != "2024-02-29" {
		t.Fatalf("unexpected record %+v", r)
	}
}

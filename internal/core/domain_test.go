package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2024-06-10", "2024-06-10", true},
		{"2024/06/10", "2024-06-10", true},
		{"2024-06-10T09:30:00Z", "2024-06-10", true},
		{" 2024-01-31 ", "2024-01-31", true},
		{"2024-13-01", "", false},
		{"not a date", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		d, err := ParseDate(tc.in)
		if tc.ok {
			if err != nil || d.String() != tc.want {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.want, d, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestDateJSON(t *testing.T) {
	var v struct {
		D Date `json:"d"`
	}
	if err := json.Unmarshal([]byte(`{"d":"2024-02-29"}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.D.String() != "2024-02-29" {
		t.Fatalf("got %s", v.D)
	}
	b, err := json.Marshal(v)
	if err != nil || string(b) != `{"d":"2024-02-29"}` {
		t.Fatalf("marshal: %s %v", b, err)
	}

	// A bad date leaves the value unknown instead of failing the payload.
	if err := json.Unmarshal([]byte(`{"d":"garbage"}`), &v); err != nil {
		t.Fatalf("unmarshal garbage: %v", err)
	}
	if v.D.Valid() {
		t.Fatalf("expected unknown date, got %s", v.D)
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err != nil {
		t.Fatalf("zero must be accepted, got %v", err)
	}
	if err := (Money{Cents: -1}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestParseCategory(t *testing.T) {
	for in, want := range map[string]Category{"income": Income, "EXPENSE": Expense, " Income ": Income} {
		got, err := ParseCategory(in)
		if err != nil || got != want {
			t.Fatalf("%q: got %q err=%v", in, got, err)
		}
	}
	if _, err := ParseCategory("transfer"); !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
}

func TestLedgerRecordValidate(t *testing.T) {
	good := LedgerRecord{
		Category:    Income,
		AccountType: "売上高",
		Date:        NewDate(2025, 1, 1),
		Amount:      Money{Cents: 100},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if good.Signed() != 100 {
		t.Fatalf("income should be positive")
	}
	good.Category = Expense
	if good.Signed() != -100 {
		t.Fatalf("expense should be negative")
	}

	bads := []struct {
		r    LedgerRecord
		want error
	}{
		{LedgerRecord{Category: "Other", AccountType: "a", Date: NewDate(2025, 1, 1)}, ErrInvalidCategory},
		{LedgerRecord{Category: Income, AccountType: " ", Date: NewDate(2025, 1, 1)}, ErrEmptyAccountType},
		{LedgerRecord{Category: Income, AccountType: "a"}, ErrInvalidDate},
		{LedgerRecord{Category: Income, AccountType: "a", Date: NewDate(2025, 1, 1), Amount: Money{Cents: -5}}, ErrInvalidAmount},
	}
	for i, tc := range bads {
		if err := tc.r.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}

	long := good
	long.Note = strings.Repeat("x", 1001)
	if err := long.Validate(); err == nil {
		t.Fatalf("expected error for long note")
	}

	// The limit counts characters, so 1000 multi-byte runes still pass.
	wide := good
	wide.Note = strings.Repeat("あ", 1000)
	if err := wide.Validate(); err != nil {
		t.Fatalf("1000-character note rejected: %v", err)
	}
	wide.Note += "あ"
	if err := wide.Validate(); !errors.Is(err, ErrNoteTooLong) {
		t.Fatalf("1001-character note: got %v", err)
	}
}

func TestBookingValidate(t *testing.T) {
	b := Booking{PatientName: "Sato", AppointmentDate: NewDate(2024, 6, 10), AppointmentTime: "11:00"}
	if err := b.Validate(DefaultTimeSlots); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := b.Validate(nil); err != nil {
		t.Fatalf("empty vocabulary should accept any label, got %v", err)
	}

	off := b
	off.AppointmentTime = "10:30"
	if err := off.Validate(DefaultTimeSlots); !errors.Is(err, ErrInvalidTimeSlot) {
		t.Fatalf("expected ErrInvalidTimeSlot, got %v", err)
	}

	noName := b
	noName.PatientName = ""
	if err := noName.Validate(DefaultTimeSlots); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}

	noDate := b
	noDate.AppointmentDate = Date{}
	if err := noDate.Validate(DefaultTimeSlots); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}

	badStatus := b
	badStatus.Status = "done"
	if err := badStatus.Validate(DefaultTimeSlots); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestBookingStatusOccupies(t *testing.T) {
	if !StatusPending.Occupies() || !StatusConfirmed.Occupies() {
		t.Fatalf("pending and confirmed must occupy")
	}
	if StatusCancelled.Occupies() {
		t.Fatalf("cancelled must not occupy")
	}
}

func TestIsValidation(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{ErrInvalidAmount, true},
		{fmt.Errorf("import record 2: %w", ErrInvalidCategory), true},
		{errors.Join(ErrInvalidDate, errors.New("date cannot be zero")), true},
		{ErrNoteTooLong, true},
		{ErrSlotTaken, false},
		{ErrNotFound, false},
		{errors.New("disk full"), false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := IsValidation(tt.err); got != tt.want {
			t.Errorf("IsValidation(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

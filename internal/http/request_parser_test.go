package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"lexia/internal/core"
)

func TestParseDateRange(t *testing.T) {
	tests := []struct {
		name     string
		query    url.Values
		wantFrom string
		wantTo   string
		wantErr  bool
	}{
		{"empty", url.Values{}, "", "", false},
		{"both", url.Values{"from": {"2024-01-01"}, "to": {"2024-01-31"}}, "2024-01-01", "2024-01-31", false},
		{"from only", url.Values{"from": {"2024/03/01"}}, "2024-03-01", "", false},
		{"malformed", url.Values{"from": {"yesterday"}}, "", "", true},
		{"reversed", url.Values{"from": {"2024-02-01"}, "to": {"2024-01-01"}}, "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng, err := ParseDateRange(tt.query)
			if tt.wantErr {
				if !errors.Is(err, core.ErrInvalidDate) {
					t.Fatalf("expected ErrInvalidDate, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rng.From.String() != tt.wantFrom || rng.To.String() != tt.wantTo {
				t.Errorf("got %q..%q, want %q..%q", rng.From, rng.To, tt.wantFrom, tt.wantTo)
			}
		})
	}
}

func TestParseRefDateAndYear(t *testing.T) {
	now := time.Date(2024, 6, 15, 22, 0, 0, 0, time.UTC)

	d, err := ParseRefDate(url.Values{}, "date", now)
	if err != nil || d.String() != "2024-06-15" {
		t.Fatalf("default ref = %s, %v", d, err)
	}
	d, err = ParseRefDate(url.Values{"date": {"2024-01-02"}}, "date", now)
	if err != nil || d.String() != "2024-01-02" {
		t.Fatalf("explicit ref = %s, %v", d, err)
	}

	for in, want := range map[string]int{"": 2024, "2023": 2023} {
		got, err := ParseYear(url.Values{"year": {in}}, now)
		if err != nil || got != want {
			t.Errorf("ParseYear(%q) = %d, %v", in, got, err)
		}
	}
	if _, err := ParseYear(url.Values{"year": {"twenty"}}, now); err == nil {
		t.Error("expected error for non-numeric year")
	}
}

func TestRecordInput(t *testing.T) {
	tests := []struct {
		name    string
		in      RecordInput
		want    int64
		wantErr error
	}{
		{"numeric amount", RecordInput{Category: "income", AccountType: "売上高", Date: "2024-06-01", Amount: float64(1200)}, 1200, nil},
		{"formatted amount", RecordInput{Category: "Expense", AccountType: "雑費", Date: "2024-06-01", Amount: "¥1,200"}, 1200, nil},
		{"fractional amount", RecordInput{Category: "income", AccountType: "売上高", Date: "2024-06-01", Amount: 12.5}, 0, core.ErrInvalidAmount},
		{"missing amount", RecordInput{Category: "income", AccountType: "売上高", Date: "2024-06-01"}, 0, core.ErrInvalidAmount},
		{"bad category", RecordInput{Category: "refund", Date: "2024-06-01", Amount: "1"}, 0, core.ErrInvalidCategory},
		{"bad date", RecordInput{Category: "income", Date: "June", Amount: "1"}, 0, core.ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := tt.in.Record()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Amount.Cents != tt.want {
				t.Errorf("amount = %d, want %d", rec.Amount.Cents, tt.want)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"status":"confirmed"}`, false},
		{"unknown field", `{"status":"confirmed","x":1}`, true},
		{"trailing data", `{"status":"confirmed"}{}`, true},
		{"not json", `status=confirmed`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var in StatusInput
			err := DecodeJSON(httptest.NewRecorder(), r, &in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeJSON err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := sanitizeInput("  a\x00b\tc\n "); got != "ab\tc" {
		t.Fatalf("sanitizeInput = %q", got)
	}
}

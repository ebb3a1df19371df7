package csvio

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"lexia/internal/core"
)

func TestRead(t *testing.T) {
	in := "\ufeffDate,Category,Account Type,Amount,Counterparty,Item ID,Extra\n" +
		"2024-06-01,income,売上高,\"1,200\",ACME,7,x\n" +
		"\n" +
		"2024/06/02,Expense,通信費,300,,0,y\n"

	recs, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	first := recs[0]
	if first.Category != core.Income || first.Amount.Cents != 1200 || first.Counterparty != "ACME" {
		t.Errorf("first record = %+v", first)
	}
	if first.ItemID == nil || *first.ItemID != 7 {
		t.Errorf("first item id = %v, want 7", first.ItemID)
	}
	if recs[1].ItemID != nil {
		t.Errorf("item id 0 should read as unlinked, got %v", *recs[1].ItemID)
	}
	if recs[1].Date.String() != "2024-06-02" {
		t.Errorf("second date = %s", recs[1].Date)
	}
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		want     error
		wantLine int
	}{
		{"missing column", "date,category,amount\n2024-06-01,income,1\n", ErrMissingColumn, 0},
		{"bad amount", "date,category,account_type,amount\n2024-06-01,income,売上高,1\n2024-06-02,income,売上高,-5\n", core.ErrInvalidAmount, 3},
		{"bad category", "date,category,account_type,amount\n2024-06-01,gift,売上高,1\n", core.ErrInvalidCategory, 2},
		{"bad date", "date,category,account_type,amount\nsoon,income,売上高,1\n", core.ErrInvalidDate, 2},
		{"empty account type", "date,category,account_type,amount\n2024-06-01,income,,1\n", core.ErrEmptyAccountType, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.in))
			if !errors.Is(err, tt.want) {
				t.Fatalf("Read error = %v, want %v", err, tt.want)
			}
			if tt.wantLine == 0 {
				return
			}
			var le *LineError
			if !errors.As(err, &le) || le.Line != tt.wantLine {
				t.Fatalf("expected LineError at line %d, got %v", tt.wantLine, err)
			}
		})
	}
}

func TestRead_Empty(t *testing.T) {
	recs, err := Read(strings.NewReader(""))
	if err != nil || len(recs) != 0 {
		t.Fatalf("Read(empty) = %v, %v", recs, err)
	}
}

func TestWriteThenRead(t *testing.T) {
	id := int64(3)
	recs := []core.LedgerRecord{
		{ID: 1, Category: core.Income, AccountType: "売上高", Date: core.NewDate(2024, 6, 1), Amount: core.Money{Cents: 5000}, ItemID: &id, Note: "a, b"},
		{ID: 2, Category: core.Expense, AccountType: "雑費", Date: core.NewDate(2024, 6, 3), Amount: core.Money{Cents: 120}, ItemName: "Widget"},
	}
	var buf bytes.Buffer
	if err := Write(&buf, recs); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.HasPrefix(buf.String(), strings.Join(Header, ",")+"\n") {
		t.Fatalf("missing header:\n%s", buf.String())
	}

	back, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(back) != 2 || back[0].Note != "a, b" || *back[0].ItemID != 3 || back[1].ItemName != "Widget" {
		t.Fatalf("unexpected records %+v", back)
	}
	if back[0].ID != 0 {
		t.Fatalf("ids should not be imported, got %d", back[0].ID)
	}
}

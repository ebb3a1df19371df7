// Package csvio reads and writes ledger records as CSV.
//
// The header row names the columns, so files exported by spreadsheets with
// reordered or extra columns still import. Recognised names are matched
// case-insensitively with spaces and underscores ignored.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"lexia/internal/core"
)

// Header is the column order written by Write.
var Header = []string{"id", "date", "category", "account_type", "amount", "counterparty", "item", "item_id", "note"}

var aliases = map[string]string{
	"id":           "id",
	"date":         "date",
	"category":     "category",
	"accounttype":  "account_type",
	"account":      "account_type",
	"amount":       "amount",
	"counterparty": "counterparty",
	"item":         "item",
	"itemname":     "item",
	"itemid":       "item_id",
	"note":         "note",
	"notes":        "note",
}

var required = []string{"date", "category", "account_type", "amount"}

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing column")

// LineError locates a rejected row in the input.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }
func (e *LineError) Unwrap() error { return e.Err }

func normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimPrefix(name, "\ufeff")
	name = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(name)
	return aliases[name]
}

// Read parses every row or none: the first bad row aborts with a
// *LineError. IDs in the input are ignored.
func Read(r io.Reader) ([]core.LedgerRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		if col := normalize(h); col != "" {
			if _, dup := idx[col]; !dup {
				idx[col] = i
			}
		}
	}
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	var out []core.LedgerRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &LineError{Line: pe.Line, Err: pe.Err}
			}
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		if blank(row) {
			continue
		}
		rec, err := parseRow(row, idx)
		if err != nil {
			return nil, &LineError{Line: line, Err: err}
		}
		out = append(out, rec)
	}
	return out, nil
}

func blank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func parseRow(row []string, idx map[string]int) (core.LedgerRecord, error) {
	get := func(col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var rec core.LedgerRecord
	var err error
	if rec.Category, err = core.ParseCategory(get("category")); err != nil {
		return rec, err
	}
	if rec.Date, err = core.ParseDate(get("date")); err != nil {
		return rec, err
	}
	cents, err := core.ParseAmount(get("amount"))
	if err != nil {
		return rec, err
	}
	rec.Amount = core.Money{Cents: cents}
	rec.AccountType = get("account_type")
	rec.Counterparty = get("counterparty")
	rec.ItemName = get("item")
	rec.Note = get("note")
	if s := get("item_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id < 0 {
			return rec, fmt.Errorf("invalid item id %q", s)
		}
		if id > 0 {
			rec.ItemID = &id
		}
	}
	return rec, rec.Validate()
}

// Write emits Header followed by one row per record.
func Write(w io.Writer, recs []core.LedgerRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range recs {
		itemID := ""
		if k := core.KeyOf(r); k.Kind == core.LinkedKey {
			itemID = strconv.FormatInt(k.ID, 10)
		}
		row := []string{
			strconv.FormatInt(r.ID, 10),
			r.Date.String(),
			string(r.Category),
			r.AccountType,
			strconv.FormatInt(r.Amount.Cents, 10),
			r.Counterparty,
			r.ItemName,
			itemID,
			r.Note,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

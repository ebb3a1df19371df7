package google

import (
	"fmt"
	"strconv"
	"strings"

	"lexia/internal/core"
)

var columns = []string{"ID", "Date", "Category", "AccountType", "Amount", "Counterparty", "Item", "ItemID", "Note"}

func headerRow() []any {
	out := make([]any, len(columns))
	for i, c := range columns {
		out[i] = c
	}
	return out
}

// recordRow lays a record out in column order. Amounts stay integers so the
// sheet can sum them.
func recordRow(r core.LedgerRecord) []any {
	itemID := ""
	if k := core.KeyOf(r); k.Kind == core.LinkedKey {
		itemID = strconv.FormatInt(k.ID, 10)
	}
	return []any{
		strconv.FormatInt(r.ID, 10),
		r.Date.String(),
		string(r.Category),
		r.AccountType,
		r.Amount.Cents,
		r.Counterparty,
		r.ItemName,
		itemID,
		r.Note,
	}
}

// findRow returns the 1-based row whose first cell is id, or 0.
func findRow(values [][]any, id int64) int {
	want := strconv.FormatInt(id, 10)
	for i, row := range values {
		if len(row) == 0 {
			continue
		}
		if strings.TrimSpace(fmt.Sprint(row[0])) == want {
			return i + 1
		}
	}
	return 0
}

func rowRange(sheet string, row int) string {
	last := string(rune('A' + len(columns) - 1))
	return fmt.Sprintf("%s!A%d:%s%d", sheet, row, last, row)
}

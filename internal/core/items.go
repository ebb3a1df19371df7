package core

import (
	"strconv"
	"strings"
)

type ItemKeyKind int

const (
	NameKey ItemKeyKind = iota
	LinkedKey
)

// ItemKey identifies the item a record belongs to. A linked item id always
// takes precedence over the free-text name.
type ItemKey struct {
	Kind ItemKeyKind
	ID   int64
	Name string
}

// KeyOf returns the grouping key for r. An ItemID of 0 is treated as
// unlinked since that is what forms submit when no item is picked.
func KeyOf(r LedgerRecord) ItemKey {
	if r.ItemID != nil && *r.ItemID != 0 {
		return ItemKey{Kind: LinkedKey, ID: *r.ItemID}
	}
	return ItemKey{Kind: NameKey, Name: strings.TrimSpace(r.ItemName)}
}

func (k ItemKey) String() string {
	if k.Kind == LinkedKey {
		return "item:" + strconv.FormatInt(k.ID, 10)
	}
	return "name:" + k.Name
}

// UniqueItemCounts counts distinct item keys over all records (Total) and
// over income records only (Completed).
func UniqueItemCounts(records []LedgerRecord) ItemCounts {
	all := make(map[ItemKey]struct{})
	done := make(map[ItemKey]struct{})
	for _, r := range records {
		k := KeyOf(r)
		all[k] = struct{}{}
		if r.Category == Income {
			done[k] = struct{}{}
		}
	}
	return ItemCounts{Total: len(all), Completed: len(done)}
}

// CompletionRatio is Completed/Total with an empty ledger yielding 0.
func (c ItemCounts) CompletionRatio() float64 {
	total := c.Total
	if total == 0 {
		total = 1
	}
	return float64(c.Completed) / float64(total)
}

// Package core provides money parsing and handling utilities.
//
// Amounts are whole minor units of whatever currency the ledger is kept in.
// Imports and forms tend to carry thousands separators and a currency
// symbol, so the parser strips those before validating digits.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseAmount converts a user supplied amount to minor units.
//
// It strips a leading currency symbol (¥, ￥, $, €), surrounding whitespace
// and thousands separators. A fractional part is accepted only when it is all
// zeros ("1,200.00"). Negative values are rejected; zero is allowed.
//
// Examples:
//
//	ParseAmount("1000")      -> 1000, nil
//	ParseAmount("¥1,200")    -> 1200, nil
//	ParseAmount("1200.00")   -> 1200, nil
//	ParseAmount("12.5")      -> 0, ErrInvalidAmount
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	for _, sym := range []string{"¥", "￥", "$", "€"} {
		s = strings.TrimPrefix(s, sym)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "_", "")

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) || r > unicode.MaxASCII {
			return 0, ErrInvalidAmount
		}
	}
	if len(parts) == 2 {
		for _, r := range parts[1] {
			if r != '0' {
				return 0, ErrInvalidAmount
			}
		}
	}
	v, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// FormatAmount renders minor units with comma thousands separators.
func FormatAmount(v int64) string {
	neg := v < 0
	u := uint64(v)
	if neg {
		u = -u
	}
	digits := strconv.FormatUint(u, 10)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	pre := len(digits) % 3
	if pre > 0 {
		b.WriteString(digits[:pre])
	}
	for i := pre; i < len(digits); i += 3 {
		if b.Len() > 0 && !(neg && b.Len() == 1) {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// String formats the amount for logs and exports.
func (m Money) String() string {
	return FormatAmount(m.Cents)
}

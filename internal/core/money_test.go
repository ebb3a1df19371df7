package core

import (
	"math"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1000", 1000, true},
		{"0", 0, true},
		{"¥1,200", 1200, true},
		{"￥ 3,000", 3000, true},
		{"$15", 15, true},
		{"1200.00", 1200, true},
		{" 2_500 ", 2500, true},
		{"12.5", 0, false},
		{"-1", 0, false},
		{"+1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{"¥", 0, false},
		{"１２", 0, false}, // full-width digits
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error, got %d", tc.in, got)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	cases := map[int64]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		1234567:  "1,234,567",
		-1200:    "-1,200",
		-999:     "-999",
		100000:   "100,000",
		-1000000: "-1,000,000",
	}
	for in, want := range cases {
		if got := FormatAmount(in); got != want {
			t.Fatalf("FormatAmount(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatAmountExtremes(t *testing.T) {
	if got, want := FormatAmount(math.MinInt64), "-9,223,372,036,854,775,808"; got != want {
		t.Fatalf("min: got %q, want %q", got, want)
	}
	if got, want := FormatAmount(math.MaxInt64), "9,223,372,036,854,775,807"; got != want {
		t.Fatalf("max: got %q, want %q", got, want)
	}
}

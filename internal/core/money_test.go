package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"0", 0, true}, // zero is a valid expense amount
		{".50", 50, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := Money{Cents: 30000}
	b := Money{Cents: 10000}

	if got := a.Sub(b); got.Cents != 20000 {
		t.Fatalf("expected 20000, got %d", got.Cents)
	}
	if got := b.Sub(a); got.Cents != -20000 {
		t.Fatalf("expected -20000 (net loss), got %d", got.Cents)
	}
	if got := a.Add(b); got.Cents != 40000 {
		t.Fatalf("expected 40000, got %d", got.Cents)
	}
	if got := a.Rupees(); got != 300.0 {
		t.Fatalf("expected 300.0, got %v", got)
	}
}

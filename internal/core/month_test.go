package core

import (
	"errors"
	"testing"
)

func TestNormalizeMonth(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"2025-06", "2025-06", true},
		{" 2025-06 ", "2025-06", true},
		{"2025-06-15", "2025-06", true},
		{"2025-06-15T00:00:00Z", "2025-06", true},
		{"2025-06-15 10:30:00", "2025-06", true},
		{"2025/06/15", "2025-06", true},
		{"45809", "2025-06", true}, // sheets serial for 2025-06-01
		{"2025-13", "", false},
		{"2025-00", "", false},
		{"June 2025", "", false},
		{"", "", false},
		{"0", "", false},
	}
	for _, tc := range cases {
		got, err := NormalizeMonth(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("NormalizeMonth(%q) = %q, %v; want %q", tc.in, got, err, tc.out)
			}
		} else {
			if err == nil {
				t.Fatalf("NormalizeMonth(%q) expected error, got %q", tc.in, got)
			}
			if !errors.Is(err, ErrBadMonth) {
				t.Fatalf("NormalizeMonth(%q) error %v is not ErrBadMonth", tc.in, err)
			}
		}
	}
}

func TestValidMonth(t *testing.T) {
	if !ValidMonth("2025-01") {
		t.Error("2025-01 should be valid")
	}
	for _, s := range []string{"2025-1", "2025-13", "202501", "2025-01-01"} {
		if ValidMonth(s) {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func TestOpexHelpers(t *testing.T) {
	if !IsOpex("Opex:R&D") || IsOpex("Revenue") || IsOpex("COGS") {
		t.Fatal("IsOpex misclassified a category")
	}
	if got := OpexSubcategory("Opex:R&D"); got != "R&D" {
		t.Errorf("OpexSubcategory(Opex:R&D) = %q", got)
	}
	// Only the exact prefix is stripped; casing is preserved and significant.
	if got := OpexSubcategory("Opex:r&d"); got != "r&d" {
		t.Errorf("OpexSubcategory(Opex:r&d) = %q", got)
	}
	if got := OpexSubcategory("Opex:Opex:X"); got != "Opex:X" {
		t.Errorf("prefix must be stripped once, got %q", got)
	}
}

package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// sheetsEpoch is day zero of the Excel/Google-Sheets serial date system.
var sheetsEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// monthLayouts are tried in order when a month value is not already in
// canonical YYYY-MM form.
var monthLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
}

// NormalizeMonth converts a raw month cell to the canonical YYYY-MM string.
// Sources store months as strings, full dates, timestamps or spreadsheet
// serial numbers; all tables are normalized through here at load time.
// Returns ErrBadMonth (wrapped with the offending value) for anything else.
func NormalizeMonth(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("%w: empty value", ErrBadMonth)
	}

	if m, ok := canonicalMonth(s); ok {
		return m, nil
	}

	for _, layout := range monthLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01"), nil
		}
	}

	// Spreadsheet serial date (days since 1899-12-30).
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial < 1 || serial > 300000 {
			return "", fmt.Errorf("%w: serial %q out of range", ErrBadMonth, raw)
		}
		t := sheetsEpoch.AddDate(0, 0, int(serial))
		return t.Format("2006-01"), nil
	}

	return "", fmt.Errorf("%w: %q", ErrBadMonth, raw)
}

// ValidMonth reports whether s is already a canonical YYYY-MM string.
func ValidMonth(s string) bool {
	_, ok := canonicalMonth(s)
	return ok
}

func canonicalMonth(s string) (string, bool) {
	if len(s) != 7 || s[4] != '-' {
		return "", false
	}
	year, err := strconv.Atoi(s[:4])
	if err != nil || year < 1000 {
		return "", false
	}
	month, err := strconv.Atoi(s[5:])
	if err != nil || month < 1 || month > 12 {
		return "", false
	}
	return s, true
}

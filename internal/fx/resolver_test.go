package fx

import (
	"testing"

	"fpa/internal/core"
)

func TestRateExactMatch(t *testing.T) {
	rates := []core.FxRate{
		{Month: "2025-05", Currency: "EUR", RateToUSD: 1.08},
		{Month: "2025-06", Currency: "EUR", RateToUSD: 1.10},
		{Month: "2025-06", Currency: "GBP", RateToUSD: 1.27},
	}
	if got := Rate(rates, "2025-06", "EUR"); got != 1.10 {
		t.Errorf("exact match: got %v, want 1.10", got)
	}
}

func TestRateFallsBackToLastListed(t *testing.T) {
	rates := []core.FxRate{
		{Month: "2025-04", Currency: "EUR", RateToUSD: 1.07},
		{Month: "2025-05", Currency: "EUR", RateToUSD: 1.08},
	}
	// No 2025-07 row: the last listed EUR rate wins, regardless of month.
	if got := Rate(rates, "2025-07", "EUR"); got != 1.08 {
		t.Errorf("latest fallback: got %v, want 1.08", got)
	}
}

func TestRateLastOneWinsInTableOrder(t *testing.T) {
	// Table order, not month order, decides the fallback.
	rates := []core.FxRate{
		{Month: "2025-06", Currency: "EUR", RateToUSD: 1.10},
		{Month: "2025-01", Currency: "EUR", RateToUSD: 1.05},
	}
	if got := Rate(rates, "2025-09", "EUR"); got != 1.05 {
		t.Errorf("table-order fallback: got %v, want 1.05", got)
	}
}

func TestRateDefaultsToIdentity(t *testing.T) {
	rates := []core.FxRate{
		{Month: "2025-06", Currency: "EUR", RateToUSD: 1.10},
	}
	if got := Rate(rates, "2025-06", "CHF"); got != 1.0 {
		t.Errorf("unknown currency: got %v, want 1.0", got)
	}
	if got := Rate(nil, "2025-06", "EUR"); got != 1.0 {
		t.Errorf("empty table: got %v, want 1.0", got)
	}
}

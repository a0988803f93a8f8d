package metrics

import (
	"testing"

	"fpa/internal/core"
	"fpa/internal/ledger"
)

func cashSnapshot(balances ...float64) *ledger.Snapshot {
	months := []string{"2025-01", "2025-02", "2025-03", "2025-04", "2025-05", "2025-06"}
	snap := &ledger.Snapshot{}
	for i, b := range balances {
		snap.Cash = append(snap.Cash, core.CashRecord{Month: months[i], CashUSD: b})
	}
	return snap
}

func TestCashRunwayNumeric(t *testing.T) {
	// Deltas over the last 4 months: -100, -100, -100 → avg burn 100.
	got := New(cashSnapshot(1300, 1200, 1100, 1000)).CashRunwayMonths()
	if got.Kind != RunwayNumeric {
		t.Fatalf("kind = %v, want numeric", got.Kind)
	}
	if !almostEqual(got.Months, 10) {
		t.Errorf("months = %v, want 10", got.Months)
	}
}

func TestCashRunwayMixedDeltasUseOnlyBurns(t *testing.T) {
	// Deltas: +100, -200, -100 → burn set {200, 100}, avg 150.
	got := New(cashSnapshot(1000, 1100, 900, 800)).CashRunwayMonths()
	if got.Kind != RunwayNumeric {
		t.Fatalf("kind = %v, want numeric", got.Kind)
	}
	if !almostEqual(got.Months, 800.0/150.0) {
		t.Errorf("months = %v, want %v", got.Months, 800.0/150.0)
	}
}

func TestCashRunwayInsufficientData(t *testing.T) {
	got := New(cashSnapshot(1200, 1100, 1000)).CashRunwayMonths()
	if got.Kind != RunwayUndefined {
		t.Errorf("3 months of data: kind = %v, want undefined", got.Kind)
	}
	if empty := New(&ledger.Snapshot{}).CashRunwayMonths(); empty.Kind != RunwayUndefined {
		t.Errorf("no data: kind = %v, want undefined", empty.Kind)
	}
}

func TestCashRunwayInfiniteWhenCashGrows(t *testing.T) {
	got := New(cashSnapshot(1000, 1000, 1100, 1200)).CashRunwayMonths()
	if got.Kind != RunwayInfinite {
		t.Errorf("kind = %v, want infinite", got.Kind)
	}
}

func TestCashRunwayZeroWhenOutOfCash(t *testing.T) {
	// Still burning, but the balance is already negative.
	got := New(cashSnapshot(300, 200, 100, -50)).CashRunwayMonths()
	if got.Kind != RunwayZero {
		t.Errorf("kind = %v, want zero", got.Kind)
	}
}

func TestCashRunwayUsesLastFourMonthsOnly(t *testing.T) {
	// Early heavy burn is outside the window; last 4 months burn 50/month.
	got := New(cashSnapshot(5000, 1000, 950, 900, 850, 800)).CashRunwayMonths()
	if got.Kind != RunwayNumeric {
		t.Fatalf("kind = %v, want numeric", got.Kind)
	}
	if !almostEqual(got.Months, 16) {
		t.Errorf("months = %v, want 16", got.Months)
	}
}

func TestRunwayKindString(t *testing.T) {
	cases := map[RunwayKind]string{
		RunwayNumeric:   "numeric",
		RunwayInfinite:  "infinite",
		RunwayUndefined: "undefined",
		RunwayZero:      "zero",
	}
	for k, want := range cases {
		if k.String() != want {
			t.Errorf("String(%d) = %q, want %q", int(k), k.String(), want)
		}
	}
}

package storage

import (
	"context"
	"path/filepath"
	"testing"

	"fpa/internal/core"
	"fpa/internal/ledger"
)

func openTestDB(t *testing.T) *SQLiteSource {
	t.Helper()
	src, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { src.Close() })
	return src
}

func TestOpenRunsMigrations(t *testing.T) {
	src := openTestDB(t)

	// A fresh database has all four tables, just empty.
	snap, err := src.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Actuals) != 0 || len(snap.Budget) != 0 || len(snap.Cash) != 0 || len(snap.Fx) != 0 {
		t.Fatalf("fresh database should be empty, got %+v", snap)
	}
}

func TestImportAndLoadRoundTrip(t *testing.T) {
	src := openTestDB(t)
	ctx := context.Background()

	in := &ledger.Snapshot{
		Actuals: []core.Record{
			{Month: "2025-06", Entity: "ParentCo", AccountCategory: "Revenue", Amount: 1000, Currency: "USD"},
			{Month: "2025-06", Entity: "EMEA", AccountCategory: "Opex:R&D", Amount: 50, Currency: "EUR"},
		},
		Budget: []core.Record{
			{Month: "2025-06", Entity: "ParentCo", AccountCategory: "Revenue", Amount: 1050, Currency: "USD"},
		},
		Cash: []core.CashRecord{{Month: "2025-06", CashUSD: 900}},
		Fx: []core.FxRate{
			{Month: "2025-06", Currency: "EUR", RateToUSD: 1.1},
			{Month: "2025-01", Currency: "EUR", RateToUSD: 1.05},
		},
	}
	if err := src.ImportSnapshot(ctx, in); err != nil {
		t.Fatal(err)
	}

	out, err := src.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Actuals) != 2 || len(out.Budget) != 1 || len(out.Cash) != 1 || len(out.Fx) != 2 {
		t.Fatalf("unexpected table sizes after round trip: %+v", out)
	}
	// Insertion order survives, which the fx fallback depends on.
	if out.Fx[0].Month != "2025-06" || out.Fx[1].Month != "2025-01" {
		t.Errorf("fx order not preserved: %+v", out.Fx)
	}

	// Re-import replaces rather than appends.
	if err := src.ImportSnapshot(ctx, in); err != nil {
		t.Fatal(err)
	}
	out, err = src.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Actuals) != 2 {
		t.Errorf("re-import duplicated rows: %d actuals", len(out.Actuals))
	}
}

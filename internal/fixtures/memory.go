package fixtures

import (
	"context"

	"fpa/internal/core"
	"fpa/internal/ledger"
)

// MemorySource serves a pre-built snapshot. Months are normalized at
// construction so it behaves like any other source.
type MemorySource struct {
	snap *ledger.Snapshot
}

// NewMemorySource builds an in-memory source from already-typed tables.
func NewMemorySource(actuals, budget []core.Record, cash []core.CashRecord, rates []core.FxRate) (*MemorySource, error) {
	snap := &ledger.Snapshot{
		Actuals: make([]core.Record, len(actuals)),
		Budget:  make([]core.Record, len(budget)),
		Cash:    make([]core.CashRecord, len(cash)),
		Fx:      make([]core.FxRate, len(rates)),
	}

	for i, r := range actuals {
		m, err := core.NormalizeMonth(r.Month)
		if err != nil {
			return nil, err
		}
		r.Month = m
		snap.Actuals[i] = r
	}
	for i, r := range budget {
		m, err := core.NormalizeMonth(r.Month)
		if err != nil {
			return nil, err
		}
		r.Month = m
		snap.Budget[i] = r
	}
	for i, r := range cash {
		m, err := core.NormalizeMonth(r.Month)
		if err != nil {
			return nil, err
		}
		r.Month = m
		snap.Cash[i] = r
	}
	for i, r := range rates {
		m, err := core.NormalizeMonth(r.Month)
		if err != nil {
			return nil, err
		}
		r.Month = m
		snap.Fx[i] = r
	}

	return &MemorySource{snap: snap}, nil
}

func (s *MemorySource) Name() string {
	return "memory"
}

// Load returns the held snapshot. It is immutable by convention; callers
// never mutate records, so sharing the value is safe.
func (s *MemorySource) Load(ctx context.Context) (*ledger.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.snap, nil
}

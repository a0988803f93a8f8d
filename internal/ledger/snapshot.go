// Package ledger provides read-only, USD-normalizing access to a loaded
// set of actuals, budget, cash and fx tables.
package ledger

import (
	"context"
	"sort"

	"fpa/internal/core"
	"fpa/internal/fx"
)

// Snapshot holds the four tables of one load. It is immutable after
// construction and safe to share across concurrent readers; all
// aggregation happens on read.
type Snapshot struct {
	Actuals []core.Record
	Budget  []core.Record
	Cash    []core.CashRecord
	Fx      []core.FxRate
}

// Source loads a Snapshot from a tabular backend. Load must fail with
// core.ErrMissingFixture (wrapped with the table name) when a required
// table is absent; there are no retries.
type Source interface {
	// Name identifies the source for logging and snapshot caching.
	Name() string
	Load(ctx context.Context) (*Snapshot, error)
}

// Filter selects rows by month, entity and account category. Empty fields
// match everything.
type Filter struct {
	Month    string
	Entity   string
	Category string
}

// Select returns the rows matching the filter, preserving table order.
// The underlying records are never mutated.
func Select(rows []core.Record, f Filter) []core.Record {
	var out []core.Record
	for _, r := range rows {
		if f.Month != "" && r.Month != f.Month {
			continue
		}
		if f.Entity != "" && r.Entity != f.Entity {
			continue
		}
		if f.Category != "" && r.AccountCategory != f.Category {
			continue
		}
		out = append(out, r)
	}
	return out
}

// USD returns the record's amount converted to USD using the snapshot's fx
// table and the record's own month. Rows already in USD pass through.
func (s *Snapshot) USD(r core.Record) float64 {
	if r.Currency == core.CurrencyUSD {
		return r.Amount
	}
	return r.Amount * fx.Rate(s.Fx, r.Month, r.Currency)
}

// ActualMonths returns the distinct months present in actuals, ascending.
func (s *Snapshot) ActualMonths() []string {
	seen := map[string]struct{}{}
	var months []string
	for _, r := range s.Actuals {
		if _, ok := seen[r.Month]; ok {
			continue
		}
		seen[r.Month] = struct{}{}
		months = append(months, r.Month)
	}
	sort.Strings(months)
	return months
}

// LatestActualMonth returns the maximum month present in actuals, or ""
// when there are no actuals.
func (s *Snapshot) LatestActualMonth() string {
	months := s.ActualMonths()
	if len(months) == 0 {
		return ""
	}
	return months[len(months)-1]
}

// CashAscending returns the cash records sorted by month, ascending.
// YYYY-MM strings sort chronologically.
func (s *Snapshot) CashAscending() []core.CashRecord {
	out := append([]core.CashRecord(nil), s.Cash...)
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

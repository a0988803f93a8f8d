// Package metrics implements the five FP&A calculators over a ledger
// snapshot: revenue vs budget, gross-margin trend, opex breakdown, EBITDA
// and cash runway. Every calculator is pure given the snapshot; missing
// rows produce defined degenerate values, never errors.
package metrics

import (
	"fmt"

	"fpa/internal/core"
	"fpa/internal/ledger"
)

// DefaultLookback is the trend window used when the caller does not ask
// for a specific number of months.
const DefaultLookback = 3

type Engine struct {
	snap *ledger.Snapshot
}

func New(snap *ledger.Snapshot) *Engine {
	return &Engine{snap: snap}
}

// RevenueComparison is the result of RevenueVsBudget. Entity is empty for
// a consolidated comparison; Month is the month actually used, after
// defaulting.
type RevenueComparison struct {
	Month       string  `json:"month"`
	Entity      string  `json:"entity,omitempty"`
	ActualUSD   float64 `json:"actual_usd"`
	BudgetUSD   float64 `json:"budget_usd"`
	VarianceUSD float64 `json:"variance_usd"`
}

// RevenueVsBudget compares actual revenue against budget for a month.
//
// An empty month defaults to the latest month present in actuals. An empty
// entity means consolidated: ParentCo + EMEA revenue, each row converted
// to USD independently, for both actuals and budget. A missing Revenue row
// for any (table, month, entity) contributes 0.0. Variance is signed,
// actual minus budget.
func (e *Engine) RevenueVsBudget(month, entity string) RevenueComparison {
	if month == "" {
		month = e.snap.LatestActualMonth()
	}

	var actual, budget float64
	if entity == "" {
		for _, ent := range core.ConsolidatedEntities {
			actual += e.revenueFor(e.snap.Actuals, month, ent)
			budget += e.revenueFor(e.snap.Budget, month, ent)
		}
	} else {
		actual = e.revenueFor(e.snap.Actuals, month, entity)
		budget = e.revenueFor(e.snap.Budget, month, entity)
	}

	return RevenueComparison{
		Month:       month,
		Entity:      entity,
		ActualUSD:   actual,
		BudgetUSD:   budget,
		VarianceUSD: actual - budget,
	}
}

func (e *Engine) revenueFor(rows []core.Record, month, entity string) float64 {
	matches := ledger.Select(rows, ledger.Filter{
		Month:    month,
		Entity:   entity,
		Category: core.CategoryRevenue,
	})
	if len(matches) == 0 {
		return 0.0
	}
	return e.snap.USD(matches[0])
}

// GrossMarginPoint is one month of the gross-margin series. Defined is
// false when consolidated revenue for the month is exactly zero, in which
// case Pct is meaningless.
type GrossMarginPoint struct {
	Month   string  `json:"month"`
	Pct     float64 `json:"gross_margin_pct"`
	Defined bool    `json:"defined"`
}

// GrossMarginSeries returns consolidated GM% for the lookback months
// ending at endMonth, ascending. An empty endMonth defaults to the latest
// actuals month; an endMonth not present in actuals is an error. The
// window is clipped at the earliest available month, so fewer than
// lookback points may come back. A lookback below 1 falls back to
// DefaultLookback.
func (e *Engine) GrossMarginSeries(endMonth string, lookback int) ([]GrossMarginPoint, error) {
	if lookback < 1 {
		lookback = DefaultLookback
	}

	months := e.snap.ActualMonths()
	if len(months) == 0 {
		return nil, nil
	}

	end := len(months) - 1
	if endMonth != "" {
		end = -1
		for i, m := range months {
			if m == endMonth {
				end = i
				break
			}
		}
		if end < 0 {
			return nil, fmt.Errorf("%w: no actuals for %q", core.ErrBadMonth, endMonth)
		}
	}

	start := end - lookback + 1
	if start < 0 {
		start = 0
	}

	series := make([]GrossMarginPoint, 0, end-start+1)
	for _, month := range months[start : end+1] {
		var revenue, cogs float64
		for _, ent := range core.ConsolidatedEntities {
			for _, r := range ledger.Select(e.snap.Actuals, ledger.Filter{Month: month, Entity: ent}) {
				switch r.AccountCategory {
				case core.CategoryRevenue:
					revenue += e.snap.USD(r)
				case core.CategoryCOGS:
					cogs += e.snap.USD(r)
				}
			}
		}

		point := GrossMarginPoint{Month: month}
		if revenue != 0 {
			point.Pct = (revenue - cogs) / revenue * 100
			point.Defined = true
		}
		series = append(series, point)
	}
	return series, nil
}

// OpexBreakdown sums operating expenses for a month by subcategory, in
// USD, consolidated across all entities. Keys are the account categories
// with the fixed "Opex:" prefix stripped and are otherwise exact-string:
// "Opex:R&D" and "Opex:r&d" stay separate. No Opex rows yields an empty
// map, not an error.
func (e *Engine) OpexBreakdown(month string) map[string]float64 {
	breakdown := map[string]float64{}
	for _, r := range ledger.Select(e.snap.Actuals, ledger.Filter{Month: month}) {
		if !core.IsOpex(r.AccountCategory) {
			continue
		}
		breakdown[core.OpexSubcategory(r.AccountCategory)] += e.snap.USD(r)
	}
	return breakdown
}

// EBITDAForMonth returns the consolidated EBITDA proxy for a month:
// Revenue − COGS − total Opex, across all entities, each row converted to
// USD before summation. Not GAAP-exact EBITDA.
func (e *Engine) EBITDAForMonth(month string) float64 {
	var revenue, cogs, opex float64
	for _, r := range ledger.Select(e.snap.Actuals, ledger.Filter{Month: month}) {
		usd := e.snap.USD(r)
		switch {
		case r.AccountCategory == core.CategoryRevenue:
			revenue += usd
		case r.AccountCategory == core.CategoryCOGS:
			cogs += usd
		case core.IsOpex(r.AccountCategory):
			opex += usd
		}
	}
	return revenue - cogs - opex
}

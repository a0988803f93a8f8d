package metrics

import (
	"encoding/json"
	"fmt"
)

// RunwayKind tags the four distinguishable cash-runway outcomes. A tagged
// result keeps the contract explicit instead of overloading IEEE-754
// NaN/Inf sentinels.
type RunwayKind int

const (
	// RunwayNumeric carries a months estimate in Runway.Months.
	RunwayNumeric RunwayKind = iota
	// RunwayInfinite means cash is stable or growing over the window.
	RunwayInfinite
	// RunwayUndefined means fewer than four months of cash history.
	RunwayUndefined
	// RunwayZero means the current cash balance is already at or below 0.
	RunwayZero
)

func (k RunwayKind) String() string {
	switch k {
	case RunwayNumeric:
		return "numeric"
	case RunwayInfinite:
		return "infinite"
	case RunwayUndefined:
		return "undefined"
	case RunwayZero:
		return "zero"
	}
	return fmt.Sprintf("RunwayKind(%d)", int(k))
}

// MarshalJSON encodes the kind as its name so API consumers never see the
// internal enum value.
func (k RunwayKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// Runway is the tagged result of CashRunwayMonths. Months is only
// meaningful when Kind is RunwayNumeric.
type Runway struct {
	Kind   RunwayKind `json:"kind"`
	Months float64    `json:"months,omitempty"`
}

// CashRunwayMonths estimates how many months of operation remain at the
// current average burn rate.
//
// The estimate uses the last 4 monthly balances (sorted ascending by
// month) and their 3 month-over-month deltas. The burn set is the
// magnitudes of the negative deltas; zero or positive deltas are excluded.
// Outcomes: fewer than 4 months → undefined; empty burn set → infinite;
// current cash ≤ 0 → zero regardless of trend; otherwise current cash
// divided by the mean burn.
func (e *Engine) CashRunwayMonths() Runway {
	cash := e.snap.CashAscending()
	if len(cash) < 4 {
		return Runway{Kind: RunwayUndefined}
	}

	recent := cash[len(cash)-4:]
	var burns []float64
	for i := 1; i < len(recent); i++ {
		delta := recent[i].CashUSD - recent[i-1].CashUSD
		if delta < 0 {
			burns = append(burns, -delta)
		}
	}

	if len(burns) == 0 {
		return Runway{Kind: RunwayInfinite}
	}

	var total float64
	for _, b := range burns {
		total += b
	}
	avgBurn := total / float64(len(burns))
	currentCash := recent[len(recent)-1].CashUSD

	if currentCash <= 0 {
		return Runway{Kind: RunwayZero}
	}
	if avgBurn <= 0 {
		// Unreachable given burn-set construction, but kept as a guard.
		return Runway{Kind: RunwayInfinite}
	}
	return Runway{Kind: RunwayNumeric, Months: currentCash / avgBurn}
}

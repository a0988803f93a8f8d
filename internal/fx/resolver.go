// Package fx resolves currency conversion rates to USD.
package fx

import "fpa/internal/core"

// Rate returns the USD conversion rate for a currency in a given month.
//
// Fallback order, first match wins:
//  1. exact (month, currency) row in the table;
//  2. the last listed rate for the currency across all months, in table
//     order, regardless of month;
//  3. 1.0 — treat the amount as already USD.
//
// Absence of data degrades to identity conversion; Rate never fails.
func Rate(rates []core.FxRate, month, currency string) float64 {
	for _, r := range rates {
		if r.Month == month && r.Currency == currency {
			return r.RateToUSD
		}
	}

	rate, found := 0.0, false
	for _, r := range rates {
		if r.Currency == currency {
			rate, found = r.RateToUSD, true
		}
	}
	if found {
		return rate
	}

	return 1.0
}

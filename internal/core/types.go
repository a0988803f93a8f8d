// Package core defines the domain types shared by the ledger, the metric
// engine and the data sources: ledger records, FX rates, cash balances and
// the month-string conventions all tables are normalized to.
package core

import "strings"

// Entity names as they appear in the actuals and budget tables.
const (
	EntityParentCo = "ParentCo"
	EntityEMEA     = "EMEA"
)

// ConsolidatedEntities lists the entities summed when a metric is reported
// consolidated. Each row is converted to USD individually before summation.
var ConsolidatedEntities = []string{EntityParentCo, EntityEMEA}

// Account categories. Operating expenses use the "Opex:" prefix followed by
// a free-form subcategory, e.g. "Opex:R&D".
const (
	CategoryRevenue = "Revenue"
	CategoryCOGS    = "COGS"
	OpexPrefix      = "Opex:"
)

// CurrencyUSD is the reporting currency; rows already in USD are never
// converted.
const CurrencyUSD = "USD"

// Record is a single actuals or budget row. Amount is in the row's native
// currency until explicitly converted. Records are immutable after load.
type Record struct {
	Month           string  `json:"month"` // YYYY-MM
	Entity          string  `json:"entity"`
	AccountCategory string  `json:"account_category"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
}

// FxRate is one row of the fx table. Table order is significant: when no
// rate exists for a record's month, the last listed rate for the currency
// wins.
type FxRate struct {
	Month     string  `json:"month"`
	Currency  string  `json:"currency"`
	RateToUSD float64 `json:"rate_to_usd"`
}

// CashRecord is one row of the cash table, one per month.
type CashRecord struct {
	Month   string  `json:"month"`
	CashUSD float64 `json:"cash_usd"`
}

// IsOpex reports whether an account category is an operating expense.
func IsOpex(category string) bool {
	return strings.HasPrefix(category, OpexPrefix)
}

// OpexSubcategory strips the fixed "Opex:" prefix from a category.
// No other normalization is applied: "Opex:R&D" and "Opex:r&d" yield
// distinct subcategories.
func OpexSubcategory(category string) string {
	return strings.TrimPrefix(category, OpexPrefix)
}

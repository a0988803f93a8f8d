package ledger

import (
	"fmt"
	"strconv"
	"strings"

	"fpa/internal/core"
)

// Table names as required from every source.
const (
	TableActuals = "actuals"
	TableBudget  = "budget"
	TableCash    = "cash"
	TableFx      = "fx"
)

// columns maps a header row to column indexes by normalized name.
type columns map[string]int

func indexColumns(header []string) columns {
	cols := make(columns, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		key = strings.ReplaceAll(key, " ", "_")
		cols[key] = i
	}
	return cols
}

func (c columns) get(table string, names ...string) ([]int, error) {
	idx := make([]int, len(names))
	for i, name := range names {
		pos, ok := c[name]
		if !ok {
			return nil, fmt.Errorf("%s: missing column %q", table, name)
		}
		idx[i] = pos
	}
	return idx, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ParseRecords converts raw actuals/budget rows (header first) into
// Records, normalizing months and parsing amounts. Unknown columns are
// ignored; a missing required column or an unparseable cell is an error.
func ParseRecords(table string, header []string, rows [][]string) ([]core.Record, error) {
	idx, err := indexColumns(header).get(table, "month", "entity", "account_category", "amount", "currency")
	if err != nil {
		return nil, err
	}
	records := make([]core.Record, 0, len(rows))
	for n, row := range rows {
		if isBlank(row) {
			continue
		}
		month, err := core.NormalizeMonth(cell(row, idx[0]))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", table, n+2, err)
		}
		amount, err := strconv.ParseFloat(cell(row, idx[3]), 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad amount %q", table, n+2, cell(row, idx[3]))
		}
		records = append(records, core.Record{
			Month:           month,
			Entity:          cell(row, idx[1]),
			AccountCategory: cell(row, idx[2]),
			Amount:          amount,
			Currency:        cell(row, idx[4]),
		})
	}
	return records, nil
}

// ParseFxRates converts raw fx rows, preserving table order for the
// last-one-wins fallback in the resolver.
func ParseFxRates(table string, header []string, rows [][]string) ([]core.FxRate, error) {
	idx, err := indexColumns(header).get(table, "month", "currency", "rate_to_usd")
	if err != nil {
		return nil, err
	}
	rates := make([]core.FxRate, 0, len(rows))
	for n, row := range rows {
		if isBlank(row) {
			continue
		}
		month, err := core.NormalizeMonth(cell(row, idx[0]))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", table, n+2, err)
		}
		rate, err := strconv.ParseFloat(cell(row, idx[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad rate %q", table, n+2, cell(row, idx[2]))
		}
		rates = append(rates, core.FxRate{Month: month, Currency: cell(row, idx[1]), RateToUSD: rate})
	}
	return rates, nil
}

// ParseCashRecords converts raw cash rows.
func ParseCashRecords(table string, header []string, rows [][]string) ([]core.CashRecord, error) {
	idx, err := indexColumns(header).get(table, "month", "cash_usd")
	if err != nil {
		return nil, err
	}
	records := make([]core.CashRecord, 0, len(rows))
	for n, row := range rows {
		if isBlank(row) {
			continue
		}
		month, err := core.NormalizeMonth(cell(row, idx[0]))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", table, n+2, err)
		}
		cash, err := strconv.ParseFloat(cell(row, idx[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad cash_usd %q", table, n+2, cell(row, idx[1]))
		}
		records = append(records, core.CashRecord{Month: month, CashUSD: cash})
	}
	return records, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Package services wires the intent classifier and the metric engine into
// a question-answering service over a ledger source.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"fpa/internal/cache"
	"fpa/internal/core"
	"fpa/internal/intent"
	"fpa/internal/ledger"
	applog "fpa/internal/log"
	"fpa/internal/metrics"
)

// Answer is the rendered result of one question: the parsed intent, a
// one-line headline and, where the metric is tabular, columns and rows
// for the external presenter.
type Answer struct {
	Intent  intent.Intent `json:"intent"`
	Text    string        `json:"text"`
	Columns []string      `json:"columns,omitempty"`
	Rows    [][]string    `json:"rows,omitempty"`
}

// Copilot answers finance questions against a ledger source. Snapshots
// are memoized per source with a TTL; a cached snapshot is immutable and
// yields the same results as a fresh load.
type Copilot struct {
	source    ledger.Source
	snapshots *cache.LRU[*ledger.Snapshot]
}

const defaultSnapshotCacheSize = 4

// NewCopilot creates a service over the given source. A snapshotTTL of 0
// disables memoization and every question loads the tables fresh. A
// cacheSize of 0 uses the default.
func NewCopilot(source ledger.Source, snapshotTTL time.Duration, cacheSize int) *Copilot {
	c := &Copilot{source: source}
	if snapshotTTL > 0 {
		if cacheSize <= 0 {
			cacheSize = defaultSnapshotCacheSize
		}
		c.snapshots = cache.NewLRU[*ledger.Snapshot](cacheSize, snapshotTTL)
	}
	return c
}

// Answer classifies the question and computes the matching metric.
// Unknown intents and missing required fields produce a defined Answer;
// an error means the data source itself failed.
func (c *Copilot) Answer(ctx context.Context, question string) (Answer, error) {
	in := intent.Parse(question)

	snap, err := c.snapshot(ctx)
	if err != nil {
		return Answer{}, err
	}
	engine := metrics.New(snap)

	start := time.Now()
	var answer Answer
	switch in.Kind {
	case intent.KindRevenueVsBudget:
		answer = renderRevenueVsBudget(engine, in)
	case intent.KindGMTrend:
		answer, err = renderGMTrend(engine, in)
	case intent.KindOpexBreakdown:
		answer = renderOpexBreakdown(engine, in)
	case intent.KindCashRunway:
		answer = renderCashRunway(engine, in)
	default:
		answer = renderUnknown(in)
	}
	if err != nil {
		return Answer{}, err
	}

	fields := applog.NewFields().
		WithQuestion(string(in.Kind), in.Month, in.Lookback).
		WithOperation(applog.OpAnswer).
		WithComponent(applog.ComponentCopilot).
		ToSlice()
	fields = append(fields, applog.FieldDuration, time.Since(start).Milliseconds())
	slog.InfoContext(ctx, "Answered question", fields...)
	return answer, nil
}

// EBITDA exposes the EBITDA proxy for a month. The month must be a known
// YYYY-MM string.
func (c *Copilot) EBITDA(ctx context.Context, month string) (float64, error) {
	if !core.ValidMonth(month) {
		return 0, fmt.Errorf("%w: %q", core.ErrBadMonth, month)
	}
	snap, err := c.snapshot(ctx)
	if err != nil {
		return 0, err
	}
	return metrics.New(snap).EBITDAForMonth(month), nil
}

func (c *Copilot) snapshot(ctx context.Context) (*ledger.Snapshot, error) {
	if c.snapshots == nil {
		return c.source.Load(ctx)
	}

	key := c.source.Name()
	if snap, ok := c.snapshots.Get(key); ok {
		return snap, nil
	}
	snap, err := c.source.Load(ctx)
	if err != nil {
		return nil, err
	}
	c.snapshots.Set(key, snap)
	return snap, nil
}

func renderRevenueVsBudget(engine *metrics.Engine, in intent.Intent) Answer {
	cmp := engine.RevenueVsBudget(in.Month, "")

	scope := "Consolidated"
	if cmp.Entity != "" {
		scope = cmp.Entity
	}
	return Answer{
		Intent: in,
		Text: fmt.Sprintf("%s revenue for %s was %s against a budget of %s (variance %s).",
			scope, cmp.Month, usd(cmp.ActualUSD), usd(cmp.BudgetUSD), usd(cmp.VarianceUSD)),
		Columns: []string{"metric", "usd"},
		Rows: [][]string{
			{"actual", usd(cmp.ActualUSD)},
			{"budget", usd(cmp.BudgetUSD)},
			{"variance", usd(cmp.VarianceUSD)},
		},
	}
}

func renderGMTrend(engine *metrics.Engine, in intent.Intent) (Answer, error) {
	series, err := engine.GrossMarginSeries(in.Month, in.Lookback)
	if err != nil {
		return Answer{}, err
	}
	if len(series) == 0 {
		return Answer{Intent: in, Text: "No actuals available to compute a gross margin trend."}, nil
	}

	rows := make([][]string, len(series))
	for i, p := range series {
		pct := "n/a"
		if p.Defined {
			pct = fmt.Sprintf("%.1f%%", p.Pct)
		}
		rows[i] = []string{p.Month, pct}
	}
	return Answer{
		Intent: in,
		Text: fmt.Sprintf("Gross margin trend for the %d month(s) ending %s.",
			len(series), series[len(series)-1].Month),
		Columns: []string{"month", "gross_margin_pct"},
		Rows:    rows,
	}, nil
}

func renderOpexBreakdown(engine *metrics.Engine, in intent.Intent) Answer {
	if in.Month == "" {
		return Answer{
			Intent: in,
			Text:   `Which month? Ask e.g. "break down opex by category for June 2025".`,
		}
	}

	breakdown := engine.OpexBreakdown(in.Month)
	if len(breakdown) == 0 {
		return Answer{
			Intent: in,
			Text:   fmt.Sprintf("No operating expenses recorded for %s.", in.Month),
		}
	}

	categories := make([]string, 0, len(breakdown))
	for cat := range breakdown {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	var total float64
	rows := make([][]string, len(categories))
	for i, cat := range categories {
		total += breakdown[cat]
		rows[i] = []string{cat, usd(breakdown[cat])}
	}
	return Answer{
		Intent: in,
		Text: fmt.Sprintf("Opex for %s totals %s across %d categories.",
			in.Month, usd(total), len(categories)),
		Columns: []string{"category", "usd"},
		Rows:    rows,
	}
}

func renderCashRunway(engine *metrics.Engine, in intent.Intent) Answer {
	runway := engine.CashRunwayMonths()

	var text string
	switch runway.Kind {
	case metrics.RunwayNumeric:
		text = fmt.Sprintf("Estimated cash runway: %.1f months at the current average burn.", runway.Months)
	case metrics.RunwayInfinite:
		text = "Cash is stable or growing over the recent months; runway is effectively unlimited."
	case metrics.RunwayUndefined:
		text = "Not enough cash history to estimate runway (at least 4 months are needed)."
	case metrics.RunwayZero:
		text = "Cash is already at or below zero; runway is 0 months."
	}
	return Answer{
		Intent:  in,
		Text:    text,
		Columns: []string{"result", "months"},
		Rows:    [][]string{{runway.Kind.String(), fmt.Sprintf("%.2f", runway.Months)}},
	}
}

func renderUnknown(in intent.Intent) Answer {
	return Answer{
		Intent: in,
		Text: "I couldn't match that question to a metric. Try: " +
			`"What was June 2025 revenue vs budget?", ` +
			`"Show gross margin trend for last 3 months", ` +
			`"Break down opex by category for June 2025", ` +
			`or "What is our cash runway?"`,
	}
}

// usd formats an amount for headlines, keeping the sign ahead of the
// dollar symbol.
func usd(v float64) string {
	if v < 0 {
		return fmt.Sprintf("-$%.2f", -v)
	}
	return fmt.Sprintf("$%.2f", v)
}

// Package intent classifies free-text finance questions into structured
// query intents using fixed, deterministic pattern rules. There is no
// learning and no external call: the same question always yields the same
// intent.
package intent

import (
	"regexp"
	"strconv"
	"strings"
)

// Kind is the query category a question resolves to.
type Kind string

const (
	KindRevenueVsBudget Kind = "revenue_vs_budget"
	KindGMTrend         Kind = "gm_trend"
	KindOpexBreakdown   Kind = "opex_breakdown"
	KindCashRunway      Kind = "cash_runway"
	KindUnknown         Kind = "unknown"
)

// Intent is the parsed form of a question. Month is "" and Lookback is 0
// when the question does not mention them. No cross-field validation
// happens here; a month-less opex_breakdown intent is valid and the
// consumer decides what to do with it.
type Intent struct {
	Kind     Kind   `json:"kind"`
	Month    string `json:"month,omitempty"` // YYYY-MM
	Lookback int    `json:"lookback,omitempty"`
}

var (
	numericMonthPattern = regexp.MustCompile(`\b(\d{4})-(\d{2})\b`)
	lookbackPattern     = regexp.MustCompile(`\b(?:last|past)\s+(\d+)\s+months?\b`)
)

// namedMonthPatterns pairs each month-name pattern with its number, in
// calendar order with abbreviations directly after the full name. The
// first match wins, which keeps questions mentioning several month names
// deterministic.
var namedMonthPatterns = buildNamedMonthPatterns()

func buildNamedMonthPatterns() []struct {
	re  *regexp.Regexp
	num string
} {
	names := []struct {
		name string
		num  string
	}{
		{"january", "01"}, {"jan", "01"},
		{"february", "02"}, {"feb", "02"},
		{"march", "03"}, {"mar", "03"},
		{"april", "04"}, {"apr", "04"},
		{"may", "05"},
		{"june", "06"}, {"jun", "06"},
		{"july", "07"}, {"jul", "07"},
		{"august", "08"}, {"aug", "08"},
		{"september", "09"}, {"sep", "09"}, {"sept", "09"},
		{"october", "10"}, {"oct", "10"},
		{"november", "11"}, {"nov", "11"},
		{"december", "12"}, {"dec", "12"},
	}
	patterns := make([]struct {
		re  *regexp.Regexp
		num string
	}, len(names))
	for i, n := range names {
		patterns[i].re = regexp.MustCompile(`\b` + n.name + `\s+(\d{4})\b`)
		patterns[i].num = n.num
	}
	return patterns
}

// kindRules is an explicit ordered list: rule order is business logic, not
// an implementation detail. Categories overlap in keywords ("cash runway
// opex breakdown" is a runway question), so the first matching rule wins.
var kindRules = []struct {
	match func(q string) bool
	kind  Kind
}{
	{
		match: func(q string) bool {
			return strings.Contains(q, "cash runway") || strings.Contains(q, "runway")
		},
		kind: KindCashRunway,
	},
	{
		match: func(q string) bool {
			return strings.Contains(q, "gross margin") ||
				(strings.Contains(q, "gm") && strings.Contains(q, "trend"))
		},
		kind: KindGMTrend,
	},
	{
		match: func(q string) bool {
			return strings.Contains(q, "opex") &&
				(strings.Contains(q, "breakdown") ||
					strings.Contains(q, "by category") ||
					strings.Contains(q, "categories"))
		},
		kind: KindOpexBreakdown,
	},
	{
		match: func(q string) bool {
			return (strings.Contains(q, "revenue") && strings.Contains(q, "budget")) ||
				strings.Contains(q, "vs budget") ||
				strings.Contains(q, "versus budget")
		},
		kind: KindRevenueVsBudget,
	},
}

// Parse classifies a question. Matching is case-insensitive throughout.
func Parse(question string) Intent {
	q := strings.ToLower(question)
	return Intent{
		Kind:     classifyKind(q),
		Month:    extractMonth(q),
		Lookback: extractLookback(q),
	}
}

// extractMonth finds a month mention, in priority order: a literal YYYY-MM
// anywhere in the text, then a month name (full or abbreviated) followed
// by a four-digit year.
func extractMonth(q string) string {
	if m := numericMonthPattern.FindStringSubmatch(q); m != nil {
		return m[1] + "-" + m[2]
	}
	for _, p := range namedMonthPatterns {
		if m := p.re.FindStringSubmatch(q); m != nil {
			return m[1] + "-" + p.num
		}
	}
	return ""
}

// extractLookback finds a "(last|past) N month(s)" window, else 0.
func extractLookback(q string) int {
	m := lookbackPattern.FindStringSubmatch(q)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

func classifyKind(q string) Kind {
	for _, rule := range kindRules {
		if rule.match(q) {
			return rule.kind
		}
	}
	return KindUnknown
}

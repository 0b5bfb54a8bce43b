// Package report derives display-ready aggregates from transaction sets:
// monthly trends, categorical breakdowns, and budget history series. All
// derivations are pure and safe to re-run on every input change.
package report

import (
	"sort"
	"time"

	"github.com/finbrains/finbrains/internal/model"
)

const monthLayout = "2006-01"

// TrendPoint is one month of the spending trend.
type TrendPoint struct {
	Month  string  `json:"month"` // YYYY-MM
	Amount float64 `json:"amount"`
}

// BreakdownItem is one category's share of a month.
type BreakdownItem struct {
	Name    string  `json:"name"`
	Amount  float64 `json:"amount"`
	Percent float64 `json:"percent"`
}

// Breakdown is the per-category split of a single month.
type Breakdown struct {
	Total float64         `json:"total"`
	Items []BreakdownItem `json:"items"`
}

// MonthlyTrend groups transactions by the calendar month of their date and
// sums amounts, ascending by month key. Transactions with unparseable dates
// are excluded silently.
func MonthlyTrend(txns []model.Transaction) []TrendPoint {
	sums := make(map[string]float64)
	for _, t := range txns {
		key, ok := monthKey(t.Date)
		if !ok {
			continue
		}
		sums[key] += t.Amount
	}

	points := make([]TrendPoint, 0, len(sums))
	for month, amount := range sums {
		points = append(points, TrendPoint{Month: month, Amount: amount})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Month < points[j].Month })
	return points
}

// CategoryBreakdown splits one target month's transactions by resolved
// category name. Unresolvable categories fall back to the raw ID and then
// to "Uncategorized". Percent is each item's share of the month total.
func CategoryBreakdown(txns []model.Transaction, month string) Breakdown {
	sums := make(map[string]float64)
	var total float64
	for _, t := range txns {
		key, ok := monthKey(t.Date)
		if !ok || key != month {
			continue
		}
		name := t.ResolveCategoryName()
		sums[name] += t.Amount
		total += t.Amount
	}

	items := make([]BreakdownItem, 0, len(sums))
	for name, amount := range sums {
		item := BreakdownItem{Name: name, Amount: amount}
		if total > 0 {
			item.Percent = amount / total * 100
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Amount != items[j].Amount {
			return items[i].Amount > items[j].Amount
		}
		return items[i].Name < items[j].Name
	})
	return Breakdown{Total: total, Items: items}
}

// TopCategories groups an arbitrary transaction set by resolved category
// name, descending by amount, truncated to n.
func TopCategories(txns []model.Transaction, n int) []BreakdownItem {
	sums := make(map[string]float64)
	for _, t := range txns {
		sums[t.ResolveCategoryName()] += t.Amount
	}

	items := make([]BreakdownItem, 0, len(sums))
	for name, amount := range sums {
		items = append(items, BreakdownItem{Name: name, Amount: amount})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Amount != items[j].Amount {
			return items[i].Amount > items[j].Amount
		}
		return items[i].Name < items[j].Name
	})
	if n >= 0 && len(items) > n {
		items = items[:n]
	}
	return items
}

// NormalizeHistory gives a backend-supplied per-month series a defined
// shape: missing numeric fields stay 0 and months are ordered ascending.
// The input slice is not modified.
func NormalizeHistory(points []model.HistoryPoint) []model.HistoryPoint {
	out := make([]model.HistoryPoint, len(points))
	copy(out, points)
	sort.SliceStable(out, func(i, j int) bool { return out[i].MonthKey < out[j].MonthKey })
	return out
}

// Recent returns the latest n transactions by date, newest first.
// Transactions with unparseable dates sort last.
func Recent(txns []model.Transaction, n int) []model.Transaction {
	out := make([]model.Transaction, len(txns))
	copy(out, txns)
	sort.SliceStable(out, func(i, j int) bool {
		di, iok := parseDay(out[i].Date)
		dj, jok := parseDay(out[j].Date)
		if iok != jok {
			return iok
		}
		return di.After(dj)
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func monthKey(date string) (string, bool) {
	d, ok := parseDay(date)
	if !ok {
		return "", false
	}
	return d.Format(monthLayout), true
}

func parseDay(date string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"} {
		if d, err := time.Parse(layout, date); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

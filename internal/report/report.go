// Package report computes read-only summaries of an expense table.
//
// None of the functions modify the table they are given.
package report

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/jinzhu/now"
	"github.com/shopspring/decimal"

	"expenses/internal/core"
)

// MonthlySeries sums the amounts spent on each day of the given month,
// ordered by day. Months outside 1-12 and months without records yield an
// empty series.
func MonthlySeries(table core.Table, month, year int) []core.DayTotal {
	if month < 1 || month > 12 {
		return []core.DayTotal{}
	}
	ref := now.With(time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC))
	from, to := ref.BeginningOfMonth(), ref.EndOfMonth()

	byDay := map[int]decimal.Decimal{}
	for _, r := range table {
		if r.Date.Before(from) || r.Date.After(to) {
			continue
		}
		byDay[r.Date.Day()] = byDay[r.Date.Day()].Add(r.Amount)
	}

	out := make([]core.DayTotal, 0, len(byDay))
	for day, amount := range byDay {
		out = append(out, core.DayTotal{Day: day, Amount: amount})
	}
	slices.SortFunc(out, func(a, b core.DayTotal) int {
		return cmp.Compare(a.Day, b.Day)
	})
	return out
}

// CategoryTotals sums amounts per category, smallest total first.
// Categories without records are left out.
func CategoryTotals(table core.Table) []core.CategoryTotal {
	byCat := map[string]decimal.Decimal{}
	for _, r := range table {
		byCat[r.Category] = byCat[r.Category].Add(r.Amount)
	}

	out := make([]core.CategoryTotal, 0, len(byCat))
	for cat, amount := range byCat {
		out = append(out, core.CategoryTotal{Category: cat, Amount: amount})
	}
	slices.SortFunc(out, func(a, b core.CategoryTotal) int {
		if c := a.Amount.Cmp(b.Amount); c != 0 {
			return c
		}
		return strings.Compare(a.Category, b.Category)
	})
	return out
}

// CumulativeSeries orders records by date (stable) and returns the running
// total after each one.
func CumulativeSeries(table core.Table) []core.CumulativePoint {
	sorted := table.Clone()
	sorted.SortByDate()

	out := make([]core.CumulativePoint, 0, len(sorted))
	total := decimal.Zero
	for _, r := range sorted {
		total = total.Add(r.Amount)
		out = append(out, core.CumulativePoint{Date: r.Date, Total: total})
	}
	return out
}

// MonthTotal sums a monthly series.
func MonthTotal(series []core.DayTotal) decimal.Decimal {
	total := decimal.Zero
	for _, d := range series {
		total = total.Add(d.Amount)
	}
	return total
}

// CategoriesTotal sums a category breakdown.
func CategoriesTotal(totals []core.CategoryTotal) decimal.Decimal {
	total := decimal.Zero
	for _, c := range totals {
		total = total.Add(c.Amount)
	}
	return total
}

// NoteSuggestions returns the distinct notes already used for category,
// most recent first, that start with prefix (case-insensitive). limit <= 0
// means no limit.
func NoteSuggestions(table core.Table, category, prefix string, limit int) []string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	seen := map[string]struct{}{}
	out := []string{}

	sorted := table.Clone()
	sorted.SortByDate()
	for i := len(sorted) - 1; i >= 0; i-- {
		r := sorted[i]
		note := strings.TrimSpace(r.Notes)
		if r.Category != category || note == "" {
			continue
		}
		if !strings.HasPrefix(strings.ToLower(note), prefix) {
			continue
		}
		if _, ok := seen[note]; ok {
			continue
		}
		seen[note] = struct{}{}
		out = append(out, note)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

package report

import (
	"context"
	"log/slog"

	"dhaba/internal/core"
)

type (
	// CategoryTotal is one bucket of an expense breakdown. Percentage is
	// the bucket's share of the window's total expenses, 0 when the
	// window has no expenses.
	CategoryTotal struct {
		Category   core.ExpenseCategory
		Amount     core.Money
		Percentage float64
	}

	// Breakdown lists every known category, in fixed enumeration order,
	// even when a bucket is empty.
	Breakdown struct {
		Categories    []CategoryTotal
		TotalExpenses core.Money
	}
)

// ExpenseBreakdown aggregates the window's expenses into per-category
// totals and percentages. Like CalculateProfit it degrades to a zeroed
// result (all categories present, all amounts zero) when the record
// source fails.
func (e *Engine) ExpenseBreakdown(ctx context.Context, p Period, custom *Range) (Breakdown, error) {
	window, err := ResolveWindow(e.now(), p, custom)
	if err != nil {
		return Breakdown{}, err
	}

	expenses, err := e.src.FetchExpenses(ctx, window)
	if err != nil {
		slog.ErrorContext(ctx, "Expense breakdown degraded to zero",
			"error", err,
			"period", string(p),
			"window_start", window.Start,
			"window_end", window.End)
		return ReduceBreakdown(window, nil), nil
	}

	return ReduceBreakdown(window, expenses), nil
}

// ReduceBreakdown performs the pure per-category reduction. Expenses with
// an unknown category are counted under "other" so the bucket totals
// always sum to TotalExpenses.
func ReduceBreakdown(window Range, expenses []core.Expense) Breakdown {
	buckets := make(map[core.ExpenseCategory]int64, len(core.Categories()))
	var total int64
	for _, x := range expenses {
		if !window.Contains(x.Date) {
			continue
		}
		cat := x.Category
		if !cat.Valid() {
			cat = core.CategoryOther
		}
		buckets[cat] += x.Amount.Cents
		total += x.Amount.Cents
	}

	b := Breakdown{
		Categories:    make([]CategoryTotal, 0, len(core.Categories())),
		TotalExpenses: core.Money{Cents: total},
	}
	for _, cat := range core.Categories() {
		amount := buckets[cat]
		var pct float64
		if total > 0 {
			pct = float64(amount) / float64(total) * 100
		}
		b.Categories = append(b.Categories, CategoryTotal{
			Category:   cat,
			Amount:     core.Money{Cents: amount},
			Percentage: pct,
		})
	}
	return b
}

package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"dhaba/internal/core"
)

// ProfitData is a windowed financial summary. ProfitMargin is net profit
// as a percentage of revenue, defined as 0 (not undefined) when there is
// no revenue.
type ProfitData struct {
	TotalRevenue  core.Money
	TotalExpenses core.Money
	NetProfit     core.Money
	ProfitMargin  float64
	TotalOrders   int
}

// Engine reduces order and expense records into windowed summaries. It is
// stateless apart from its collaborators; all methods are safe for
// concurrent use.
type Engine struct {
	src RecordSource
	now func() time.Time
}

func NewEngine(src RecordSource) *Engine {
	return &Engine{src: src, now: time.Now}
}

// NewEngineAt builds an engine with a fixed clock. Used by tests and by
// callers that aggregate relative to an instant other than wall time.
func NewEngineAt(src RecordSource, now func() time.Time) *Engine {
	return &Engine{src: src, now: now}
}

// CalculateProfit resolves the period into a window and aggregates it.
// Collaborator failures degrade to an all-zero result rather than
// propagating: the dashboard stays available and the failure is logged.
// Callers that must distinguish zero activity from a failed fetch use
// ProfitForRange instead.
func (e *Engine) CalculateProfit(ctx context.Context, p Period, custom *Range) (ProfitData, error) {
	window, err := ResolveWindow(e.now(), p, custom)
	if err != nil {
		return ProfitData{}, err
	}

	data, err := e.ProfitForRange(ctx, window)
	if err != nil {
		slog.ErrorContext(ctx, "Profit aggregation degraded to zero",
			"error", err,
			"period", string(p),
			"window_start", window.Start,
			"window_end", window.End)
		return ProfitData{}, nil
	}
	return data, nil
}

// ProfitForRange aggregates a concrete window and propagates fetch
// failures. The order and expense fetches run concurrently and are
// joined before reduction; either failure fails the whole aggregation.
func (e *Engine) ProfitForRange(ctx context.Context, window Range) (ProfitData, error) {
	var (
		orders   []core.Order
		expenses []core.Expense
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = e.src.FetchOrders(gctx, window)
		if err != nil {
			return fmt.Errorf("fetch orders: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		expenses, err = e.src.FetchExpenses(gctx, window)
		if err != nil {
			return fmt.Errorf("fetch expenses: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return ProfitData{}, err
	}

	return Reduce(window, orders, expenses), nil
}

// Reduce performs the pure profit reduction over in-memory records.
// Cancelled orders never contribute to revenue; expenses carry no status
// filter. Records outside the window are ignored, so callers may pass
// unrestricted record sets.
func Reduce(window Range, orders []core.Order, expenses []core.Expense) ProfitData {
	var data ProfitData
	for _, o := range orders {
		if o.Status == core.StatusCancelled {
			continue
		}
		if !window.Contains(o.OrderedAt) {
			continue
		}
		data.TotalRevenue.Cents += o.TotalAmount.Cents
		data.TotalOrders++
	}
	for _, x := range expenses {
		if !window.Contains(x.Date) {
			continue
		}
		data.TotalExpenses.Cents += x.Amount.Cents
	}
	data.NetProfit = data.TotalRevenue.Sub(data.TotalExpenses)
	if data.TotalRevenue.Cents > 0 {
		data.ProfitMargin = float64(data.NetProfit.Cents) / float64(data.TotalRevenue.Cents) * 100
	}
	return data
}

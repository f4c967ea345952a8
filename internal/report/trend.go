package report

import (
	"context"
	"log/slog"

	"dhaba/internal/core"
)

// DefaultTrendDays is the trailing window used when a caller does not
// specify one.
const DefaultTrendDays = 7

// DailyPoint is one day of a profit trend series.
type DailyPoint struct {
	Date     string
	Profit   core.Money
	Revenue  core.Money
	Expenses core.Money
}

// DailyTrend returns one point per trailing calendar day, oldest first,
// ending with today. Each day is an independent single-day aggregation
// recomputed from raw records; days run sequentially since data volumes
// are small. A failed day degrades to zero for that day only, leaving the
// rest of the series intact.
func (e *Engine) DailyTrend(ctx context.Context, days int) []DailyPoint {
	if days <= 0 {
		days = DefaultTrendDays
	}

	now := e.now()
	points := make([]DailyPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		window := DayWindow(day)

		data, err := e.ProfitForRange(ctx, window)
		if err != nil {
			slog.ErrorContext(ctx, "Trend day degraded to zero",
				"error", err, "date", core.DateKey(day))
			data = ProfitData{}
		}

		points = append(points, DailyPoint{
			Date:     core.DateKey(day),
			Profit:   data.NetProfit,
			Revenue:  data.TotalRevenue,
			Expenses: data.TotalExpenses,
		})
	}
	return points
}

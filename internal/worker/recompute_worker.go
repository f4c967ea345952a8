package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dhaba/internal/amqp"
	"dhaba/internal/core"
	"dhaba/internal/services"
)

// SummaryExporter pushes a freshly computed summary to an external sink.
// A nil exporter disables export.
type SummaryExporter interface {
	ExportSummary(ctx context.Context, s core.DailySummary) error
}

// RecomputeWorker refreshes cached daily summaries. It is driven three
// ways: AMQP recompute messages from the services, the nightly rollover
// cron, and a startup backfill that recovers from missed messages.
type RecomputeWorker struct {
	summaries *services.SummaryService
	exporter  SummaryExporter
	now       func() time.Time
}

func NewRecomputeWorker(summaries *services.SummaryService, exporter SummaryExporter) *RecomputeWorker {
	return &RecomputeWorker{
		summaries: summaries,
		exporter:  exporter,
		now:       time.Now,
	}
}

// HandleRecomputeMessage processes a single recompute request from AMQP.
func (w *RecomputeWorker) HandleRecomputeMessage(ctx context.Context, msg *amqp.RecomputeMessage) error {
	day, err := time.ParseInLocation("2006-01-02", msg.Date, time.Local)
	if err != nil {
		return fmt.Errorf("parse message date %q: %w", msg.Date, err)
	}

	return w.recomputeDay(ctx, day)
}

// NightlyRollover recomputes yesterday and today. Run just after
// midnight: it finalizes the day that ended and seeds the new one.
func (w *RecomputeWorker) NightlyRollover(ctx context.Context) error {
	now := w.now()
	for _, day := range []time.Time{now.AddDate(0, 0, -1), now} {
		if err := w.recomputeDay(ctx, day); err != nil {
			return fmt.Errorf("nightly rollover for %s: %w", core.DateKey(day), err)
		}
	}
	return nil
}

// Backfill recomputes the trailing days at startup, recovering from
// messages lost while the worker was down. Individual bad days are
// logged and skipped so one failure doesn't block the rest.
func (w *RecomputeWorker) Backfill(ctx context.Context, days int) error {
	if days <= 0 {
		return nil
	}

	now := w.now()
	errorCount := 0
	for i := days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		if err := w.recomputeDay(ctx, day); err != nil {
			slog.ErrorContext(ctx, "Backfill day failed",
				"date", core.DateKey(day), "error", err)
			errorCount++
		}
	}

	slog.InfoContext(ctx, "Backfill completed",
		"days", days, "errors", errorCount)
	if errorCount == days {
		return fmt.Errorf("backfill failed for all %d days", days)
	}
	return nil
}

func (w *RecomputeWorker) recomputeDay(ctx context.Context, day time.Time) error {
	summary, err := w.summaries.ComputeAndStore(ctx, day)
	if err != nil {
		return err
	}

	if w.exporter != nil {
		if err := w.exporter.ExportSummary(ctx, summary); err != nil {
			// The summary itself is stored; export is best effort.
			slog.ErrorContext(ctx, "Failed to export summary",
				"date", summary.Date, "error", err)
		}
	}
	return nil
}

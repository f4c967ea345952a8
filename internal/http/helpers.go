package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"dhaba/internal/report"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// parseWindow reads the period/start/end query parameters. A missing
// period defaults to today; a custom period without both bounds fails
// with ErrInvalidRange.
func parseWindow(r *http.Request) (report.Period, *report.Range, error) {
	q := r.URL.Query()

	period := report.Period(q.Get("period"))
	if period == "" {
		period = report.PeriodToday
	}

	if period != report.PeriodCustom {
		return period, nil, nil
	}

	startStr, endStr := q.Get("start"), q.Get("end")
	if startStr == "" || endStr == "" {
		return period, nil, report.ErrInvalidRange
	}
	start, err := time.ParseInLocation("2006-01-02", startStr, time.Local)
	if err != nil {
		return period, nil, errors.New("invalid start date, expected YYYY-MM-DD")
	}
	end, err := time.ParseInLocation("2006-01-02", endStr, time.Local)
	if err != nil {
		return period, nil, errors.New("invalid end date, expected YYYY-MM-DD")
	}
	return period, &report.Range{Start: start, End: end}, nil
}

package http

import (
	"errors"
	"net/http"
	"strconv"

	"dhaba/internal/report"
)

// GET /api/reports/profit?period=today|week|month|custom&start=&end=
func (s *Server) handleProfit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	period, custom, err := parseWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := s.engine.CalculateProfit(r.Context(), period, custom)
	if err != nil {
		if errors.Is(err, report.ErrInvalidRange) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to calculate profit")
		return
	}

	writeJSON(w, http.StatusOK, toProfitView(data))
}

// GET /api/reports/expense-breakdown?period=...
func (s *Server) handleExpenseBreakdown(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	period, custom, err := parseWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	breakdown, err := s.engine.ExpenseBreakdown(r.Context(), period, custom)
	if err != nil {
		if errors.Is(err, report.ErrInvalidRange) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to build expense breakdown")
		return
	}

	writeJSON(w, http.StatusOK, toBreakdownView(breakdown))
}

// GET /api/reports/trend?days=7
func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 90 {
			writeError(w, http.StatusBadRequest, "days must be a number between 1 and 90")
			return
		}
		days = parsed
	}

	points := s.engine.DailyTrend(r.Context(), days)
	writeJSON(w, http.StatusOK, toTrendView(points))
}

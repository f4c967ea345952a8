package http

import (
	"net/http"
	"strings"
	"time"
)

// GET /api/summaries/{date}, POST /api/summaries/{date}/recompute
func (s *Server) handleSummaries(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/summaries/"), "/")
	parts := strings.Split(rest, "/")

	if len(parts) == 0 || parts[0] == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	date, err := time.ParseInLocation("2006-01-02", parts[0], time.Local)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		summary, err := s.summaries.Get(r.Context(), date)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to get summary")
			return
		}
		if summary == nil {
			writeError(w, http.StatusNotFound, "no summary for date")
			return
		}
		writeJSON(w, http.StatusOK, toSummaryView(*summary))

	case len(parts) == 2 && parts[1] == "recompute" && r.Method == http.MethodPost:
		summary, err := s.summaries.ComputeAndStore(r.Context(), date)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to recompute summary")
			return
		}
		writeJSON(w, http.StatusOK, toSummaryView(summary))

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

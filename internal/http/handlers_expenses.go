package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"dhaba/internal/core"
	"dhaba/internal/report"
	"dhaba/internal/services"
)

type createExpenseRequest struct {
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Date        string `json:"date"` // YYYY-MM-DD, defaults to today
	Description string `json:"description"`
}

// POST /api/expenses, GET /api/expenses?period=...
func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createExpense(w, r)
	case http.MethodGet:
		s.listExpenses(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) createExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid amount %q", req.Amount))
		return
	}

	var date time.Time
	if req.Date != "" {
		date, err = time.ParseInLocation("2006-01-02", req.Date, time.Local)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
	}

	expense, err := s.expenses.Create(r.Context(), services.NewExpense{
		Amount:      core.Money{Cents: cents},
		Category:    core.ExpenseCategory(req.Category),
		Date:        date,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, toExpenseView(expense))
}

func (s *Server) listExpenses(w http.ResponseWriter, r *http.Request) {
	period, custom, err := parseWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	window, err := report.ResolveWindow(time.Now(), period, custom)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	expenses, err := s.records.FetchExpenses(r.Context(), window)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list expenses")
		return
	}

	views := make([]expenseView, 0, len(expenses))
	for _, e := range expenses {
		views = append(views, toExpenseView(e))
	}
	writeJSON(w, http.StatusOK, views)
}

// DELETE /api/expenses/{id}
func (s *Server) handleExpenseByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/expenses/"), "/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	if err := s.expenses.Delete(r.Context(), id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "expense not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete expense")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

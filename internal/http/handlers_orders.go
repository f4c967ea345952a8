package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"dhaba/internal/core"
	"dhaba/internal/services"
)

type createOrderItemRequest struct {
	Name      string `json:"name"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
}

type createOrderRequest struct {
	Items         []createOrderItemRequest `json:"items"`
	Notes         string                   `json:"notes"`
	CustomerName  string                   `json:"customerName"`
	CustomerPhone string                   `json:"customerPhone"`
	PaymentMode   string                   `json:"paymentMode"`
	Channel       string                   `json:"channel"`
}

// POST /api/orders, GET /api/orders?limit=50
func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createOrder(w, r)
	case http.MethodGet:
		s.listOrders(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	items := make([]core.OrderItem, 0, len(req.Items))
	for i, item := range req.Items {
		cents, err := core.ParseDecimalToCents(item.UnitPrice)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("item %d: invalid unit price %q", i, item.UnitPrice))
			return
		}
		items = append(items, core.OrderItem{
			Name:      item.Name,
			UnitPrice: core.Money{Cents: cents},
			Quantity:  item.Quantity,
			Total:     core.Money{Cents: cents * int64(item.Quantity)},
		})
	}

	order, err := s.orders.Create(r.Context(), services.NewOrder{
		Items:         items,
		Notes:         req.Notes,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		PaymentMode:   req.PaymentMode,
		Channel:       core.OrderChannel(req.Channel),
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, toOrderView(order))
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			writeError(w, http.StatusBadRequest, "limit must be a number between 1 and 500")
			return
		}
		limit = parsed
	}

	orders, err := s.orders.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, toOrderView(o))
	}
	writeJSON(w, http.StatusOK, views)
}

// GET /api/orders/{id}, PATCH /api/orders/{id}/status
func (s *Server) handleOrderByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/orders/"), "/")
	parts := strings.Split(rest, "/")

	switch {
	case len(parts) == 1 && parts[0] != "":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		s.getOrder(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "status":
		if r.Method != http.MethodPatch && r.Method != http.MethodPut {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		s.updateOrderStatus(w, r, parts[0])
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request, id string) {
	order, err := s.orders.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get order")
		return
	}
	writeJSON(w, http.StatusOK, toOrderView(order))
}

func (s *Server) updateOrderStatus(w http.ResponseWriter, r *http.Request, id string) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	order, err := s.orders.UpdateStatus(r.Context(), id, core.OrderStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			writeError(w, http.StatusNotFound, "order not found")
		case errors.Is(err, core.ErrInvalidStatus):
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid status %q", req.Status))
		default:
			writeError(w, http.StatusInternalServerError, "failed to update order status")
		}
		return
	}
	writeJSON(w, http.StatusOK, toOrderView(order))
}

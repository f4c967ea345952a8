package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"dhaba/internal/core"
	"dhaba/internal/report"
	"dhaba/internal/services"
)

type memStore struct {
	mu        sync.Mutex
	orders    map[string]core.Order
	expenses  map[string]core.Expense
	summaries map[string]core.DailySummary
	settings  *core.Settings
}

func newMemStore() *memStore {
	return &memStore{
		orders:    make(map[string]core.Order),
		expenses:  make(map[string]core.Expense),
		summaries: make(map[string]core.DailySummary),
	}
}

func (m *memStore) CreateOrder(ctx context.Context, o core.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.ID] = o
	return nil
}

func (m *memStore) GetOrder(ctx context.Context, id string) (*core.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (m *memStore) UpdateOrderStatus(ctx context.Context, id string, status core.OrderStatus) (*core.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	o.Status = status
	m.orders[id] = o
	return &o, nil
}

func (m *memStore) ListOrders(ctx context.Context, limit int) ([]core.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	orders := make([]core.Order, 0, len(m.orders))
	for _, o := range m.orders {
		orders = append(orders, o)
	}
	if limit > 0 && len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}

func (m *memStore) CreateExpense(ctx context.Context, e core.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expenses[e.ID] = e
	return nil
}

func (m *memStore) GetExpense(ctx context.Context, id string) (*core.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.expenses[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (m *memStore) DeleteExpense(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.expenses[id]; !ok {
		return false, nil
	}
	delete(m.expenses, id)
	return true, nil
}

func (m *memStore) GetDailySummary(ctx context.Context, date string) (*core.DailySummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.summaries[date]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memStore) UpsertDailySummary(ctx context.Context, s core.DailySummary) (core.DailySummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.summaries[s.Date]; ok {
		s.ID = existing.ID
		s.CreatedAt = existing.CreatedAt
	}
	m.summaries[s.Date] = s
	return s, nil
}

func (m *memStore) GetSettings(ctx context.Context) (*core.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settings == nil {
		return nil, nil
	}
	s := *m.settings
	return &s, nil
}

func (m *memStore) SaveSettings(ctx context.Context, s core.Settings) (core.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = &s
	return s, nil
}

func (m *memStore) FetchOrders(ctx context.Context, window report.Range) ([]core.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var orders []core.Order
	for _, o := range m.orders {
		if window.Contains(o.OrderedAt) {
			orders = append(orders, o)
		}
	}
	return orders, nil
}

func (m *memStore) FetchExpenses(ctx context.Context, window report.Range) ([]core.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var expenses []core.Expense
	for _, e := range m.expenses {
		if window.Contains(e.Date) {
			expenses = append(expenses, e)
		}
	}
	return expenses, nil
}

func testServer(store *memStore) *Server {
	engine := report.NewEngine(store)
	return NewServer(":0",
		engine,
		store,
		services.NewOrderService(store, nil),
		services.NewExpenseService(store, nil),
		services.NewSummaryService(engine, store),
		services.NewSettingsService(store, core.Settings{
			PricePerPlate: core.Money{Cents: 15000},
			BusinessName:  "Biryani House",
			Currency:      "₹",
			WorkingHours:  core.WorkingHours{Open: "10:00", Close: "22:00"},
		}),
	)
}

func doRequest(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	return rec
}

func TestProfitEndpoint(t *testing.T) {
	store := newMemStore()
	now := time.Now()
	store.orders["o1"] = core.Order{ID: "o1", TotalAmount: core.Money{Cents: 30000}, Status: core.StatusCompleted, OrderedAt: now}
	store.orders["o2"] = core.Order{ID: "o2", TotalAmount: core.Money{Cents: 20000}, Status: core.StatusCancelled, OrderedAt: now}
	store.expenses["e1"] = core.Expense{ID: "e1", Amount: core.Money{Cents: 10000}, Category: core.CategoryFuel, Date: now}
	srv := testServer(store)

	rec := doRequest(t, srv, http.MethodGet, "/api/reports/profit?period=today", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var got profitView
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.TotalRevenue != 300 || got.TotalExpenses != 100 || got.NetProfit != 200 {
		t.Fatalf("unexpected figures %+v", got)
	}
	if got.TotalOrders != 1 {
		t.Fatalf("cancelled order counted: %+v", got)
	}
}

func TestProfitEndpointCustomWithoutRange(t *testing.T) {
	srv := testServer(newMemStore())
	rec := doRequest(t, srv, http.MethodGet, "/api/reports/profit?period=custom", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestProfitEndpointMethodNotAllowed(t *testing.T) {
	srv := testServer(newMemStore())
	rec := doRequest(t, srv, http.MethodPost, "/api/reports/profit", "{}")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestExpenseBreakdownEndpoint(t *testing.T) {
	store := newMemStore()
	now := time.Now()
	store.expenses["e1"] = core.Expense{ID: "e1", Amount: core.Money{Cents: 5000}, Category: core.CategoryFuel, Date: now}
	store.expenses["e2"] = core.Expense{ID: "e2", Amount: core.Money{Cents: 15000}, Category: core.CategoryRent, Date: now}
	srv := testServer(store)

	rec := doRequest(t, srv, http.MethodGet, "/api/reports/expense-breakdown", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var got breakdownView
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got.Breakdown) != len(core.Categories()) {
		t.Fatalf("expected all categories, got %d", len(got.Breakdown))
	}
	if got.TotalExpenses != 200 {
		t.Fatalf("expected total 200, got %v", got.TotalExpenses)
	}
}

func TestTrendEndpoint(t *testing.T) {
	srv := testServer(newMemStore())

	rec := doRequest(t, srv, http.MethodGet, "/api/reports/trend?days=3", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got []trendPointView
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 points, got %d", len(got))
	}
	if got[2].Date != core.DateKey(time.Now()) {
		t.Fatalf("last point must be today, got %s", got[2].Date)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/reports/trend?days=abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestOrderEndpoints(t *testing.T) {
	srv := testServer(newMemStore())

	body := `{"items":[{"name":"Chicken Biryani","unitPrice":"150.00","quantity":2},{"name":"Raita","unitPrice":"20","quantity":1}]}`
	rec := doRequest(t, srv, http.MethodPost, "/api/orders", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created orderView
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.TotalAmount != 320 || created.Quantity != 3 {
		t.Fatalf("derived totals wrong: %+v", created)
	}
	if created.Status != "pending" {
		t.Fatalf("expected pending, got %q", created.Status)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/orders/"+created.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodPatch, "/api/orders/"+created.ID+"/status", `{"status":"completed"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var updated orderView
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if updated.Status != "completed" {
		t.Fatalf("expected completed, got %q", updated.Status)
	}

	rec = doRequest(t, srv, http.MethodPatch, "/api/orders/"+created.ID+"/status", `{"status":"shipped"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad status, got %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/orders/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestOrderCreateRejectsBadPayloads(t *testing.T) {
	srv := testServer(newMemStore())

	cases := []string{
		`not json`,
		`{"items":[]}`,
		`{"items":[{"name":"Biryani","unitPrice":"abc","quantity":1}]}`,
	}
	for i, body := range cases {
		rec := doRequest(t, srv, http.MethodPost, "/api/orders", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("case %d expected 400, got %d", i, rec.Code)
		}
	}
}

func TestExpenseEndpoints(t *testing.T) {
	srv := testServer(newMemStore())

	rec := doRequest(t, srv, http.MethodPost, "/api/expenses", `{"amount":"100.50","category":"fuel","description":"gas cylinder"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created expenseView
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.Amount != 100.50 || created.Category != "fuel" {
		t.Fatalf("unexpected expense %+v", created)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/expenses?period=today", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var listed []expenseView
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 expense, got %d", len(listed))
	}

	rec = doRequest(t, srv, http.MethodPost, "/api/expenses", `{"amount":"10","category":"petrol"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown category, got %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodDelete, "/api/expenses/"+created.ID, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	rec = doRequest(t, srv, http.MethodDelete, "/api/expenses/"+created.ID, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rec.Code)
	}
}

func TestSummaryEndpoints(t *testing.T) {
	store := newMemStore()
	now := time.Now()
	store.orders["o1"] = core.Order{ID: "o1", TotalAmount: core.Money{Cents: 30000}, Status: core.StatusCompleted, OrderedAt: now}
	srv := testServer(store)
	date := core.DateKey(now)

	rec := doRequest(t, srv, http.MethodGet, "/api/summaries/"+date, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before recompute, got %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodPost, fmt.Sprintf("/api/summaries/%s/recompute", date), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var computed summaryView
	if err := json.Unmarshal(rec.Body.Bytes(), &computed); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if computed.TotalRevenue != 300 || computed.TotalOrders != 1 {
		t.Fatalf("unexpected summary %+v", computed)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/summaries/"+date, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 after recompute, got %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/summaries/not-a-date", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad date, got %d", rec.Code)
	}
}

func TestSettingsEndpoints(t *testing.T) {
	srv := testServer(newMemStore())

	rec := doRequest(t, srv, http.MethodGet, "/api/settings", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got settingsView
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.PricePerPlate != 150 || got.BusinessName != "Biryani House" {
		t.Fatalf("expected defaults, got %+v", got)
	}

	rec = doRequest(t, srv, http.MethodPut, "/api/settings", `{"pricePerPlate":"180","workingHours":{"open":"09:00","close":"23:00"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.PricePerPlate != 180 || got.WorkingHours.Open != "09:00" {
		t.Fatalf("patch not applied: %+v", got)
	}
	if got.BusinessName != "Biryani House" {
		t.Fatalf("unpatched fields lost: %+v", got)
	}

	rec = doRequest(t, srv, http.MethodPut, "/api/settings", `{"workingHours":{"open":"9am","close":"23:00"}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad hours, got %d", rec.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv := testServer(newMemStore())
	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doRequest(t, srv, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s expected 200, got %d", path, rec.Code)
		}
	}
}

package services

import (
	"context"
	"sync"
	"time"

	"dhaba/internal/core"
	"dhaba/internal/report"
)

// In-memory doubles for the store and publisher ports.

type memStore struct {
	mu        sync.Mutex
	orders    map[string]core.Order
	expenses  map[string]core.Expense
	summaries map[string]core.DailySummary
	settings  *core.Settings

	err error // when set, every call fails with it
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
	if m.err != nil {
		return m.err
	}
	m.orders[o.ID] = o
	return nil
}

func (m *memStore) GetOrder(ctx context.Context, id string) (*core.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	o, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (m *memStore) UpdateOrderStatus(ctx context.Context, id string, status core.OrderStatus) (*core.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	o, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	m.orders[id] = o
	return &o, nil
}

func (m *memStore) ListOrders(ctx context.Context, limit int) ([]core.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
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
	if m.err != nil {
		return m.err
	}
	m.expenses[e.ID] = e
	return nil
}

func (m *memStore) GetExpense(ctx context.Context, id string) (*core.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	e, ok := m.expenses[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (m *memStore) DeleteExpense(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	if _, ok := m.expenses[id]; !ok {
		return false, nil
	}
	delete(m.expenses, id)
	return true, nil
}

func (m *memStore) GetDailySummary(ctx context.Context, date string) (*core.DailySummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	s, ok := m.summaries[date]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memStore) UpsertDailySummary(ctx context.Context, s core.DailySummary) (core.DailySummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return core.DailySummary{}, m.err
	}
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
	if m.err != nil {
		return nil, m.err
	}
	if m.settings == nil {
		return nil, nil
	}
	s := *m.settings
	return &s, nil
}

func (m *memStore) SaveSettings(ctx context.Context, s core.Settings) (core.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return core.Settings{}, m.err
	}
	m.settings = &s
	return s, nil
}

// FetchOrders/FetchExpenses let the same double back a report.Engine.
func (m *memStore) FetchOrders(ctx context.Context, window report.Range) ([]core.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
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
	if m.err != nil {
		return nil, m.err
	}
	var expenses []core.Expense
	for _, e := range m.expenses {
		if window.Contains(e.Date) {
			expenses = append(expenses, e)
		}
	}
	return expenses, nil
}

type recordedPublish struct {
	date   string
	reason string
}

type fakePublisher struct {
	mu        sync.Mutex
	published []recordedPublish
	err       error
}

func (p *fakePublisher) PublishRecompute(ctx context.Context, date, reason string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, recordedPublish{date: date, reason: reason})
	return nil
}

func (p *fakePublisher) last() (recordedPublish, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.published) == 0 {
		return recordedPublish{}, false
	}
	return p.published[len(p.published)-1], true
}

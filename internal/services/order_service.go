package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"dhaba/internal/amqp"
	"dhaba/internal/core"
)

var ErrNotFound = errors.New("not found")

// OrderService owns the order write path. Every mutation publishes an
// async recompute request for the order's calendar day so the cached
// daily summary catches up.
type OrderService struct {
	store     OrderStore
	publisher Publisher
}

func NewOrderService(store OrderStore, publisher Publisher) *OrderService {
	return &OrderService{store: store, publisher: publisher}
}

// NewOrder is the creation payload. Quantity and total amount are always
// derived server-side from the line items.
type NewOrder struct {
	Items         []core.OrderItem
	Notes         string
	CustomerName  string
	CustomerPhone string
	PaymentMode   string
	Channel       core.OrderChannel
}

// Create stores a new pending order and returns it with derived totals.
func (s *OrderService) Create(ctx context.Context, in NewOrder) (core.Order, error) {
	now := time.Now()
	quantity, total := core.ItemTotal(in.Items)

	channel := in.Channel
	if channel == "" {
		channel = core.ChannelOffline
	}

	o := core.Order{
		ID:            uuid.NewString(),
		Items:         in.Items,
		Quantity:      quantity,
		TotalAmount:   total,
		Status:        core.StatusPending,
		OrderedAt:     now,
		CreatedAt:     now,
		UpdatedAt:     now,
		Notes:         in.Notes,
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		PaymentMode:   in.PaymentMode,
		Channel:       channel,
	}
	if err := o.Validate(); err != nil {
		return core.Order{}, fmt.Errorf("validate order: %w", err)
	}

	if err := s.store.CreateOrder(ctx, o); err != nil {
		return core.Order{}, fmt.Errorf("save order: %w", err)
	}

	s.publishRecompute(ctx, o.OrderedAt, amqp.ReasonOrderCreated)
	return o, nil
}

// UpdateStatus moves an order through its lifecycle. Cancelling (or
// un-cancelling) changes the day's revenue, so a recompute is always
// requested.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status core.OrderStatus) (core.Order, error) {
	if !status.Valid() {
		return core.Order{}, core.ErrInvalidStatus
	}

	o, err := s.store.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return core.Order{}, fmt.Errorf("update order status: %w", err)
	}
	if o == nil {
		return core.Order{}, ErrNotFound
	}

	s.publishRecompute(ctx, o.OrderedAt, amqp.ReasonOrderStatus)
	return *o, nil
}

// Get returns one order or ErrNotFound.
func (s *OrderService) Get(ctx context.Context, id string) (core.Order, error) {
	o, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return core.Order{}, fmt.Errorf("get order: %w", err)
	}
	if o == nil {
		return core.Order{}, ErrNotFound
	}
	return *o, nil
}

// List returns recent orders, newest first, capped at limit.
func (s *OrderService) List(ctx context.Context, limit int) ([]core.Order, error) {
	orders, err := s.store.ListOrders(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (s *OrderService) publishRecompute(ctx context.Context, day time.Time, reason string) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Publisher not available, skipping recompute message",
			"date", core.DateKey(day), "reason", reason)
		return
	}
	if err := s.publisher.PublishRecompute(ctx, core.DateKey(day), reason); err != nil {
		// The order is already saved; the nightly rollover will catch up.
		slog.ErrorContext(ctx, "Failed to publish recompute message",
			"date", core.DateKey(day), "reason", reason, "error", err)
	}
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"dhaba/internal/amqp"
	"dhaba/internal/core"
)

// ExpenseService owns the expense write path and publishes recompute
// requests for the affected calendar day.
type ExpenseService struct {
	store     ExpenseStore
	publisher Publisher
}

func NewExpenseService(store ExpenseStore, publisher Publisher) *ExpenseService {
	return &ExpenseService{store: store, publisher: publisher}
}

// NewExpense is the creation payload. A zero Date means "now".
type NewExpense struct {
	Amount      core.Money
	Category    core.ExpenseCategory
	Date        time.Time
	Description string
}

func (s *ExpenseService) Create(ctx context.Context, in NewExpense) (core.Expense, error) {
	now := time.Now()
	date := in.Date
	if date.IsZero() {
		date = now
	}

	e := core.Expense{
		ID:          uuid.NewString(),
		Amount:      in.Amount,
		Category:    in.Category,
		Date:        date,
		CreatedAt:   now,
		UpdatedAt:   now,
		Description: in.Description,
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("validate expense: %w", err)
	}

	if err := s.store.CreateExpense(ctx, e); err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	s.publishRecompute(ctx, e.Date, amqp.ReasonExpenseCreated)
	return e, nil
}

// Delete removes an expense and requests a recompute of its day.
func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	e, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return fmt.Errorf("get expense: %w", err)
	}
	if e == nil {
		return ErrNotFound
	}

	deleted, err := s.store.DeleteExpense(ctx, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}

	s.publishRecompute(ctx, e.Date, amqp.ReasonExpenseDeleted)
	return nil
}

func (s *ExpenseService) publishRecompute(ctx context.Context, day time.Time, reason string) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Publisher not available, skipping recompute message",
			"date", core.DateKey(day), "reason", reason)
		return
	}
	if err := s.publisher.PublishRecompute(ctx, core.DateKey(day), reason); err != nil {
		slog.ErrorContext(ctx, "Failed to publish recompute message",
			"date", core.DateKey(day), "reason", reason, "error", err)
	}
}

package services

import (
	"context"

	"dhaba/internal/core"
)

// Ports consumed by the service layer. The SQLite repository satisfies
// the store interfaces; the AMQP client satisfies Publisher.
type (
	OrderStore interface {
		CreateOrder(ctx context.Context, o core.Order) error
		GetOrder(ctx context.Context, id string) (*core.Order, error)
		UpdateOrderStatus(ctx context.Context, id string, status core.OrderStatus) (*core.Order, error)
		ListOrders(ctx context.Context, limit int) ([]core.Order, error)
	}

	ExpenseStore interface {
		CreateExpense(ctx context.Context, e core.Expense) error
		GetExpense(ctx context.Context, id string) (*core.Expense, error)
		DeleteExpense(ctx context.Context, id string) (bool, error)
	}

	SummaryStore interface {
		GetDailySummary(ctx context.Context, date string) (*core.DailySummary, error)
		UpsertDailySummary(ctx context.Context, s core.DailySummary) (core.DailySummary, error)
	}

	SettingsStore interface {
		GetSettings(ctx context.Context) (*core.Settings, error)
		SaveSettings(ctx context.Context, s core.Settings) (core.Settings, error)
	}

	// Publisher emits summary-recompute requests. Services treat a nil
	// Publisher as "messaging disabled" and never fail a request over a
	// publish error.
	Publisher interface {
		PublishRecompute(ctx context.Context, date, reason string) error
	}
)

package report

import (
	"context"

	"dhaba/internal/core"
)

// RecordSource is the read-only collaborator the aggregation engine pulls
// order and expense records from. Implementations return complete,
// already-persisted records restricted to the given window; no pagination
// contract is defined beyond an optional result-count cap on listings.
type RecordSource interface {
	FetchOrders(ctx context.Context, window Range) ([]core.Order, error)
	FetchExpenses(ctx context.Context, window Range) ([]core.Expense, error)
}

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"dhaba/internal/core"
	"dhaba/internal/report"

	_ "modernc.org/sqlite"
)

// Repository is the SQLite-backed record store. It owns the full schema:
// orders, order items, expenses, daily summaries and the settings
// singleton row. It implements report.RecordSource for the aggregation
// engine.
type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateOrder inserts the order and its line items in one transaction.
func (r *Repository) CreateOrder(ctx context.Context, o core.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, status, quantity, total_amount_cents, ordered_at,
			created_at, updated_at, notes, customer_name, customer_phone, payment_mode, channel)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, string(o.Status), o.Quantity, o.TotalAmount.Cents, o.OrderedAt.UnixMilli(),
		o.CreatedAt.UnixMilli(), o.UpdatedAt.UnixMilli(), o.Notes,
		o.CustomerName, o.CustomerPhone, o.PaymentMode, string(o.Channel))
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, position, name, unit_price_cents, quantity, total_cents)
			VALUES (?, ?, ?, ?, ?, ?)`,
			o.ID, i, item.Name, item.UnitPrice.Cents, item.Quantity, item.Total.Cents)
		if err != nil {
			return fmt.Errorf("insert order item %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}

	slog.InfoContext(ctx, "Order saved",
		"id", o.ID,
		"items", len(o.Items),
		"total_cents", o.TotalAmount.Cents,
		"channel", string(o.Channel))
	return nil
}

// GetOrder returns the order with its line items, or nil when absent.
func (r *Repository) GetOrder(ctx context.Context, id string) (*core.Order, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, status, quantity, total_amount_cents, ordered_at, created_at,
			updated_at, notes, customer_name, customer_phone, payment_mode, channel
		FROM orders WHERE id = ?`, id)

	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT name, unit_price_cents, quantity, total_cents
		FROM order_items WHERE order_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item core.OrderItem
		if err := rows.Scan(&item.Name, &item.UnitPrice.Cents, &item.Quantity, &item.Total.Cents); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return &o, nil
}

// UpdateOrderStatus sets the status and touches updated_at. Returns the
// updated order so callers know which calendar day to recompute.
func (r *Repository) UpdateOrderStatus(ctx context.Context, id string, status core.OrderStatus) (*core.Order, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UnixMilli(), id)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, nil
	}

	slog.InfoContext(ctx, "Order status updated", "id", id, "status", string(status))
	return r.GetOrder(ctx, id)
}

// ListOrders returns the most recent orders, newest first, capped at
// limit.
func (r *Repository) ListOrders(ctx context.Context, limit int) ([]core.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, status, quantity, total_amount_cents, ordered_at, created_at,
			updated_at, notes, customer_name, customer_phone, payment_mode, channel
		FROM orders ORDER BY ordered_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, err
	}
	return r.attachItems(ctx, orders,
		`SELECT oi.order_id, oi.name, oi.unit_price_cents, oi.quantity, oi.total_cents
		 FROM order_items oi
		 JOIN (SELECT id FROM orders ORDER BY ordered_at DESC LIMIT ?) o ON o.id = oi.order_id
		 ORDER BY oi.order_id, oi.position`, limit)
}

// FetchOrders implements report.RecordSource.
func (r *Repository) FetchOrders(ctx context.Context, window report.Range) ([]core.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, status, quantity, total_amount_cents, ordered_at, created_at,
			updated_at, notes, customer_name, customer_phone, payment_mode, channel
		FROM orders WHERE ordered_at BETWEEN ? AND ?
		ORDER BY ordered_at DESC`,
		window.Start.UnixMilli(), window.End.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("fetch orders: %w", err)
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, err
	}
	return r.attachItems(ctx, orders,
		`SELECT oi.order_id, oi.name, oi.unit_price_cents, oi.quantity, oi.total_cents
		 FROM order_items oi
		 JOIN orders o ON o.id = oi.order_id
		 WHERE o.ordered_at BETWEEN ? AND ?
		 ORDER BY oi.order_id, oi.position`,
		window.Start.UnixMilli(), window.End.UnixMilli())
}

// CreateExpense inserts a new expense record.
func (r *Repository) CreateExpense(ctx context.Context, e core.Expense) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (id, amount_cents, category, spent_at, created_at, updated_at, description)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Amount.Cents, string(e.Category), e.Date.UnixMilli(),
		e.CreatedAt.UnixMilli(), e.UpdatedAt.UnixMilli(), e.Description)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", e.ID,
		"category", string(e.Category),
		"amount_cents", e.Amount.Cents)
	return nil
}

// GetExpense returns the expense or nil when absent.
func (r *Repository) GetExpense(ctx context.Context, id string) (*core.Expense, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, amount_cents, category, spent_at, created_at, updated_at, description
		FROM expenses WHERE id = ?`, id)

	e, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return &e, nil
}

// DeleteExpense removes an expense. Returns false when no row matched.
func (r *Repository) DeleteExpense(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if n > 0 {
		slog.InfoContext(ctx, "Expense deleted", "id", id)
	}
	return n > 0, nil
}

// FetchExpenses implements report.RecordSource.
func (r *Repository) FetchExpenses(ctx context.Context, window report.Range) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, amount_cents, category, spent_at, created_at, updated_at, description
		FROM expenses WHERE spent_at BETWEEN ? AND ?
		ORDER BY spent_at DESC`,
		window.Start.UnixMilli(), window.End.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("fetch expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}

// GetDailySummary returns the stored summary for the date key, or nil
// when no summary exists. It never computes anything.
func (r *Repository) GetDailySummary(ctx context.Context, date string) (*core.DailySummary, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, date, total_orders, revenue_cents, expenses_cents, net_profit_cents, created_at
		FROM daily_summaries WHERE date = ?`, date)

	var (
		s  core.DailySummary
		ct int64
	)
	err := row.Scan(&s.ID, &s.Date, &s.TotalOrders, &s.TotalRevenue.Cents,
		&s.TotalExpenses.Cents, &s.NetProfit.Cents, &ct)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get daily summary: %w", err)
	}
	s.CreatedAt = time.UnixMilli(ct)
	return &s, nil
}

// UpsertDailySummary stores exactly one summary per date key. When a row
// already exists for the date the figures are updated in place, keeping
// the original identifier and creation timestamp; otherwise the given
// summary is inserted as-is.
func (r *Repository) UpsertDailySummary(ctx context.Context, s core.DailySummary) (core.DailySummary, error) {
	existing, err := r.GetDailySummary(ctx, s.Date)
	if err != nil {
		return core.DailySummary{}, err
	}

	if existing != nil {
		_, err := r.db.ExecContext(ctx, `
			UPDATE daily_summaries
			SET total_orders = ?, revenue_cents = ?, expenses_cents = ?, net_profit_cents = ?
			WHERE date = ?`,
			s.TotalOrders, s.TotalRevenue.Cents, s.TotalExpenses.Cents, s.NetProfit.Cents, s.Date)
		if err != nil {
			return core.DailySummary{}, fmt.Errorf("update daily summary: %w", err)
		}
		s.ID = existing.ID
		s.CreatedAt = existing.CreatedAt
		slog.InfoContext(ctx, "Daily summary refreshed", "date", s.Date, "id", s.ID)
		return s, nil
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO daily_summaries (id, date, total_orders, revenue_cents, expenses_cents, net_profit_cents, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Date, s.TotalOrders, s.TotalRevenue.Cents,
		s.TotalExpenses.Cents, s.NetProfit.Cents, s.CreatedAt.UnixMilli())
	if err != nil {
		return core.DailySummary{}, fmt.Errorf("insert daily summary: %w", err)
	}
	slog.InfoContext(ctx, "Daily summary created", "date", s.Date, "id", s.ID)
	return s, nil
}

// GetSettings returns the singleton settings row, or nil when none has
// been written yet.
func (r *Repository) GetSettings(ctx context.Context) (*core.Settings, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, price_per_plate_cents, tax_rate, delivery_charge_cents,
			business_name, business_phone, business_address, currency,
			open_time, close_time, created_at, updated_at
		FROM settings LIMIT 1`)

	var (
		s       core.Settings
		created int64
		updated int64
	)
	err := row.Scan(&s.ID, &s.PricePerPlate.Cents, &s.TaxRate, &s.DeliveryCharge.Cents,
		&s.BusinessName, &s.BusinessPhone, &s.BusinessAddress, &s.Currency,
		&s.WorkingHours.Open, &s.WorkingHours.Close, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	s.CreatedAt = time.UnixMilli(created)
	s.UpdatedAt = time.UnixMilli(updated)
	return &s, nil
}

// SaveSettings upserts the singleton settings row, preserving identifier
// and creation timestamp when a row already exists.
func (r *Repository) SaveSettings(ctx context.Context, s core.Settings) (core.Settings, error) {
	existing, err := r.GetSettings(ctx)
	if err != nil {
		return core.Settings{}, err
	}

	if existing != nil {
		s.ID = existing.ID
		s.CreatedAt = existing.CreatedAt
		_, err := r.db.ExecContext(ctx, `
			UPDATE settings
			SET price_per_plate_cents = ?, tax_rate = ?, delivery_charge_cents = ?,
				business_name = ?, business_phone = ?, business_address = ?,
				currency = ?, open_time = ?, close_time = ?, updated_at = ?
			WHERE id = ?`,
			s.PricePerPlate.Cents, s.TaxRate, s.DeliveryCharge.Cents,
			s.BusinessName, s.BusinessPhone, s.BusinessAddress,
			s.Currency, s.WorkingHours.Open, s.WorkingHours.Close,
			s.UpdatedAt.UnixMilli(), s.ID)
		if err != nil {
			return core.Settings{}, fmt.Errorf("update settings: %w", err)
		}
		return s, nil
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO settings (id, price_per_plate_cents, tax_rate, delivery_charge_cents,
			business_name, business_phone, business_address, currency,
			open_time, close_time, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.PricePerPlate.Cents, s.TaxRate, s.DeliveryCharge.Cents,
		s.BusinessName, s.BusinessPhone, s.BusinessAddress, s.Currency,
		s.WorkingHours.Open, s.WorkingHours.Close,
		s.CreatedAt.UnixMilli(), s.UpdatedAt.UnixMilli())
	if err != nil {
		return core.Settings{}, fmt.Errorf("insert settings: %w", err)
	}
	slog.InfoContext(ctx, "Settings created", "id", s.ID)
	return s, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (core.Order, error) {
	var (
		o                           core.Order
		status, channel             string
		orderedAt, created, updated int64
	)
	err := row.Scan(&o.ID, &status, &o.Quantity, &o.TotalAmount.Cents, &orderedAt,
		&created, &updated, &o.Notes, &o.CustomerName, &o.CustomerPhone,
		&o.PaymentMode, &channel)
	if err != nil {
		return core.Order{}, err
	}
	o.Status = core.OrderStatus(status)
	o.Channel = core.OrderChannel(channel)
	o.OrderedAt = time.UnixMilli(orderedAt)
	o.CreatedAt = time.UnixMilli(created)
	o.UpdatedAt = time.UnixMilli(updated)
	return o, nil
}

func scanExpense(row rowScanner) (core.Expense, error) {
	var (
		e                         core.Expense
		category                  string
		spentAt, created, updated int64
	)
	err := row.Scan(&e.ID, &e.Amount.Cents, &category, &spentAt, &created, &updated, &e.Description)
	if err != nil {
		return core.Expense{}, err
	}
	e.Category = core.ExpenseCategory(category)
	e.Date = time.UnixMilli(spentAt)
	e.CreatedAt = time.UnixMilli(created)
	e.UpdatedAt = time.UnixMilli(updated)
	return e, nil
}

func collectOrders(rows *sql.Rows) ([]core.Order, error) {
	var orders []core.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

// attachItems loads line items for the given orders with a single query
// and distributes them by order ID.
func (r *Repository) attachItems(ctx context.Context, orders []core.Order, query string, args ...any) ([]core.Order, error) {
	if len(orders) == 0 {
		return orders, nil
	}

	byID := make(map[string]int, len(orders))
	for i, o := range orders {
		byID[o.ID] = i
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID string
			item    core.OrderItem
		)
		if err := rows.Scan(&orderID, &item.Name, &item.UnitPrice.Cents, &item.Quantity, &item.Total.Cents); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		if i, ok := byID[orderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}
	return orders, nil
}

package core

import (
	"errors"
	"strings"
	"time"
)

const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

const (
	ChannelOnline  OrderChannel = "online"
	ChannelOffline OrderChannel = "offline"
)

const (
	CategoryIngredients ExpenseCategory = "ingredients"
	CategoryFuel        ExpenseCategory = "fuel"
	CategoryPackaging   ExpenseCategory = "packaging"
	CategoryUtilities   ExpenseCategory = "utilities"
	CategoryLabor       ExpenseCategory = "labor"
	CategoryRent        ExpenseCategory = "rent"
	CategoryOther       ExpenseCategory = "other"
)

type (
	OrderStatus     string
	OrderChannel    string
	ExpenseCategory string

	Money struct {
		Cents int64
	}

	OrderItem struct {
		Name      string
		UnitPrice Money
		Quantity  int
		Total     Money
	}

	Order struct {
		ID            string
		Items         []OrderItem
		Quantity      int
		TotalAmount   Money
		Status        OrderStatus
		OrderedAt     time.Time
		CreatedAt     time.Time
		UpdatedAt     time.Time
		Notes         string
		CustomerName  string
		CustomerPhone string
		PaymentMode   string
		Channel       OrderChannel
	}

	Expense struct {
		ID          string
		Amount      Money
		Category    ExpenseCategory
		Date        time.Time
		CreatedAt   time.Time
		UpdatedAt   time.Time
		Description string
	}

	// DailySummary is a precomputed financial snapshot for exactly one
	// calendar day, keyed by the YYYY-MM-DD date string.
	DailySummary struct {
		ID            string
		Date          string
		TotalOrders   int
		TotalRevenue  Money
		TotalExpenses Money
		NetProfit     Money
		CreatedAt     time.Time
	}

	WorkingHours struct {
		Open  string
		Close string
	}

	// Settings is the singleton business configuration. At most one
	// instance exists; defaults are applied at the service boundary.
	Settings struct {
		ID              string
		PricePerPlate   Money
		TaxRate         float64
		DeliveryCharge  Money
		BusinessName    string
		BusinessPhone   string
		BusinessAddress string
		Currency        string
		WorkingHours    WorkingHours
		CreatedAt       time.Time
		UpdatedAt       time.Time
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidStatus   = errors.New("invalid order status")
	ErrInvalidCategory = errors.New("invalid expense category")
	ErrNoItems         = errors.New("order has no items")
	ErrItemTotals      = errors.New("order total does not match item totals")
	ErrEmptyItemName   = errors.New("empty item name")
	ErrZeroDate        = errors.New("date cannot be zero")
)

// Categories returns all expense categories in their fixed enumeration
// order. Breakdown output follows this order, never insertion order.
func Categories() []ExpenseCategory {
	return []ExpenseCategory{
		CategoryIngredients,
		CategoryFuel,
		CategoryPackaging,
		CategoryUtilities,
		CategoryLabor,
		CategoryRent,
		CategoryOther,
	}
}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (c ExpenseCategory) Valid() bool {
	switch c {
	case CategoryIngredients, CategoryFuel, CategoryPackaging,
		CategoryUtilities, CategoryLabor, CategoryRent, CategoryOther:
		return true
	}
	return false
}

func (ch OrderChannel) Valid() bool {
	return ch == ChannelOnline || ch == ChannelOffline
}

func (i OrderItem) Validate() error {
	if len(strings.TrimSpace(i.Name)) == 0 {
		return ErrEmptyItemName
	}
	if i.Quantity <= 0 {
		return errors.New("item quantity must be positive")
	}
	if i.UnitPrice.Cents < 0 || i.Total.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (o Order) Validate() error {
	if len(o.Items) == 0 {
		return ErrNoItems
	}
	if !o.Status.Valid() {
		return ErrInvalidStatus
	}
	if o.Channel != "" && !o.Channel.Valid() {
		return errors.New("invalid order channel")
	}
	if o.OrderedAt.IsZero() {
		return ErrZeroDate
	}
	var sum int64
	for _, item := range o.Items {
		if err := item.Validate(); err != nil {
			return err
		}
		sum += item.Total.Cents
	}
	if sum != o.TotalAmount.Cents {
		return ErrItemTotals
	}
	return nil
}

func (e Expense) Validate() error {
	if e.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if !e.Category.Valid() {
		return ErrInvalidCategory
	}
	if e.Date.IsZero() {
		return ErrZeroDate
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

// ItemTotal derives an order's aggregate quantity and total amount from
// its line items. Creation paths always recompute these server-side.
func ItemTotal(items []OrderItem) (quantity int, total Money) {
	for _, item := range items {
		quantity += item.Quantity
		total.Cents += item.Total.Cents
	}
	return quantity, total
}

// DateKey formats t as the YYYY-MM-DD key used for daily summaries.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

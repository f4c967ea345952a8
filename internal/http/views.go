package http

import (
	"dhaba/internal/core"
	"dhaba/internal/report"
)

// JSON views. Amounts cross the API boundary as rupee floats; paise stay
// an internal representation.

type profitView struct {
	TotalRevenue  float64 `json:"totalRevenue"`
	TotalExpenses float64 `json:"totalExpenses"`
	NetProfit     float64 `json:"netProfit"`
	ProfitMargin  float64 `json:"profitMargin"`
	TotalOrders   int     `json:"totalOrders"`
}

func toProfitView(d report.ProfitData) profitView {
	return profitView{
		TotalRevenue:  d.TotalRevenue.Rupees(),
		TotalExpenses: d.TotalExpenses.Rupees(),
		NetProfit:     d.NetProfit.Rupees(),
		ProfitMargin:  d.ProfitMargin,
		TotalOrders:   d.TotalOrders,
	}
}

type categoryTotalView struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

type breakdownView struct {
	Breakdown     []categoryTotalView `json:"breakdown"`
	TotalExpenses float64             `json:"totalExpenses"`
}

func toBreakdownView(b report.Breakdown) breakdownView {
	v := breakdownView{
		Breakdown:     make([]categoryTotalView, 0, len(b.Categories)),
		TotalExpenses: b.TotalExpenses.Rupees(),
	}
	for _, c := range b.Categories {
		v.Breakdown = append(v.Breakdown, categoryTotalView{
			Category:   string(c.Category),
			Amount:     c.Amount.Rupees(),
			Percentage: c.Percentage,
		})
	}
	return v
}

type trendPointView struct {
	Date     string  `json:"date"`
	Profit   float64 `json:"profit"`
	Revenue  float64 `json:"revenue"`
	Expenses float64 `json:"expenses"`
}

func toTrendView(points []report.DailyPoint) []trendPointView {
	views := make([]trendPointView, 0, len(points))
	for _, p := range points {
		views = append(views, trendPointView{
			Date:     p.Date,
			Profit:   p.Profit.Rupees(),
			Revenue:  p.Revenue.Rupees(),
			Expenses: p.Expenses.Rupees(),
		})
	}
	return views
}

type orderItemView struct {
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	Total     float64 `json:"total"`
}

type orderView struct {
	ID            string          `json:"id"`
	Items         []orderItemView `json:"items"`
	Quantity      int             `json:"quantity"`
	TotalAmount   float64         `json:"totalAmount"`
	Status        string          `json:"status"`
	OrderedAt     string          `json:"orderedAt"`
	CreatedAt     string          `json:"createdAt"`
	UpdatedAt     string          `json:"updatedAt"`
	Notes         string          `json:"notes,omitempty"`
	CustomerName  string          `json:"customerName,omitempty"`
	CustomerPhone string          `json:"customerPhone,omitempty"`
	PaymentMode   string          `json:"paymentMode,omitempty"`
	Channel       string          `json:"channel"`
}

func toOrderView(o core.Order) orderView {
	items := make([]orderItemView, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, orderItemView{
			Name:      item.Name,
			UnitPrice: item.UnitPrice.Rupees(),
			Quantity:  item.Quantity,
			Total:     item.Total.Rupees(),
		})
	}
	return orderView{
		ID:            o.ID,
		Items:         items,
		Quantity:      o.Quantity,
		TotalAmount:   o.TotalAmount.Rupees(),
		Status:        string(o.Status),
		OrderedAt:     o.OrderedAt.Format(timeFormat),
		CreatedAt:     o.CreatedAt.Format(timeFormat),
		UpdatedAt:     o.UpdatedAt.Format(timeFormat),
		Notes:         o.Notes,
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		PaymentMode:   o.PaymentMode,
		Channel:       string(o.Channel),
	}
}

type expenseView struct {
	ID          string  `json:"id"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
	CreatedAt   string  `json:"createdAt"`
	Description string  `json:"description,omitempty"`
}

func toExpenseView(e core.Expense) expenseView {
	return expenseView{
		ID:          e.ID,
		Amount:      e.Amount.Rupees(),
		Category:    string(e.Category),
		Date:        e.Date.Format(timeFormat),
		CreatedAt:   e.CreatedAt.Format(timeFormat),
		Description: e.Description,
	}
}

type summaryView struct {
	ID            string  `json:"id"`
	Date          string  `json:"date"`
	TotalOrders   int     `json:"totalOrders"`
	TotalRevenue  float64 `json:"totalRevenue"`
	TotalExpenses float64 `json:"totalExpenses"`
	NetProfit     float64 `json:"netProfit"`
	CreatedAt     string  `json:"createdAt"`
}

func toSummaryView(s core.DailySummary) summaryView {
	return summaryView{
		ID:            s.ID,
		Date:          s.Date,
		TotalOrders:   s.TotalOrders,
		TotalRevenue:  s.TotalRevenue.Rupees(),
		TotalExpenses: s.TotalExpenses.Rupees(),
		NetProfit:     s.NetProfit.Rupees(),
		CreatedAt:     s.CreatedAt.Format(timeFormat),
	}
}

type workingHoursView struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

type settingsView struct {
	PricePerPlate   float64          `json:"pricePerPlate"`
	TaxRate         float64          `json:"taxRate"`
	DeliveryCharge  float64          `json:"deliveryCharge"`
	BusinessName    string           `json:"businessName"`
	BusinessPhone   string           `json:"businessPhone,omitempty"`
	BusinessAddress string           `json:"businessAddress,omitempty"`
	Currency        string           `json:"currency"`
	WorkingHours    workingHoursView `json:"workingHours"`
}

func toSettingsView(s core.Settings) settingsView {
	return settingsView{
		PricePerPlate:   s.PricePerPlate.Rupees(),
		TaxRate:         s.TaxRate,
		DeliveryCharge:  s.DeliveryCharge.Rupees(),
		BusinessName:    s.BusinessName,
		BusinessPhone:   s.BusinessPhone,
		BusinessAddress: s.BusinessAddress,
		Currency:        s.Currency,
		WorkingHours: workingHoursView{
			Open:  s.WorkingHours.Open,
			Close: s.WorkingHours.Close,
		},
	}
}

const timeFormat = "2006-01-02T15:04:05.000Z07:00"

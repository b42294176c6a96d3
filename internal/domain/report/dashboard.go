package report

import (
	"github.com/preorder/backoffice/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// Dashboard is the headline figures shown on the back-office home page
type Dashboard struct {
	TotalSales      decimal.Decimal `json:"total_sales"`
	TotalOrders     int             `json:"total_orders"`
	PendingOrders   int             `json:"pending_orders"`
	CompletedOrders int             `json:"completed_orders"`
	ProductCount    int64           `json:"product_count"`
	StockEntryCount int64           `json:"stock_entry_count"`
	TotalExpenses   decimal.Decimal `json:"total_expenses"`
	NetIncome       decimal.Decimal `json:"net_income"`
}

// DashboardCounts carries figures that are counted in the store rather than
// derived from orders
type DashboardCounts struct {
	ProductCount    int64
	StockEntryCount int64
	TotalExpenses   decimal.Decimal
}

// BuildDashboard computes sales over PAID orders, counts every order, counts
// not-yet-paid orders as pending and SHIPPED orders as completed.
func BuildDashboard(orders []trade.Order, counts DashboardCounts) Dashboard {
	d := Dashboard{
		TotalSales:      decimal.Zero,
		TotalOrders:     len(orders),
		ProductCount:    counts.ProductCount,
		StockEntryCount: counts.StockEntryCount,
		TotalExpenses:   counts.TotalExpenses,
	}
	for i := range orders {
		o := &orders[i]
		if o.PaymentStatus == trade.PaymentStatusPaid {
			d.TotalSales = d.TotalSales.Add(o.TotalAmount)
		} else {
			d.PendingOrders++
		}
		if o.ShippingStatus == trade.ShippingStatusShipped {
			d.CompletedOrders++
		}
	}
	d.NetIncome = d.TotalSales.Sub(d.TotalExpenses)
	return d
}

package report

import (
	"github.com/google/uuid"
	"github.com/preorder/backoffice/internal/domain/catalog"
	"github.com/preorder/backoffice/internal/domain/trade"
)

// ProductionRow compares open demand for a product with its current stock
type ProductionRow struct {
	ProductID    uuid.UUID `json:"product_id"`
	Name         string    `json:"name"`
	TotalOrdered int       `json:"total_ordered"`
	CurrentStock int       `json:"current_stock"`
	ToProduce    int       `json:"to_produce"`
}

// BuildProductionPlan returns one row per product in the given order.
// Demand counts items of orders that are PAID and not yet SHIPPED. Rows with
// neither demand nor stock are left out; negative stock is kept.
func BuildProductionPlan(products []catalog.Product, orders []trade.Order, stock map[uuid.UUID]int) []ProductionRow {
	demand := make(map[uuid.UUID]int)
	for i := range orders {
		o := &orders[i]
		if o.PaymentStatus != trade.PaymentStatusPaid || o.ShippingStatus == trade.ShippingStatusShipped {
			continue
		}
		for _, item := range o.Items {
			if item.ProductID != nil {
				demand[*item.ProductID] += item.Quantity
			}
		}
	}

	rows := make([]ProductionRow, 0, len(products))
	for i := range products {
		p := &products[i]
		ordered := demand[p.ID]
		current := stock[p.ID]
		if ordered == 0 && current == 0 {
			continue
		}
		rows = append(rows, ProductionRow{
			ProductID:    p.ID,
			Name:         p.Name,
			TotalOrdered: ordered,
			CurrentStock: current,
			ToProduce:    ToProduce(ordered, current),
		})
	}
	return rows
}

// ToProduce is the shortfall between demand and stock, never below zero
func ToProduce(ordered, stock int) int {
	if deficit := ordered - stock; deficit > 0 {
		return deficit
	}
	return 0
}

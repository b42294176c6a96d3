package report

import (
	"sort"

	"github.com/google/uuid"
	"github.com/preorder/backoffice/internal/domain/trade"
)

// DefaultTopN is the size of the dashboard ranking
const DefaultTopN = 10

// ProductQuantity is a per-product quantity total
type ProductQuantity struct {
	Rank      int        `json:"rank,omitempty"`
	Key       string     `json:"key"`
	ProductID *uuid.UUID `json:"product_id,omitempty"`
	Name      string     `json:"name"`
	Quantity  int        `json:"quantity"`
	Missing   bool       `json:"missing"`
}

// SummarizeItems groups the items of the given orders by product and sums
// quantities. Groups appear in the order their product was first met.
func SummarizeItems(orders []trade.Order, names ProductNames) []ProductQuantity {
	index := make(map[string]int)
	summary := make([]ProductQuantity, 0)
	for i := range orders {
		for _, item := range orders[i].Items {
			key, name := names.Resolve(item.ProductID)
			if pos, ok := index[key]; ok {
				summary[pos].Quantity += item.Quantity
				continue
			}
			index[key] = len(summary)
			summary = append(summary, ProductQuantity{
				Key:       key,
				ProductID: item.ProductID,
				Name:      name,
				Quantity:  item.Quantity,
				Missing:   !names.Exists(item.ProductID),
			})
		}
	}
	return summary
}

// TopProducts ranks products by ordered quantity across all orders whatever
// their status. Ties keep encounter order. n <= 0 means DefaultTopN.
func TopProducts(orders []trade.Order, names ProductNames, n int) []ProductQuantity {
	if n <= 0 {
		n = DefaultTopN
	}
	summary := SummarizeItems(orders, names)
	sort.SliceStable(summary, func(i, j int) bool {
		return summary[i].Quantity > summary[j].Quantity
	})
	if len(summary) > n {
		summary = summary[:n]
	}
	for i := range summary {
		summary[i].Rank = i + 1
	}
	return summary
}

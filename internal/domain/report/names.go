package report

import (
	"github.com/google/uuid"
	"github.com/preorder/backoffice/internal/domain/catalog"
	"github.com/preorder/backoffice/internal/domain/trade"
)

const (
	// DeletedKey groups items whose product reference is empty
	DeletedKey = "deleted"
	// PlaceholderName is shown for products that no longer exist
	PlaceholderName = "สินค้าถูกลบ"
)

// ProductNames resolves product IDs to display names. A missing ID resolves
// to the placeholder rather than an error.
type ProductNames map[uuid.UUID]string

// NamesOf indexes product names by ID
func NamesOf(products []catalog.Product) ProductNames {
	names := make(ProductNames, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}
	return names
}

// Resolve returns the grouping key and display name for a soft reference
func (n ProductNames) Resolve(productID *uuid.UUID) (key string, name string) {
	if productID == nil {
		return DeletedKey, PlaceholderName
	}
	key = productID.String()
	if found, ok := n[*productID]; ok {
		return key, found
	}
	return key, PlaceholderName
}

// Exists reports whether the reference resolves to a live product
func (n ProductNames) Exists(productID *uuid.UUID) bool {
	if productID == nil {
		return false
	}
	_, ok := n[*productID]
	return ok
}

// ReferencedProducts returns the distinct product IDs referenced by the
// orders' items, in first seen order
func ReferencedProducts(orders []trade.Order) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0)
	for _, o := range orders {
		for _, item := range o.Items {
			if item.ProductID == nil {
				continue
			}
			if _, ok := seen[*item.ProductID]; ok {
				continue
			}
			seen[*item.ProductID] = struct{}{}
			ids = append(ids, *item.ProductID)
		}
	}
	return ids
}

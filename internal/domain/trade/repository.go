package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/preorder/backoffice/internal/domain/shared"
)

// OrderQuery narrows the orders loaded for reporting. Zero values mean no
// restriction.
type OrderQuery struct {
	PaymentStatus    PaymentStatus
	ShippingStatuses []ShippingStatus
	// OldestFirst orders by created_at ascending instead of descending
	OldestFirst bool
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindAll finds orders matching the filter, items included
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// FindWithItems loads every order matching the query with its items
	FindWithItems(ctx context.Context, query OrderQuery) ([]Order, error)

	// FindItemsByOrderID returns the items stored for an order
	FindItemsByOrderID(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error)

	// Save creates or updates an order, replacing its stored items
	Save(ctx context.Context, order *Order) error

	// Delete removes an order and its items
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

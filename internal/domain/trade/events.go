package trade

import (
	"github.com/google/uuid"
	"github.com/preorder/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeOrder is the aggregate type for order events
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderCreated       = "OrderCreated"
	EventTypeOrderUpdated       = "OrderUpdated"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
	EventTypeOrderShipped       = "OrderShipped"
	EventTypeOrderDeleted       = "OrderDeleted"
)

// OrderCreatedEvent is published when an order is placed
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	RoundID     uuid.UUID       `json:"round_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ItemCount   int             `json:"item_count"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(order *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		RoundID:         order.RoundID,
		TotalAmount:     order.TotalAmount,
		ItemCount:       len(order.Items),
	}
}

// OrderUpdatedEvent is published when an order is edited
type OrderUpdatedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewOrderUpdatedEvent creates a new OrderUpdatedEvent
func NewOrderUpdatedEvent(order *Order) *OrderUpdatedEvent {
	return &OrderUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderUpdated, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		TotalAmount:     order.TotalAmount,
	}
}

// OrderStatusChangedEvent is published when payment or shipping status is set
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID           uuid.UUID      `json:"order_id"`
	OldPaymentStatus  PaymentStatus  `json:"old_payment_status"`
	NewPaymentStatus  PaymentStatus  `json:"new_payment_status"`
	OldShippingStatus ShippingStatus `json:"old_shipping_status"`
	NewShippingStatus ShippingStatus `json:"new_shipping_status"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(order *Order, oldPayment PaymentStatus, oldShipping ShippingStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, order.ID),
		OrderID:           order.ID,
		OldPaymentStatus:  oldPayment,
		NewPaymentStatus:  order.PaymentStatus,
		OldShippingStatus: oldShipping,
		NewShippingStatus: order.ShippingStatus,
	}
}

// OrderShippedEvent is published when a paid order enters SHIPPED
type OrderShippedEvent struct {
	shared.BaseDomainEvent
	OrderID    uuid.UUID        `json:"order_id"`
	Deductions []StockDeduction `json:"deductions"`
}

// NewOrderShippedEvent creates a new OrderShippedEvent
func NewOrderShippedEvent(order *Order, deductions []StockDeduction) *OrderShippedEvent {
	return &OrderShippedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderShipped, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		Deductions:      deductions,
	}
}

// OrderDeletedEvent is published when an order and its items are removed
type OrderDeletedEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID `json:"order_id"`
}

// NewOrderDeletedEvent creates a new OrderDeletedEvent
func NewOrderDeletedEvent(order *Order) *OrderDeletedEvent {
	return &OrderDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderDeleted, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
	}
}

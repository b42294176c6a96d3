package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/preorder/backoffice/internal/domain/report"
	"github.com/preorder/backoffice/internal/domain/shared"
	"github.com/preorder/backoffice/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// OrderItemInput is one submitted order line
type OrderItemInput struct {
	ProductID *uuid.UUID      `json:"product_id"`
	Quantity  int             `json:"quantity" binding:"required,min=1,max=1000000"`
	Price     decimal.Decimal `json:"price"`
}

// CreateOrderRequest represents a request to place an order. RoundID may be
// omitted, in which case the earliest active round is used.
type CreateOrderRequest struct {
	RoundID         *uuid.UUID       `json:"round_id"`
	CustomerName    string           `json:"customer_name" binding:"required,max=200"`
	CustomerPhone   string           `json:"customer_phone" binding:"required,max=50"`
	CustomerAddress string           `json:"customer_address" binding:"max=1000"`
	DeliveryDate    *DeliveryDate    `json:"delivery_date" swaggertype:"string" example:"2026-11-20"`
	Note            string           `json:"note" binding:"max=2000"`
	PaymentStatus   string           `json:"payment_status" binding:"omitempty,payment_status"`
	ShippingStatus  string           `json:"shipping_status" binding:"omitempty,shipping_status"`
	Items           []OrderItemInput `json:"items" binding:"required,min=1,dive"`
}

// UpdateOrderRequest replaces every editable field of an order and its items.
// The round of an order cannot be changed. Empty statuses keep the current ones.
type UpdateOrderRequest struct {
	CustomerName    string           `json:"customer_name" binding:"required,max=200"`
	CustomerPhone   string           `json:"customer_phone" binding:"required,max=50"`
	CustomerAddress string           `json:"customer_address" binding:"max=1000"`
	DeliveryDate    *DeliveryDate    `json:"delivery_date" swaggertype:"string" example:"2026-11-20"`
	Note            string           `json:"note" binding:"max=2000"`
	PaymentStatus   string           `json:"payment_status" binding:"omitempty,payment_status"`
	ShippingStatus  string           `json:"shipping_status" binding:"omitempty,shipping_status"`
	Items           []OrderItemInput `json:"items" binding:"required,min=1,dive"`
}

// UpdateOrderStatusRequest sets both statuses of an order
type UpdateOrderStatusRequest struct {
	PaymentStatus  string `json:"payment_status" binding:"required,payment_status"`
	ShippingStatus string `json:"shipping_status" binding:"required,shipping_status"`
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	Search         string     `form:"search"`
	PaymentStatus  string     `form:"payment_status" binding:"omitempty,payment_status"`
	ShippingStatus string     `form:"shipping_status" binding:"omitempty,shipping_status"`
	RoundID        *uuid.UUID `form:"-"`
	Page           int        `form:"page" binding:"omitempty,min=1"`
	PageSize       int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy        string     `form:"order_by"`
	OrderDir       string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   *uuid.UUID      `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	ShortID         string              `json:"short_id"`
	RoundID         uuid.UUID           `json:"round_id"`
	CustomerName    string              `json:"customer_name"`
	CustomerPhone   string              `json:"customer_phone"`
	CustomerAddress string              `json:"customer_address"`
	DeliveryDate    *time.Time          `json:"delivery_date"`
	Note            string              `json:"note"`
	PaymentStatus   string              `json:"payment_status"`
	ShippingStatus  string              `json:"shipping_status"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	Items           []OrderItemResponse `json:"items"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// ToOrderResponse converts an order. Product names come from names; lines
// whose product is gone get the deleted product placeholder.
func ToOrderResponse(o *trade.Order, names report.ProductNames) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		_, name := names.Resolve(item.ProductID)
		items[i] = OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: name,
			Quantity:    item.Quantity,
			Price:       item.Price,
			LineTotal:   item.LineTotal(),
		}
	}
	return OrderResponse{
		ID:              o.ID,
		ShortID:         shared.ShortID(o.ID),
		RoundID:         o.RoundID,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		CustomerAddress: o.CustomerAddress,
		DeliveryDate:    o.DeliveryDate,
		Note:            o.Note,
		PaymentStatus:   string(o.PaymentStatus),
		ShippingStatus:  string(o.ShippingStatus),
		TotalAmount:     o.TotalAmount,
		Items:           items,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of orders
func ToOrderResponses(orders []trade.Order, names report.ProductNames) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i], names)
	}
	return responses
}

func toLineInputs(items []OrderItemInput) []trade.LineInput {
	lines := make([]trade.LineInput, len(items))
	for i, item := range items {
		lines[i] = trade.LineInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}
	return lines
}

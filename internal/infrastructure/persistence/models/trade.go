package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/preorder/backoffice/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	BaseModel
	RoundID         uuid.UUID            `gorm:"type:uuid;not null;index"`
	CustomerName    string               `gorm:"type:varchar(200);not null"`
	CustomerPhone   string               `gorm:"type:varchar(50);not null"`
	CustomerAddress string               `gorm:"type:text"`
	DeliveryDate    *time.Time           `gorm:"index"`
	Note            string               `gorm:"type:text"`
	PaymentStatus   trade.PaymentStatus  `gorm:"type:varchar(20);not null;index"`
	ShippingStatus  trade.ShippingStatus `gorm:"type:varchar(20);not null;index"`
	TotalAmount     decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Items           []OrderItemModel     `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order. Items are
// included only when they were preloaded.
func (m *OrderModel) ToDomain() *trade.Order {
	o := &trade.Order{
		BaseAggregateRoot: m.aggregateRoot(),
		RoundID:           m.RoundID,
		CustomerName:      m.CustomerName,
		CustomerPhone:     m.CustomerPhone,
		CustomerAddress:   m.CustomerAddress,
		DeliveryDate:      m.DeliveryDate,
		Note:              m.Note,
		PaymentStatus:     m.PaymentStatus,
		ShippingStatus:    m.ShippingStatus,
		TotalAmount:       m.TotalAmount,
		Items:             make([]trade.OrderItem, 0, len(m.Items)),
	}
	for i := range m.Items {
		o.Items = append(o.Items, m.Items[i].ToDomain())
	}
	return o
}

// FromDomain populates the persistence model, items included
func (m *OrderModel) FromDomain(o *trade.Order) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.RoundID = o.RoundID
	m.CustomerName = o.CustomerName
	m.CustomerPhone = o.CustomerPhone
	m.CustomerAddress = o.CustomerAddress
	m.DeliveryDate = o.DeliveryDate
	m.Note = o.Note
	m.PaymentStatus = o.PaymentStatus
	m.ShippingStatus = o.ShippingStatus
	m.TotalAmount = o.TotalAmount
	m.Items = make([]OrderItemModel, len(o.Items))
	for i := range o.Items {
		m.Items[i] = OrderItemModelFromDomain(o.Items[i], i, o.UpdatedAt)
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order.
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderItemModel is the persistence model for an order line. ProductID is a
// soft reference without a foreign key.
type OrderItemModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID *uuid.UUID      `gorm:"type:uuid;index"`
	Quantity  int             `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Position  int             `gorm:"not null;default:0"` // submission order within the order
	CreatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderItem
func (m *OrderItemModel) ToDomain() trade.OrderItem {
	return trade.OrderItem{
		ID:        m.ID,
		OrderID:   m.OrderID,
		ProductID: m.ProductID,
		Quantity:  m.Quantity,
		Price:     m.Price,
	}
}

// OrderItemModelFromDomain creates a persistence model for an order line
func OrderItemModelFromDomain(i trade.OrderItem, position int, createdAt time.Time) OrderItemModel {
	return OrderItemModel{
		ID:        i.ID,
		OrderID:   i.OrderID,
		ProductID: i.ProductID,
		Quantity:  i.Quantity,
		Price:     i.Price,
		Position:  position,
		CreatedAt: createdAt,
	}
}

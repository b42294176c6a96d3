package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/preorder/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderItem is a line of an order. ProductID is a soft reference and may
// point at a product that no longer exists, or be nil.
type OrderItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID *uuid.UUID
	Quantity  int
	Price     decimal.Decimal // unit price captured when the order was placed
}

// LineTotal returns quantity times the captured unit price
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// MaxLineQuantity bounds the pieces on one line, in line with the largest
// single stock ledger entry
const MaxLineQuantity = 1_000_000

// LineInput is a submitted order line
type LineInput struct {
	ProductID *uuid.UUID
	Quantity  int
	Price     decimal.Decimal
}

// Customer holds the customer facing fields of an order
type Customer struct {
	Name    string
	Phone   string
	Address string
}

// OrderDetails holds every editable field of an order except its items
type OrderDetails struct {
	Customer       Customer
	DeliveryDate   *time.Time
	Note           string
	PaymentStatus  PaymentStatus
	ShippingStatus ShippingStatus
}

// StockDeduction is one stock movement owed because an order shipped
type StockDeduction struct {
	ProductID uuid.UUID
	Quantity  int
}

// Order is a customer pre-order and the aggregate root of its items
type Order struct {
	shared.BaseAggregateRoot
	RoundID         uuid.UUID
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	DeliveryDate    *time.Time
	Note            string
	PaymentStatus   PaymentStatus
	ShippingStatus  ShippingStatus
	TotalAmount     decimal.Decimal
	Items           []OrderItem
}

// NewOrder creates an order in the given round. Empty statuses default to
// UNPAID and WAITING.
func NewOrder(roundID uuid.UUID, details OrderDetails, lines []LineInput) (*Order, error) {
	if roundID == uuid.Nil {
		return nil, shared.NewValidationError("round_id", "Round is required")
	}
	if details.PaymentStatus == "" {
		details.PaymentStatus = PaymentStatusUnpaid
	}
	if details.ShippingStatus == "" {
		details.ShippingStatus = ShippingStatusWaiting
	}
	if err := details.validate(); err != nil {
		return nil, err
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RoundID:           roundID,
	}
	if err := order.replaceItems(lines); err != nil {
		return nil, err
	}
	order.apply(details)

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// Update replaces every editable field and the whole item set, then
// recomputes the total. It returns the stock deductions owed when the edit
// moves the order into SHIPPED while PAID; the new items are used.
func (o *Order) Update(details OrderDetails, lines []LineInput) ([]StockDeduction, error) {
	if details.PaymentStatus == "" {
		details.PaymentStatus = o.PaymentStatus
	}
	if details.ShippingStatus == "" {
		details.ShippingStatus = o.ShippingStatus
	}
	if err := details.validate(); err != nil {
		return nil, err
	}
	previous := o.ShippingStatus

	if err := o.replaceItems(lines); err != nil {
		return nil, err
	}
	o.apply(details)
	o.Touch()

	o.AddDomainEvent(NewOrderUpdatedEvent(o))

	return o.settleShipment(previous), nil
}

// ChangeStatus sets payment and shipping status without touching items.
// Deductions, if any, are computed from the existing items. The new payment
// status counts, so UNPAID to PAID+SHIPPED in a single call deducts.
func (o *Order) ChangeStatus(payment PaymentStatus, shipping ShippingStatus) ([]StockDeduction, error) {
	if !payment.IsValid() {
		return nil, shared.NewValidationError("payment_status", fmt.Sprintf("Invalid payment status: %s", payment))
	}
	if !shipping.IsValid() {
		return nil, shared.NewValidationError("shipping_status", fmt.Sprintf("Invalid shipping status: %s", shipping))
	}
	previousShipping := o.ShippingStatus
	previousPayment := o.PaymentStatus

	o.PaymentStatus = payment
	o.ShippingStatus = shipping
	o.Touch()

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, previousPayment, previousShipping))

	return o.settleShipment(previousShipping), nil
}

// MarkDeleted records the deletion event before the order is removed
func (o *Order) MarkDeleted() {
	o.AddDomainEvent(NewOrderDeletedEvent(o))
}

// EntersShipment reports whether moving from previous to next ships a paid order.
// Staying in SHIPPED is not a transition and never deducts twice.
func EntersShipment(previous, next ShippingStatus, payment PaymentStatus) bool {
	return previous != ShippingStatusShipped &&
		next == ShippingStatusShipped &&
		payment == PaymentStatusPaid
}

// Deductions returns one deduction per item that still references a product
func (o *Order) Deductions() []StockDeduction {
	deductions := make([]StockDeduction, 0, len(o.Items))
	for _, item := range o.Items {
		if item.ProductID == nil {
			continue
		}
		deductions = append(deductions, StockDeduction{
			ProductID: *item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return deductions
}

// DeductionNote is the note written on automatic stock deductions
func (o *Order) DeductionNote() string {
	return "ตัดสต็อกอัตโนมัติจากออเดอร์ " + shared.ShortID(o.ID)
}

// ComputeTotal returns the sum of quantity times price over the items
func ComputeTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// ItemCount returns the number of lines
func (o *Order) ItemCount() int {
	return len(o.Items)
}

func (o *Order) settleShipment(previous ShippingStatus) []StockDeduction {
	if !EntersShipment(previous, o.ShippingStatus, o.PaymentStatus) {
		return nil
	}
	deductions := o.Deductions()
	o.AddDomainEvent(NewOrderShippedEvent(o, deductions))
	return deductions
}

func (o *Order) replaceItems(lines []LineInput) error {
	if len(lines) == 0 {
		return shared.NewValidationError("items", "Order must contain at least one item")
	}
	items := make([]OrderItem, 0, len(lines))
	for idx, line := range lines {
		if line.Quantity <= 0 {
			return shared.NewValidationError("items", fmt.Sprintf("Item %d: quantity must be positive", idx+1))
		}
		if line.Quantity > MaxLineQuantity {
			return shared.NewValidationError("items", fmt.Sprintf("Item %d: quantity cannot exceed %d", idx+1, MaxLineQuantity))
		}
		if line.Price.IsNegative() {
			return shared.NewValidationError("items", fmt.Sprintf("Item %d: price cannot be negative", idx+1))
		}
		items = append(items, OrderItem{
			ID:        uuid.New(),
			OrderID:   o.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Price,
		})
	}
	o.Items = items
	o.TotalAmount = ComputeTotal(items)
	return nil
}

func (o *Order) apply(details OrderDetails) {
	o.CustomerName = strings.TrimSpace(details.Customer.Name)
	o.CustomerPhone = strings.TrimSpace(details.Customer.Phone)
	o.CustomerAddress = strings.TrimSpace(details.Customer.Address)
	o.DeliveryDate = details.DeliveryDate
	o.Note = strings.TrimSpace(details.Note)
	o.PaymentStatus = details.PaymentStatus
	o.ShippingStatus = details.ShippingStatus
}

func (d OrderDetails) validate() error {
	if strings.TrimSpace(d.Customer.Name) == "" {
		return shared.NewValidationError("customer_name", "Customer name is required")
	}
	if strings.TrimSpace(d.Customer.Phone) == "" {
		return shared.NewValidationError("customer_phone", "Customer phone is required")
	}
	if !d.PaymentStatus.IsValid() {
		return shared.NewValidationError("payment_status", fmt.Sprintf("Invalid payment status: %s", d.PaymentStatus))
	}
	if !d.ShippingStatus.IsValid() {
		return shared.NewValidationError("shipping_status", fmt.Sprintf("Invalid shipping status: %s", d.ShippingStatus))
	}
	return nil
}

package trade

import (
	"strings"

	"github.com/preorder/backoffice/internal/domain/shared"
)

// PaymentStatus is the payment state of an order
type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "UNPAID"
	PaymentStatusPaid   PaymentStatus = "PAID"
)

// IsValid checks if the status is a known PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// ShippingStatus is the fulfilment state of an order. Any status may be set
// from any other; only entering SHIPPED has a side effect.
type ShippingStatus string

const (
	ShippingStatusWaiting   ShippingStatus = "WAITING"
	ShippingStatusPreparing ShippingStatus = "PREPARING"
	ShippingStatusReady     ShippingStatus = "READY"
	ShippingStatusShipped   ShippingStatus = "SHIPPED"
)

// IsValid checks if the status is a known ShippingStatus
func (s ShippingStatus) IsValid() bool {
	switch s {
	case ShippingStatusWaiting, ShippingStatusPreparing, ShippingStatusReady, ShippingStatusShipped:
		return true
	}
	return false
}

// String returns the string representation of ShippingStatus
func (s ShippingStatus) String() string {
	return string(s)
}

// IsPendingDispatch reports whether an order in this state still has to leave the shop
func (s ShippingStatus) IsPendingDispatch() bool {
	return s == ShippingStatusWaiting || s == ShippingStatusPreparing || s == ShippingStatusReady
}

// PendingDispatchStatuses lists the shipping statuses of orders still to hand over
func PendingDispatchStatuses() []ShippingStatus {
	return []ShippingStatus{ShippingStatusWaiting, ShippingStatusPreparing, ShippingStatusReady}
}

// ParsePaymentStatus parses a payment status. Empty input yields the fallback.
// Values are case sensitive, matching what is stored.
func ParsePaymentStatus(raw string, fallback PaymentStatus) (PaymentStatus, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	s := PaymentStatus(raw)
	if !s.IsValid() {
		return "", shared.NewValidationError("payment_status", "Invalid payment status: "+raw)
	}
	return s, nil
}

// ParseShippingStatus parses a shipping status. Empty input yields the fallback.
func ParseShippingStatus(raw string, fallback ShippingStatus) (ShippingStatus, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	s := ShippingStatus(raw)
	if !s.IsValid() {
		return "", shared.NewValidationError("shipping_status", "Invalid shipping status: "+raw)
	}
	return s, nil
}

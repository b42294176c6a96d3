package telemetry

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when no meter is supplied
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// BusinessMetrics counts orders and stock movements. A nil *BusinessMetrics
// is valid and records nothing.
type BusinessMetrics struct {
	ordersCreated  *Counter
	orderAmount    *Counter
	ordersShipped  *Counter
	stockMovements *Counter
	stockPieces    *Counter
}

// NewBusinessMetrics registers the business instruments on meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	var (
		bm  BusinessMetrics
		err error
	)
	if bm.ordersCreated, err = NewCounter(meter, "backoffice_orders_created_total", "Orders placed", "{orders}"); err != nil {
		return nil, err
	}
	if bm.orderAmount, err = NewCounter(meter, "backoffice_order_amount_satang_total", "Order value placed, in satang", "{satang}"); err != nil {
		return nil, err
	}
	if bm.ordersShipped, err = NewCounter(meter, "backoffice_orders_shipped_total", "Paid orders moved to SHIPPED", "{orders}"); err != nil {
		return nil, err
	}
	if bm.stockMovements, err = NewCounter(meter, "backoffice_stock_entries_total", "Stock ledger entries appended", "{entries}"); err != nil {
		return nil, err
	}
	if bm.stockPieces, err = NewCounter(meter, "backoffice_stock_pieces_total", "Pieces moved through the stock ledger", "{pieces}"); err != nil {
		return nil, err
	}
	return &bm, nil
}

// RecordOrderCreated counts a new order and its value
func (bm *BusinessMetrics) RecordOrderCreated(ctx context.Context, paymentStatus string, total decimal.Decimal) {
	if bm == nil {
		return
	}
	attr := AttrPaymentStatus.String(paymentStatus)
	bm.ordersCreated.Inc(ctx, attr)
	bm.orderAmount.Add(ctx, total.Shift(2).IntPart(), attr)
}

// RecordOrderShipped counts a paid order entering SHIPPED
func (bm *BusinessMetrics) RecordOrderShipped(ctx context.Context) {
	if bm == nil {
		return
	}
	bm.ordersShipped.Inc(ctx)
}

// RecordStockMovement counts one ledger entry. amount is signed.
func (bm *BusinessMetrics) RecordStockMovement(ctx context.Context, amount int) {
	if bm == nil {
		return
	}
	direction := "in"
	pieces := int64(amount)
	if amount < 0 {
		direction = "out"
		pieces = -pieces
	}
	attr := AttrDirection.String(direction)
	bm.stockMovements.Inc(ctx, attr)
	bm.stockPieces.Add(ctx, pieces, attr)
}

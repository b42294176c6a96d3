package report

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/preorder/backoffice/internal/domain/shared"
	"github.com/preorder/backoffice/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// DispatchLine is one order item as printed on the dispatch sheet
type DispatchLine struct {
	ProductID *uuid.UUID `json:"product_id,omitempty"`
	Name      string     `json:"name"`
	Quantity  int        `json:"quantity"`
}

// DispatchOrder is an order waiting to be handed over
type DispatchOrder struct {
	ID              uuid.UUID            `json:"id"`
	ShortID         string               `json:"short_id"`
	CustomerName    string               `json:"customer_name"`
	CustomerPhone   string               `json:"customer_phone"`
	CustomerAddress string               `json:"customer_address,omitempty"`
	DeliveryDate    *time.Time           `json:"delivery_date,omitempty"`
	Note            string               `json:"note,omitempty"`
	ShippingStatus  trade.ShippingStatus `json:"shipping_status"`
	TotalAmount     decimal.Decimal      `json:"total_amount"`
	Items           []DispatchLine       `json:"items"`
	CreatedAt       time.Time            `json:"created_at"`
}

// DispatchBucket holds the orders due on one day with their item totals
type DispatchBucket struct {
	Date    time.Time         `json:"date"`
	Orders  []DispatchOrder   `json:"orders"`
	Summary []ProductQuantity `json:"summary"`
}

// Dispatch splits pending orders into today's and tomorrow's work
type Dispatch struct {
	Today    DispatchBucket `json:"today"`
	Tomorrow DispatchBucket `json:"tomorrow"`
}

// StartOfDay truncates t to midnight in loc
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// BuildDispatch places every PAID order that is WAITING, PREPARING or READY
// into a bucket. Orders without a delivery date, or due today or earlier, go
// to today; orders due the next calendar day go to tomorrow; later orders are
// left out. Orders inside a bucket are oldest first.
func BuildDispatch(orders []trade.Order, names ProductNames, now time.Time, loc *time.Location) Dispatch {
	today := StartOfDay(now, loc)
	tomorrow := today.AddDate(0, 0, 1)

	candidates := make([]trade.Order, 0, len(orders))
	for i := range orders {
		if orders[i].PaymentStatus == trade.PaymentStatusPaid && orders[i].ShippingStatus.IsPendingDispatch() {
			candidates = append(candidates, orders[i])
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
	})

	var dueToday, dueTomorrow []trade.Order
	for _, o := range candidates {
		if o.DeliveryDate == nil {
			dueToday = append(dueToday, o)
			continue
		}
		day := StartOfDay(*o.DeliveryDate, loc)
		switch {
		case !day.After(today):
			dueToday = append(dueToday, o)
		case day.Equal(tomorrow):
			dueTomorrow = append(dueTomorrow, o)
		}
	}

	return Dispatch{
		Today:    newBucket(today, dueToday, names),
		Tomorrow: newBucket(tomorrow, dueTomorrow, names),
	}
}

func newBucket(date time.Time, orders []trade.Order, names ProductNames) DispatchBucket {
	bucket := DispatchBucket{
		Date:    date,
		Orders:  make([]DispatchOrder, 0, len(orders)),
		Summary: SummarizeItems(orders, names),
	}
	for i := range orders {
		bucket.Orders = append(bucket.Orders, toDispatchOrder(&orders[i], names))
	}
	return bucket
}

func toDispatchOrder(o *trade.Order, names ProductNames) DispatchOrder {
	lines := make([]DispatchLine, 0, len(o.Items))
	for _, item := range o.Items {
		_, name := names.Resolve(item.ProductID)
		lines = append(lines, DispatchLine{
			ProductID: item.ProductID,
			Name:      name,
			Quantity:  item.Quantity,
		})
	}
	return DispatchOrder{
		ID:              o.ID,
		ShortID:         shared.ShortID(o.ID),
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		CustomerAddress: o.CustomerAddress,
		DeliveryDate:    o.DeliveryDate,
		Note:            o.Note,
		ShippingStatus:  o.ShippingStatus,
		TotalAmount:     o.TotalAmount,
		Items:           lines,
		CreatedAt:       o.CreatedAt,
	}
}

package report

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/preorder/backoffice/internal/domain/catalog"
	"github.com/preorder/backoffice/internal/domain/shared"
	"github.com/preorder/backoffice/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bangkok = time.FixedZone("ICT", 7*60*60)

func ref(id uuid.UUID) *uuid.UUID { return &id }

type orderOpt func(*trade.Order)

func paid(o *trade.Order) { o.PaymentStatus = trade.PaymentStatusPaid }

func shipping(s trade.ShippingStatus) orderOpt {
	return func(o *trade.Order) { o.ShippingStatus = s }
}

func deliverOn(t time.Time) orderOpt {
	return func(o *trade.Order) { o.DeliveryDate = &t }
}

func createdAt(t time.Time) orderOpt {
	return func(o *trade.Order) { o.CreatedAt = t }
}

func item(productID *uuid.UUID, qty int) orderOpt {
	return func(o *trade.Order) {
		o.Items = append(o.Items, trade.OrderItem{ID: uuid.New(), OrderID: o.ID, ProductID: productID, Quantity: qty, Price: decimal.NewFromInt(10)})
		o.TotalAmount = trade.ComputeTotal(o.Items)
	}
}

func newOrder(opts ...orderOpt) trade.Order {
	o := trade.Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RoundID:           uuid.New(),
		CustomerName:      "Customer",
		CustomerPhone:     "0800000000",
		PaymentStatus:     trade.PaymentStatusUnpaid,
		ShippingStatus:    trade.ShippingStatusWaiting,
		TotalAmount:       decimal.Zero,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func product(name string) catalog.Product {
	return catalog.Product{BaseAggregateRoot: shared.NewBaseAggregateRoot(), Name: name, IsActive: true}
}

func TestBuildDashboard(t *testing.T) {
	a := uuid.New()
	orders := []trade.Order{
		newOrder(paid, item(ref(a), 10)),                                       // 100
		newOrder(paid, shipping(trade.ShippingStatusShipped), item(ref(a), 5)), // 50
		newOrder(item(ref(a), 3)),                                              // unpaid
	}

	d := BuildDashboard(orders, DashboardCounts{ProductCount: 3, StockEntryCount: 7, TotalExpenses: decimal.NewFromInt(40)})

	assert.True(t, d.TotalSales.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, 3, d.TotalOrders)
	assert.Equal(t, 1, d.PendingOrders)
	assert.Equal(t, 1, d.CompletedOrders)
	assert.Equal(t, int64(3), d.ProductCount)
	assert.Equal(t, int64(7), d.StockEntryCount)
	assert.True(t, d.NetIncome.Equal(decimal.NewFromInt(110)))
}

func TestBuildDashboard_Empty(t *testing.T) {
	d := BuildDashboard(nil, DashboardCounts{TotalExpenses: decimal.Zero})
	assert.True(t, d.TotalSales.IsZero())
	assert.Zero(t, d.TotalOrders)
	assert.True(t, d.NetIncome.IsZero())
}

func TestTopProducts(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	names := ProductNames{a: "A", b: "B", c: "C"}

	t.Run("ties keep encounter order", func(t *testing.T) {
		orders := []trade.Order{
			newOrder(item(ref(a), 5)),
			newOrder(item(ref(b), 5)),
			newOrder(item(ref(c), 10)),
		}
		top := TopProducts(orders, names, 10)
		require.Len(t, top, 3)
		assert.Equal(t, "C", top[0].Name)
		assert.Equal(t, "A", top[1].Name)
		assert.Equal(t, "B", top[2].Name)
		assert.Equal(t, 1, top[0].Rank)
		assert.Equal(t, 3, top[2].Rank)
	})

	t.Run("counts orders of every status", func(t *testing.T) {
		orders := []trade.Order{
			newOrder(item(ref(a), 1)),
			newOrder(paid, shipping(trade.ShippingStatusShipped), item(ref(a), 2)),
		}
		top := TopProducts(orders, names, 0)
		require.Len(t, top, 1)
		assert.Equal(t, 3, top[0].Quantity)
	})

	t.Run("missing and deleted products", func(t *testing.T) {
		gone := uuid.New()
		orders := []trade.Order{
			newOrder(item(nil, 4), item(ref(gone), 2), item(nil, 1)),
		}
		top := TopProducts(orders, names, 10)
		require.Len(t, top, 2)
		assert.Equal(t, DeletedKey, top[0].Key)
		assert.Equal(t, PlaceholderName, top[0].Name)
		assert.Equal(t, 5, top[0].Quantity)
		assert.True(t, top[0].Missing)
		assert.Equal(t, gone.String(), top[1].Key)
		assert.Equal(t, PlaceholderName, top[1].Name)
	})

	t.Run("truncates to n", func(t *testing.T) {
		var orders []trade.Order
		for i := 0; i < 12; i++ {
			orders = append(orders, newOrder(item(ref(uuid.New()), i+1)))
		}
		top := TopProducts(orders, nil, 0)
		require.Len(t, top, DefaultTopN)
		assert.Equal(t, 12, top[0].Quantity)
	})
}

func TestBuildProductionPlan(t *testing.T) {
	cake := product("Cake")
	pie := product("Pie")
	tart := product("Tart")
	idle := product("Idle")
	products := []catalog.Product{cake, idle, pie, tart}

	orders := []trade.Order{
		newOrder(paid, item(ref(cake.ID), 30)),
		newOrder(paid, shipping(trade.ShippingStatusReady), item(ref(pie.ID), 50), item(ref(pie.ID), 30)),
		newOrder(paid, shipping(trade.ShippingStatusShipped), item(ref(tart.ID), 99)),
		newOrder(item(ref(tart.ID), 7)),
	}
	stock := map[uuid.UUID]int{cake.ID: 50, pie.ID: 50, tart.ID: -4}

	rows := BuildProductionPlan(products, orders, stock)
	require.Len(t, rows, 3)

	assert.Equal(t, "Cake", rows[0].Name)
	assert.Equal(t, 30, rows[0].TotalOrdered)
	assert.Equal(t, 0, rows[0].ToProduce)

	assert.Equal(t, "Pie", rows[1].Name)
	assert.Equal(t, 80, rows[1].TotalOrdered)
	assert.Equal(t, 30, rows[1].ToProduce)

	assert.Equal(t, "Tart", rows[2].Name)
	assert.Equal(t, 0, rows[2].TotalOrdered)
	assert.Equal(t, -4, rows[2].CurrentStock)
	assert.Equal(t, 0, rows[2].ToProduce)
}

func TestToProduce(t *testing.T) {
	assert.Equal(t, 0, ToProduce(30, 50))
	assert.Equal(t, 30, ToProduce(80, 50))
	assert.Equal(t, 14, ToProduce(10, -4))
	assert.Equal(t, 0, ToProduce(0, 0))
}

func TestBuildDispatch(t *testing.T) {
	now := time.Date(2024, 3, 10, 23, 30, 0, 0, bangkok)
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, bangkok)
	a := uuid.New()
	names := ProductNames{a: "Cake"}

	noDate := newOrder(paid, createdAt(base.Add(2*time.Hour)), item(ref(a), 1))
	overdue := newOrder(paid, shipping(trade.ShippingStatusPreparing), createdAt(base), deliverOn(now.AddDate(0, 0, -3)), item(ref(a), 2))
	dueToday := newOrder(paid, shipping(trade.ShippingStatusReady), createdAt(base.Add(time.Hour)), deliverOn(time.Date(2024, 3, 10, 0, 0, 0, 0, bangkok)), item(nil, 4))
	dueTomorrow := newOrder(paid, createdAt(base), deliverOn(time.Date(2024, 3, 11, 18, 0, 0, 0, bangkok)), item(ref(a), 3))
	later := newOrder(paid, createdAt(base), deliverOn(time.Date(2024, 3, 12, 0, 0, 0, 0, bangkok)), item(ref(a), 5))
	unpaid := newOrder(createdAt(base), item(ref(a), 9))
	shipped := newOrder(paid, shipping(trade.ShippingStatusShipped), createdAt(base), item(ref(a), 9))

	d := BuildDispatch([]trade.Order{noDate, overdue, dueToday, dueTomorrow, later, unpaid, shipped}, names, now, bangkok)

	require.Len(t, d.Today.Orders, 3)
	assert.Equal(t, overdue.ID, d.Today.Orders[0].ID)
	assert.Equal(t, dueToday.ID, d.Today.Orders[1].ID)
	assert.Equal(t, noDate.ID, d.Today.Orders[2].ID)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, bangkok), d.Today.Date)

	require.Len(t, d.Tomorrow.Orders, 1)
	assert.Equal(t, dueTomorrow.ID, d.Tomorrow.Orders[0].ID)
	assert.Equal(t, shared.ShortID(dueTomorrow.ID), d.Tomorrow.Orders[0].ShortID)

	require.Len(t, d.Today.Summary, 2)
	assert.Equal(t, "Cake", d.Today.Summary[0].Name)
	assert.Equal(t, 3, d.Today.Summary[0].Quantity)
	assert.Equal(t, PlaceholderName, d.Today.Summary[1].Name)
	assert.Equal(t, PlaceholderName, d.Today.Orders[1].Items[0].Name)
}

func TestBuildDispatch_DateTruncatedInZone(t *testing.T) {
	// 18:00 UTC on the 10th is already the 11th in Bangkok
	now := time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC)
	o := newOrder(paid, createdAt(now), deliverOn(time.Date(2024, 3, 11, 12, 0, 0, 0, time.UTC)))

	d := BuildDispatch([]trade.Order{o}, nil, now, bangkok)
	require.Len(t, d.Today.Orders, 1)
	assert.Empty(t, d.Tomorrow.Orders)

	d = BuildDispatch([]trade.Order{o}, nil, now, time.UTC)
	assert.Empty(t, d.Today.Orders)
	require.Len(t, d.Tomorrow.Orders, 1)
}

func TestStartOfDay(t *testing.T) {
	got := StartOfDay(time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC), bangkok)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, bangkok), got)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), StartOfDay(time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC), nil))
}

func TestNamesOfAndReferencedProducts(t *testing.T) {
	cake, tea := product("Cake"), product("Tea")
	names := NamesOf([]catalog.Product{cake, tea})

	gone := uuid.New()
	orders := []trade.Order{
		newOrder(item(ref(tea.ID), 1), item(nil, 2)),
		newOrder(item(ref(cake.ID), 1), item(ref(tea.ID), 3), item(ref(gone), 1)),
	}

	assert.Equal(t, []uuid.UUID{tea.ID, cake.ID, gone}, ReferencedProducts(orders))

	key, name := names.Resolve(ref(cake.ID))
	assert.Equal(t, cake.ID.String(), key)
	assert.Equal(t, "Cake", name)

	key, name = names.Resolve(ref(gone))
	assert.Equal(t, gone.String(), key)
	assert.Equal(t, PlaceholderName, name)
	assert.False(t, names.Exists(ref(gone)))
	assert.False(t, names.Exists(nil))
}

package trade

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/preorder/backoffice/internal/domain/catalog"
	"github.com/preorder/backoffice/internal/domain/inventory"
	"github.com/preorder/backoffice/internal/domain/preorder"
	"github.com/preorder/backoffice/internal/domain/report"
	"github.com/preorder/backoffice/internal/domain/shared"
	"github.com/preorder/backoffice/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type orderServiceFixture struct {
	service   *OrderService
	orders    *MockOrderRepository
	rounds    *MockRoundRepository
	products  *MockProductRepository
	stock     *MockStockEntryRepository
	publisher *MockEventPublisher
}

func newOrderServiceFixture() *orderServiceFixture {
	f := &orderServiceFixture{
		orders:    new(MockOrderRepository),
		rounds:    new(MockRoundRepository),
		products:  new(MockProductRepository),
		stock:     new(MockStockEntryRepository),
		publisher: new(MockEventPublisher),
	}
	f.service = NewOrderService(f.orders, f.rounds, f.products, NewNoOpTransactionScope(f.orders, f.stock), zap.NewNop())
	f.service.SetEventPublisher(f.publisher)
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)
	return f
}

func testRound(t *testing.T, name string, start time.Time) *preorder.Round {
	t.Helper()
	round, err := preorder.NewRound(preorder.RoundWindow{
		Name:         name,
		StartDate:    start,
		EndDate:      start.Add(10 * 24 * time.Hour),
		DeliveryDate: start.Add(15 * 24 * time.Hour),
	}, true)
	require.NoError(t, err)
	round.ClearDomainEvents()
	return round
}

func testProduct(t *testing.T, name string, price int64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(catalog.ProductDetails{Name: name, Price: decimal.NewFromInt(price)})
	require.NoError(t, err)
	p.ClearDomainEvents()
	return p
}

func idPtr(id uuid.UUID) *uuid.UUID { return &id }

func existingOrder(t *testing.T, payment trade.PaymentStatus, shipping trade.ShippingStatus, lines ...trade.LineInput) *trade.Order {
	t.Helper()
	order, err := trade.NewOrder(uuid.New(), trade.OrderDetails{
		Customer:       trade.Customer{Name: "คุณสมหญิง ใจดี", Phone: "081-234-5678"},
		PaymentStatus:  payment,
		ShippingStatus: shipping,
	}, lines)
	require.NoError(t, err)
	order.ClearDomainEvents()
	return order
}

func TestOrderService_Create_WithRound(t *testing.T) {
	f := newOrderServiceFixture()
	ctx := context.Background()
	round := testRound(t, "Mid-autumn", time.Now())
	durian := testProduct(t, "Durian", 159)
	fiveNuts := testProduct(t, "Five nuts", 139)

	f.rounds.On("FindByID", mock.Anything, round.ID).Return(round, nil)
	f.orders.On("Save", mock.Anything, mock.AnythingOfType("*trade.Order")).Return(nil)
	f.products.On("FindByIDs", mock.Anything, []uuid.UUID{durian.ID, fiveNuts.ID}).
		Return([]catalog.Product{*durian, *fiveNuts}, nil)

	resp, err := f.service.Create(ctx, CreateOrderRequest{
		RoundID:       &round.ID,
		CustomerName:  "คุณสมหญิง ใจดี",
		CustomerPhone: "081-234-5678",
		Items: []OrderItemInput{
			{ProductID: &durian.ID, Quantity: 2, Price: decimal.NewFromInt(159)},
			{ProductID: &fiveNuts.ID, Quantity: 1, Price: decimal.NewFromInt(139)},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, round.ID, resp.RoundID)
	assert.True(t, decimal.NewFromInt(457).Equal(resp.TotalAmount))
	assert.Equal(t, "UNPAID", resp.PaymentStatus)
	assert.Equal(t, "WAITING", resp.ShippingStatus)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "Durian", resp.Items[0].ProductName)
	assert.True(t, decimal.NewFromInt(318).Equal(resp.Items[0].LineTotal))
	assert.Equal(t, []string{trade.EventTypeOrderCreated}, f.publisher.eventTypes())
	f.stock.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestOrderService_Create_FallsBackToEarliestActiveRound(t *testing.T) {
	f := newOrderServiceFixture()
	ctx := context.Background()
	now := time.Now()
	later := testRound(t, "Later", now.Add(48*time.Hour))
	earliest := testRound(t, "Earliest", now)

	f.rounds.On("FindActive", mock.Anything).Return([]preorder.Round{*later, *earliest}, nil)
	f.orders.On("Save", mock.Anything, mock.AnythingOfType("*trade.Order")).Return(nil)

	resp, err := f.service.Create(ctx, CreateOrderRequest{
		CustomerName:  "ทดสอบ รอจ่าย",
		CustomerPhone: "099-999-9999",
		Items:         []OrderItemInput{{Quantity: 5, Price: decimal.NewFromInt(250)}},
	})

	require.NoError(t, err)
	assert.Equal(t, earliest.ID, resp.RoundID)
	assert.Equal(t, report.PlaceholderName, resp.Items[0].ProductName)
	f.rounds.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	f.products.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
}

func TestOrderService_Create_NoActiveRound(t *testing.T) {
	f := newOrderServiceFixture()
	ctx := context.Background()
	f.rounds.On("FindActive", mock.Anything).Return([]preorder.Round{}, nil)

	resp, err := f.service.Create(ctx, CreateOrderRequest{
		CustomerName:  "A",
		CustomerPhone: "1",
		Items:         []OrderItemInput{{Quantity: 1, Price: decimal.NewFromInt(1)}},
	})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrNoActiveRound)
	assert.True(t, shared.IsNotFound(err))
	f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestOrderService_Create_UnknownRound(t *testing.T) {
	f := newOrderServiceFixture()
	ctx := context.Background()
	roundID := uuid.New()
	f.rounds.On("FindByID", mock.Anything, roundID).Return(nil, shared.ErrNotFound)

	_, err := f.service.Create(ctx, CreateOrderRequest{
		RoundID:       &roundID,
		CustomerName:  "A",
		CustomerPhone: "1",
		Items:         []OrderItemInput{{Quantity: 1, Price: decimal.NewFromInt(1)}},
	})

	assert.True(t, shared.IsNotFound(err))
	f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestOrderService_Create_Validation(t *testing.T) {
	ctx := context.Background()
	round := testRound(t, "R", time.Now())
	valid := func() CreateOrderRequest {
		return CreateOrderRequest{
			RoundID:       &round.ID,
			CustomerName:  "A",
			CustomerPhone: "1",
			Items:         []OrderItemInput{{Quantity: 1, Price: decimal.NewFromInt(10)}},
		}
	}

	tests := []struct {
		name   string
		mutate func(*CreateOrderRequest)
	}{
		{"missing name", func(r *CreateOrderRequest) { r.CustomerName = " " }},
		{"missing phone", func(r *CreateOrderRequest) { r.CustomerPhone = "" }},
		{"no items", func(r *CreateOrderRequest) { r.Items = nil }},
		{"zero quantity", func(r *CreateOrderRequest) { r.Items[0].Quantity = 0 }},
		{"negative price", func(r *CreateOrderRequest) { r.Items[0].Price = decimal.NewFromInt(-1) }},
		{"unknown payment status", func(r *CreateOrderRequest) { r.PaymentStatus = "REFUNDED" }},
		{"unknown shipping status", func(r *CreateOrderRequest) { r.ShippingStatus = "LOST" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderServiceFixture()
			f.rounds.On("FindByID", mock.Anything, round.ID).Return(round, nil).Maybe()

			req := valid()
			tt.mutate(&req)
			_, err := f.service.Create(ctx, req)

			require.Error(t, err)
			assert.True(t, shared.IsValidationError(err), err.Error())
			f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestOrderService_Update_ShippingPaidOrderDeductsNewItems(t *testing.T) {
	f := newOrderServiceFixture()
	ctx := context.Background()
	durian := testProduct(t, "Durian", 159)
	order := existingOrder(t, trade.PaymentStatusPaid, trade.ShippingStatusReady,
		trade.LineInput{ProductID: idPtr(durian.ID), Quantity: 4, Price: decimal.NewFromInt(159)})

	f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	f.orders.On("Save", mock.Anything, order).Return(nil)
	f.stock.On("Append", mock.Anything, mock.MatchedBy(func(entries []*inventory.StockEntry) bool {
		return len(entries) == 1 &&
			entries[0].ProductID == durian.ID &&
			entries[0].Amount == -6 &&
			entries[0].Note == "ตัดสต็อกอัตโนมัติจากออเดอร์ "+shared.ShortID(order.ID)
	})).Return(nil)
	f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*durian}, nil)

	resp, err := f.service.Update(ctx, order.ID, UpdateOrderRequest{
		CustomerName:   "พี่แจ็ค คนจริง",
		CustomerPhone:  "088-777-6666",
		ShippingStatus: "SHIPPED",
		Items: []OrderItemInput{
			{ProductID: &durian.ID, Quantity: 6, Price: decimal.NewFromInt(159)},
			{ProductID: nil, Quantity: 1, Price: decimal.NewFromInt(50)},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "PAID", resp.PaymentStatus)
	assert.Equal(t, "SHIPPED", resp.ShippingStatus)
	assert.True(t, decimal.NewFromInt(6*159+50).Equal(resp.TotalAmount))
	f.stock.AssertNumberOfCalls(t, "Append", 1)
	assert.Equal(t, []string{trade.EventTypeOrderUpdated, trade.EventTypeOrderShipped}, f.publisher.eventTypes())
}

func TestOrderService_Update_AlreadyShippedNeverDeductsAgain(t *testing.T) {
	f := newOrderServiceFixture()
	ctx := context.Background()
	productID := uuid.New()
	order := existingOrder(t, trade.PaymentStatusPaid, trade.ShippingStatusShipped,
		trade.LineInput{ProductID: &productID, Quantity: 2, Price: decimal.NewFromInt(10)})

	f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	f.orders.On("Save", mock.Anything, order).Return(nil)
	f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{}, nil)

	_, err := f.service.Update(ctx, order.ID, UpdateOrderRequest{
		CustomerName:  "A",
		CustomerPhone: "1",
		Note:          "edited",
		Items:         []OrderItemInput{{ProductID: &productID, Quantity: 3, Price: decimal.NewFromInt(10)}},
	})

	require.NoError(t, err)
	f.stock.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestOrderService_Update_NotFound(t *testing.T) {
	f := newOrderServiceFixture()
	ctx := context.Background()
	id := uuid.New()
	f.orders.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	_, err := f.service.Update(ctx, id, UpdateOrderRequest{
		CustomerName:  "A",
		CustomerPhone: "1",
		Items:         []OrderItemInput{{Quantity: 1}},
	})

	assert.True(t, shared.IsNotFound(err))
	assert.Contains(t, err.Error(), id.String())
}

func TestOrderService_UpdateStatus(t *testing.T) {
	productID := uuid.New()
	line := trade.LineInput{ProductID: &productID, Quantity: 2, Price: decimal.NewFromInt(139)}

	tests := []struct {
		name       string
		payment    trade.PaymentStatus
		shipping   trade.ShippingStatus
		req        UpdateOrderStatusRequest
		wantDeduct bool
	}{
		{"paid order ships", trade.PaymentStatusPaid, trade.ShippingStatusReady,
			UpdateOrderStatusRequest{PaymentStatus: "PAID", ShippingStatus: "SHIPPED"}, true},
		{"paid and shipped in one step", trade.PaymentStatusUnpaid, trade.ShippingStatusWaiting,
			UpdateOrderStatusRequest{PaymentStatus: "PAID", ShippingStatus: "SHIPPED"}, true},
		{"unpaid order ships", trade.PaymentStatusUnpaid, trade.ShippingStatusReady,
			UpdateOrderStatusRequest{PaymentStatus: "UNPAID", ShippingStatus: "SHIPPED"}, false},
		{"already shipped", trade.PaymentStatusPaid, trade.ShippingStatusShipped,
			UpdateOrderStatusRequest{PaymentStatus: "PAID", ShippingStatus: "SHIPPED"}, false},
		{"not shipping", trade.PaymentStatusUnpaid, trade.ShippingStatusWaiting,
			UpdateOrderStatusRequest{PaymentStatus: "PAID", ShippingStatus: "PREPARING"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderServiceFixture()
			ctx := context.Background()
			order := existingOrder(t, tt.payment, tt.shipping, line)

			f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
			f.orders.On("Save", mock.Anything, order).Return(nil)
			f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{}, nil)
			f.stock.On("Append", mock.Anything, mock.MatchedBy(func(entries []*inventory.StockEntry) bool {
				return len(entries) == 1 && entries[0].Amount == -2 && entries[0].ProductID == productID
			})).Return(nil).Maybe()

			resp, err := f.service.UpdateStatus(ctx, order.ID, tt.req)

			require.NoError(t, err)
			assert.Equal(t, tt.req.PaymentStatus, resp.PaymentStatus)
			assert.Equal(t, tt.req.ShippingStatus, resp.ShippingStatus)
			if tt.wantDeduct {
				f.stock.AssertNumberOfCalls(t, "Append", 1)
				assert.Contains(t, f.publisher.eventTypes(), trade.EventTypeOrderShipped)
			} else {
				f.stock.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
				assert.NotContains(t, f.publisher.eventTypes(), trade.EventTypeOrderShipped)
			}
		})
	}
}

func TestOrderService_UpdateStatus_InvalidStatus(t *testing.T) {
	f := newOrderServiceFixture()

	_, err := f.service.UpdateStatus(context.Background(), uuid.New(), UpdateOrderStatusRequest{
		PaymentStatus:  "PAID",
		ShippingStatus: "DELIVERED",
	})

	assert.True(t, shared.IsValidationError(err))
	f.orders.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestOrderService_UpdateStatus_StockFailureIsReturned(t *testing.T) {
	f := newOrderServiceFixture()
	ctx := context.Background()
	productID := uuid.New()
	order := existingOrder(t, trade.PaymentStatusPaid, trade.ShippingStatusReady,
		trade.LineInput{ProductID: &productID, Quantity: 1, Price: decimal.NewFromInt(1)})

	f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	f.orders.On("Save", mock.Anything, order).Return(nil)
	f.stock.On("Append", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	resp, err := f.service.UpdateStatus(ctx, order.ID, UpdateOrderStatusRequest{PaymentStatus: "PAID", ShippingStatus: "SHIPPED"})

	assert.Nil(t, resp)
	assert.ErrorContains(t, err, "disk full")
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestOrderService_Delete(t *testing.T) {
	f := newOrderServiceFixture()
	ctx := context.Background()
	order := existingOrder(t, trade.PaymentStatusPaid, trade.ShippingStatusShipped,
		trade.LineInput{Quantity: 1, Price: decimal.NewFromInt(1)})

	f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	f.orders.On("Delete", mock.Anything, order.ID).Return(nil)

	require.NoError(t, f.service.Delete(ctx, order.ID))
	assert.Equal(t, []string{trade.EventTypeOrderDeleted}, f.publisher.eventTypes())
	f.stock.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestOrderService_Delete_NotFound(t *testing.T) {
	f := newOrderServiceFixture()
	ctx := context.Background()
	id := uuid.New()
	f.orders.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	err := f.service.Delete(ctx, id)

	assert.True(t, shared.IsNotFound(err))
	f.orders.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestOrderService_List(t *testing.T) {
	f := newOrderServiceFixture()
	ctx := context.Background()
	roundID := uuid.New()
	order := existingOrder(t, trade.PaymentStatusPaid, trade.ShippingStatusWaiting,
		trade.LineInput{Quantity: 1, Price: decimal.NewFromInt(1)})

	matchFilter := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 1 && f.PageSize == 20 &&
			f.OrderBy == "created_at" && f.OrderDir == "desc" &&
			f.Search == "สมหญิง" &&
			f.Filters["payment_status"] == trade.PaymentStatusPaid &&
			f.Filters["round_id"] == roundID
	})
	f.orders.On("FindAll", mock.Anything, matchFilter).Return([]trade.Order{*order}, nil)
	f.orders.On("Count", mock.Anything, matchFilter).Return(int64(1), nil)

	orders, total, err := f.service.List(ctx, OrderListFilter{
		Search:        "สมหญิง",
		PaymentStatus: "PAID",
		RoundID:       &roundID,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)
	assert.Equal(t, shared.ShortID(order.ID), orders[0].ShortID)
}

func TestOrderService_PublishFailureDoesNotFailRequest(t *testing.T) {
	f := newOrderServiceFixture()
	f.publisher = new(MockEventPublisher)
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("bus down"))
	f.service.SetEventPublisher(f.publisher)

	ctx := context.Background()
	order := existingOrder(t, trade.PaymentStatusUnpaid, trade.ShippingStatusWaiting,
		trade.LineInput{Quantity: 1, Price: decimal.NewFromInt(1)})
	f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	f.orders.On("Delete", mock.Anything, order.ID).Return(nil)

	assert.NoError(t, f.service.Delete(ctx, order.ID))
	assert.Empty(t, order.GetDomainEvents())
}

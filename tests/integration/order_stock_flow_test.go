//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	catalogapp "github.com/preorder/backoffice/internal/application/catalog"
	inventoryapp "github.com/preorder/backoffice/internal/application/inventory"
	preorderapp "github.com/preorder/backoffice/internal/application/preorder"
	reportapp "github.com/preorder/backoffice/internal/application/report"
	tradeapp "github.com/preorder/backoffice/internal/application/trade"
	"github.com/preorder/backoffice/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type flowSetup struct {
	products *catalogapp.ProductService
	rounds   *preorderapp.RoundService
	orders   *tradeapp.OrderService
	stock    *inventoryapp.StockService
	reports  *reportapp.ReportService
}

func newFlowSetup(t *testing.T) *flowSetup {
	t.Helper()

	tdb := NewTestDB(t)
	log := zap.NewNop()

	productRepo := persistence.NewGormProductRepository(tdb.DB)
	roundRepo := persistence.NewGormRoundRepository(tdb.DB)
	orderRepo := persistence.NewGormOrderRepository(tdb.DB)
	stockRepo := persistence.NewGormStockEntryRepository(tdb.DB)
	expenseRepo := persistence.NewGormExpenseRepository(tdb.DB)

	return &flowSetup{
		products: catalogapp.NewProductService(productRepo, log),
		rounds:   preorderapp.NewRoundService(roundRepo, log),
		orders:   tradeapp.NewOrderService(orderRepo, roundRepo, productRepo, persistence.NewGormTransactionScope(tdb.DB), log),
		stock:    inventoryapp.NewStockService(stockRepo, productRepo, log),
		reports:  reportapp.NewReportService(orderRepo, productRepo, stockRepo, expenseRepo, log),
	}
}

func TestOrderStockFlow_DeductsOnceWhenPaidAndShipped(t *testing.T) {
	s := newFlowSetup(t)
	ctx := context.Background()

	price := decimal.NewFromInt(159)
	product, err := s.products.Create(ctx, catalogapp.CreateProductRequest{Name: "Durian mooncake", Price: &price})
	require.NoError(t, err)

	now := time.Now()
	_, err = s.rounds.Create(ctx, preorderapp.CreateRoundRequest{
		Name:         "Mid-autumn",
		StartDate:    now.Add(-24 * time.Hour),
		EndDate:      now.Add(7 * 24 * time.Hour),
		DeliveryDate: now.Add(10 * 24 * time.Hour),
	})
	require.NoError(t, err)

	_, err = s.stock.Add(ctx, inventoryapp.AddStockEntryRequest{ProductID: product.ID, Amount: 20, Type: "IN", Note: "first batch"})
	require.NoError(t, err)

	order, err := s.orders.Create(ctx, tradeapp.CreateOrderRequest{
		CustomerName:  "Nok",
		CustomerPhone: "081-234-5678",
		PaymentStatus: "PAID",
		Items:         []tradeapp.OrderItemInput{{ProductID: &product.ID, Quantity: 3, Price: price}},
	})
	require.NoError(t, err)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(477)))

	level, err := s.stock.CurrentStock(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, level.Stock, "placing an order does not touch stock")

	plan, err := s.reports.ProductionPlan(ctx)
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, 3, plan[0].TotalOrdered)
	assert.Equal(t, 0, plan[0].ToProduce)

	for i := 0; i < 2; i++ {
		_, err = s.orders.UpdateStatus(ctx, order.ID, tradeapp.UpdateOrderStatusRequest{PaymentStatus: "PAID", ShippingStatus: "SHIPPED"})
		require.NoError(t, err)
	}

	level, err = s.stock.CurrentStock(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 17, level.Stock, "shipping a paid order deducts exactly once")

	entries, err := s.stock.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, -3, entries[0].Amount)
	assert.Equal(t, "ตัดสต็อกอัตโนมัติจากออเดอร์ "+order.ShortID, entries[0].Note)

	dashboard, err := s.reports.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, dashboard.CompletedOrders)
	assert.True(t, dashboard.TotalSales.Equal(decimal.NewFromInt(477)))
}

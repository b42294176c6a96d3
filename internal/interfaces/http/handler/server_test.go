package handler

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/preorder/backoffice/internal/application/catalog"
	financeapp "github.com/preorder/backoffice/internal/application/finance"
	inventoryapp "github.com/preorder/backoffice/internal/application/inventory"
	preorderapp "github.com/preorder/backoffice/internal/application/preorder"
	"github.com/preorder/backoffice/internal/application/printing"
	reportapp "github.com/preorder/backoffice/internal/application/report"
	tradeapp "github.com/preorder/backoffice/internal/application/trade"
	"github.com/preorder/backoffice/internal/domain/trade"
	"github.com/preorder/backoffice/internal/infrastructure/event"
	"github.com/preorder/backoffice/internal/infrastructure/persistence"
	"github.com/preorder/backoffice/internal/interfaces/http/middleware"
	"github.com/preorder/backoffice/internal/interfaces/http/router"
	"github.com/preorder/backoffice/tests/testutil"
	"go.uber.org/zap"
)

// testServer wires the real services over an in-memory sqlite database
type testServer struct {
	engine *gin.Engine
	db     *persistence.Database
	events *testutil.EventRecorder
}

var testLocation = time.FixedZone("ICT", 7*60*60)

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := testutil.NewSQLiteDB(t)
	log := zap.NewNop()

	productRepo := persistence.NewGormProductRepository(db.DB)
	roundRepo := persistence.NewGormRoundRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	stockRepo := persistence.NewGormStockEntryRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)

	bus := event.NewInMemoryEventBus(log)
	events := testutil.NewEventRecorder(
		trade.EventTypeOrderCreated,
		trade.EventTypeOrderUpdated,
		trade.EventTypeOrderStatusChanged,
		trade.EventTypeOrderShipped,
		trade.EventTypeOrderDeleted,
	)
	bus.Subscribe(events)

	productService := catalogapp.NewProductService(productRepo, log)
	roundService := preorderapp.NewRoundService(roundRepo, log)
	orderService := tradeapp.NewOrderService(orderRepo, roundRepo, productRepo, persistence.NewGormTransactionScope(db.DB), log,
		tradeapp.WithLocation(testLocation),
	)
	orderService.SetEventPublisher(bus)
	stockService := inventoryapp.NewStockService(stockRepo, productRepo, log)
	expenseService := financeapp.NewExpenseService(expenseRepo, log)
	reportService := reportapp.NewReportService(orderRepo, productRepo, stockRepo, expenseRepo, log,
		reportapp.WithLocation(testLocation),
	)
	receiptService := printing.NewReceiptService(orderRepo, roundRepo, productRepo, log,
		printing.WithShopName("Test Bakery"),
		printing.WithLocation(testLocation),
	)

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.GET("/health", Health(db))

	r := router.NewRouter(engine)
	r.Register(CatalogRoutes(NewProductHandler(productService)))
	r.Register(PreorderRoutes(NewRoundHandler(roundService)))
	r.Register(TradeRoutes(NewOrderHandler(orderService, receiptService)))
	r.Register(InventoryRoutes(NewInventoryHandler(stockService)))
	r.Register(FinanceRoutes(NewExpenseHandler(expenseService)))
	r.Register(ReportRoutes(NewReportHandler(reportService)))
	r.Register(SystemRoutes(NewSystemHandler("preorder-backoffice", "test")))
	r.Setup()

	return &testServer{engine: engine, db: db, events: events}
}

func (s *testServer) createProduct(t *testing.T, name string, price int) catalogapp.ProductResponse {
	t.Helper()
	w := testutil.ServeJSON(t, s.engine, "POST", "/api/v1/catalog/products", map[string]any{
		"name":  name,
		"price": price,
		"cost":  price / 2,
	})
	if w.Code != 201 {
		t.Fatalf("create product: %d %s", w.Code, w.Body.String())
	}
	return testutil.DecodeData[catalogapp.ProductResponse](t, w)
}

func (s *testServer) createRound(t *testing.T, name string, start time.Time) preorderapp.RoundResponse {
	t.Helper()
	w := testutil.ServeJSON(t, s.engine, "POST", "/api/v1/preorder/rounds", map[string]any{
		"name":          name,
		"start_date":    start,
		"end_date":      start.AddDate(0, 0, 7),
		"delivery_date": start.AddDate(0, 0, 10),
	})
	if w.Code != 201 {
		t.Fatalf("create round: %d %s", w.Code, w.Body.String())
	}
	return testutil.DecodeData[preorderapp.RoundResponse](t, w)
}

func (s *testServer) addStock(t *testing.T, product catalogapp.ProductResponse, amount int, direction string) inventoryapp.StockEntryResponse {
	t.Helper()
	w := testutil.ServeJSON(t, s.engine, "POST", "/api/v1/inventory/stock-entries", map[string]any{
		"product_id": product.ID,
		"amount":     amount,
		"type":       direction,
	})
	if w.Code != 201 {
		t.Fatalf("add stock: %d %s", w.Code, w.Body.String())
	}
	return testutil.DecodeData[inventoryapp.StockEntryResponse](t, w)
}

func (s *testServer) createOrder(t *testing.T, body map[string]any) tradeapp.OrderResponse {
	t.Helper()
	w := testutil.ServeJSON(t, s.engine, "POST", "/api/v1/trade/orders", body)
	if w.Code != 201 {
		t.Fatalf("create order: %d %s", w.Code, w.Body.String())
	}
	return testutil.DecodeData[tradeapp.OrderResponse](t, w)
}

func orderBody(customer string, product catalogapp.ProductResponse, quantity int, payment, shipping string) map[string]any {
	body := map[string]any{
		"customer_name":  customer,
		"customer_phone": "0812345678",
		"items": []map[string]any{
			{"product_id": product.ID, "quantity": quantity, "price": product.Price},
		},
	}
	if payment != "" {
		body["payment_status"] = payment
	}
	if shipping != "" {
		body["shipping_status"] = shipping
	}
	return body
}

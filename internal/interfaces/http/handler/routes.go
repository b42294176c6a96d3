package handler

import (
	"github.com/preorder/backoffice/internal/interfaces/http/router"
)

// CatalogRoutes creates the route group for the product catalog
func CatalogRoutes(handler *ProductHandler) *router.DomainGroup {
	group := router.NewDomainGroup("/catalog")

	products := group.Group("/products")
	products.GET("", handler.List)
	products.POST("", handler.Create)
	products.GET("/active", handler.ListActive)
	products.GET("/:id", handler.GetByID)
	products.PUT("/:id", handler.Update)
	products.DELETE("/:id", handler.Delete)
	products.POST("/:id/toggle", handler.Toggle)
	products.POST("/:id/image-upload-url", handler.CreateImageUploadURL)

	return group
}

// PreorderRoutes creates the route group for preorder rounds
func PreorderRoutes(handler *RoundHandler) *router.DomainGroup {
	group := router.NewDomainGroup("/preorder")

	rounds := group.Group("/rounds")
	rounds.GET("", handler.List)
	rounds.POST("", handler.Create)
	rounds.GET("/active", handler.Active)
	rounds.GET("/:id", handler.GetByID)
	rounds.PUT("/:id", handler.Update)
	rounds.DELETE("/:id", handler.Delete)
	rounds.POST("/:id/toggle", handler.Toggle)

	return group
}

// TradeRoutes creates the route group for orders and receipts
func TradeRoutes(handler *OrderHandler) *router.DomainGroup {
	group := router.NewDomainGroup("/trade")

	orders := group.Group("/orders")
	orders.GET("", handler.List)
	orders.POST("", handler.Create)
	orders.GET("/:id", handler.GetByID)
	orders.PUT("/:id", handler.Update)
	orders.DELETE("/:id", handler.Delete)
	orders.PATCH("/:id/status", handler.UpdateStatus)

	// Receipts
	orders.GET("/:id/receipt", handler.Receipt)
	orders.GET("/:id/receipt/pdf", handler.ReceiptPDF)

	return group
}

// InventoryRoutes creates the route group for the stock ledger
func InventoryRoutes(handler *InventoryHandler) *router.DomainGroup {
	group := router.NewDomainGroup("/inventory")

	group.GET("/stock-entries", handler.ListEntries)
	group.POST("/stock-entries", handler.AddEntry)
	group.POST("/stock-entries/:id/reverse", handler.ReverseEntry)

	// Derived stock
	group.GET("/stock-levels", handler.StockLevels)
	group.GET("/products/:id/stock", handler.ProductStock)

	return group
}

// FinanceRoutes creates the route group for expenses
func FinanceRoutes(handler *ExpenseHandler) *router.DomainGroup {
	group := router.NewDomainGroup("/finance")

	expenses := group.Group("/expenses")
	expenses.GET("", handler.List)
	expenses.POST("", handler.Create)
	expenses.GET("/summary", handler.Summary)
	expenses.GET("/:id", handler.GetByID)
	expenses.PUT("/:id", handler.Update)
	expenses.DELETE("/:id", handler.Delete)

	return group
}

// ReportRoutes creates the route group for reports
func ReportRoutes(handler *ReportHandler) *router.DomainGroup {
	group := router.NewDomainGroup("/report")

	group.GET("/dashboard", handler.Dashboard)
	group.GET("/top-products", handler.TopProducts)
	group.GET("/production-plan", handler.ProductionPlan)
	group.GET("/dispatch", handler.Dispatch)

	return group
}

// SystemRoutes creates the route group for system endpoints
func SystemRoutes(handler *SystemHandler) *router.DomainGroup {
	group := router.NewDomainGroup("/system")

	group.GET("/ping", handler.Ping)
	group.GET("/info", handler.GetSystemInfo)

	return group
}

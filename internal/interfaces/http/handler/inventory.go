package handler

import (
	"github.com/gin-gonic/gin"
	inventoryapp "github.com/preorder/backoffice/internal/application/inventory"
)

// InventoryHandler handles the stock ledger endpoints
type InventoryHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(stockService *inventoryapp.StockService) *InventoryHandler {
	return &InventoryHandler{stockService: stockService}
}

// AddEntry godoc
// @ID           addStockEntry
// @Summary      Record stock in or out
// @Description  Append a ledger entry. The sign of amount is taken from type.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.AddStockEntryRequest true "Stock entry"
// @Success      201 {object} APIResponse[inventoryapp.StockEntryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /inventory/stock-entries [post]
func (h *InventoryHandler) AddEntry(c *gin.Context) {
	var req inventoryapp.AddStockEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	entry, err := h.stockService.Add(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, entry)
}

// ListEntries godoc
// @ID           listStockEntries
// @Summary      Recent stock entries
// @Tags         inventory
// @Produce      json
// @Param        limit query int false "Number of entries" default(50) maximum(500)
// @Success      200 {object} APIResponse[[]inventoryapp.StockEntryResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /inventory/stock-entries [get]
func (h *InventoryHandler) ListEntries(c *gin.Context) {
	var filter inventoryapp.StockEntryListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	entries, err := h.stockService.ListRecent(c.Request.Context(), filter.Limit)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entries)
}

// ReverseEntry godoc
// @ID           reverseStockEntry
// @Summary      Reverse a stock entry
// @Description  Appends the compensating entry. The original stays in the ledger.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id path string true "Stock entry ID" format(uuid)
// @Param        request body inventoryapp.ReverseStockEntryRequest false "Reversal note"
// @Success      201 {object} APIResponse[inventoryapp.StockEntryResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /inventory/stock-entries/{id}/reverse [post]
func (h *InventoryHandler) ReverseEntry(c *gin.Context) {
	id, ok := h.parseID(c, "id", "stock entry")
	if !ok {
		return
	}

	var req inventoryapp.ReverseStockEntryRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.ValidationError(c, err)
			return
		}
	}

	entry, err := h.stockService.Reverse(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, entry)
}

// StockLevels godoc
// @ID           listStockLevels
// @Summary      Current stock of every product
// @Tags         inventory
// @Produce      json
// @Success      200 {object} APIResponse[[]inventoryapp.StockLevelResponse]
// @Router       /inventory/stock-levels [get]
func (h *InventoryHandler) StockLevels(c *gin.Context) {
	levels, err := h.stockService.StockLevels(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, levels)
}

// ProductStock godoc
// @ID           getProductStock
// @Summary      Current stock of one product
// @Tags         inventory
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[inventoryapp.StockLevelResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /inventory/products/{id}/stock [get]
func (h *InventoryHandler) ProductStock(c *gin.Context) {
	id, ok := h.parseID(c, "id", "product")
	if !ok {
		return
	}

	level, err := h.stockService.CurrentStock(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, level)
}

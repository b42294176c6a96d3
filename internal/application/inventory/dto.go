package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/preorder/backoffice/internal/domain/inventory"
	"github.com/preorder/backoffice/internal/domain/report"
)

// AddStockEntryRequest records stock coming in or going out. The sign of
// Amount is ignored; Type decides it.
type AddStockEntryRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Amount    int       `json:"amount" binding:"required,min=-1000000,max=1000000"`
	Type      string    `json:"type" binding:"required,oneof=in out IN OUT"`
	Note      string    `json:"note" binding:"max=500"`
}

// ReverseStockEntryRequest optionally explains a reversal
type ReverseStockEntryRequest struct {
	Note string `json:"note" binding:"max=500"`
}

// StockEntryListFilter limits the recent entry list
type StockEntryListFilter struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=500"`
}

// StockEntryResponse represents a ledger line in API responses
type StockEntryResponse struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Amount      int       `json:"amount"`
	Type        string    `json:"type"`
	Note        string    `json:"note"`
	CreatedAt   time.Time `json:"created_at"`
}

// StockLevelResponse is the derived stock of one product
type StockLevelResponse struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Stock       int       `json:"stock"`
}

// ToStockEntryResponse converts a ledger entry
func ToStockEntryResponse(e *inventory.StockEntry, names report.ProductNames) StockEntryResponse {
	_, name := names.Resolve(&e.ProductID)
	return StockEntryResponse{
		ID:          e.ID,
		ProductID:   e.ProductID,
		ProductName: name,
		Amount:      e.Amount,
		Type:        string(e.Direction()),
		Note:        e.Note,
		CreatedAt:   e.CreatedAt,
	}
}

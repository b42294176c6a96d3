package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/preorder/backoffice/internal/domain/inventory"
)

// StockEntryModel is the persistence model for a stock ledger line. There
// is no UpdatedAt: rows are written once.
type StockEntryModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	Amount    int       `gorm:"not null"`
	Note      string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (StockEntryModel) TableName() string {
	return "stock_entries"
}

// ToDomain converts the persistence model to a domain StockEntry
func (m *StockEntryModel) ToDomain() *inventory.StockEntry {
	return &inventory.StockEntry{
		ID:        m.ID,
		ProductID: m.ProductID,
		Amount:    m.Amount,
		Note:      m.Note,
		CreatedAt: m.CreatedAt,
	}
}

// StockEntryModelFromDomain creates a persistence model from a ledger line
func StockEntryModelFromDomain(e *inventory.StockEntry) *StockEntryModel {
	return &StockEntryModel{
		ID:        e.ID,
		ProductID: e.ProductID,
		Amount:    e.Amount,
		Note:      e.Note,
		CreatedAt: e.CreatedAt,
	}
}

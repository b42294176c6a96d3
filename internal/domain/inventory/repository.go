package inventory

import (
	"context"

	"github.com/google/uuid"
)

// StockEntryRepository persists the ledger. Entries are never updated or
// deleted; corrections are appended as compensating entries.
type StockEntryRepository interface {
	// Append stores new entries
	Append(ctx context.Context, entries ...*StockEntry) error

	// FindByID finds an entry by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockEntry, error)

	// FindRecent returns the newest entries first
	FindRecent(ctx context.Context, limit int) ([]StockEntry, error)

	// FindByProduct returns a product's entries, oldest first
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]StockEntry, error)

	// SumByProduct returns the derived stock of one product
	SumByProduct(ctx context.Context, productID uuid.UUID) (int, error)

	// SumAll returns the derived stock of every product in the ledger
	SumAll(ctx context.Context) (map[uuid.UUID]int, error)

	// Count returns the number of entries
	Count(ctx context.Context) (int64, error)
}

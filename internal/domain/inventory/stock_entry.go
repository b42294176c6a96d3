// Package inventory holds the append-only stock ledger. Current stock is
// never stored; it is always the sum of a product's entries.
package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/preorder/backoffice/internal/domain/shared"
)

// Direction tells whether stock comes in or goes out
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// IsValid checks if the direction is known
func (d Direction) IsValid() bool {
	return d == DirectionIn || d == DirectionOut
}

// ParseDirection parses a direction, case insensitively
func ParseDirection(raw string) (Direction, error) {
	d := Direction(strings.ToLower(strings.TrimSpace(raw)))
	if !d.IsValid() {
		return "", shared.NewValidationError("type", "Direction must be 'in' or 'out'")
	}
	return d, nil
}

// MaxEntryAmount bounds the size of a single ledger line in either direction
const MaxEntryAmount = 1_000_000

// StockEntry is one immutable ledger line. Positive amounts are stock in,
// negative amounts are stock out.
type StockEntry struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	Amount    int
	Note      string
	CreatedAt time.Time
}

// NewStockEntry normalizes the sign from the direction: in is always stored
// positive and out always negative, whatever sign the caller used.
func NewStockEntry(productID uuid.UUID, amount int, direction Direction, note string) (*StockEntry, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("product_id", "Product is required")
	}
	if amount == 0 {
		return nil, shared.NewValidationError("amount", "Amount is required")
	}
	if amount > MaxEntryAmount || amount < -MaxEntryAmount {
		return nil, shared.NewValidationError("amount", fmt.Sprintf("Amount must be between -%d and %d", MaxEntryAmount, MaxEntryAmount))
	}
	if !direction.IsValid() {
		return nil, shared.NewValidationError("type", "Direction must be 'in' or 'out'")
	}

	magnitude := abs(amount)
	signed := magnitude
	if direction == DirectionOut {
		signed = -magnitude
	}

	return &StockEntry{
		ID:        uuid.New(),
		ProductID: productID,
		Amount:    signed,
		Note:      strings.TrimSpace(note),
		CreatedAt: time.Now(),
	}, nil
}

// NewDeduction builds an outgoing entry for quantity pieces
func NewDeduction(productID uuid.UUID, quantity int, note string) (*StockEntry, error) {
	return NewStockEntry(productID, quantity, DirectionOut, note)
}

// Reverse builds the compensating entry that cancels this one
func (e *StockEntry) Reverse(note string) *StockEntry {
	if strings.TrimSpace(note) == "" {
		note = fmt.Sprintf("reverse entry %s", shared.ShortID(e.ID))
	}
	return &StockEntry{
		ID:        uuid.New(),
		ProductID: e.ProductID,
		Amount:    -e.Amount,
		Note:      strings.TrimSpace(note),
		CreatedAt: time.Now(),
	}
}

// Direction reports which way the entry moved stock
func (e *StockEntry) Direction() Direction {
	if e.Amount < 0 {
		return DirectionOut
	}
	return DirectionIn
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

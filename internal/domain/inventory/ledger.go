package inventory

import "github.com/google/uuid"

// StockOf folds the ledger for one product. There is no floor at zero:
// a negative result means more went out than was recorded coming in.
func StockOf(entries []StockEntry, productID uuid.UUID) int {
	total := 0
	for _, e := range entries {
		if e.ProductID == productID {
			total += e.Amount
		}
	}
	return total
}

// Levels folds the whole ledger into current stock per product
func Levels(entries []StockEntry) map[uuid.UUID]int {
	levels := make(map[uuid.UUID]int)
	for _, e := range entries {
		levels[e.ProductID] += e.Amount
	}
	return levels
}

package inventory

import (
	"github.com/google/uuid"
	"github.com/preorder/backoffice/internal/domain/shared"
)

// AggregateTypeStockEntry is the aggregate type for ledger events
const AggregateTypeStockEntry = "StockEntry"

// EventTypeStockRecorded is published for every appended entry
const EventTypeStockRecorded = "StockRecorded"

// StockRecordedEvent is published when an entry is appended to the ledger
type StockRecordedEvent struct {
	shared.BaseDomainEvent
	EntryID   uuid.UUID `json:"entry_id"`
	ProductID uuid.UUID `json:"product_id"`
	Amount    int       `json:"amount"`
}

// NewStockRecordedEvent creates a new StockRecordedEvent
func NewStockRecordedEvent(entry *StockEntry) *StockRecordedEvent {
	return &StockRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockRecorded, AggregateTypeStockEntry, entry.ID),
		EntryID:         entry.ID,
		ProductID:       entry.ProductID,
		Amount:          entry.Amount,
	}
}

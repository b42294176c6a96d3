package preorder

import (
	"github.com/google/uuid"
	"github.com/preorder/backoffice/internal/domain/shared"
)

// AggregateTypeRound is the aggregate type for round events
const AggregateTypeRound = "PreorderRound"

// Event type constants
const (
	EventTypeRoundCreated = "RoundCreated"
	EventTypeRoundUpdated = "RoundUpdated"
	EventTypeRoundDeleted = "RoundDeleted"
)

// RoundChangedEvent is published whenever a round is created, edited,
// toggled or deleted
type RoundChangedEvent struct {
	shared.BaseDomainEvent
	RoundID  uuid.UUID `json:"round_id"`
	Name     string    `json:"name"`
	IsActive bool      `json:"is_active"`
}

// NewRoundChangedEvent creates a RoundChangedEvent of the given type
func NewRoundChangedEvent(round *Round, eventType string) *RoundChangedEvent {
	return &RoundChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeRound, round.ID),
		RoundID:         round.ID,
		Name:            round.Name,
		IsActive:        round.IsActive,
	}
}

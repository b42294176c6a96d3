// Package preorder models pre-order rounds: time boxed sales campaigns that
// own the orders placed during them.
package preorder

import (
	"strings"
	"time"

	"github.com/preorder/backoffice/internal/domain/shared"
)

// ErrNoActiveRound is returned when no round is currently active
var ErrNoActiveRound = shared.NewDomainError(shared.CodeNotFound, "No active preorder round found")

// Round is a pre-order campaign window with its own delivery date
type Round struct {
	shared.BaseAggregateRoot
	Name         string
	StartDate    time.Time
	EndDate      time.Time
	DeliveryDate time.Time
	IsActive     bool
}

// RoundWindow holds the editable fields of a round
type RoundWindow struct {
	Name         string
	StartDate    time.Time
	EndDate      time.Time
	DeliveryDate time.Time
}

// NewRound creates a new round
func NewRound(window RoundWindow, active bool) (*Round, error) {
	if err := window.validate(); err != nil {
		return nil, err
	}

	round := &Round{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		IsActive:          active,
	}
	round.apply(window)
	round.AddDomainEvent(NewRoundChangedEvent(round, EventTypeRoundCreated))

	return round, nil
}

// Update replaces the round window
func (r *Round) Update(window RoundWindow) error {
	if err := window.validate(); err != nil {
		return err
	}

	r.apply(window)
	r.Touch()
	r.AddDomainEvent(NewRoundChangedEvent(r, EventTypeRoundUpdated))

	return nil
}

// ToggleActive flips the active flag
func (r *Round) ToggleActive() {
	r.IsActive = !r.IsActive
	r.Touch()
	r.AddDomainEvent(NewRoundChangedEvent(r, EventTypeRoundUpdated))
}

// IsOpenAt reports whether t falls inside the sales window
func (r *Round) IsOpenAt(t time.Time) bool {
	return !t.Before(r.StartDate) && !t.After(r.EndDate)
}

func (r *Round) apply(window RoundWindow) {
	r.Name = strings.TrimSpace(window.Name)
	r.StartDate = window.StartDate
	r.EndDate = window.EndDate
	r.DeliveryDate = window.DeliveryDate
}

func (w RoundWindow) validate() error {
	if strings.TrimSpace(w.Name) == "" {
		return shared.NewValidationError("name", "Round name cannot be empty")
	}
	if w.StartDate.IsZero() {
		return shared.NewValidationError("start_date", "Start date is required")
	}
	if w.EndDate.IsZero() {
		return shared.NewValidationError("end_date", "End date is required")
	}
	if w.EndDate.Before(w.StartDate) {
		return shared.NewValidationError("end_date", "End date cannot be before start date")
	}
	if w.DeliveryDate.IsZero() {
		return shared.NewValidationError("delivery_date", "Delivery date is required")
	}
	return nil
}

// EarliestActive picks the active round with the earliest start date.
// Ties fall back to creation time, then ID, so the choice is deterministic.
func EarliestActive(rounds []Round) (*Round, bool) {
	var best *Round
	for i := range rounds {
		r := &rounds[i]
		if !r.IsActive {
			continue
		}
		if best == nil || earlier(r, best) {
			best = r
		}
	}
	return best, best != nil
}

func earlier(a, b *Round) bool {
	if !a.StartDate.Equal(b.StartDate) {
		return a.StartDate.Before(b.StartDate)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID.String() < b.ID.String()
}

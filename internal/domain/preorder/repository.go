package preorder

import (
	"context"

	"github.com/google/uuid"
	"github.com/preorder/backoffice/internal/domain/shared"
)

// RoundRepository defines the interface for round persistence
type RoundRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Round, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Round, error)
	// FindActive returns active rounds ordered by start date ascending
	FindActive(ctx context.Context) ([]Round, error)
	Save(ctx context.Context, round *Round) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// CountOrders counts orders placed in the round
	CountOrders(ctx context.Context, id uuid.UUID) (int64, error)
}

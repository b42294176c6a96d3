package finance

import (
	"context"

	"github.com/google/uuid"
	"github.com/preorder/backoffice/internal/domain/shared"
)

// ExpenseRepository defines the interface for expense persistence
type ExpenseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Expense, error)
	// FindAll returns expenses newest first unless the filter says otherwise
	FindAll(ctx context.Context, filter shared.Filter) ([]Expense, error)
	Save(ctx context.Context, expense *Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// Summarize totals the whole ledger
	Summarize(ctx context.Context) (Summary, error)
}

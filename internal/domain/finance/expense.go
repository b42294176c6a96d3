package finance

import (
	"strings"

	"github.com/preorder/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Expense is a cost line in the shop's expense ledger. It has no link to
// orders or stock.
type Expense struct {
	shared.BaseAggregateRoot
	Description string
	Amount      decimal.Decimal
}

// NewExpense creates a new expense
func NewExpense(description string, amount decimal.Decimal) (*Expense, error) {
	if err := validateExpense(description, amount); err != nil {
		return nil, err
	}

	expense := &Expense{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Description:       strings.TrimSpace(description),
		Amount:            amount,
	}
	expense.AddDomainEvent(NewExpenseChangedEvent(expense, EventTypeExpenseRecorded))

	return expense, nil
}

// Update replaces description and amount
func (e *Expense) Update(description string, amount decimal.Decimal) error {
	if err := validateExpense(description, amount); err != nil {
		return err
	}

	e.Description = strings.TrimSpace(description)
	e.Amount = amount
	e.Touch()
	e.AddDomainEvent(NewExpenseChangedEvent(e, EventTypeExpenseUpdated))

	return nil
}

// MarkDeleted records the deletion event before the row is removed
func (e *Expense) MarkDeleted() {
	e.AddDomainEvent(NewExpenseChangedEvent(e, EventTypeExpenseDeleted))
}

func validateExpense(description string, amount decimal.Decimal) error {
	if strings.TrimSpace(description) == "" {
		return shared.NewValidationError("description", "Description is required")
	}
	if !amount.IsPositive() {
		return shared.NewValidationError("amount", "Amount must be positive")
	}
	return nil
}

// Summary is the total of the expense ledger
type Summary struct {
	Total decimal.Decimal
	Count int64
}

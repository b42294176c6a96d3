package finance

import (
	"github.com/google/uuid"
	"github.com/preorder/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeExpense is the aggregate type for expense events
const AggregateTypeExpense = "Expense"

// Event type constants
const (
	EventTypeExpenseRecorded = "ExpenseRecorded"
	EventTypeExpenseUpdated  = "ExpenseUpdated"
	EventTypeExpenseDeleted  = "ExpenseDeleted"
)

// ExpenseChangedEvent is published whenever the expense ledger changes
type ExpenseChangedEvent struct {
	shared.BaseDomainEvent
	ExpenseID uuid.UUID       `json:"expense_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// NewExpenseChangedEvent creates an ExpenseChangedEvent of the given type
func NewExpenseChangedEvent(expense *Expense, eventType string) *ExpenseChangedEvent {
	return &ExpenseChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeExpense, expense.ID),
		ExpenseID:       expense.ID,
		Amount:          expense.Amount,
	}
}

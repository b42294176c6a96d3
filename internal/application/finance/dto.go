package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/preorder/backoffice/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// ExpenseRequest creates or replaces an expense
type ExpenseRequest struct {
	Description string           `json:"description" binding:"required,max=500"`
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
}

// ExpenseListFilter represents filter options for the expense list
type ExpenseListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=created_at amount description"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ExpenseSummaryResponse totals the expense ledger
type ExpenseSummaryResponse struct {
	Total decimal.Decimal `json:"total"`
	Count int64           `json:"count"`
}

// ToExpenseResponse converts a domain expense
func ToExpenseResponse(e *finance.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// ToExpenseResponses converts a slice of expenses
func ToExpenseResponses(expenses []finance.Expense) []ExpenseResponse {
	responses := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		responses[i] = ToExpenseResponse(&expenses[i])
	}
	return responses
}

package handler

import (
	"github.com/gin-gonic/gin"
	financeapp "github.com/preorder/backoffice/internal/application/finance"
)

// ExpenseHandler handles expense endpoints
type ExpenseHandler struct {
	BaseHandler
	expenseService *financeapp.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *financeapp.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// Create godoc
// @ID           createExpense
// @Summary      Record an expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        request body financeapp.ExpenseRequest true "Expense"
// @Success      201 {object} APIResponse[financeapp.ExpenseResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /finance/expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req financeapp.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	expense, err := h.expenseService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, expense)
}

// GetByID godoc
// @ID           getExpenseById
// @Summary      Get expense by ID
// @Tags         expenses
// @Produce      json
// @Param        id path string true "Expense ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.ExpenseResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /finance/expenses/{id} [get]
func (h *ExpenseHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id", "expense")
	if !ok {
		return
	}

	expense, err := h.expenseService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, expense)
}

// List godoc
// @ID           listExpenses
// @Summary      List expenses
// @Description  Newest first unless another order is requested
// @Tags         expenses
// @Produce      json
// @Param        search query string false "Search by description"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Sort field" Enums(created_at, amount, description)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} APIResponse[[]financeapp.ExpenseResponse]
// @Router       /finance/expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	var filter financeapp.ExpenseListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	expenses, total, err := h.expenseService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	page, pageSize := pageParams(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, expenses, total, page, pageSize)
}

// Summary godoc
// @ID           getExpenseSummary
// @Summary      Expense totals
// @Tags         expenses
// @Produce      json
// @Success      200 {object} APIResponse[financeapp.ExpenseSummaryResponse]
// @Router       /finance/expenses/summary [get]
func (h *ExpenseHandler) Summary(c *gin.Context) {
	summary, err := h.expenseService.Summary(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}

// Update godoc
// @ID           updateExpense
// @Summary      Update an expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        id path string true "Expense ID" format(uuid)
// @Param        request body financeapp.ExpenseRequest true "Expense"
// @Success      200 {object} APIResponse[financeapp.ExpenseResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /finance/expenses/{id} [put]
func (h *ExpenseHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id", "expense")
	if !ok {
		return
	}

	var req financeapp.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	expense, err := h.expenseService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, expense)
}

// Delete godoc
// @ID           deleteExpense
// @Summary      Delete an expense
// @Tags         expenses
// @Param        id path string true "Expense ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Router       /finance/expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id", "expense")
	if !ok {
		return
	}

	if err := h.expenseService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

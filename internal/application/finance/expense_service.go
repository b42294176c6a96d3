package finance

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/preorder/backoffice/internal/domain/finance"
	"github.com/preorder/backoffice/internal/domain/shared"
	"github.com/preorder/backoffice/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ExpenseService manages the expense ledger
type ExpenseService struct {
	expenseRepo    finance.ExpenseRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo finance.ExpenseRepository, log *zap.Logger) *ExpenseService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ExpenseService{expenseRepo: expenseRepo, logger: log}
}

// SetEventPublisher sets the event publisher for domain events
func (s *ExpenseService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *ExpenseService) Create(ctx context.Context, req ExpenseRequest) (*ExpenseResponse, error) {
	if req.Amount == nil {
		return nil, shared.NewValidationError("amount", "Amount is required")
	}
	expense, err := finance.NewExpense(req.Description, *req.Amount)
	if err != nil {
		return nil, err
	}
	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, fmt.Errorf("save expense: %w", err)
	}

	logger.Ctx(ctx, s.logger).Info("Expense recorded",
		zap.String("expense_id", expense.ID.String()),
		zap.String("amount", expense.Amount.String()),
	)
	s.publish(ctx, expense)

	response := ToExpenseResponse(expense)
	return &response, nil
}

func (s *ExpenseService) Update(ctx context.Context, id uuid.UUID, req ExpenseRequest) (*ExpenseResponse, error) {
	if req.Amount == nil {
		return nil, shared.NewValidationError("amount", "Amount is required")
	}
	expense, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := expense.Update(req.Description, *req.Amount); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, fmt.Errorf("save expense: %w", err)
	}
	s.publish(ctx, expense)

	response := ToExpenseResponse(expense)
	return &response, nil
}

func (s *ExpenseService) Delete(ctx context.Context, id uuid.UUID) error {
	expense, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.expenseRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewNotFoundError("Expense", id)
		}
		return err
	}
	expense.MarkDeleted()

	logger.Ctx(ctx, s.logger).Info("Expense deleted", zap.String("expense_id", id.String()))
	s.publish(ctx, expense)
	return nil
}

func (s *ExpenseService) GetByID(ctx context.Context, id uuid.UUID) (*ExpenseResponse, error) {
	expense, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToExpenseResponse(expense)
	return &response, nil
}

// List returns expenses, newest first by default
func (s *ExpenseService) List(ctx context.Context, filter ExpenseListFilter) ([]ExpenseResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}
	expenses, err := s.expenseRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.expenseRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToExpenseResponses(expenses), total, nil
}

// Summary totals every expense ever recorded
func (s *ExpenseService) Summary(ctx context.Context) (*ExpenseSummaryResponse, error) {
	summary, err := s.expenseRepo.Summarize(ctx)
	if err != nil {
		return nil, err
	}
	return &ExpenseSummaryResponse{Total: summary.Total, Count: summary.Count}, nil
}

func (s *ExpenseService) find(ctx context.Context, id uuid.UUID) (*finance.Expense, error) {
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Expense", id)
		}
		return nil, err
	}
	return expense, nil
}

func (s *ExpenseService) publish(ctx context.Context, expense *finance.Expense) {
	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, expense.GetDomainEvents()...); err != nil {
			logger.Ctx(ctx, s.logger).Warn("Failed to publish expense events", zap.Error(err))
		}
	}
	expense.ClearDomainEvents()
}

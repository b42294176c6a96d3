package finance

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/preorder/backoffice/internal/domain/finance"
	"github.com/preorder/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Expense, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Expense), args.Error(1)
}

func (m *MockExpenseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.Expense, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.Expense), args.Error(1)
}

func (m *MockExpenseRepository) Save(ctx context.Context, expense *finance.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockExpenseRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockExpenseRepository) Summarize(ctx context.Context) (finance.Summary, error) {
	args := m.Called(ctx)
	return args.Get(0).(finance.Summary), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestExpenseService_Create(t *testing.T) {
	repo := new(MockExpenseRepository)
	pub := new(MockEventPublisher)
	svc := NewExpenseService(repo, nil)
	svc.SetEventPublisher(pub)

	repo.On("Save", mock.Anything, mock.AnythingOfType("*finance.Expense")).Return(nil)
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(events []shared.DomainEvent) bool {
		return len(events) == 1 && events[0].EventType() == finance.EventTypeExpenseRecorded
	})).Return(nil)

	resp, err := svc.Create(context.Background(), ExpenseRequest{Description: " Flour 25kg ", Amount: amount("850.50")})
	require.NoError(t, err)
	assert.Equal(t, "Flour 25kg", resp.Description)
	assert.True(t, resp.Amount.Equal(decimal.RequireFromString("850.5")))
	pub.AssertExpectations(t)
}

func TestExpenseService_Create_Validation(t *testing.T) {
	tests := []struct {
		name  string
		req   ExpenseRequest
		field string
	}{
		{"no description", ExpenseRequest{Description: "", Amount: amount("1")}, "description"},
		{"no amount", ExpenseRequest{Description: "Gas"}, "amount"},
		{"zero amount", ExpenseRequest{Description: "Gas", Amount: amount("0")}, "amount"},
		{"negative amount", ExpenseRequest{Description: "Gas", Amount: amount("-5")}, "amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockExpenseRepository)
			svc := NewExpenseService(repo, nil)

			_, err := svc.Create(context.Background(), tt.req)
			var de *shared.DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.field, de.Field)
			repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestExpenseService_UpdateAndDelete(t *testing.T) {
	expense, err := finance.NewExpense("Sugar", decimal.NewFromInt(100))
	require.NoError(t, err)
	expense.ClearDomainEvents()

	repo := new(MockExpenseRepository)
	svc := NewExpenseService(repo, nil)
	repo.On("FindByID", mock.Anything, expense.ID).Return(expense, nil)
	repo.On("Save", mock.Anything, expense).Return(nil)
	repo.On("Delete", mock.Anything, expense.ID).Return(nil)

	resp, err := svc.Update(context.Background(), expense.ID, ExpenseRequest{Description: "Brown sugar", Amount: amount("120")})
	require.NoError(t, err)
	assert.Equal(t, "Brown sugar", resp.Description)

	require.NoError(t, svc.Delete(context.Background(), expense.ID))
	repo.AssertExpectations(t)
}

func TestExpenseService_NotFound(t *testing.T) {
	repo := new(MockExpenseRepository)
	svc := NewExpenseService(repo, nil)
	id := uuid.New()
	repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	_, err := svc.GetByID(context.Background(), id)
	assert.True(t, shared.IsNotFound(err))
	assert.True(t, shared.IsNotFound(svc.Delete(context.Background(), id)))
}

func TestExpenseService_List(t *testing.T) {
	repo := new(MockExpenseRepository)
	svc := NewExpenseService(repo, nil)
	newestFirst := mock.MatchedBy(func(f shared.Filter) bool {
		return f.OrderBy == "created_at" && f.OrderDir == "desc" && f.Page == 1
	})
	repo.On("FindAll", mock.Anything, newestFirst).Return([]finance.Expense{}, nil)
	repo.On("Count", mock.Anything, newestFirst).Return(int64(0), nil)

	got, total, err := svc.List(context.Background(), ExpenseListFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, total)
}

func TestExpenseService_Summary(t *testing.T) {
	repo := new(MockExpenseRepository)
	svc := NewExpenseService(repo, nil)
	repo.On("Summarize", mock.Anything).Return(finance.Summary{Total: decimal.NewFromInt(1500), Count: 3}, nil)

	got, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.True(t, got.Total.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, int64(3), got.Count)
}

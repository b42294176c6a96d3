package trade

import (
	"context"

	"github.com/preorder/backoffice/internal/domain/inventory"
	"github.com/preorder/backoffice/internal/domain/trade"
)

// TransactionScope runs order writes and the stock entries they cause in a
// single database transaction. If fn returns an error nothing is committed.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories bound to the running
// transaction. Orders are written first, then stock entries.
type TransactionalRepositories interface {
	Orders() trade.OrderRepository
	StockEntries() inventory.StockEntryRepository
}

// NoOpTransactionScope runs fn directly against the given repositories.
// Used in unit tests.
type NoOpTransactionScope struct {
	orders       trade.OrderRepository
	stockEntries inventory.StockEntryRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(orders trade.OrderRepository, stockEntries inventory.StockEntryRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{orders: orders, stockEntries: stockEntries}
}

// Execute calls fn without opening a transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Orders returns the order repository
func (s *NoOpTransactionScope) Orders() trade.OrderRepository {
	return s.orders
}

// StockEntries returns the stock ledger repository
func (s *NoOpTransactionScope) StockEntries() inventory.StockEntryRepository {
	return s.stockEntries
}

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)

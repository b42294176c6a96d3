// Package models contains GORM persistence models that map to database tables.
// Domain entities stay free of ORM tags; each model converts to and from its
// entity with ToDomain and FromDomain.
//
// Structure:
//   - base.go: BaseModel shared by every table with an ID and timestamps
//   - catalog.go: products
//   - preorder.go: preorder_rounds
//   - trade.go: orders and order_items
//   - inventory.go: stock_entries (append-only ledger)
//   - finance.go: expenses
package models

// All returns every model, in dependency order, for AutoMigrate
func All() []any {
	return []any{
		&ProductModel{},
		&RoundModel{},
		&OrderModel{},
		&OrderItemModel{},
		&StockEntryModel{},
		&ExpenseModel{},
	}
}

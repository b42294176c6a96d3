package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/preorder/backoffice/internal/domain/shared"
	"github.com/preorder/backoffice/internal/domain/trade"
	"github.com/preorder/backoffice/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position ASC")
	})
}

// FindByID finds an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var model models.OrderModel
	if err := preloadItems(r.db.WithContext(ctx)).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds orders matching the filter, newest first by default
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Order, error) {
	var rows []models.OrderModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.OrderModel{}), filter)
	query = applySortAndPage(query, filter, OrderSortFields, "created_at")
	if err := preloadItems(query).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toOrders(rows), nil
}

// FindWithItems loads every order matching the query with its items
func (r *GormOrderRepository) FindWithItems(ctx context.Context, q trade.OrderQuery) ([]trade.Order, error) {
	var rows []models.OrderModel
	query := r.db.WithContext(ctx).Model(&models.OrderModel{})
	if q.PaymentStatus != "" {
		query = query.Where("payment_status = ?", q.PaymentStatus)
	}
	if len(q.ShippingStatuses) > 0 {
		query = query.Where("shipping_status IN ?", q.ShippingStatuses)
	}
	if q.OldestFirst {
		query = query.Order("created_at ASC").Order("id ASC")
	} else {
		query = query.Order("created_at DESC").Order("id DESC")
	}
	if err := preloadItems(query).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toOrders(rows), nil
}

// FindItemsByOrderID returns the stored items of an order
func (r *GormOrderRepository) FindItemsByOrderID(ctx context.Context, orderID uuid.UUID) ([]trade.OrderItem, error) {
	var rows []models.OrderItemModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("position ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]trade.OrderItem, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}
	return items, nil
}

// Save writes the order row and replaces its items: every stored item is
// deleted and the current set is inserted.
func (r *GormOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	model := models.OrderModelFromDomain(order)
	items := model.Items
	model.Items = nil

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(model).Error; err != nil {
			return fmt.Errorf("save order: %w", err)
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItemModel{}).Error; err != nil {
			return fmt.Errorf("delete order items: %w", err)
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return fmt.Errorf("create order items: %w", err)
			}
		}
		return nil
	})
}

// Delete removes an order and its items
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItemModel{}).Error; err != nil {
			return fmt.Errorf("delete order items: %w", err)
		}
		result := tx.Delete(&models.OrderModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.OrderModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies customer search and the status and round filters
func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(customer_name) LIKE ? OR customer_phone LIKE ?", pattern, pattern)
	}
	if status, ok := filter.Filters["payment_status"].(trade.PaymentStatus); ok && status != "" {
		query = query.Where("payment_status = ?", status)
	}
	if status, ok := filter.Filters["shipping_status"].(trade.ShippingStatus); ok && status != "" {
		query = query.Where("shipping_status = ?", status)
	}
	if roundID, ok := filter.Filters["round_id"].(uuid.UUID); ok && roundID != uuid.Nil {
		query = query.Where("round_id = ?", roundID)
	}
	return query
}

func toOrders(rows []models.OrderModel) []trade.Order {
	orders := make([]trade.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders
}

// Ensure GormOrderRepository implements OrderRepository
var _ trade.OrderRepository = (*GormOrderRepository)(nil)

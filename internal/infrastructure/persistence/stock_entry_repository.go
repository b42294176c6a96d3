package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/preorder/backoffice/internal/domain/inventory"
	"github.com/preorder/backoffice/internal/domain/shared"
	"github.com/preorder/backoffice/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormStockEntryRepository implements StockEntryRepository using GORM.
// It only ever inserts and reads.
type GormStockEntryRepository struct {
	db *gorm.DB
}

// NewGormStockEntryRepository creates a new GormStockEntryRepository
func NewGormStockEntryRepository(db *gorm.DB) *GormStockEntryRepository {
	return &GormStockEntryRepository{db: db}
}

// Append inserts entries in one statement
func (r *GormStockEntryRepository) Append(ctx context.Context, entries ...*inventory.StockEntry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]*models.StockEntryModel, len(entries))
	for i, e := range entries {
		rows[i] = models.StockEntryModelFromDomain(e)
	}
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("append stock entries: %w", err)
	}
	return nil
}

// FindByID finds an entry by its ID
func (r *GormStockEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockEntry, error) {
	var model models.StockEntryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindRecent returns the newest entries first
func (r *GormStockEntryRepository) FindRecent(ctx context.Context, limit int) ([]inventory.StockEntry, error) {
	var rows []models.StockEntryModel
	query := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toStockEntries(rows), nil
}

// FindByProduct returns a product's entries, oldest first
func (r *GormStockEntryRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]inventory.StockEntry, error) {
	var rows []models.StockEntryModel
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC").Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toStockEntries(rows), nil
}

// SumByProduct returns the derived stock of one product
func (r *GormStockEntryRepository) SumByProduct(ctx context.Context, productID uuid.UUID) (int, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.StockEntryModel{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("product_id = ?", productID).
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return int(total), nil
}

type productStockRow struct {
	ProductID uuid.UUID
	Total     int64
}

// SumAll returns the derived stock of every product that has entries
func (r *GormStockEntryRepository) SumAll(ctx context.Context) (map[uuid.UUID]int, error) {
	var rows []productStockRow
	if err := r.db.WithContext(ctx).
		Model(&models.StockEntryModel{}).
		Select("product_id, COALESCE(SUM(amount), 0) AS total").
		Group("product_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	levels := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		levels[row.ProductID] = int(row.Total)
	}
	return levels, nil
}

// Count returns the number of entries
func (r *GormStockEntryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.StockEntryModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func toStockEntries(rows []models.StockEntryModel) []inventory.StockEntry {
	entries := make([]inventory.StockEntry, len(rows))
	for i := range rows {
		entries[i] = *rows[i].ToDomain()
	}
	return entries
}

// Ensure GormStockEntryRepository implements StockEntryRepository
var _ inventory.StockEntryRepository = (*GormStockEntryRepository)(nil)

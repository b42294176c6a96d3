package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/preorder/backoffice/internal/domain/preorder"
	"github.com/preorder/backoffice/internal/domain/shared"
	"github.com/preorder/backoffice/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormRoundRepository implements RoundRepository using GORM
type GormRoundRepository struct {
	db *gorm.DB
}

// NewGormRoundRepository creates a new GormRoundRepository
func NewGormRoundRepository(db *gorm.DB) *GormRoundRepository {
	return &GormRoundRepository{db: db}
}

// FindByID finds a round by its ID
func (r *GormRoundRepository) FindByID(ctx context.Context, id uuid.UUID) (*preorder.Round, error) {
	var model models.RoundModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds rounds matching the filter, newest start first by default
func (r *GormRoundRepository) FindAll(ctx context.Context, filter shared.Filter) ([]preorder.Round, error) {
	var rows []models.RoundModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.RoundModel{}), filter)
	query = applySortAndPage(query, filter, RoundSortFields, "start_date")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toRounds(rows), nil
}

// FindActive returns active rounds, earliest start first. Ties fall back to
// creation time and then id so the choice is deterministic.
func (r *GormRoundRepository) FindActive(ctx context.Context) ([]preorder.Round, error) {
	var rows []models.RoundModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("start_date ASC").Order("created_at ASC").Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toRounds(rows), nil
}

// Save creates or updates a round
func (r *GormRoundRepository) Save(ctx context.Context, round *preorder.Round) error {
	if err := r.db.WithContext(ctx).Save(models.RoundModelFromDomain(round)).Error; err != nil {
		return fmt.Errorf("save round: %w", err)
	}
	return nil
}

// Delete removes a round
func (r *GormRoundRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.RoundModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts rounds matching the filter
func (r *GormRoundRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.RoundModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountOrders counts the orders placed in a round
func (r *GormRoundRepository) CountOrders(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.OrderModel{}).Where("round_id = ?", id).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormRoundRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(filter.Search))
	}
	if active, ok := filter.Filters["is_active"].(bool); ok {
		query = query.Where("is_active = ?", active)
	}
	return query
}

func toRounds(rows []models.RoundModel) []preorder.Round {
	rounds := make([]preorder.Round, len(rows))
	for i := range rows {
		rounds[i] = *rows[i].ToDomain()
	}
	return rounds
}

// Ensure GormRoundRepository implements RoundRepository
var _ preorder.RoundRepository = (*GormRoundRepository)(nil)

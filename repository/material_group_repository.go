// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/blachmet/cennik/models"
	"gorm.io/gorm"
)

// MaterialGroupRepositoryImpl implements MaterialGroupRepository interface
type MaterialGroupRepositoryImpl struct {
	*BaseRepository[models.MaterialGroup, models.MaterialGroupFilter]
}

// NewMaterialGroupRepository creates a new material group repository
func NewMaterialGroupRepository(db *gorm.DB) MaterialGroupRepository {
	return &MaterialGroupRepositoryImpl{
		BaseRepository: NewBaseRepository[models.MaterialGroup, models.MaterialGroupFilter](db),
	}
}

// applyFilter applies filter conditions to the GORM query
func (r *MaterialGroupRepositoryImpl) applyFilter(db *gorm.DB, filter models.MaterialGroupFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.Name != nil {
		db = db.Where("name = ?", *filter.Name)
	}
	if filter.Category != nil {
		db = db.Where("category = ?", *filter.Category)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	return db
}

// ByFilter retrieves material groups based on filter criteria
func (r *MaterialGroupRepositoryImpl) ByFilter(ctx context.Context, filter models.MaterialGroupFilter, orderBy string, limit, offset int) ([]*models.MaterialGroup, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.MaterialGroup{}), filter)

	if orderBy == "" {
		orderBy = "display_order ASC, name ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.MaterialGroup
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find material groups by filter: %w", err)
	}
	return rows, nil
}

// Count returns the number of material groups matching the filter
func (r *MaterialGroupRepositoryImpl) Count(ctx context.Context, filter models.MaterialGroupFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.MaterialGroup{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count material groups: %w", err)
	}
	return count, nil
}

// Exists checks if any material group matching the filter exists
func (r *MaterialGroupRepositoryImpl) Exists(ctx context.Context, filter models.MaterialGroupFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ByName retrieves a material group by name
func (r *MaterialGroupRepositoryImpl) ByName(ctx context.Context, name string) (*models.MaterialGroup, error) {
	groups, err := r.ByFilter(ctx, models.MaterialGroupFilter{Name: &name}, "", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find material group by name: %w", err)
	}
	if len(groups) == 0 {
		return nil, nil
	}
	return groups[0], nil
}

// ListActive retrieves all active material groups ordered for display
func (r *MaterialGroupRepositoryImpl) ListActive(ctx context.Context) ([]*models.MaterialGroup, error) {
	isActive := true
	groups, err := r.ByFilter(ctx, models.MaterialGroupFilter{IsActive: &isActive}, "", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list active material groups: %w", err)
	}
	return groups, nil
}

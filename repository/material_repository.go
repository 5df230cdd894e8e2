// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/blachmet/cennik/models"
	"gorm.io/gorm"
)

// MaterialRepositoryImpl implements MaterialRepository interface
type MaterialRepositoryImpl struct {
	*BaseRepository[models.Material, models.MaterialFilter]
}

// NewMaterialRepository creates a new material repository
func NewMaterialRepository(db *gorm.DB) MaterialRepository {
	return &MaterialRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Material, models.MaterialFilter](db),
	}
}

// applyFilter applies filter conditions to the GORM query
func (r *MaterialRepositoryImpl) applyFilter(db *gorm.DB, filter models.MaterialFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.GroupID != nil {
		db = db.Where("group_id = ?", *filter.GroupID)
	}
	if filter.Grade != nil {
		db = db.Where("grade = ?", *filter.Grade)
	}
	if filter.Category != nil {
		db = db.Where("category = ?", *filter.Category)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	return db
}

// ByFilter retrieves materials based on filter criteria
func (r *MaterialRepositoryImpl) ByFilter(ctx context.Context, filter models.MaterialFilter, orderBy string, limit, offset int) ([]*models.Material, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Material{}), filter)

	if orderBy == "" {
		orderBy = "display_order ASC, grade ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Material
	if err := query.Preload("Group").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find materials by filter: %w", err)
	}
	return rows, nil
}

// Count returns the number of materials matching the filter
func (r *MaterialRepositoryImpl) Count(ctx context.Context, filter models.MaterialFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Material{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count materials: %w", err)
	}
	return count, nil
}

// Exists checks if any material matching the filter exists
func (r *MaterialRepositoryImpl) Exists(ctx context.Context, filter models.MaterialFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ByGrade retrieves a material by its grade designation
func (r *MaterialRepositoryImpl) ByGrade(ctx context.Context, grade string) (*models.Material, error) {
	materials, err := r.ByFilter(ctx, models.MaterialFilter{Grade: &grade}, "", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find material by grade: %w", err)
	}
	if len(materials) == 0 {
		return nil, nil
	}
	return materials[0], nil
}

// ByName retrieves a material by its display name
func (r *MaterialRepositoryImpl) ByName(ctx context.Context, name string) (*models.Material, error) {
	db := r.getDB(ctx)

	var materials []*models.Material
	err := db.Where("name = ?", name).Limit(1).Find(&materials).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find material by name: %w", err)
	}
	if len(materials) == 0 {
		return nil, nil
	}
	return materials[0], nil
}

// ListActive retrieves all active materials ordered for display
func (r *MaterialRepositoryImpl) ListActive(ctx context.Context) ([]*models.Material, error) {
	isActive := true
	materials, err := r.ByFilter(ctx, models.MaterialFilter{IsActive: &isActive}, "", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list active materials: %w", err)
	}
	return materials, nil
}

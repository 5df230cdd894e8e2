// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/blachmet/cennik/models"
	"gorm.io/gorm"
)

// ThicknessModifierRepositoryImpl implements ThicknessModifierRepository interface
type ThicknessModifierRepositoryImpl struct {
	*BaseRepository[models.ThicknessModifier, models.ThicknessModifierFilter]
}

// NewThicknessModifierRepository creates a new thickness modifier repository
func NewThicknessModifierRepository(db *gorm.DB) ThicknessModifierRepository {
	return &ThicknessModifierRepositoryImpl{
		BaseRepository: NewBaseRepository[models.ThicknessModifier, models.ThicknessModifierFilter](db),
	}
}

// applyFilter applies filter conditions to the GORM query
func (r *ThicknessModifierRepositoryImpl) applyFilter(db *gorm.DB, filter models.ThicknessModifierFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.Grade != nil {
		db = db.Where("grade = ?", *filter.Grade)
	}
	if filter.SurfaceFinish != nil {
		db = db.Where("surface_finish = ?", *filter.SurfaceFinish)
	}
	if filter.BaseWidth != nil {
		db = db.Where("base_width = ?", *filter.BaseWidth)
	}
	if filter.Thickness != nil {
		db = db.Where("thickness = ?", *filter.Thickness)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	return db
}

// ByFilter retrieves thickness modifiers based on filter criteria
func (r *ThicknessModifierRepositoryImpl) ByFilter(ctx context.Context, filter models.ThicknessModifierFilter, orderBy string, limit, offset int) ([]*models.ThicknessModifier, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ThicknessModifier{}), filter)

	if orderBy == "" {
		orderBy = "grade ASC, surface_finish ASC, thickness ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.ThicknessModifier
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find thickness modifiers by filter: %w", err)
	}
	return rows, nil
}

// Count returns the number of thickness modifiers matching the filter
func (r *ThicknessModifierRepositoryImpl) Count(ctx context.Context, filter models.ThicknessModifierFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ThicknessModifier{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count thickness modifiers: %w", err)
	}
	return count, nil
}

// Exists checks if any thickness modifier matching the filter exists
func (r *ThicknessModifierRepositoryImpl) Exists(ctx context.Context, filter models.ThicknessModifierFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListAllActive returns every active thickness modifier
func (r *ThicknessModifierRepositoryImpl) ListAllActive(ctx context.Context) ([]*models.ThicknessModifier, error) {
	isActive := true
	rows, err := r.ByFilter(ctx, models.ThicknessModifierFilter{IsActive: &isActive}, "", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list active thickness modifiers: %w", err)
	}
	return rows, nil
}

// WidthModifierRepositoryImpl implements WidthModifierRepository interface
type WidthModifierRepositoryImpl struct {
	*BaseRepository[models.WidthModifier, models.WidthModifierFilter]
}

// NewWidthModifierRepository creates a new width modifier repository
func NewWidthModifierRepository(db *gorm.DB) WidthModifierRepository {
	return &WidthModifierRepositoryImpl{
		BaseRepository: NewBaseRepository[models.WidthModifier, models.WidthModifierFilter](db),
	}
}

// applyFilter applies filter conditions to the GORM query
func (r *WidthModifierRepositoryImpl) applyFilter(db *gorm.DB, filter models.WidthModifierFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.Grade != nil {
		db = db.Where("grade = ?", *filter.Grade)
	}
	if filter.AnyGrade {
		db = db.Where("grade IS NULL")
	}
	if filter.Width != nil {
		db = db.Where("width = ?", *filter.Width)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	return db
}

// ByFilter retrieves width modifiers based on filter criteria
func (r *WidthModifierRepositoryImpl) ByFilter(ctx context.Context, filter models.WidthModifierFilter, orderBy string, limit, offset int) ([]*models.WidthModifier, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.WidthModifier{}), filter)

	if orderBy == "" {
		orderBy = "grade ASC NULLS FIRST, width ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.WidthModifier
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find width modifiers by filter: %w", err)
	}
	return rows, nil
}

// Count returns the number of width modifiers matching the filter
func (r *WidthModifierRepositoryImpl) Count(ctx context.Context, filter models.WidthModifierFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.WidthModifier{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count width modifiers: %w", err)
	}
	return count, nil
}

// Exists checks if any width modifier matching the filter exists
func (r *WidthModifierRepositoryImpl) Exists(ctx context.Context, filter models.WidthModifierFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListAllActive returns every active width modifier
func (r *WidthModifierRepositoryImpl) ListAllActive(ctx context.Context) ([]*models.WidthModifier, error) {
	isActive := true
	rows, err := r.ByFilter(ctx, models.WidthModifierFilter{IsActive: &isActive}, "", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list active width modifiers: %w", err)
	}
	return rows, nil
}

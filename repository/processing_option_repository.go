// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/blachmet/cennik/models"
	"gorm.io/gorm"
)

// ProcessingOptionRepositoryImpl implements ProcessingOptionRepository interface
type ProcessingOptionRepositoryImpl struct {
	*BaseRepository[models.ProcessingOption, models.ProcessingOptionFilter]
}

// NewProcessingOptionRepository creates a new processing option repository
func NewProcessingOptionRepository(db *gorm.DB) ProcessingOptionRepository {
	return &ProcessingOptionRepositoryImpl{
		BaseRepository: NewBaseRepository[models.ProcessingOption, models.ProcessingOptionFilter](db),
	}
}

// applyFilter applies filter conditions to the GORM query
func (r *ProcessingOptionRepositoryImpl) applyFilter(db *gorm.DB, filter models.ProcessingOptionFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.Grade != nil {
		db = db.Where("grade = ?", *filter.Grade)
	}
	if filter.SurfaceFinish != nil {
		db = db.Where("surface_finish = ?", *filter.SurfaceFinish)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	return db
}

// ByFilter retrieves processing options based on filter criteria
func (r *ProcessingOptionRepositoryImpl) ByFilter(ctx context.Context, filter models.ProcessingOptionFilter, orderBy string, limit, offset int) ([]*models.ProcessingOption, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ProcessingOption{}), filter)

	if orderBy == "" {
		orderBy = "id ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.ProcessingOption
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find processing options by filter: %w", err)
	}
	return rows, nil
}

// Count returns the number of processing options matching the filter
func (r *ProcessingOptionRepositoryImpl) Count(ctx context.Context, filter models.ProcessingOptionFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ProcessingOption{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count processing options: %w", err)
	}
	return count, nil
}

// Exists checks if any processing option matching the filter exists
func (r *ProcessingOptionRepositoryImpl) Exists(ctx context.Context, filter models.ProcessingOptionFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListMatching returns the active constraint rows for a grade and finish.
// An empty result means no constraints apply.
func (r *ProcessingOptionRepositoryImpl) ListMatching(ctx context.Context, grade, surfaceFinish string) ([]*models.ProcessingOption, error) {
	isActive := true
	filter := models.ProcessingOptionFilter{
		Grade:         &grade,
		SurfaceFinish: &surfaceFinish,
		IsActive:      &isActive,
	}
	rows, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list matching processing options: %w", err)
	}
	return rows, nil
}

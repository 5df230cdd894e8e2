// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/blachmet/cennik/models"
	"gorm.io/gorm"
)

// PriceChangeAuditRepositoryImpl implements PriceChangeAuditRepository interface
type PriceChangeAuditRepositoryImpl struct {
	*BaseRepository[models.PriceChangeAudit, models.PriceChangeAuditFilter]
}

// NewPriceChangeAuditRepository creates a new price change audit repository
func NewPriceChangeAuditRepository(db *gorm.DB) PriceChangeAuditRepository {
	return &PriceChangeAuditRepositoryImpl{
		BaseRepository: NewBaseRepository[models.PriceChangeAudit, models.PriceChangeAuditFilter](db),
	}
}

// applyFilter applies filter conditions to the GORM query
func (r *PriceChangeAuditRepositoryImpl) applyFilter(db *gorm.DB, filter models.PriceChangeAuditFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.ChangeType != nil {
		db = db.Where("change_type = ?", *filter.ChangeType)
	}
	if filter.UserID != nil {
		db = db.Where("user_id = ?", *filter.UserID)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at <= ?", *filter.CreatedBefore)
	}
	return db
}

// ByFilter retrieves audit entries based on filter criteria
func (r *PriceChangeAuditRepositoryImpl) ByFilter(ctx context.Context, filter models.PriceChangeAuditFilter, orderBy string, limit, offset int) ([]*models.PriceChangeAudit, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.PriceChangeAudit{}), filter)

	if orderBy == "" {
		orderBy = "created_at DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.PriceChangeAudit
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find price change audits by filter: %w", err)
	}
	return rows, nil
}

// Count returns the number of audit entries matching the filter
func (r *PriceChangeAuditRepositoryImpl) Count(ctx context.Context, filter models.PriceChangeAuditFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.PriceChangeAudit{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count price change audits: %w", err)
	}
	return count, nil
}

// Exists checks if any audit entry matching the filter exists
func (r *PriceChangeAuditRepositoryImpl) Exists(ctx context.Context, filter models.PriceChangeAuditFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListRecent retrieves audit entries newest-first with pagination
func (r *PriceChangeAuditRepositoryImpl) ListRecent(ctx context.Context, limit, offset int) ([]*models.PriceChangeAudit, error) {
	rows, err := r.ByFilter(ctx, models.PriceChangeAuditFilter{}, "created_at DESC", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent price change audits: %w", err)
	}
	return rows, nil
}

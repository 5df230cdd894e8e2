// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/blachmet/cennik/models"
	"gorm.io/gorm"
)

// ImportExportAuditRepositoryImpl implements ImportExportAuditRepository interface
type ImportExportAuditRepositoryImpl struct {
	*BaseRepository[models.ImportExportAudit, models.ImportExportAuditFilter]
}

// NewImportExportAuditRepository creates a new import/export audit repository
func NewImportExportAuditRepository(db *gorm.DB) ImportExportAuditRepository {
	return &ImportExportAuditRepositoryImpl{
		BaseRepository: NewBaseRepository[models.ImportExportAudit, models.ImportExportAuditFilter](db),
	}
}

// applyFilter applies filter conditions to the GORM query
func (r *ImportExportAuditRepositoryImpl) applyFilter(db *gorm.DB, filter models.ImportExportAuditFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.OperationType != nil {
		db = db.Where("operation_type = ?", *filter.OperationType)
	}
	if filter.DataType != nil {
		db = db.Where("data_type = ?", *filter.DataType)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", *filter.Status)
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
func (r *ImportExportAuditRepositoryImpl) ByFilter(ctx context.Context, filter models.ImportExportAuditFilter, orderBy string, limit, offset int) ([]*models.ImportExportAudit, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ImportExportAudit{}), filter)

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

	var rows []*models.ImportExportAudit
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find import/export audits by filter: %w", err)
	}
	return rows, nil
}

// Count returns the number of audit entries matching the filter
func (r *ImportExportAuditRepositoryImpl) Count(ctx context.Context, filter models.ImportExportAuditFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ImportExportAudit{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count import/export audits: %w", err)
	}
	return count, nil
}

// Exists checks if any audit entry matching the filter exists
func (r *ImportExportAuditRepositoryImpl) Exists(ctx context.Context, filter models.ImportExportAuditFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListRecent retrieves audit entries newest-first with pagination
func (r *ImportExportAuditRepositoryImpl) ListRecent(ctx context.Context, limit, offset int) ([]*models.ImportExportAudit, error) {
	rows, err := r.ByFilter(ctx, models.ImportExportAuditFilter{}, "created_at DESC", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent import/export audits: %w", err)
	}
	return rows, nil
}

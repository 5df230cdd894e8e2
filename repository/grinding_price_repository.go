// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/blachmet/cennik/models"
	"github.com/blachmet/cennik/utils"
	"gorm.io/gorm"
)

// GrindingPriceRepositoryImpl implements GrindingPriceRepository interface
type GrindingPriceRepositoryImpl struct {
	*BaseRepository[models.GrindingPrice, models.GrindingPriceFilter]
}

// NewGrindingPriceRepository creates a new grinding price repository
func NewGrindingPriceRepository(db *gorm.DB) GrindingPriceRepository {
	return &GrindingPriceRepositoryImpl{
		BaseRepository: NewBaseRepository[models.GrindingPrice, models.GrindingPriceFilter](db),
	}
}

// applyFilter applies filter conditions to the GORM query
func (r *GrindingPriceRepositoryImpl) applyFilter(db *gorm.DB, filter models.GrindingPriceFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.Provider != nil {
		db = db.Where("provider = ?", *filter.Provider)
	}
	if filter.Grit != nil {
		db = db.Where("grit = ?", *filter.Grit)
	}
	if filter.WidthVariant != nil {
		db = db.Where("width_variant = ?", *filter.WidthVariant)
	}
	if filter.Thickness != nil {
		db = db.Where("thickness = ?", *filter.Thickness)
	}
	if filter.WithSB != nil {
		db = db.Where("with_sb = ?", *filter.WithSB)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	if filter.ThicknessMin != nil {
		db = db.Where("thickness >= ?", *filter.ThicknessMin)
	}
	if filter.ThicknessMax != nil {
		db = db.Where("thickness <= ?", *filter.ThicknessMax)
	}
	if len(filter.Providers) > 0 {
		db = db.Where("provider IN ?", filter.Providers)
	}
	if filter.OnlyPriced {
		db = db.Where("price_pln_per_kg > 0")
	}
	return db
}

// ByFilter retrieves grinding prices based on filter criteria
func (r *GrindingPriceRepositoryImpl) ByFilter(ctx context.Context, filter models.GrindingPriceFilter, orderBy string, limit, offset int) ([]*models.GrindingPrice, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.GrindingPrice{}), filter)

	if orderBy == "" {
		orderBy = "provider ASC, thickness ASC, grit ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.GrindingPrice
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find grinding prices by filter: %w", err)
	}
	return rows, nil
}

// Count returns the number of grinding prices matching the filter
func (r *GrindingPriceRepositoryImpl) Count(ctx context.Context, filter models.GrindingPriceFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.GrindingPrice{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count grinding prices: %w", err)
	}
	return count, nil
}

// Exists checks if any grinding price matching the filter exists
func (r *GrindingPriceRepositoryImpl) Exists(ctx context.Context, filter models.GrindingPriceFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Lookup returns the newest row matching the filter, or nil when no cell matches
func (r *GrindingPriceRepositoryImpl) Lookup(ctx context.Context, filter models.GrindingPriceFilter) (*models.GrindingPrice, error) {
	rows, err := r.ByFilter(ctx, filter, "id DESC", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to look up grinding price: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// FindCell returns the row at the exact matrix key, treating nil grit and
// nil width variant as SQL NULL. Inactive rows match too.
func (r *GrindingPriceRepositoryImpl) FindCell(ctx context.Context, provider string, thickness float64, grit, widthVariant *string, withSB bool) (*models.GrindingPrice, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.GrindingPrice{}).
		Where("provider = ? AND thickness = ? AND with_sb = ?", provider, thickness, withSB)

	if grit != nil {
		query = query.Where("grit = ?", *grit)
	} else {
		query = query.Where("grit IS NULL")
	}
	if widthVariant != nil {
		query = query.Where("width_variant = ?", *widthVariant)
	} else {
		query = query.Where("width_variant IS NULL")
	}

	var rows []*models.GrindingPrice
	if err := query.Limit(1).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find grinding price cell: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// ListByProvider returns the active matrix cells of one provider, optionally
// restricted to a width variant.
func (r *GrindingPriceRepositoryImpl) ListByProvider(ctx context.Context, provider string, widthVariant *string) ([]*models.GrindingPrice, error) {
	isActive := true
	filter := models.GrindingPriceFilter{
		Provider:     &provider,
		WidthVariant: widthVariant,
		IsActive:     &isActive,
	}
	rows, err := r.ByFilter(ctx, filter, "thickness ASC, grit ASC, with_sb ASC", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list grinding prices by provider: %w", err)
	}
	return rows, nil
}

// ListProviders returns the distinct providers present in the price matrix
func (r *GrindingPriceRepositoryImpl) ListProviders(ctx context.Context) ([]string, error) {
	db := r.getDB(ctx)

	var providers []string
	err := db.Model(&models.GrindingPrice{}).
		Where("is_active = ?", true).
		Distinct().
		Order("provider ASC").
		Pluck("provider", &providers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list grinding providers: %w", err)
	}
	return providers, nil
}

// ListAllActive returns every active matrix cell
func (r *GrindingPriceRepositoryImpl) ListAllActive(ctx context.Context) ([]*models.GrindingPrice, error) {
	isActive := true
	rows, err := r.ByFilter(ctx, models.GrindingPriceFilter{IsActive: &isActive}, "", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list active grinding prices: %w", err)
	}
	return rows, nil
}

// UpdatePrice sets a new per-kilogram price on a single cell
func (r *GrindingPriceRepositoryImpl) UpdatePrice(ctx context.Context, id uint, price float64) error {
	db := r.getDB(ctx)
	return db.Model(&models.GrindingPrice{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"price_pln_per_kg": price,
			"updated_at":       utils.UTCNow(),
		}).Error
}

// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/blachmet/cennik/models"
	"github.com/blachmet/cennik/utils"
	"gorm.io/gorm"
)

// FilmPriceRepositoryImpl implements FilmPriceRepository interface
type FilmPriceRepositoryImpl struct {
	*BaseRepository[models.FilmPrice, models.FilmPriceFilter]
}

// NewFilmPriceRepository creates a new film price repository
func NewFilmPriceRepository(db *gorm.DB) FilmPriceRepository {
	return &FilmPriceRepositoryImpl{
		BaseRepository: NewBaseRepository[models.FilmPrice, models.FilmPriceFilter](db),
	}
}

// applyFilter applies filter conditions to the GORM query
func (r *FilmPriceRepositoryImpl) applyFilter(db *gorm.DB, filter models.FilmPriceFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.FilmType != nil {
		db = db.Where("film_type = ?", *filter.FilmType)
	}
	if filter.Thickness != nil {
		db = db.Where("thickness = ?", *filter.Thickness)
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
	if len(filter.FilmTypes) > 0 {
		db = db.Where("film_type IN ?", filter.FilmTypes)
	}
	if filter.OnlyPriced {
		db = db.Where("price_pln_per_kg > 0")
	}
	return db
}

// ByFilter retrieves film prices based on filter criteria
func (r *FilmPriceRepositoryImpl) ByFilter(ctx context.Context, filter models.FilmPriceFilter, orderBy string, limit, offset int) ([]*models.FilmPrice, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.FilmPrice{}), filter)

	if orderBy == "" {
		orderBy = "film_type ASC, thickness ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.FilmPrice
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find film prices by filter: %w", err)
	}
	return rows, nil
}

// Count returns the number of film prices matching the filter
func (r *FilmPriceRepositoryImpl) Count(ctx context.Context, filter models.FilmPriceFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.FilmPrice{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count film prices: %w", err)
	}
	return count, nil
}

// Exists checks if any film price matching the filter exists
func (r *FilmPriceRepositoryImpl) Exists(ctx context.Context, filter models.FilmPriceFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Lookup returns the newest active row for a film type and thickness, or nil
func (r *FilmPriceRepositoryImpl) Lookup(ctx context.Context, filmType string, thickness float64) (*models.FilmPrice, error) {
	isActive := true
	filter := models.FilmPriceFilter{
		FilmType:  &filmType,
		Thickness: &thickness,
		IsActive:  &isActive,
	}
	rows, err := r.ByFilter(ctx, filter, "id DESC", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to look up film price: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// ListFilmTypes returns the distinct film types present in the price list
func (r *FilmPriceRepositoryImpl) ListFilmTypes(ctx context.Context) ([]string, error) {
	db := r.getDB(ctx)

	var types []string
	err := db.Model(&models.FilmPrice{}).
		Where("is_active = ?", true).
		Distinct().
		Order("film_type ASC").
		Pluck("film_type", &types).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list film types: %w", err)
	}
	return types, nil
}

// ListAllActive returns every active film price row
func (r *FilmPriceRepositoryImpl) ListAllActive(ctx context.Context) ([]*models.FilmPrice, error) {
	isActive := true
	rows, err := r.ByFilter(ctx, models.FilmPriceFilter{IsActive: &isActive}, "", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list active film prices: %w", err)
	}
	return rows, nil
}

// UpdatePrice sets a new per-kilogram price on a single row
func (r *FilmPriceRepositoryImpl) UpdatePrice(ctx context.Context, id uint, price float64) error {
	db := r.getDB(ctx)
	return db.Model(&models.FilmPrice{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"price_pln_per_kg": price,
			"updated_at":       utils.UTCNow(),
		}).Error
}

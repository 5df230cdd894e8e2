// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/blachmet/cennik/models"
	"gorm.io/gorm"
)

// ExchangeRateRepositoryImpl implements ExchangeRateRepository interface
type ExchangeRateRepositoryImpl struct {
	*BaseRepository[models.ExchangeRate, models.ExchangeRateFilter]
}

// NewExchangeRateRepository creates a new exchange rate repository
func NewExchangeRateRepository(db *gorm.DB) ExchangeRateRepository {
	return &ExchangeRateRepositoryImpl{
		BaseRepository: NewBaseRepository[models.ExchangeRate, models.ExchangeRateFilter](db),
	}
}

// applyFilter applies filter conditions to the GORM query
func (r *ExchangeRateRepositoryImpl) applyFilter(db *gorm.DB, filter models.ExchangeRateFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.CurrencyFrom != nil {
		db = db.Where("currency_from = ?", *filter.CurrencyFrom)
	}
	if filter.CurrencyTo != nil {
		db = db.Where("currency_to = ?", *filter.CurrencyTo)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	return db
}

// ByFilter retrieves exchange rates based on filter criteria
func (r *ExchangeRateRepositoryImpl) ByFilter(ctx context.Context, filter models.ExchangeRateFilter, orderBy string, limit, offset int) ([]*models.ExchangeRate, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ExchangeRate{}), filter)

	if orderBy == "" {
		orderBy = "valid_from DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.ExchangeRate
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find exchange rates by filter: %w", err)
	}
	return rows, nil
}

// Count returns the number of exchange rates matching the filter
func (r *ExchangeRateRepositoryImpl) Count(ctx context.Context, filter models.ExchangeRateFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ExchangeRate{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count exchange rates: %w", err)
	}
	return count, nil
}

// Exists checks if any exchange rate matching the filter exists
func (r *ExchangeRateRepositoryImpl) Exists(ctx context.Context, filter models.ExchangeRateFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// LatestActive returns the newest active rate for a currency pair, or nil
// when none has been configured.
func (r *ExchangeRateRepositoryImpl) LatestActive(ctx context.Context, currencyFrom, currencyTo string) (*models.ExchangeRate, error) {
	isActive := true
	filter := models.ExchangeRateFilter{
		CurrencyFrom: &currencyFrom,
		CurrencyTo:   &currencyTo,
		IsActive:     &isActive,
	}
	rows, err := r.ByFilter(ctx, filter, "valid_from DESC, id DESC", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find latest exchange rate: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

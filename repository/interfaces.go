// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/blachmet/cennik/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// MaterialRepository defines operations for materials
type MaterialRepository interface {
	Repository[models.Material, models.MaterialFilter]
	ByGrade(ctx context.Context, grade string) (*models.Material, error)
	ByName(ctx context.Context, name string) (*models.Material, error)
	ListActive(ctx context.Context) ([]*models.Material, error)
}

// MaterialGroupRepository defines operations for material groups
type MaterialGroupRepository interface {
	Repository[models.MaterialGroup, models.MaterialGroupFilter]
	ByName(ctx context.Context, name string) (*models.MaterialGroup, error)
	ListActive(ctx context.Context) ([]*models.MaterialGroup, error)
}

// BasePriceRepository defines operations for base sheet prices
type BasePriceRepository interface {
	Repository[models.BasePrice, models.BasePriceFilter]
	// LatestFor returns the active price row with the most recent valid_from
	// for the exact variant, or nil when the variant is not priced at all.
	LatestFor(ctx context.Context, materialID uint, surfaceFinish string, thickness, width float64) (*models.BasePrice, error)
	// ListForBulk returns active, positively-priced rows matching the bulk
	// filter set, with Material (and its group) preloaded.
	ListForBulk(ctx context.Context, filter models.BasePriceFilter) ([]*models.BasePrice, error)
	// ListForTable returns active rows under the catalog filters with
	// Material preloaded, disabled (zero-priced) variants included.
	ListForTable(ctx context.Context, filter models.BasePriceFilter) ([]*models.BasePrice, error)
	// ListForExport returns rows under the export filters with Material
	// preloaded, in workbook row order; inactive rows included when asked.
	ListForExport(ctx context.Context, filter models.BasePriceFilter) ([]*models.BasePrice, error)
	ListAllActive(ctx context.Context) ([]*models.BasePrice, error)
	ListByMaterial(ctx context.Context, materialID uint, surfaceFinish *string) ([]*models.BasePrice, error)
	UpdatePrice(ctx context.Context, id uint, price float64) error
	// Facet helpers for the bulk filter UI; each respects the given filter.
	ListCategories(ctx context.Context, filter models.BasePriceFilter) ([]string, error)
	ListGrades(ctx context.Context, filter models.BasePriceFilter) ([]string, error)
	ListSurfaceFinishes(ctx context.Context, filter models.BasePriceFilter) ([]string, error)
	ListWidths(ctx context.Context, filter models.BasePriceFilter) ([]float64, error)
	ListGroups(ctx context.Context, filter models.BasePriceFilter) ([]*models.MaterialGroup, error)
	ThicknessBounds(ctx context.Context, filter models.BasePriceFilter) (*float64, *float64, error)
}

// GrindingPriceRepository defines operations for grinding service prices
type GrindingPriceRepository interface {
	Repository[models.GrindingPrice, models.GrindingPriceFilter]
	// Lookup returns the newest row matching the filter, or nil.
	Lookup(ctx context.Context, filter models.GrindingPriceFilter) (*models.GrindingPrice, error)
	// FindCell returns the row at the exact matrix key, treating nil grit and
	// nil width variant as SQL NULL. Inactive rows match too; upserts must not
	// duplicate a deactivated cell. Nil when the cell does not exist.
	FindCell(ctx context.Context, provider string, thickness float64, grit, widthVariant *string, withSB bool) (*models.GrindingPrice, error)
	ListByProvider(ctx context.Context, provider string, widthVariant *string) ([]*models.GrindingPrice, error)
	ListProviders(ctx context.Context) ([]string, error)
	ListAllActive(ctx context.Context) ([]*models.GrindingPrice, error)
	UpdatePrice(ctx context.Context, id uint, price float64) error
}

// FilmPriceRepository defines operations for protective film prices
type FilmPriceRepository interface {
	Repository[models.FilmPrice, models.FilmPriceFilter]
	// Lookup returns the newest active row for a film type and thickness, or nil.
	Lookup(ctx context.Context, filmType string, thickness float64) (*models.FilmPrice, error)
	ListFilmTypes(ctx context.Context) ([]string, error)
	ListAllActive(ctx context.Context) ([]*models.FilmPrice, error)
	UpdatePrice(ctx context.Context, id uint, price float64) error
}

// ThicknessModifierRepository defines operations for thickness modifiers
type ThicknessModifierRepository interface {
	Repository[models.ThicknessModifier, models.ThicknessModifierFilter]
	ListAllActive(ctx context.Context) ([]*models.ThicknessModifier, error)
}

// WidthModifierRepository defines operations for width modifiers
type WidthModifierRepository interface {
	Repository[models.WidthModifier, models.WidthModifierFilter]
	ListAllActive(ctx context.Context) ([]*models.WidthModifier, error)
}

// ExchangeRateRepository defines operations for currency exchange rates
type ExchangeRateRepository interface {
	Repository[models.ExchangeRate, models.ExchangeRateFilter]
	// LatestActive returns the newest active rate for a currency pair, or nil.
	LatestActive(ctx context.Context, currencyFrom, currencyTo string) (*models.ExchangeRate, error)
}

// ProcessingOptionRepository defines operations for processing constraints
type ProcessingOptionRepository interface {
	Repository[models.ProcessingOption, models.ProcessingOptionFilter]
	ListMatching(ctx context.Context, grade, surfaceFinish string) ([]*models.ProcessingOption, error)
}

// PriceChangeAuditRepository defines operations for bulk price change audit entries
type PriceChangeAuditRepository interface {
	Repository[models.PriceChangeAudit, models.PriceChangeAuditFilter]
	ListRecent(ctx context.Context, limit, offset int) ([]*models.PriceChangeAudit, error)
}

// ImportExportAuditRepository defines operations for import/export audit entries
type ImportExportAuditRepository interface {
	Repository[models.ImportExportAudit, models.ImportExportAuditFilter]
	ListRecent(ctx context.Context, limit, offset int) ([]*models.ImportExportAudit, error)
}

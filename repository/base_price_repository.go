// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/blachmet/cennik/models"
	"github.com/blachmet/cennik/utils"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// BasePriceRepositoryImpl implements BasePriceRepository interface
type BasePriceRepositoryImpl struct {
	*BaseRepository[models.BasePrice, models.BasePriceFilter]
}

// NewBasePriceRepository creates a new base price repository
func NewBasePriceRepository(db *gorm.DB) BasePriceRepository {
	return &BasePriceRepositoryImpl{
		BaseRepository: NewBaseRepository[models.BasePrice, models.BasePriceFilter](db),
	}
}

// applyFilter applies exact-match filter conditions to the GORM query
func (r *BasePriceRepositoryImpl) applyFilter(db *gorm.DB, filter models.BasePriceFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("base_prices.id = ?", *filter.ID)
	}
	if filter.MaterialID != nil {
		db = db.Where("base_prices.material_id = ?", *filter.MaterialID)
	}
	if filter.SurfaceFinish != nil {
		db = db.Where("base_prices.surface_finish = ?", *filter.SurfaceFinish)
	}
	if filter.Thickness != nil {
		db = db.Where("base_prices.thickness = ?", *filter.Thickness)
	}
	if filter.Width != nil {
		db = db.Where("base_prices.width = ?", *filter.Width)
	}
	if filter.IsActive != nil {
		db = db.Where("base_prices.is_active = ?", *filter.IsActive)
	}
	if filter.OnlyPriced {
		db = db.Where("base_prices.price_pln_per_kg > 0")
	}
	return db
}

// joinedQuery builds the materials-joined query shared by bulk pricing, the
// price table and the facet helpers: active rows joined to materials and
// (optionally absent) groups, with the catalog-level filters applied on top.
// onlyPriced additionally cuts zero-priced (disabled) rows.
func (r *BasePriceRepositoryImpl) joinedQuery(db *gorm.DB, filter models.BasePriceFilter, onlyPriced bool) *gorm.DB {
	query := db.Model(&models.BasePrice{}).
		Joins("JOIN materials ON materials.id = base_prices.material_id").
		Joins("LEFT JOIN material_groups ON material_groups.id = materials.group_id").
		Where("base_prices.is_active = ?", true)

	if onlyPriced {
		query = query.Where("base_prices.price_pln_per_kg > 0")
	}

	if len(filter.Categories) > 0 {
		query = query.Where("materials.category = ANY(?)", pq.Array(filter.Categories))
	}
	if len(filter.GroupIDs) > 0 {
		ids := make(pq.Int64Array, len(filter.GroupIDs))
		for i, id := range filter.GroupIDs {
			ids[i] = int64(id)
		}
		query = query.Where("materials.group_id = ANY(?)", ids)
	}
	if len(filter.Grades) > 0 {
		query = query.Where("materials.grade = ANY(?)", pq.Array(filter.Grades))
	}
	if len(filter.SurfaceFinishes) > 0 {
		query = query.Where("base_prices.surface_finish = ANY(?)", pq.Array(filter.SurfaceFinishes))
	}
	if filter.ThicknessMin != nil {
		query = query.Where("base_prices.thickness >= ?", *filter.ThicknessMin)
	}
	if filter.ThicknessMax != nil {
		query = query.Where("base_prices.thickness <= ?", *filter.ThicknessMax)
	}
	if len(filter.Widths) > 0 {
		query = query.Where("base_prices.width = ANY(?)", pq.Array(filter.Widths))
	}
	return query
}

// bulkQuery is joinedQuery restricted to mutable rows: bulk changes never
// touch disabled (zero-priced) variants.
func (r *BasePriceRepositoryImpl) bulkQuery(db *gorm.DB, filter models.BasePriceFilter) *gorm.DB {
	return r.joinedQuery(db, filter, true)
}

// ByFilter retrieves base prices based on filter criteria
func (r *BasePriceRepositoryImpl) ByFilter(ctx context.Context, filter models.BasePriceFilter, orderBy string, limit, offset int) ([]*models.BasePrice, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.BasePrice{}), filter)

	if orderBy == "" {
		orderBy = "valid_from DESC, id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.BasePrice
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find base prices by filter: %w", err)
	}
	return rows, nil
}

// Count returns the number of base prices matching the filter
func (r *BasePriceRepositoryImpl) Count(ctx context.Context, filter models.BasePriceFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.BasePrice{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count base prices: %w", err)
	}
	return count, nil
}

// Exists checks if any base price matching the filter exists
func (r *BasePriceRepositoryImpl) Exists(ctx context.Context, filter models.BasePriceFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// LatestFor returns the active price row with the most recent valid_from for
// the exact variant, or nil when the variant has never been priced.
func (r *BasePriceRepositoryImpl) LatestFor(ctx context.Context, materialID uint, surfaceFinish string, thickness, width float64) (*models.BasePrice, error) {
	db := r.getDB(ctx)

	var rows []*models.BasePrice
	err := db.Where("material_id = ?", materialID).
		Where("surface_finish = ?", surfaceFinish).
		Where("thickness = ?", thickness).
		Where("width = ?", width).
		Where("is_active = ?", true).
		Order("valid_from DESC, id DESC").
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find latest base price: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// ListForBulk returns active, positively-priced rows matching the bulk filter
// set, with materials preloaded for display and auditing.
func (r *BasePriceRepositoryImpl) ListForBulk(ctx context.Context, filter models.BasePriceFilter) ([]*models.BasePrice, error) {
	db := r.getDB(ctx)

	var rows []*models.BasePrice
	err := r.bulkQuery(db, filter).
		Order("materials.grade ASC, base_prices.surface_finish ASC, base_prices.thickness ASC, base_prices.width ASC").
		Preload("Material").
		Preload("Material.Group").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list base prices for bulk update: %w", err)
	}
	return rows, nil
}

// ListForTable returns active rows under the catalog filters with materials
// preloaded. Zero-priced (disabled) variants are included so the table shows
// the whole matrix.
func (r *BasePriceRepositoryImpl) ListForTable(ctx context.Context, filter models.BasePriceFilter) ([]*models.BasePrice, error) {
	db := r.getDB(ctx)

	var rows []*models.BasePrice
	err := r.joinedQuery(db, filter, false).
		Order("materials.grade ASC, base_prices.surface_finish ASC, base_prices.thickness ASC, base_prices.width ASC").
		Preload("Material").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list base prices for price table: %w", err)
	}
	return rows, nil
}

// ListForExport returns price rows under the export filters with materials
// preloaded, in workbook row order. Unlike the table and bulk queries it can
// include inactive rows when the filter asks for them.
func (r *BasePriceRepositoryImpl) ListForExport(ctx context.Context, filter models.BasePriceFilter) ([]*models.BasePrice, error) {
	db := r.getDB(ctx)

	query := db.Model(&models.BasePrice{}).
		Joins("JOIN materials ON materials.id = base_prices.material_id")

	if filter.IsActive != nil {
		query = query.Where("base_prices.is_active = ?", *filter.IsActive)
	}
	if len(filter.Categories) > 0 {
		query = query.Where("materials.category = ANY(?)", pq.Array(filter.Categories))
	}
	if len(filter.SurfaceFinishes) > 0 {
		query = query.Where("base_prices.surface_finish = ANY(?)", pq.Array(filter.SurfaceFinishes))
	}
	if filter.ThicknessMin != nil {
		query = query.Where("base_prices.thickness >= ?", *filter.ThicknessMin)
	}
	if filter.ThicknessMax != nil {
		query = query.Where("base_prices.thickness <= ?", *filter.ThicknessMax)
	}
	if filter.WidthMin != nil {
		query = query.Where("base_prices.width >= ?", *filter.WidthMin)
	}
	if filter.WidthMax != nil {
		query = query.Where("base_prices.width <= ?", *filter.WidthMax)
	}

	var rows []*models.BasePrice
	err := query.
		Order("base_prices.material_id ASC, base_prices.surface_finish ASC, base_prices.thickness ASC, base_prices.width ASC").
		Preload("Material").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list base prices for export: %w", err)
	}
	return rows, nil
}

// ListAllActive returns every active price row with its material preloaded
func (r *BasePriceRepositoryImpl) ListAllActive(ctx context.Context) ([]*models.BasePrice, error) {
	db := r.getDB(ctx)

	var rows []*models.BasePrice
	err := db.Where("is_active = ?", true).
		Order("material_id ASC, surface_finish ASC, thickness ASC, width ASC, valid_from DESC").
		Preload("Material").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active base prices: %w", err)
	}
	return rows, nil
}

// ListByMaterial returns active price rows of one material, optionally
// restricted to a surface finish, ordered for the price table view.
func (r *BasePriceRepositoryImpl) ListByMaterial(ctx context.Context, materialID uint, surfaceFinish *string) ([]*models.BasePrice, error) {
	db := r.getDB(ctx)

	query := db.Where("material_id = ?", materialID).Where("is_active = ?", true)
	if surfaceFinish != nil {
		query = query.Where("surface_finish = ?", *surfaceFinish)
	}

	var rows []*models.BasePrice
	err := query.Order("surface_finish ASC, thickness ASC, width ASC, valid_from DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list base prices by material: %w", err)
	}
	return rows, nil
}

// UpdatePrice sets a new per-kilogram price on a single row
func (r *BasePriceRepositoryImpl) UpdatePrice(ctx context.Context, id uint, price float64) error {
	db := r.getDB(ctx)
	return db.Model(&models.BasePrice{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"price_pln_per_kg": price,
			"updated_at":       utils.UTCNow(),
		}).Error
}

// ListCategories returns the distinct material categories available under the filter
func (r *BasePriceRepositoryImpl) ListCategories(ctx context.Context, filter models.BasePriceFilter) ([]string, error) {
	db := r.getDB(ctx)

	var categories []string
	err := r.bulkQuery(db, filter).
		Distinct().
		Order("materials.category ASC").
		Pluck("materials.category", &categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// ListGrades returns the distinct material grades available under the filter
func (r *BasePriceRepositoryImpl) ListGrades(ctx context.Context, filter models.BasePriceFilter) ([]string, error) {
	db := r.getDB(ctx)

	var grades []string
	err := r.bulkQuery(db, filter).
		Distinct().
		Order("materials.grade ASC").
		Pluck("materials.grade", &grades).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list grades: %w", err)
	}
	return grades, nil
}

// ListSurfaceFinishes returns the distinct surface finishes available under the filter
func (r *BasePriceRepositoryImpl) ListSurfaceFinishes(ctx context.Context, filter models.BasePriceFilter) ([]string, error) {
	db := r.getDB(ctx)

	var finishes []string
	err := r.bulkQuery(db, filter).
		Distinct().
		Order("base_prices.surface_finish ASC").
		Pluck("base_prices.surface_finish", &finishes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list surface finishes: %w", err)
	}
	return finishes, nil
}

// ListWidths returns the distinct sheet widths available under the filter
func (r *BasePriceRepositoryImpl) ListWidths(ctx context.Context, filter models.BasePriceFilter) ([]float64, error) {
	db := r.getDB(ctx)

	var widths []float64
	err := r.bulkQuery(db, filter).
		Distinct().
		Order("base_prices.width ASC").
		Pluck("base_prices.width", &widths).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list widths: %w", err)
	}
	return widths, nil
}

// ListGroups returns the distinct material groups available under the filter
func (r *BasePriceRepositoryImpl) ListGroups(ctx context.Context, filter models.BasePriceFilter) ([]*models.MaterialGroup, error) {
	db := r.getDB(ctx)

	var groups []*models.MaterialGroup
	err := r.bulkQuery(db, filter).
		Where("material_groups.id IS NOT NULL").
		Select("DISTINCT material_groups.id, material_groups.name").
		Order("material_groups.name ASC").
		Scan(&groups).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

// ThicknessBounds returns the min and max thickness under the filter, or
// nils when no row matches.
func (r *BasePriceRepositoryImpl) ThicknessBounds(ctx context.Context, filter models.BasePriceFilter) (*float64, *float64, error) {
	db := r.getDB(ctx)

	type bounds struct {
		MinThickness *float64 `json:"min_thickness"`
		MaxThickness *float64 `json:"max_thickness"`
	}
	var b bounds
	err := r.bulkQuery(db, filter).
		Select("MIN(base_prices.thickness) AS min_thickness, MAX(base_prices.thickness) AS max_thickness").
		Scan(&b).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute thickness bounds: %w", err)
	}
	return b.MinThickness, b.MaxThickness, nil
}

package businessflow

import (
	"context"
	"encoding/json"
	"time"

	"github.com/blachmet/cennik/app/dto"
	"github.com/blachmet/cennik/models"
	"github.com/blachmet/cennik/repository"
	"github.com/blachmet/cennik/utils"
	"gorm.io/gorm"
)

// Request-level change types. Audit rows store them with a "bulk_" prefix.
const (
	ChangeTypePercentage = "percentage"
	ChangeTypeAbsolute   = "absolute"
)

// defaultRoundTo is the rounding precision applied when a request leaves
// round_to unset.
const defaultRoundTo = 2

// BulkPricingFlow previews and applies filtered price mutations on the base
// price matrix, exposes the mutually-narrowing filter facets and lists the
// audit trail of past mutations.
type BulkPricingFlow interface {
	Preview(ctx context.Context, req *dto.BulkChangeRequest, page, perPage int) (*dto.BulkPreviewResponse, error)
	Apply(ctx context.Context, req *dto.BulkChangeRequest, metadata *ClientMetadata) (*dto.BulkApplyResponse, error)
	FilterOptions(ctx context.Context, filters *dto.BulkPriceFilters) (*dto.BulkFilterOptionsResponse, error)
	AuditHistory(ctx context.Context, limit, offset int, changeType *string) (*dto.PriceAuditHistoryResponse, error)
}

type BulkPricingFlowImpl struct {
	basePriceRepo     repository.BasePriceRepository
	materialGroupRepo repository.MaterialGroupRepository
	auditRepo         repository.PriceChangeAuditRepository
	db                *gorm.DB
}

func NewBulkPricingFlow(
	basePriceRepo repository.BasePriceRepository,
	materialGroupRepo repository.MaterialGroupRepository,
	auditRepo repository.PriceChangeAuditRepository,
	db *gorm.DB,
) BulkPricingFlow {
	return &BulkPricingFlowImpl{
		basePriceRepo:     basePriceRepo,
		materialGroupRepo: materialGroupRepo,
		auditRepo:         auditRepo,
		db:                db,
	}
}

// Preview computes the effect of a bulk change without writing anything.
// Totals aggregate over the whole filtered set; per-row deltas are returned
// for the requested page only.
func (f *BulkPricingFlowImpl) Preview(ctx context.Context, req *dto.BulkChangeRequest, page, perPage int) (*dto.BulkPreviewResponse, error) {
	roundPlaces, err := validateChange(req)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 200 {
		perPage = 50
	}

	rows, err := f.basePriceRepo.ListForBulk(ctx, toBulkBaseFilter(&req.Filters))
	if err != nil {
		return nil, NewBusinessError("BULK_PREVIEW_FAILED", "Failed to load prices for preview", err)
	}

	totalCurrent := 0.0
	totalNew := 0.0
	newPrices := make([]float64, len(rows))
	for i, row := range rows {
		newPrices[i] = calculateNewPrice(row.PricePLNPerKg, req.ChangeType, req.ChangeValue, roundPlaces)
		totalCurrent += row.PricePLNPerKg
		totalNew += newPrices[i]
	}

	totalPages := 1
	if len(rows) > 0 {
		totalPages = (len(rows) + perPage - 1) / perPage
	}

	start := (page - 1) * perPage
	if start > len(rows) {
		start = len(rows)
	}
	end := start + perPage
	if end > len(rows) {
		end = len(rows)
	}

	items := make([]dto.BulkPreviewItemDTO, 0, end-start)
	for i := start; i < end; i++ {
		items = append(items, toBulkPreviewItem(rows[i], newPrices[i], roundPlaces))
	}

	return &dto.BulkPreviewResponse{
		TotalAffected:     len(rows),
		TotalCurrentValue: roundTo(totalCurrent, 2),
		TotalNewValue:     roundTo(totalNew, 2),
		ChangeType:        req.ChangeType,
		ChangeValue:       req.ChangeValue,
		Items:             items,
		Page:              page,
		PerPage:           perPage,
		TotalPages:        totalPages,
	}, nil
}

// Apply executes a bulk change in one transaction. The filter query re-runs
// inside the transaction, so rows that changed since the preview are mutated
// at their current price. Rows whose computed price equals the current one
// are skipped; one audit row records the mutation with totals over the
// updated rows only.
func (f *BulkPricingFlowImpl) Apply(ctx context.Context, req *dto.BulkChangeRequest, metadata *ClientMetadata) (*dto.BulkApplyResponse, error) {
	roundPlaces, err := validateChange(req)
	if err != nil {
		return nil, err
	}

	filtersJSON, err := json.Marshal(req.Filters)
	if err != nil {
		return nil, NewBusinessError("BULK_APPLY_FAILED", "Failed to encode filter snapshot", err)
	}

	auditChangeType := models.ChangeTypeBulkAbsolute
	if req.ChangeType == ChangeTypePercentage {
		auditChangeType = models.ChangeTypeBulkPercentage
	}

	var resp *dto.BulkApplyResponse
	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		rows, err := f.basePriceRepo.ListForBulk(txCtx, toBulkBaseFilter(&req.Filters))
		if err != nil {
			return err
		}

		updated := 0
		skipped := 0
		previousTotal := 0.0
		newTotal := 0.0
		for _, row := range rows {
			newPrice := calculateNewPrice(row.PricePLNPerKg, req.ChangeType, req.ChangeValue, roundPlaces)
			if newPrice == row.PricePLNPerKg {
				skipped++
				continue
			}
			if err := f.basePriceRepo.UpdatePrice(txCtx, row.ID, newPrice); err != nil {
				return err
			}
			previousTotal += row.PricePLNPerKg
			newTotal += newPrice
			updated++
		}

		audit := &models.PriceChangeAudit{
			ChangeType:    auditChangeType,
			FiltersJSON:   filtersJSON,
			ChangeValue:   req.ChangeValue,
			AffectedCount: updated,
			PreviousTotal: roundTo(previousTotal, 2),
			NewTotal:      roundTo(newTotal, 2),
			UserID:        metadata.ActorOrNil(),
			Notes:         req.Notes,
			CreatedAt:     utils.UTCNow(),
		}
		if err := f.auditRepo.Save(txCtx, audit); err != nil {
			return err
		}

		resp = &dto.BulkApplyResponse{
			Success:       true,
			UpdatedCount:  updated,
			SkippedCount:  skipped,
			TotalPrevious: audit.PreviousTotal,
			TotalNew:      audit.NewTotal,
			ChangeType:    req.ChangeType,
			ChangeValue:   req.ChangeValue,
			AuditID:       audit.ID,
		}
		return nil
	})
	if err != nil {
		return nil, NewBusinessError("BULK_APPLY_FAILED", "Failed to apply bulk price change", err)
	}

	bulkAppliesTotal.WithLabelValues(req.ChangeType).Inc()
	return resp, nil
}

// FilterOptions returns the facet values available under the current
// selection. Each enumerable facet is computed with every other selected
// filter applied and its own skipped, so narrowing one facet narrows the
// others without locking the user out of widening the current one. The
// thickness range reflects all selected facets.
func (f *BulkPricingFlowImpl) FilterOptions(ctx context.Context, filters *dto.BulkPriceFilters) (*dto.BulkFilterOptionsResponse, error) {
	base := models.BasePriceFilter{
		Categories:      filters.Categories,
		GroupIDs:        filters.GroupIDs,
		Grades:          filters.Grades,
		SurfaceFinishes: filters.SurfaceFinishes,
		Widths:          filters.Widths,
	}
	anySelected := len(filters.Categories) > 0 || len(filters.GroupIDs) > 0 ||
		len(filters.Grades) > 0 || len(filters.SurfaceFinishes) > 0 || len(filters.Widths) > 0

	categoriesFilter := base
	categoriesFilter.Categories = nil
	availableCategories, err := f.basePriceRepo.ListCategories(ctx, categoriesFilter)
	if err != nil {
		return nil, NewBusinessError("BULK_FILTER_OPTIONS_FAILED", "Failed to list category options", err)
	}

	groupsFilter := base
	groupsFilter.GroupIDs = nil
	availableGroups, err := f.basePriceRepo.ListGroups(ctx, groupsFilter)
	if err != nil {
		return nil, NewBusinessError("BULK_FILTER_OPTIONS_FAILED", "Failed to list group options", err)
	}

	gradesFilter := base
	gradesFilter.Grades = nil
	grades, err := f.basePriceRepo.ListGrades(ctx, gradesFilter)
	if err != nil {
		return nil, NewBusinessError("BULK_FILTER_OPTIONS_FAILED", "Failed to list grade options", err)
	}

	finishesFilter := base
	finishesFilter.SurfaceFinishes = nil
	finishes, err := f.basePriceRepo.ListSurfaceFinishes(ctx, finishesFilter)
	if err != nil {
		return nil, NewBusinessError("BULK_FILTER_OPTIONS_FAILED", "Failed to list surface finish options", err)
	}

	widthsFilter := base
	widthsFilter.Widths = nil
	widths, err := f.basePriceRepo.ListWidths(ctx, widthsFilter)
	if err != nil {
		return nil, NewBusinessError("BULK_FILTER_OPTIONS_FAILED", "Failed to list width options", err)
	}

	minThickness, maxThickness, err := f.basePriceRepo.ThicknessBounds(ctx, base)
	if err != nil {
		return nil, NewBusinessError("BULK_FILTER_OPTIONS_FAILED", "Failed to compute thickness range", err)
	}

	// Categories keep the fixed catalog order; with no selection at all the
	// full catalog is offered regardless of what is priced.
	availableCategorySet := make(map[string]struct{}, len(availableCategories))
	for _, category := range availableCategories {
		availableCategorySet[category] = struct{}{}
	}
	categories := make([]dto.FilterOptionDTO, 0, len(models.MaterialCategories))
	for _, category := range models.MaterialCategories {
		if anySelected {
			if _, ok := availableCategorySet[category]; !ok {
				continue
			}
		}
		categories = append(categories, dto.FilterOptionDTO{
			Value: category,
			Label: models.CategoryLabel(category),
		})
	}

	// Groups come from the catalog in display order, narrowed to the IDs
	// still priced once anything is selected.
	allGroups, err := f.materialGroupRepo.ListActive(ctx)
	if err != nil {
		return nil, NewBusinessError("BULK_FILTER_OPTIONS_FAILED", "Failed to list material groups", err)
	}
	availableGroupIDs := make(map[uint]struct{}, len(availableGroups))
	for _, group := range availableGroups {
		availableGroupIDs[group.ID] = struct{}{}
	}
	groups := make([]dto.GroupOptionDTO, 0, len(allGroups))
	for _, group := range allGroups {
		if anySelected {
			if _, ok := availableGroupIDs[group.ID]; !ok {
				continue
			}
		}
		groups = append(groups, dto.GroupOptionDTO{
			ID:       group.ID,
			Name:     group.Name,
			Category: group.Category,
		})
	}

	thicknessRange := dto.ThicknessRangeDTO{}
	if minThickness != nil {
		thicknessRange.Min = *minThickness
	}
	if maxThickness != nil {
		thicknessRange.Max = *maxThickness
	}

	return &dto.BulkFilterOptionsResponse{
		Categories:      categories,
		Groups:          groups,
		Grades:          grades,
		SurfaceFinishes: finishes,
		ThicknessRange:  thicknessRange,
		Widths:          widths,
	}, nil
}

// AuditHistory lists recorded bulk mutations newest-first, optionally
// restricted to one change type.
func (f *BulkPricingFlowImpl) AuditHistory(ctx context.Context, limit, offset int, changeType *string) (*dto.PriceAuditHistoryResponse, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	filter := models.PriceChangeAuditFilter{ChangeType: changeType}
	rows, err := f.auditRepo.ByFilter(ctx, filter, "created_at DESC", limit, offset)
	if err != nil {
		return nil, NewBusinessError("AUDIT_HISTORY_FAILED", "Failed to load price change history", err)
	}
	total, err := f.auditRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("AUDIT_HISTORY_FAILED", "Failed to count price change history", err)
	}

	items := make([]dto.PriceAuditEntryDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, toPriceAuditEntryDTO(row))
	}

	return &dto.PriceAuditHistoryResponse{
		Message: "Price change history retrieved successfully",
		Items:   items,
		Total:   total,
		Page:    offset/limit + 1,
		PerPage: limit,
	}, nil
}

// validateChange checks the mutation parameters and resolves the rounding
// precision.
func validateChange(req *dto.BulkChangeRequest) (int, error) {
	if req.ChangeType != ChangeTypePercentage && req.ChangeType != ChangeTypeAbsolute {
		return 0, NewBusinessErrorf("BULK_CHANGE_TYPE_INVALID", "Invalid change type: %s", ErrInvalidChangeType, req.ChangeType)
	}
	if req.ChangeType == ChangeTypePercentage && req.ChangeValue < -100 {
		return 0, NewBusinessErrorf("BULK_CHANGE_VALUE_INVALID", "Invalid percentage change: %v", ErrInvalidChangeValue, req.ChangeValue)
	}
	roundPlaces := defaultRoundTo
	if req.RoundTo != nil {
		if *req.RoundTo < 0 || *req.RoundTo > 4 {
			return 0, NewBusinessErrorf("BULK_ROUNDING_INVALID", "Invalid rounding precision: %d", ErrInvalidRounding, *req.RoundTo)
		}
		roundPlaces = *req.RoundTo
	}
	return roundPlaces, nil
}

// calculateNewPrice applies one mutation to a single price. Results never go
// below zero; zero is a legal outcome and disables the variant.
func calculateNewPrice(current float64, changeType string, changeValue float64, roundPlaces int) float64 {
	var next float64
	switch changeType {
	case ChangeTypePercentage:
		next = current * (1 + changeValue/100)
	case ChangeTypeAbsolute:
		next = current + changeValue
	default:
		next = current
	}
	if next < 0 {
		next = 0
	}
	return roundTo(next, roundPlaces)
}

// toBulkBaseFilter maps the request facets onto the repository filter.
func toBulkBaseFilter(filters *dto.BulkPriceFilters) models.BasePriceFilter {
	return models.BasePriceFilter{
		Categories:      filters.Categories,
		GroupIDs:        filters.GroupIDs,
		Grades:          filters.Grades,
		SurfaceFinishes: filters.SurfaceFinishes,
		ThicknessMin:    filters.ThicknessMin,
		ThicknessMax:    filters.ThicknessMax,
		Widths:          filters.Widths,
	}
}

func toBulkPreviewItem(row *models.BasePrice, newPrice float64, roundPlaces int) dto.BulkPreviewItemDTO {
	item := dto.BulkPreviewItemDTO{
		ID:            row.ID,
		SurfaceFinish: row.SurfaceFinish,
		Thickness:     row.Thickness,
		Width:         row.Width,
		CurrentPrice:  row.PricePLNPerKg,
		NewPrice:      newPrice,
		ChangeAmount:  roundTo(newPrice-row.PricePLNPerKg, roundPlaces),
	}
	if row.Material != nil {
		item.MaterialGrade = row.Material.Grade
		item.MaterialName = row.Material.Name
		if row.Material.Group != nil {
			item.GroupName = utils.ToPtr(row.Material.Group.Name)
		}
	}
	return item
}

func toPriceAuditEntryDTO(row *models.PriceChangeAudit) dto.PriceAuditEntryDTO {
	entry := dto.PriceAuditEntryDTO{
		ID:            row.ID,
		ChangeType:    row.ChangeType,
		ChangeValue:   row.ChangeValue,
		AffectedCount: row.AffectedCount,
		PreviousTotal: row.PreviousTotal,
		NewTotal:      row.NewTotal,
		User:          "unknown",
		CreatedAt:     row.CreatedAt.Format(time.RFC3339),
		Notes:         row.Notes,
	}
	if row.UserID != nil && *row.UserID != "" {
		entry.User = *row.UserID
	}
	if len(row.FiltersJSON) > 0 {
		var filters any
		if err := json.Unmarshal(row.FiltersJSON, &filters); err == nil {
			entry.Filters = filters
		}
	}
	return entry
}

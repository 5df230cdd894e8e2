package businessflow

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/blachmet/cennik/app/dto"
	"github.com/blachmet/cennik/models"
	"github.com/blachmet/cennik/repository"
	"github.com/blachmet/cennik/utils"
	"gorm.io/gorm"
)

// User-facing reasons attached to unavailable configurations. Catalog
// vocabulary is Polish, matching the notes stored on catalog rows.
const (
	ReasonNoMatrixEntry   = "Brak pozycji w matrycy cen"
	ReasonBlockedInMatrix = "Pozycja zablokowana w matrycy cen"
)

// Availability is the outcome of a price matrix lookup. Available is true
// only for an active row with a positive price; Price is 0 otherwise.
type Availability struct {
	Available bool
	Price     float64
}

// availabilityOf is the single place where the matrix convention lives:
// a positive price on an active row means available, everything else is
// disabled. Restrictions are defined by the matrices, not by code.
func availabilityOf(price float64, active bool) Availability {
	if active && price > 0 {
		return Availability{Available: true, Price: price}
	}
	return Availability{}
}

// AvailabilityFlow answers availability questions from the grinding and film
// price matrices and maintains the grinding matrix.
type AvailabilityFlow interface {
	CheckGrinding(ctx context.Context, req *dto.GrindingCheckRequest) (*dto.AvailabilityResponse, error)
	CheckFilm(ctx context.Context, req *dto.FilmCheckRequest) (*dto.AvailabilityResponse, error)
	ListGrindingOptions(ctx context.Context, thickness, width float64, grit string) (*dto.GrindingOptionsResponse, error)
	GrindingMatrix(ctx context.Context, provider string, widthVariant *string) (*dto.GrindingMatrixResponse, error)
	UpsertGrindingPrice(ctx context.Context, req *dto.UpsertGrindingPriceRequest) (*dto.UpsertGrindingPriceResponse, error)
	BulkUpdateMatrix(ctx context.Context, req *dto.GrindingBulkUpdateRequest) (*dto.GrindingBulkUpdateResponse, error)
	FilmMatrix(ctx context.Context) (*dto.FilmMatrixResponse, error)
}

type AvailabilityFlowImpl struct {
	grindingPriceRepo repository.GrindingPriceRepository
	filmPriceRepo     repository.FilmPriceRepository
	db                *gorm.DB
}

func NewAvailabilityFlow(
	grindingPriceRepo repository.GrindingPriceRepository,
	filmPriceRepo repository.FilmPriceRepository,
	db *gorm.DB,
) AvailabilityFlow {
	return &AvailabilityFlowImpl{
		grindingPriceRepo: grindingPriceRepo,
		filmPriceRepo:     filmPriceRepo,
		db:                db,
	}
}

// CheckGrinding reports whether one grinding configuration is available. The
// provider-specific width → width-variant mapping is applied here and only
// here: BORYS prices narrow coils (width ≤ 1500) and wide coils separately.
func (f *AvailabilityFlowImpl) CheckGrinding(ctx context.Context, req *dto.GrindingCheckRequest) (*dto.AvailabilityResponse, error) {
	provider := normalizeProvider(req.Provider)
	if !models.IsKnownProvider(provider) {
		return nil, NewBusinessErrorf("GRINDING_PROVIDER_UNKNOWN", "Unknown grinding provider: %s", ErrUnknownProvider, req.Provider)
	}

	filter := models.GrindingPriceFilter{
		Provider:     &provider,
		Thickness:    &req.Thickness,
		WithSB:       utils.ToPtr(req.WithSB),
		IsActive:     utils.ToPtr(true),
		WidthVariant: grindingWidthVariantFor(provider, req.Width),
	}
	if req.Grit != "" {
		filter.Grit = &req.Grit
	}

	row, err := f.grindingPriceRepo.Lookup(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("GRINDING_LOOKUP_FAILED", "Failed to look up grinding price", err)
	}

	var availability Availability
	if row != nil {
		availability = availabilityOf(row.PricePLNPerKg, row.IsActive)
	}

	resp := &dto.AvailabilityResponse{
		IsAvailable: availability.Available,
		Provider:    provider,
		Thickness:   req.Thickness,
		Grit:        req.Grit,
	}
	switch {
	case availability.Available:
		resp.Price = utils.ToPtr(availability.Price)
	case row == nil:
		resp.Reason = utils.ToPtr(ReasonNoMatrixEntry)
	default:
		resp.Reason = utils.ToPtr(ReasonBlockedInMatrix)
	}
	return resp, nil
}

// CheckFilm reports whether a film type is available at a given thickness.
func (f *AvailabilityFlowImpl) CheckFilm(ctx context.Context, req *dto.FilmCheckRequest) (*dto.AvailabilityResponse, error) {
	filmType := models.MatchFilmType(strings.TrimSpace(req.FilmType))
	if filmType == "" {
		return nil, NewBusinessErrorf("FILM_TYPE_UNKNOWN", "Unknown film type: %s", ErrUnknownFilmType, req.FilmType)
	}

	row, err := f.filmPriceRepo.Lookup(ctx, filmType, req.Thickness)
	if err != nil {
		return nil, NewBusinessError("FILM_LOOKUP_FAILED", "Failed to look up film price", err)
	}

	var availability Availability
	if row != nil {
		availability = availabilityOf(row.PricePLNPerKg, row.IsActive)
	}

	resp := &dto.AvailabilityResponse{
		IsAvailable: availability.Available,
		FilmType:    filmType,
		Thickness:   req.Thickness,
	}
	switch {
	case availability.Available:
		resp.Price = utils.ToPtr(availability.Price)
	case row == nil:
		resp.Reason = utils.ToPtr(ReasonNoMatrixEntry)
	default:
		resp.Reason = utils.ToPtr(ReasonBlockedInMatrix)
	}
	return resp, nil
}

// ListGrindingOptions returns, per provider, the grinding options priced for
// a thickness/width pair. Only cells with a positive price appear.
func (f *AvailabilityFlowImpl) ListGrindingOptions(ctx context.Context, thickness, width float64, grit string) (*dto.GrindingOptionsResponse, error) {
	providers := make([]dto.ProviderOptionsDTO, 0, len(models.GrindingProviders))

	for _, provider := range models.GrindingProviders {
		filter := models.GrindingPriceFilter{
			Provider:     utils.ToPtr(provider),
			Thickness:    &thickness,
			IsActive:     utils.ToPtr(true),
			OnlyPriced:   true,
			WidthVariant: grindingWidthVariantFor(provider, width),
		}
		if grit != "" {
			filter.Grit = &grit
		}

		rows, err := f.grindingPriceRepo.ByFilter(ctx, filter, "grit ASC, with_sb ASC", 0, 0)
		if err != nil {
			return nil, NewBusinessError("GRINDING_OPTIONS_FAILED", "Failed to list grinding options", err)
		}
		if len(rows) == 0 {
			continue
		}

		gritSet := make(map[string]struct{})
		prices := make(map[string]float64, len(rows))
		for _, row := range rows {
			if row.Grit != nil {
				gritSet[*row.Grit] = struct{}{}
			}
			prices[gritKey(row.Grit, row.WithSB)] = row.PricePLNPerKg
		}

		grits := make([]string, 0, len(gritSet))
		for g := range gritSet {
			grits = append(grits, g)
		}
		sort.Strings(grits)

		providers = append(providers, dto.ProviderOptionsDTO{
			Provider:     provider,
			Grits:        grits,
			Prices:       prices,
			WidthVariant: rows[0].WidthVariant,
		})
	}

	return &dto.GrindingOptionsResponse{
		Message:   "Grinding options retrieved successfully",
		Providers: providers,
		Thickness: thickness,
		Width:     width,
	}, nil
}

// GrindingMatrix returns the full thickness × grit-key matrix of one
// provider, blocked cells included, so the whole matrix can be edited.
func (f *AvailabilityFlowImpl) GrindingMatrix(ctx context.Context, provider string, widthVariant *string) (*dto.GrindingMatrixResponse, error) {
	provider = normalizeProvider(provider)
	if !models.IsKnownProvider(provider) {
		return nil, NewBusinessErrorf("GRINDING_PROVIDER_UNKNOWN", "Unknown grinding provider: %s", ErrUnknownProvider, provider)
	}

	rows, err := f.grindingPriceRepo.ListByProvider(ctx, provider, widthVariant)
	if err != nil {
		return nil, NewBusinessError("GRINDING_MATRIX_FAILED", "Failed to load grinding matrix", err)
	}

	matrix := make(map[string]map[string]dto.GrindingMatrixCellDTO)
	thicknessSet := make(map[float64]struct{})
	gritKeySet := make(map[string]struct{})

	for _, row := range rows {
		thicknessSet[row.Thickness] = struct{}{}
		tKey := thicknessKey(row.Thickness)
		if matrix[tKey] == nil {
			matrix[tKey] = make(map[string]dto.GrindingMatrixCellDTO)
		}

		key := gritKey(row.Grit, row.WithSB)
		gritKeySet[key] = struct{}{}
		matrix[tKey][key] = dto.GrindingMatrixCellDTO{
			ID:        row.ID,
			Price:     row.PricePLNPerKg,
			IsBlocked: row.PricePLNPerKg == 0,
			Grit:      row.Grit,
			WithSB:    row.WithSB,
		}
	}

	thicknesses := make([]float64, 0, len(thicknessSet))
	for t := range thicknessSet {
		thicknesses = append(thicknesses, t)
	}
	sort.Float64s(thicknesses)

	grits := make([]string, 0, len(gritKeySet))
	for g := range gritKeySet {
		grits = append(grits, g)
	}
	sort.Strings(grits)

	return &dto.GrindingMatrixResponse{
		Provider:     provider,
		WidthVariant: widthVariant,
		Matrix:       matrix,
		Thicknesses:  thicknesses,
		Grits:        grits,
	}, nil
}

// UpsertGrindingPrice creates or updates one matrix cell. Writing price 0
// blocks the combination.
func (f *AvailabilityFlowImpl) UpsertGrindingPrice(ctx context.Context, req *dto.UpsertGrindingPriceRequest) (*dto.UpsertGrindingPriceResponse, error) {
	provider := normalizeProvider(req.Provider)
	if !models.IsKnownProvider(provider) {
		return nil, NewBusinessErrorf("GRINDING_PROVIDER_UNKNOWN", "Unknown grinding provider: %s", ErrUnknownProvider, req.Provider)
	}

	var grit *string
	if req.Grit != "" {
		grit = utils.ToPtr(req.Grit)
	}

	var resp *dto.UpsertGrindingPriceResponse
	err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		row, err := f.upsertCell(txCtx, provider, req.Thickness, grit, *req.Price, req.WidthVariant, req.WithSB)
		if err != nil {
			return err
		}
		resp = &dto.UpsertGrindingPriceResponse{
			ID:        row.ID,
			Price:     row.PricePLNPerKg,
			IsBlocked: row.PricePLNPerKg == 0,
		}
		return nil
	})
	if err != nil {
		return nil, NewBusinessError("GRINDING_PRICE_SAVE_FAILED", "Failed to save grinding price", err)
	}
	return resp, nil
}

// BulkUpdateMatrix applies a list of cell writes for one provider in one
// transaction.
func (f *AvailabilityFlowImpl) BulkUpdateMatrix(ctx context.Context, req *dto.GrindingBulkUpdateRequest) (*dto.GrindingBulkUpdateResponse, error) {
	provider := normalizeProvider(req.Provider)
	if !models.IsKnownProvider(provider) {
		return nil, NewBusinessErrorf("GRINDING_PROVIDER_UNKNOWN", "Unknown grinding provider: %s", ErrUnknownProvider, req.Provider)
	}

	updated := 0
	err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		for _, update := range req.Updates {
			var grit *string
			if update.Grit != "" {
				grit = utils.ToPtr(update.Grit)
			}
			if _, err := f.upsertCell(txCtx, provider, update.Thickness, grit, *update.Price, update.WidthVariant, update.WithSB); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return nil, NewBusinessError("GRINDING_MATRIX_UPDATE_FAILED", "Failed to update grinding matrix", err)
	}

	return &dto.GrindingBulkUpdateResponse{
		Updated:  updated,
		Provider: provider,
	}, nil
}

// FilmMatrix returns the thickness × film-type matrix, blocked cells
// included.
func (f *AvailabilityFlowImpl) FilmMatrix(ctx context.Context) (*dto.FilmMatrixResponse, error) {
	rows, err := f.filmPriceRepo.ListAllActive(ctx)
	if err != nil {
		return nil, NewBusinessError("FILM_MATRIX_FAILED", "Failed to load film matrix", err)
	}

	matrix := make(map[string]map[string]dto.FilmMatrixCellDTO)
	thicknessSet := make(map[float64]struct{})
	filmTypeSet := make(map[string]struct{})

	for _, row := range rows {
		thicknessSet[row.Thickness] = struct{}{}
		filmTypeSet[row.FilmType] = struct{}{}

		tKey := thicknessKey(row.Thickness)
		if matrix[tKey] == nil {
			matrix[tKey] = make(map[string]dto.FilmMatrixCellDTO)
		}
		matrix[tKey][row.FilmType] = dto.FilmMatrixCellDTO{
			ID:        row.ID,
			Price:     row.PricePLNPerKg,
			IsBlocked: row.PricePLNPerKg == 0,
			FilmType:  row.FilmType,
		}
	}

	thicknesses := make([]float64, 0, len(thicknessSet))
	for t := range thicknessSet {
		thicknesses = append(thicknesses, t)
	}
	sort.Float64s(thicknesses)

	filmTypes := make([]string, 0, len(filmTypeSet))
	for ft := range filmTypeSet {
		filmTypes = append(filmTypes, ft)
	}
	sort.Strings(filmTypes)

	return &dto.FilmMatrixResponse{
		Matrix:      matrix,
		Thicknesses: thicknesses,
		FilmTypes:   filmTypes,
	}, nil
}

// upsertCell writes one matrix cell, matching nil grit/variant exactly so an
// existing row is updated rather than duplicated.
func (f *AvailabilityFlowImpl) upsertCell(ctx context.Context, provider string, thickness float64, grit *string, price float64, widthVariant *string, withSB bool) (*models.GrindingPrice, error) {
	existing, err := f.grindingPriceRepo.FindCell(ctx, provider, thickness, grit, widthVariant, withSB)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if err := f.grindingPriceRepo.UpdatePrice(ctx, existing.ID, price); err != nil {
			return nil, err
		}
		existing.PricePLNPerKg = price
		return existing, nil
	}

	row := &models.GrindingPrice{
		Provider:      provider,
		Grit:          grit,
		WidthVariant:  widthVariant,
		Thickness:     thickness,
		PricePLNPerKg: price,
		WithSB:        withSB,
		IsActive:      true,
		CreatedAt:     utils.UTCNow(),
		UpdatedAt:     utils.UTCNow(),
	}
	if err := f.grindingPriceRepo.Save(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

func normalizeProvider(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// grindingWidthVariantFor maps a sheet width to a provider's matrix variant.
// Only BORYS prices by width; other providers return nil (no filter).
func grindingWidthVariantFor(provider string, width float64) *string {
	if provider != models.ProviderBORYS {
		return nil
	}
	return utils.ToPtr(models.GrindingWidthVariant(width))
}

// gritKey renders the matrix column key: the grit value with a "_sb" suffix
// for with-SB cells. Cells without a grit (BORYS) key on the suffix alone.
func gritKey(grit *string, withSB bool) string {
	key := ""
	if grit != nil {
		key = *grit
	}
	if withSB {
		key += "_sb"
	}
	return key
}

// thicknessKey renders a thickness as the shortest decimal string, used as
// the JSON matrix row key ("0.5", "1", "1.25").
func thicknessKey(t float64) string {
	return strconv.FormatFloat(t, 'f', -1, 64)
}

package businessflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/blachmet/cennik/app/dto"
	"github.com/blachmet/cennik/models"
	"github.com/blachmet/cennik/repository"
	"github.com/blachmet/cennik/utils"
)

// PricingFlow computes per-kilogram price breakdowns and serves the price
// table, processing options and the EUR/PLN exchange rate.
type PricingFlow interface {
	Calculate(ctx context.Context, req *dto.CalculatePriceRequest) (*dto.PriceBreakdownResponse, error)
	PriceTable(ctx context.Context, req *dto.PriceTableRequest) (*dto.PriceTableResponse, error)
	AvailableOptions(ctx context.Context, req *dto.AvailableOptionsRequest) (*dto.AvailableOptionsResponse, error)
	CurrentExchangeRate(ctx context.Context) (*dto.ExchangeRateResponse, error)
	UpdateExchangeRate(ctx context.Context, req *dto.UpdateExchangeRateRequest) (*dto.ExchangeRateResponse, error)
}

type PricingFlowImpl struct {
	materialRepo         repository.MaterialRepository
	basePriceRepo        repository.BasePriceRepository
	grindingPriceRepo    repository.GrindingPriceRepository
	filmPriceRepo        repository.FilmPriceRepository
	exchangeRateRepo     repository.ExchangeRateRepository
	processingOptionRepo repository.ProcessingOptionRepository
}

func NewPricingFlow(
	materialRepo repository.MaterialRepository,
	basePriceRepo repository.BasePriceRepository,
	grindingPriceRepo repository.GrindingPriceRepository,
	filmPriceRepo repository.FilmPriceRepository,
	exchangeRateRepo repository.ExchangeRateRepository,
	processingOptionRepo repository.ProcessingOptionRepository,
) PricingFlow {
	return &PricingFlowImpl{
		materialRepo:         materialRepo,
		basePriceRepo:        basePriceRepo,
		grindingPriceRepo:    grindingPriceRepo,
		filmPriceRepo:        filmPriceRepo,
		exchangeRateRepo:     exchangeRateRepo,
		processingOptionRepo: processingOptionRepo,
	}
}

// priceBreakdown accumulates the unrounded calculation. Rounding happens
// once, in the response mapper.
type priceBreakdown struct {
	basePrice    float64
	filmCost     float64
	grindingCost float64
	totalPLN     float64
	totalEUR     float64
	exchangeRate float64

	thickness float64
	width     float64
	length    float64
	weightKg  float64
	areaM2    float64

	materialGrade string
	surfaceFinish string
	filmType      *string
	provider      *string
	grit          *string

	grindingApplied bool
	filmApplied     bool
	notes           *string
}

func (b *priceBreakdown) computeTotals() {
	b.totalPLN = b.basePrice + b.filmCost + b.grindingCost
	if b.exchangeRate > 0 {
		b.totalEUR = b.totalPLN / b.exchangeRate
	}
}

// Calculate builds the full price breakdown for one sheet variant. The base
// price is required and fails hard; film and grinding are soft additions —
// an unavailable matrix cell contributes zero cost and leaves the applied
// flag false instead of failing the calculation.
func (f *PricingFlowImpl) Calculate(ctx context.Context, req *dto.CalculatePriceRequest) (*dto.PriceBreakdownResponse, error) {
	material, err := f.resolveMaterial(ctx, req.MaterialID, req.Grade)
	if err != nil {
		return nil, err
	}

	rate, _, err := f.currentRate(ctx)
	if err != nil {
		return nil, NewBusinessError("EXCHANGE_RATE_LOOKUP_FAILED", "Failed to look up exchange rate", err)
	}

	breakdown := &priceBreakdown{
		exchangeRate:  rate,
		thickness:     req.Thickness,
		width:         req.Width,
		length:        req.Length,
		materialGrade: material.Grade,
		surfaceFinish: req.SurfaceFinish,
	}
	breakdown.weightKg = sheetWeightKg(req.Thickness, req.Width, req.Length, material.Density)
	breakdown.areaM2 = sheetAreaM2(req.Width, req.Length)

	basePrice, err := f.basePriceRepo.LatestFor(ctx, material.ID, req.SurfaceFinish, req.Thickness, req.Width)
	if err != nil {
		return nil, NewBusinessError("BASE_PRICE_LOOKUP_FAILED", "Failed to look up base price", err)
	}
	if basePrice == nil {
		return nil, NewBusinessErrorf("BASE_PRICE_NOT_FOUND", "No base price for: %s %s %vmm x %vmm",
			ErrBasePriceNotFound, material.Grade, req.SurfaceFinish, req.Thickness, req.Width)
	}
	breakdown.basePrice = basePrice.PricePLNPerKg
	breakdown.notes = basePrice.Notes

	var grindingProvider string
	if req.GrindingProvider != "" {
		grindingProvider = normalizeProvider(req.GrindingProvider)
		if !models.IsKnownProvider(grindingProvider) {
			return nil, NewBusinessErrorf("GRINDING_PROVIDER_UNKNOWN", "Unknown grinding provider: %s", ErrUnknownProvider, req.GrindingProvider)
		}

		allowed, gateNotes, err := f.processingGate(ctx, material.Grade, req.SurfaceFinish, req.Thickness, req.Width, true)
		if err != nil {
			return nil, NewBusinessError("PROCESSING_GATE_FAILED", "Failed to evaluate processing constraints", err)
		}
		if !allowed {
			// Requested processing is ruled out for this variant: surface the
			// gate note, price the bare sheet and stop here.
			breakdown.notes = gateNotes
			breakdown.computeTotals()
			return toPriceBreakdownResponse(breakdown), nil
		}
	}

	if req.FilmType != "" {
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
		if availability.Available {
			breakdown.filmCost = availability.Price
			breakdown.filmType = &filmType
			breakdown.filmApplied = true
		}
	}

	if grindingProvider != "" {
		filter := models.GrindingPriceFilter{
			Provider:     &grindingProvider,
			Thickness:    &req.Thickness,
			IsActive:     utils.ToPtr(true),
			WidthVariant: grindingWidthVariantFor(grindingProvider, req.Width),
		}
		if req.GrindingGrit != "" {
			filter.Grit = &req.GrindingGrit
		}
		if req.WithSB {
			filter.WithSB = utils.ToPtr(true)
		}

		row, err := f.grindingPriceRepo.Lookup(ctx, filter)
		if err != nil {
			return nil, NewBusinessError("GRINDING_LOOKUP_FAILED", "Failed to look up grinding price", err)
		}
		var availability Availability
		if row != nil {
			availability = availabilityOf(row.PricePLNPerKg, row.IsActive)
		}
		if availability.Available {
			breakdown.grindingCost = availability.Price
			breakdown.provider = &grindingProvider
			if req.GrindingGrit != "" {
				breakdown.grit = utils.ToPtr(req.GrindingGrit)
			}
			breakdown.grindingApplied = true
		}
	}

	breakdown.computeTotals()
	return toPriceBreakdownResponse(breakdown), nil
}

// PriceTable lists price rows joined with their materials, converted to EUR
// with the current rate.
func (f *PricingFlowImpl) PriceTable(ctx context.Context, req *dto.PriceTableRequest) (*dto.PriceTableResponse, error) {
	rate, _, err := f.currentRate(ctx)
	if err != nil {
		return nil, NewBusinessError("EXCHANGE_RATE_LOOKUP_FAILED", "Failed to look up exchange rate", err)
	}

	filter := models.BasePriceFilter{
		ThicknessMin: req.ThicknessMin,
		ThicknessMax: req.ThicknessMax,
	}
	if req.Category != "" {
		filter.Categories = []string{req.Category}
	}
	if req.Grade != "" {
		filter.Grades = []string{req.Grade}
	}
	if req.SurfaceFinish != "" {
		filter.SurfaceFinishes = []string{req.SurfaceFinish}
	}
	if req.Width != nil {
		filter.Widths = []float64{*req.Width}
	}

	rows, err := f.basePriceRepo.ListForTable(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("PRICE_TABLE_FAILED", "Failed to load price table", err)
	}

	items := make([]dto.PriceTableRowDTO, 0, len(rows))
	for _, row := range rows {
		item := dto.PriceTableRowDTO{
			ID:            row.ID,
			MaterialID:    row.MaterialID,
			SurfaceFinish: row.SurfaceFinish,
			Thickness:     row.Thickness,
			Width:         row.Width,
			Length:        row.Length,
			PricePLNPerKg: row.PricePLNPerKg,
			PriceEURPerKg: roundTo(row.PricePLNPerKg/rate, 4),
			Notes:         row.Notes,
		}
		if row.Material != nil {
			item.MaterialName = row.Material.Name
			item.Grade = row.Material.Grade
			item.Category = row.Material.Category
		}
		items = append(items, item)
	}

	return &dto.PriceTableResponse{
		Message: "Price table retrieved successfully",
		Items:   items,
		Total:   len(items),
	}, nil
}

// AvailableOptions lists the film and grinding choices priced for a variant,
// together with the processing gate verdict.
func (f *PricingFlowImpl) AvailableOptions(ctx context.Context, req *dto.AvailableOptionsRequest) (*dto.AvailableOptionsResponse, error) {
	material, err := f.materialRepo.ByID(ctx, req.MaterialID)
	if err != nil {
		return nil, NewBusinessError("MATERIAL_LOOKUP_FAILED", "Failed to look up material", err)
	}
	if material == nil {
		return nil, NewBusinessErrorf("MATERIAL_NOT_FOUND", "Material %d not found", ErrMaterialNotFound, req.MaterialID)
	}

	allowed, notes, err := f.processingGate(ctx, material.Grade, req.SurfaceFinish, req.Thickness, req.Width, false)
	if err != nil {
		return nil, NewBusinessError("PROCESSING_GATE_FAILED", "Failed to evaluate processing constraints", err)
	}

	filmRows, err := f.filmPriceRepo.ByFilter(ctx, models.FilmPriceFilter{
		Thickness:  &req.Thickness,
		IsActive:   utils.ToPtr(true),
		OnlyPriced: true,
	}, "film_type ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("FILM_OPTIONS_FAILED", "Failed to list film options", err)
	}

	grindingRows, err := f.grindingPriceRepo.ByFilter(ctx, models.GrindingPriceFilter{
		Thickness:  &req.Thickness,
		IsActive:   utils.ToPtr(true),
		OnlyPriced: true,
	}, "provider ASC, grit ASC, with_sb ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("GRINDING_OPTIONS_FAILED", "Failed to list grinding options", err)
	}

	films := make([]dto.FilmOptionDTO, 0, len(filmRows))
	for _, row := range filmRows {
		films = append(films, dto.FilmOptionDTO{
			Type:       row.FilmType,
			PricePLNKg: row.PricePLNPerKg,
		})
	}

	grindings := make([]dto.GrindingOptionDTO, 0, len(grindingRows))
	for _, row := range grindingRows {
		grindings = append(grindings, dto.GrindingOptionDTO{
			Provider:     row.Provider,
			Grit:         row.Grit,
			WidthVariant: row.WidthVariant,
			WithSB:       row.WithSB,
			PricePLNKg:   row.PricePLNPerKg,
		})
	}

	return &dto.AvailableOptionsResponse{
		Message:           "Available options retrieved successfully",
		ProcessingAllowed: allowed,
		Notes:             notes,
		Films:             films,
		Grindings:         grindings,
	}, nil
}

// CurrentExchangeRate reports the rate pricing currently converts with.
func (f *PricingFlowImpl) CurrentExchangeRate(ctx context.Context) (*dto.ExchangeRateResponse, error) {
	rate, row, err := f.currentRate(ctx)
	if err != nil {
		return nil, NewBusinessError("EXCHANGE_RATE_LOOKUP_FAILED", "Failed to look up exchange rate", err)
	}

	resp := &dto.ExchangeRateResponse{
		CurrencyFrom: models.CurrencyEUR,
		CurrencyTo:   models.CurrencyPLN,
		Rate:         rate,
		IsDefault:    row == nil,
	}
	if row != nil {
		resp.ValidFrom = utils.ToPtr(row.ValidFrom.Format(time.RFC3339))
	}
	return resp, nil
}

// UpdateExchangeRate appends a new active EUR/PLN rate row; the latest
// valid_from wins, older rows stay for history.
func (f *PricingFlowImpl) UpdateExchangeRate(ctx context.Context, req *dto.UpdateExchangeRateRequest) (*dto.ExchangeRateResponse, error) {
	row := &models.ExchangeRate{
		CurrencyFrom: models.CurrencyEUR,
		CurrencyTo:   models.CurrencyPLN,
		Rate:         req.Rate,
		ValidFrom:    utils.UTCNow(),
		IsActive:     true,
		CreatedAt:    utils.UTCNow(),
		UpdatedAt:    utils.UTCNow(),
	}
	if err := f.exchangeRateRepo.Save(ctx, row); err != nil {
		return nil, NewBusinessError("EXCHANGE_RATE_SAVE_FAILED", "Failed to save exchange rate", err)
	}

	return &dto.ExchangeRateResponse{
		CurrencyFrom: row.CurrencyFrom,
		CurrencyTo:   row.CurrencyTo,
		Rate:         row.Rate,
		IsDefault:    false,
		ValidFrom:    utils.ToPtr(row.ValidFrom.Format(time.RFC3339)),
	}, nil
}

// resolveMaterial loads a material by ID when given, by grade otherwise.
func (f *PricingFlowImpl) resolveMaterial(ctx context.Context, materialID *uint, grade string) (*models.Material, error) {
	grade = strings.TrimSpace(grade)

	switch {
	case materialID != nil:
		material, err := f.materialRepo.ByID(ctx, *materialID)
		if err != nil {
			return nil, NewBusinessError("MATERIAL_LOOKUP_FAILED", "Failed to look up material", err)
		}
		if material == nil {
			return nil, NewBusinessErrorf("MATERIAL_NOT_FOUND", "Material %d not found", ErrMaterialNotFound, *materialID)
		}
		return material, nil
	case grade != "":
		material, err := f.materialRepo.ByGrade(ctx, grade)
		if err != nil {
			return nil, NewBusinessError("MATERIAL_LOOKUP_FAILED", "Failed to look up material", err)
		}
		if material == nil {
			return nil, NewBusinessErrorf("MATERIAL_NOT_FOUND", "Material %s not found", ErrMaterialNotFound, grade)
		}
		return material, nil
	default:
		return nil, NewBusinessError("MATERIAL_REQUIRED", "Material ID or grade is required", ErrGradeRequired)
	}
}

// currentRate returns the EUR/PLN rate pricing converts with: the most
// recent active row, or the default when the table is empty. The row is nil
// in the default case.
func (f *PricingFlowImpl) currentRate(ctx context.Context) (float64, *models.ExchangeRate, error) {
	row, err := f.exchangeRateRepo.LatestActive(ctx, models.CurrencyEUR, models.CurrencyPLN)
	if err != nil {
		return 0, nil, err
	}
	if row == nil {
		return models.DefaultEURPLNRate, nil, nil
	}
	return row.Rate, row, nil
}

// processingGate evaluates the first processing rule matching a grade and
// finish. It reports whether processing may proceed and the note to surface
// when it may not; absence of a rule means no restrictions.
func (f *PricingFlowImpl) processingGate(ctx context.Context, grade, surfaceFinish string, thickness, width float64, grindingRequested bool) (bool, *string, error) {
	options, err := f.processingOptionRepo.ListMatching(ctx, grade, surfaceFinish)
	if err != nil {
		return false, nil, err
	}
	if len(options) == 0 {
		return true, nil, nil
	}
	option := options[0]

	if option.ThicknessMin != nil && thickness < *option.ThicknessMin {
		return false, utils.ToPtr(fmt.Sprintf("Grubość poniżej minimum (%vmm)", *option.ThicknessMin)), nil
	}
	if option.ThicknessMax != nil && thickness > *option.ThicknessMax {
		return false, utils.ToPtr(fmt.Sprintf("Grubość powyżej maksimum (%vmm)", *option.ThicknessMax)), nil
	}
	if option.WidthMin != nil && width < float64(*option.WidthMin) {
		return false, utils.ToPtr(fmt.Sprintf("Szerokość poniżej minimum (%dmm)", *option.WidthMin)), nil
	}
	if option.WidthMax != nil && width > float64(*option.WidthMax) {
		return false, utils.ToPtr(fmt.Sprintf("Szerokość powyżej maksimum (%dmm)", *option.WidthMax)), nil
	}
	if grindingRequested && !option.GrindingAllowed {
		if option.Notes != nil && *option.Notes != "" {
			return false, option.Notes, nil
		}
		return false, utils.ToPtr("Szlifowanie niedostępne"), nil
	}
	return true, option.Notes, nil
}

// sheetWeightKg computes the weight of one sheet: density (g/cm³) × volume
// (cm³), converted to kilograms. Dimensions arrive in millimeters.
func sheetWeightKg(thickness, width, length, density float64) float64 {
	volumeCm3 := (thickness / 10) * (width / 10) * (length / 10)
	return density * volumeCm3 / 1000
}

// sheetAreaM2 computes the face area of one sheet in m².
func sheetAreaM2(width, length float64) float64 {
	return (width / 1000) * (length / 1000)
}

func toPriceBreakdownResponse(b *priceBreakdown) *dto.PriceBreakdownResponse {
	return &dto.PriceBreakdownResponse{
		BasePricePLNKg:    roundTo(b.basePrice, 4),
		FilmCostPLNKg:     roundTo(b.filmCost, 4),
		GrindingCostPLNKg: roundTo(b.grindingCost, 4),
		TotalPricePLNKg:   roundTo(b.totalPLN, 4),
		TotalPriceEURKg:   roundTo(b.totalEUR, 4),
		ExchangeRate:      b.exchangeRate,
		Dimensions: dto.DimensionsDTO{
			ThicknessMM: b.thickness,
			WidthMM:     b.width,
			LengthMM:    b.length,
		},
		WeightKg: roundTo(b.weightKg, 3),
		AreaM2:   roundTo(b.areaM2, 4),
		Configuration: dto.ConfigurationDTO{
			Material:         b.materialGrade,
			Surface:          b.surfaceFinish,
			Film:             b.filmType,
			GrindingProvider: b.provider,
			GrindingGrit:     b.grit,
		},
		GrindingApplied: b.grindingApplied,
		FilmApplied:     b.filmApplied,
		Notes:           b.notes,
	}
}

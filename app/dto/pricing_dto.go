package dto

// CalculatePriceRequest selects one sheet variant plus optional processing.
// Either material_id or grade identifies the material.
type CalculatePriceRequest struct {
	MaterialID       *uint   `json:"material_id,omitempty" validate:"omitempty,gt=0"`
	Grade            string  `json:"grade,omitempty"`
	SurfaceFinish    string  `json:"surface_finish" validate:"required"`
	Thickness        float64 `json:"thickness" validate:"required,gt=0"`
	Width            float64 `json:"width" validate:"required,gt=0"`
	Length           float64 `json:"length" validate:"required,gt=0"`
	FilmType         string  `json:"film_type,omitempty"`
	GrindingProvider string  `json:"grinding_provider,omitempty"`
	GrindingGrit     string  `json:"grinding_grit,omitempty"`
	WithSB           bool    `json:"with_sb,omitempty"`
}

// DimensionsDTO carries the sheet geometry in millimeters.
type DimensionsDTO struct {
	ThicknessMM float64 `json:"thickness_mm"`
	WidthMM     float64 `json:"width_mm"`
	LengthMM    float64 `json:"length_mm"`
}

// ConfigurationDTO echoes the configuration the price was computed for.
type ConfigurationDTO struct {
	Material         string  `json:"material"`
	Surface          string  `json:"surface"`
	Film             *string `json:"film,omitempty"`
	GrindingProvider *string `json:"grinding,omitempty"`
	GrindingGrit     *string `json:"grit,omitempty"`
}

// PriceBreakdownResponse is the full per-kilogram price decomposition.
// Prices are rounded to 4 decimal places, weight to 3, area to 4.
type PriceBreakdownResponse struct {
	BasePricePLNKg    float64          `json:"base_price_pln_kg"`
	FilmCostPLNKg     float64          `json:"film_cost_pln_kg"`
	GrindingCostPLNKg float64          `json:"grinding_cost_pln_kg"`
	TotalPricePLNKg   float64          `json:"total_price_pln_kg"`
	TotalPriceEURKg   float64          `json:"total_price_eur_kg"`
	ExchangeRate      float64          `json:"exchange_rate"`
	Dimensions        DimensionsDTO    `json:"dimensions"`
	WeightKg          float64          `json:"weight_kg"`
	AreaM2            float64          `json:"area_m2"`
	Configuration     ConfigurationDTO `json:"configuration"`
	GrindingApplied   bool             `json:"grinding_applied"`
	FilmApplied       bool             `json:"film_applied"`
	Notes             *string          `json:"notes,omitempty"`
}

// PriceTableRequest filters the variant listing.
type PriceTableRequest struct {
	Category      string   `json:"category,omitempty" validate:"omitempty,oneof=stal_nierdzewna stal_czarna aluminium"`
	Grade         string   `json:"grade,omitempty"`
	SurfaceFinish string   `json:"surface_finish,omitempty"`
	ThicknessMin  *float64 `json:"thickness_min,omitempty" validate:"omitempty,gt=0"`
	ThicknessMax  *float64 `json:"thickness_max,omitempty" validate:"omitempty,gt=0"`
	Width         *float64 `json:"width,omitempty" validate:"omitempty,gt=0"`
}

// PriceTableRowDTO is one variant row of the price table.
type PriceTableRowDTO struct {
	ID            uint    `json:"id"`
	MaterialID    uint    `json:"material_id"`
	MaterialName  string  `json:"material_name"`
	Grade         string  `json:"grade"`
	Category      string  `json:"category"`
	SurfaceFinish string  `json:"surface_finish"`
	Thickness     float64 `json:"thickness"`
	Width         float64 `json:"width"`
	Length        float64 `json:"length"`
	PricePLNPerKg float64 `json:"price_pln_per_kg"`
	PriceEURPerKg float64 `json:"price_eur_per_kg"`
	Notes         *string `json:"notes,omitempty"`
}

type PriceTableResponse struct {
	Message string             `json:"message"`
	Items   []PriceTableRowDTO `json:"items"`
	Total   int                `json:"total"`
}

// AvailableOptionsRequest selects a configuration to enumerate processing for.
type AvailableOptionsRequest struct {
	MaterialID    uint    `json:"material_id" validate:"required,gt=0"`
	SurfaceFinish string  `json:"surface_finish" validate:"required"`
	Thickness     float64 `json:"thickness" validate:"required,gt=0"`
	Width         float64 `json:"width" validate:"required,gt=0"`
}

// FilmOptionDTO is one film choice with its per-kilogram cost.
type FilmOptionDTO struct {
	Type       string  `json:"type"`
	PricePLNKg float64 `json:"price_pln_kg"`
}

// GrindingOptionDTO is one grinding matrix cell offered for a configuration.
type GrindingOptionDTO struct {
	Provider     string  `json:"provider"`
	Grit         *string `json:"grit,omitempty"`
	WidthVariant *string `json:"width_variant,omitempty"`
	WithSB       bool    `json:"with_sb"`
	PricePLNKg   float64 `json:"price_pln_kg"`
}

type AvailableOptionsResponse struct {
	Message           string              `json:"message"`
	ProcessingAllowed bool                `json:"processing_allowed"`
	Notes             *string             `json:"notes,omitempty"`
	Films             []FilmOptionDTO     `json:"films"`
	Grindings         []GrindingOptionDTO `json:"grindings"`
}

// ExchangeRateResponse reports the rate pricing currently converts with.
type ExchangeRateResponse struct {
	CurrencyFrom string  `json:"currency_from"`
	CurrencyTo   string  `json:"currency_to"`
	Rate         float64 `json:"rate"`
	IsDefault    bool    `json:"is_default"`
	ValidFrom    *string `json:"valid_from,omitempty"`
}

// UpdateExchangeRateRequest replaces the active EUR/PLN rate.
type UpdateExchangeRateRequest struct {
	Rate float64 `json:"rate" validate:"required,gt=0"`
}

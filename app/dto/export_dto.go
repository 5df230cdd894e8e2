package dto

// ExportPricesRequest selects what to export and in which format. Filters
// are optional and apply only to the data types they fit.
type ExportPricesRequest struct {
	Type            string   `json:"type" validate:"required,oneof=base_prices grinding film modifiers all"`
	Format          string   `json:"format" validate:"required,oneof=xlsx csv"`
	Categories      []string `json:"categories,omitempty"`
	SurfaceFinishes []string `json:"surface_finishes,omitempty"`
	Providers       []string `json:"providers,omitempty"`
	FilmTypes       []string `json:"film_types,omitempty"`
	ThicknessMin    *float64 `json:"thickness_min,omitempty" validate:"omitempty,gt=0"`
	ThicknessMax    *float64 `json:"thickness_max,omitempty" validate:"omitempty,gt=0"`
	WidthMin        *float64 `json:"width_min,omitempty" validate:"omitempty,gt=0"`
	WidthMax        *float64 `json:"width_max,omitempty" validate:"omitempty,gt=0"`
	OnlyActive      *bool    `json:"only_active,omitempty"`
}

// ExportFileDTO carries a rendered workbook or CSV back to the handler,
// which streams it as a download.
type ExportFileDTO struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"-"`
}

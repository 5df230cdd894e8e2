package dto

// GrindingCheckRequest asks whether one grinding configuration is available.
type GrindingCheckRequest struct {
	Provider  string  `json:"provider" validate:"required"`
	Thickness float64 `json:"thickness" validate:"required,gt=0"`
	Width     float64 `json:"width" validate:"required,gt=0"`
	Grit      string  `json:"grit,omitempty"`
	WithSB    bool    `json:"with_sb,omitempty"`
}

// FilmCheckRequest asks whether one film configuration is available.
type FilmCheckRequest struct {
	FilmType  string  `json:"film_type" validate:"required"`
	Thickness float64 `json:"thickness" validate:"required,gt=0"`
}

// AvailabilityResponse reports availability; price is present iff available.
type AvailabilityResponse struct {
	IsAvailable bool     `json:"is_available"`
	Price       *float64 `json:"price,omitempty"`
	Provider    string   `json:"provider,omitempty"`
	FilmType    string   `json:"film_type,omitempty"`
	Thickness   float64  `json:"thickness"`
	Grit        string   `json:"grit,omitempty"`
	Reason      *string  `json:"reason,omitempty"`
}

// ProviderOptionsDTO lists one provider's available grinding options for a
// thickness/width pair. Price keys carry a "_sb" suffix for with-SB cells.
type ProviderOptionsDTO struct {
	Provider     string             `json:"provider"`
	Grits        []string           `json:"grits"`
	Prices       map[string]float64 `json:"prices"`
	WidthVariant *string            `json:"width_variant,omitempty"`
}

type GrindingOptionsResponse struct {
	Message   string               `json:"message"`
	Providers []ProviderOptionsDTO `json:"providers"`
	Thickness float64              `json:"thickness"`
	Width     float64              `json:"width"`
}

// GrindingMatrixCellDTO is one cell of the full matrix view, blocked cells
// included.
type GrindingMatrixCellDTO struct {
	ID        uint    `json:"id"`
	Price     float64 `json:"price"`
	IsBlocked bool    `json:"is_blocked"`
	Grit      *string `json:"grit,omitempty"`
	WithSB    bool    `json:"with_sb"`
}

// GrindingMatrixResponse is the thickness x grit-key matrix of one provider.
// Matrix keys: outer = thickness rendered as a decimal string, inner = grit
// key ("<grit>" or "<grit>_sb").
type GrindingMatrixResponse struct {
	Provider     string                                      `json:"provider"`
	WidthVariant *string                                     `json:"width_variant,omitempty"`
	Matrix       map[string]map[string]GrindingMatrixCellDTO `json:"matrix"`
	Thicknesses  []float64                                   `json:"thicknesses"`
	Grits        []string                                    `json:"grits"`
}

// UpsertGrindingPriceRequest creates or updates one matrix cell. Price 0
// blocks the combination.
type UpsertGrindingPriceRequest struct {
	Provider     string   `json:"provider" validate:"required"`
	Thickness    float64  `json:"thickness" validate:"required,gt=0"`
	Grit         string   `json:"grit,omitempty"`
	Price        *float64 `json:"price" validate:"required,gte=0"`
	WidthVariant *string  `json:"width_variant,omitempty"`
	WithSB       bool     `json:"with_sb,omitempty"`
}

type UpsertGrindingPriceResponse struct {
	ID        uint    `json:"id"`
	Price     float64 `json:"price"`
	IsBlocked bool    `json:"is_blocked"`
}

// MatrixUpdateItem is one cell write within a bulk matrix update.
type MatrixUpdateItem struct {
	Thickness    float64  `json:"thickness" validate:"required,gt=0"`
	Grit         string   `json:"grit,omitempty"`
	Price        *float64 `json:"price" validate:"required,gte=0"`
	WidthVariant *string  `json:"width_variant,omitempty"`
	WithSB       bool     `json:"with_sb,omitempty"`
}

type GrindingBulkUpdateRequest struct {
	Provider string             `json:"provider" validate:"required"`
	Updates  []MatrixUpdateItem `json:"updates" validate:"required,min=1,dive"`
}

type GrindingBulkUpdateResponse struct {
	Updated  int    `json:"updated"`
	Provider string `json:"provider"`
}

// FilmMatrixCellDTO is one cell of the film matrix view.
type FilmMatrixCellDTO struct {
	ID        uint    `json:"id"`
	Price     float64 `json:"price"`
	IsBlocked bool    `json:"is_blocked"`
	FilmType  string  `json:"film_type"`
}

// FilmMatrixResponse is the thickness x film-type matrix. Outer matrix keys
// are thicknesses rendered as decimal strings.
type FilmMatrixResponse struct {
	Matrix      map[string]map[string]FilmMatrixCellDTO `json:"matrix"`
	Thicknesses []float64                               `json:"thicknesses"`
	FilmTypes   []string                                `json:"film_types"`
}

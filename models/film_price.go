package models

import (
	"strings"
	"time"
)

// Protective film types. Values double as the wire/export representation.
const (
	FilmZwykla     = "FOLIA_ZWYKLA"
	FilmFiber      = "FOLIA_FIBER"
	FilmNovacel    = "Novacel 4228"
	FilmNitto3100  = "Nitto 3100"
	FilmNitto3067M = "Nitto 3067M"
	FilmNittoAFP   = "NITTO AFP585"
	FilmNitto224PR = "NITTO 224PR"
)

// FilmTypes lists every known film type.
var FilmTypes = []string{
	FilmZwykla,
	FilmFiber,
	FilmNovacel,
	FilmNitto3100,
	FilmNitto3067M,
	FilmNittoAFP,
	FilmNitto224PR,
}

// FilmPrice is one cell of the film price matrix, keyed by film type and
// sheet thickness (thinner sheets carry more m² per kg). Price 0 marks the
// combination disabled, same convention as GrindingPrice.
type FilmPrice struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	FilmType      string    `gorm:"size:50;not null;index:idx_film_prices_film_type;uniqueIndex:uq_film_prices" json:"film_type"`
	Thickness     float64   `gorm:"type:double precision;not null;index:idx_film_prices_thickness;uniqueIndex:uq_film_prices" json:"thickness"`
	PricePLNPerKg float64   `gorm:"type:double precision;not null;default:0" json:"price_pln_per_kg"`
	IsActive      bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (FilmPrice) TableName() string {
	return "film_prices"
}

// FilmPriceFilter represents filter criteria for film price queries
type FilmPriceFilter struct {
	ID           *uint
	FilmType     *string
	Thickness    *float64
	IsActive     *bool
	ThicknessMin *float64
	ThicknessMax *float64
	FilmTypes    []string
	// OnlyPriced excludes rows with price <= 0 (blocked cells).
	OnlyPriced bool
}

// MatchFilmType resolves a spreadsheet value to a known film type, trying an
// exact match first and a case-insensitive one second. Returns "" when the
// value names no known type.
func MatchFilmType(s string) string {
	for _, ft := range FilmTypes {
		if ft == s {
			return ft
		}
	}
	for _, ft := range FilmTypes {
		if strings.EqualFold(ft, s) {
			return ft
		}
	}
	return ""
}

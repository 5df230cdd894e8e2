package models

import "time"

// Grinding providers
const (
	ProviderCAMU   = "CAMU"
	ProviderBABCIA = "BABCIA"
	ProviderBORYS  = "BORYS"
	ProviderCOSTA  = "COSTA"
)

// GrindingProviders lists every provider in display order.
var GrindingProviders = []string{ProviderCAMU, ProviderBABCIA, ProviderBORYS, ProviderCOSTA}

// Grinding grits (CAMU, BABCIA, COSTA). BORYS uses width variants instead.
const (
	GritCoarse = "K80/K120"
	GritMedium = "K240/K180"
	GritFine   = "K320/K400"
)

// Width variants for BORYS, driven by source-coil width.
const (
	WidthVariantNarrow = "x1000/1250/1500"
	WidthVariantWide   = "x2000"
)

// GrindingPrice is one cell of the grinding price matrix. A price of 0 marks
// the combination disabled; this is the domain's availability mechanism, not
// a missing value.
type GrindingPrice struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Provider      string    `gorm:"size:20;not null;index:idx_grinding_prices_provider;uniqueIndex:uq_grinding_prices" json:"provider"`
	Grit          *string   `gorm:"size:20;index:idx_grinding_prices_grit;uniqueIndex:uq_grinding_prices" json:"grit,omitempty"`
	WidthVariant  *string   `gorm:"size:20;uniqueIndex:uq_grinding_prices" json:"width_variant,omitempty"`
	Thickness     float64   `gorm:"type:double precision;not null;index:idx_grinding_prices_thickness;uniqueIndex:uq_grinding_prices" json:"thickness"`
	PricePLNPerKg float64   `gorm:"type:double precision;not null;default:0" json:"price_pln_per_kg"`
	WithSB        bool      `gorm:"not null;default:false;uniqueIndex:uq_grinding_prices" json:"with_sb"`
	IsActive      bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (GrindingPrice) TableName() string {
	return "grinding_prices"
}

// GrindingPriceFilter represents filter criteria for grinding price queries
type GrindingPriceFilter struct {
	ID           *uint
	Provider     *string
	Grit         *string
	WidthVariant *string
	Thickness    *float64
	WithSB       *bool
	IsActive     *bool
	ThicknessMin *float64
	ThicknessMax *float64
	Providers    []string
	// OnlyPriced excludes rows with price <= 0 (blocked cells).
	OnlyPriced bool
}

// IsKnownProvider reports whether s names a grinding provider.
func IsKnownProvider(s string) bool {
	for _, p := range GrindingProviders {
		if p == s {
			return true
		}
	}
	return false
}

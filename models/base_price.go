package models

import "time"

// BasePrice is the PLN/kg price of one geometrically distinct sheet variant
// (material + surface finish + thickness + width). At most one active row may
// exist per (material, finish, thickness, width, valid_from); lookups take
// the most recent valid_from.
type BasePrice struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	MaterialID    uint       `gorm:"not null;index:idx_base_prices_material_id;uniqueIndex:uq_base_prices" json:"material_id"`
	Material      *Material  `gorm:"foreignKey:MaterialID;references:ID" json:"material,omitempty"`
	SurfaceFinish string     `gorm:"size:20;not null;index:idx_base_prices_surface_finish;uniqueIndex:uq_base_prices" json:"surface_finish"`
	Thickness     float64    `gorm:"type:double precision;not null;index:idx_base_prices_thickness;uniqueIndex:uq_base_prices" json:"thickness"`
	Width         float64    `gorm:"type:double precision;not null;index:idx_base_prices_width;uniqueIndex:uq_base_prices" json:"width"`
	Length        float64    `gorm:"type:double precision;not null" json:"length"`
	PricePLNPerKg float64    `gorm:"type:double precision;not null;default:0" json:"price_pln_per_kg"`
	ValidFrom     time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP;uniqueIndex:uq_base_prices" json:"valid_from"`
	ValidTo       *time.Time `json:"valid_to,omitempty"`
	IsActive      bool       `gorm:"not null;default:true;index:idx_base_prices_is_active" json:"is_active"`
	Notes         *string    `gorm:"size:200" json:"notes,omitempty"`
	CreatedAt     time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (BasePrice) TableName() string {
	return "base_prices"
}

// BasePriceFilter represents filter criteria for base price queries.
// Slice fields translate to set membership, range fields to >= / <=.
type BasePriceFilter struct {
	ID              *uint
	MaterialID      *uint
	SurfaceFinish   *string
	Thickness       *float64
	Width           *float64
	IsActive        *bool
	Categories      []string
	GroupIDs        []uint
	Grades          []string
	SurfaceFinishes []string
	ThicknessMin    *float64
	ThicknessMax    *float64
	WidthMin        *float64
	WidthMax        *float64
	Widths          []float64
	// OnlyPriced excludes rows with price <= 0 (blocked variants).
	OnlyPriced bool
}

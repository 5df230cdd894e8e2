package models

import "time"

// ThicknessModifier is a per-kilogram surcharge (or discount) applied when a
// sheet's thickness deviates from the grade's reference thickness at a given
// base width. Kept for import/export round-trips; the pricing engine reads
// explicit BasePrice rows instead.
type ThicknessModifier struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Grade         string    `gorm:"size:50;not null;index:idx_thickness_modifiers_grade;uniqueIndex:uq_thickness_modifiers" json:"grade"`
	SurfaceFinish string    `gorm:"size:50;not null;uniqueIndex:uq_thickness_modifiers" json:"surface_finish"`
	BaseWidth     int       `gorm:"not null;uniqueIndex:uq_thickness_modifiers" json:"base_width"`
	Thickness     float64   `gorm:"type:double precision;not null;uniqueIndex:uq_thickness_modifiers" json:"thickness"`
	PriceModifier float64   `gorm:"type:double precision;not null;default:0" json:"price_modifier"`
	IsActive      bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (ThicknessModifier) TableName() string {
	return "thickness_modifiers"
}

// ThicknessModifierFilter represents filter criteria for thickness modifier queries
type ThicknessModifierFilter struct {
	ID            *uint
	Grade         *string
	SurfaceFinish *string
	BaseWidth     *int
	Thickness     *float64
	IsActive      *bool
}

// WidthModifier is a per-kilogram surcharge applied for non-standard sheet
// widths. A nil Grade means the modifier applies to every grade.
type WidthModifier struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Grade         *string   `gorm:"size:50;index:idx_width_modifiers_grade;uniqueIndex:uq_width_modifiers" json:"grade"`
	Width         int       `gorm:"not null;uniqueIndex:uq_width_modifiers" json:"width"`
	PriceModifier float64   `gorm:"type:double precision;not null;default:0" json:"price_modifier"`
	IsActive      bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (WidthModifier) TableName() string {
	return "width_modifiers"
}

// WidthModifierFilter represents filter criteria for width modifier queries
type WidthModifierFilter struct {
	ID       *uint
	Grade    *string
	Width    *int
	IsActive *bool
	// AnyGrade selects rows whose Grade is NULL (catalog-wide modifiers).
	AnyGrade bool
}

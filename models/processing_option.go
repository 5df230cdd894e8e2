package models

import "time"

// ProcessingOption constrains which processing (grinding, film) a material
// variant supports. Rows are matched by grade and surface finish; when no row
// matches, processing is allowed. Min/max bounds of nil mean unbounded.
type ProcessingOption struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Grade            *string    `gorm:"size:50;index:idx_processing_options_grade" json:"grade"`
	SurfaceFinish    *string    `gorm:"size:50;index:idx_processing_options_finish" json:"surface_finish"`
	ThicknessMin     *float64   `gorm:"type:double precision" json:"thickness_min"`
	ThicknessMax     *float64   `gorm:"type:double precision" json:"thickness_max"`
	WidthMin         *int       `json:"width_min"`
	WidthMax         *int       `json:"width_max"`
	GrindingProvider *string    `gorm:"size:50" json:"grinding_provider"`
	GrindingAllowed  bool       `gorm:"not null;default:true" json:"grinding_allowed"`
	FilmType         *string    `gorm:"size:50" json:"film_type"`
	FilmAllowed      bool       `gorm:"not null;default:true" json:"film_allowed"`
	Notes            *string    `gorm:"size:500" json:"notes"`
	IsActive         bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt        time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt        *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

func (ProcessingOption) TableName() string {
	return "processing_options"
}

// ProcessingOptionFilter represents filter criteria for processing option queries
type ProcessingOptionFilter struct {
	ID            *uint
	Grade         *string
	SurfaceFinish *string
	IsActive      *bool
}

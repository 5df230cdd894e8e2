package models

import "time"

// MaterialGroup clusters materials of one category (e.g. austenitic,
// ferritic) for filtering and display.
type MaterialGroup struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null;uniqueIndex:uq_material_groups_name" json:"name"`
	Category     string    `gorm:"size:30;not null" json:"category"`
	Description  *string   `gorm:"type:text" json:"description,omitempty"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (MaterialGroup) TableName() string {
	return "material_groups"
}

// MaterialGroupFilter represents filter criteria for material group queries
type MaterialGroupFilter struct {
	ID       *uint
	Name     *string
	Category *string
	IsActive *bool
}

// Package models contains domain entities and business models for the pricing engine
package models

import (
	"time"

	"github.com/lib/pq"
)

// Material categories
const (
	MaterialCategoryStainless = "stal_nierdzewna"
	MaterialCategoryCarbon    = "stal_czarna"
	MaterialCategoryAluminum  = "aluminium"
)

// MaterialCategories lists every category in display order.
var MaterialCategories = []string{
	MaterialCategoryStainless,
	MaterialCategoryCarbon,
	MaterialCategoryAluminum,
}

// CategoryLabel returns the display label of a material category.
func CategoryLabel(category string) string {
	switch category {
	case MaterialCategoryStainless:
		return "Stal nierdzewna"
	case MaterialCategoryCarbon:
		return "Stal czarna"
	case MaterialCategoryAluminum:
		return "Aluminium"
	default:
		return category
	}
}

// Surface finishes
const (
	// Stainless steel
	Finish2B    = "2B"
	FinishBA    = "BA"
	Finish1D    = "1D"
	FinishLEN   = "LEN"
	FinishRyfel = "RYFEL ASTM"

	// Carbon steel
	FinishHR      = "HR"
	FinishCR      = "CR"
	FinishPickled = "trawiona"
	FinishOiled   = "naoliwiona"

	// Aluminum
	FinishMill     = "mill"
	FinishAnodized = "anodowana"
)

// DefaultDensity is assumed for materials without an explicit density (stainless steel, g/cm³).
const DefaultDensity = 7.9

// Material is a sheet-metal grade (stainless, carbon steel or aluminum).
// Materials are auto-created on first reference during import and are
// soft-deactivated once priced, never hard-deleted.
type Material struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	GroupID          *uint          `gorm:"index:idx_materials_group_id" json:"group_id,omitempty"`
	Group            *MaterialGroup `gorm:"foreignKey:GroupID;references:ID" json:"group,omitempty"`
	Name             string         `gorm:"size:100;not null;uniqueIndex:uq_materials_name" json:"name"`
	Category         string         `gorm:"size:30;not null;index:idx_materials_category" json:"category"`
	Grade            string         `gorm:"size:50;not null;index:idx_materials_grade" json:"grade"`
	Standard         *string        `gorm:"size:100" json:"standard,omitempty"`
	EquivalentGrades pq.StringArray `gorm:"type:text[]" json:"equivalent_grades,omitempty"`
	Composition      *string        `gorm:"size:300" json:"composition,omitempty"`
	Density          float64        `gorm:"type:double precision;not null;default:7.9" json:"density"`
	TensileStrength  *string        `gorm:"size:50" json:"tensile_strength,omitempty"`
	YieldStrength    *string        `gorm:"size:50" json:"yield_strength,omitempty"`
	Applications     *string        `gorm:"type:text" json:"applications,omitempty"`
	Description      *string        `gorm:"type:text" json:"description,omitempty"`
	DisplayOrder     int            `gorm:"not null;default:0" json:"display_order"`
	IsActive         bool           `gorm:"not null;default:true;index:idx_materials_is_active" json:"is_active"`
	CreatedAt        time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Material) TableName() string {
	return "materials"
}

// MaterialFilter represents filter criteria for material queries
type MaterialFilter struct {
	ID       *uint
	GroupID  *uint
	Grade    *string
	Category *string
	IsActive *bool
}

// GradeSeed is a predefined material configuration used when seeding the
// catalog and when an import references an unseen grade.
type GradeSeed struct {
	Grade            string
	Name             string
	Category         string
	Density          float64
	EquivalentGrades []string
	Description      string
}

// StandardGrades lists the grades the system ships with.
var StandardGrades = []GradeSeed{
	{
		Grade:            "1.4301",
		Name:             "Stal nierdzewna 304",
		Category:         MaterialCategoryStainless,
		Density:          7.9,
		EquivalentGrades: []string{"AISI 304", "X5CrNi18-10"},
		Description:      "Austenityczna stal nierdzewna, uniwersalna, odporna na korozję",
	},
	{
		Grade:            "1.4404",
		Name:             "Stal nierdzewna 316L",
		Category:         MaterialCategoryStainless,
		Density:          8.0,
		EquivalentGrades: []string{"AISI 316L", "X2CrNiMo17-12-2"},
		Description:      "Austenityczna stal nierdzewna z molibdenem, lepsza odporność na korozję",
	},
	{
		Grade:            "1.4016",
		Name:             "Stal nierdzewna 430",
		Category:         MaterialCategoryStainless,
		Density:          7.7,
		EquivalentGrades: []string{"AISI 430", "X6Cr17"},
		Description:      "Ferrytyczna stal nierdzewna, magnetyczna, ekonomiczna",
	},
	{
		Grade:            "DC01",
		Name:             "Stal czarna DC01",
		Category:         MaterialCategoryCarbon,
		Density:          7.85,
		EquivalentGrades: []string{"1.0330", "St12"},
		Description:      "Stal zimnowalcowana do tłoczenia",
	},
	{
		Grade:            "S235JR",
		Name:             "Stal konstrukcyjna S235JR",
		Category:         MaterialCategoryCarbon,
		Density:          7.85,
		EquivalentGrades: []string{"1.0038", "St37-2"},
		Description:      "Stal konstrukcyjna ogólnego przeznaczenia",
	},
	{
		Grade:            "S355JR",
		Name:             "Stal konstrukcyjna S355JR",
		Category:         MaterialCategoryCarbon,
		Density:          7.85,
		EquivalentGrades: []string{"1.0045", "St52-3"},
		Description:      "Stal konstrukcyjna o podwyższonej wytrzymałości",
	},
	{
		Grade:            "1050",
		Name:             "Aluminium 1050",
		Category:         MaterialCategoryAluminum,
		Density:          2.71,
		EquivalentGrades: []string{"Al 99.5"},
		Description:      "Aluminium czyste techniczne",
	},
	{
		Grade:            "5754",
		Name:             "Aluminium 5754",
		Category:         MaterialCategoryAluminum,
		Density:          2.66,
		EquivalentGrades: []string{"AlMg3"},
		Description:      "Stop Al-Mg, dobra odporność na korozję",
	},
	{
		Grade:            "6061",
		Name:             "Aluminium 6061",
		Category:         MaterialCategoryAluminum,
		Density:          2.70,
		EquivalentGrades: []string{"AlMg1SiCu"},
		Description:      "Stop Al-Mg-Si, wszechstronny, utwardzalny",
	},
}

// SeedForGrade returns the predefined configuration for a grade, or a
// stainless default ("Materiał <grade>", density 7.9) for unseen grades.
func SeedForGrade(grade string) GradeSeed {
	for _, s := range StandardGrades {
		if s.Grade == grade {
			return s
		}
	}
	return GradeSeed{
		Grade:    grade,
		Name:     "Materiał " + grade,
		Category: MaterialCategoryStainless,
		Density:  DefaultDensity,
	}
}

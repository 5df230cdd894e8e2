package dto

// MaterialDTO is the API shape of one catalog material.
type MaterialDTO struct {
	ID               uint     `json:"id"`
	Grade            string   `json:"grade"`
	Name             string   `json:"name"`
	Category         string   `json:"category"`
	Density          float64  `json:"density"`
	EquivalentGrades []string `json:"equivalent_grades,omitempty"`
	GroupID          *uint    `json:"group_id,omitempty"`
	GroupName        *string  `json:"group_name,omitempty"`
	IsActive         bool     `json:"is_active"`
}

type ListMaterialsResponse struct {
	Message string        `json:"message"`
	Items   []MaterialDTO `json:"items"`
	Total   int           `json:"total"`
}

// CreateMaterialRequest adds a material not covered by the seed catalog.
type CreateMaterialRequest struct {
	Grade            string   `json:"grade" validate:"required,min=1,max=100"`
	Name             string   `json:"name" validate:"required,min=1,max=255"`
	Category         string   `json:"category" validate:"required,oneof=stal_nierdzewna stal_czarna aluminium"`
	Density          *float64 `json:"density,omitempty" validate:"omitempty,gt=0"`
	EquivalentGrades []string `json:"equivalent_grades,omitempty"`
	GroupID          *uint    `json:"group_id,omitempty" validate:"omitempty,gt=0"`
}

type MaterialGroupDTO struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Description *string `json:"description,omitempty"`
	Materials   int     `json:"materials"`
}

type ListMaterialGroupsResponse struct {
	Message string             `json:"message"`
	Items   []MaterialGroupDTO `json:"items"`
}

// SeedMaterialsResponse reports how the standard grade catalog reconciled
// against what already exists.
type SeedMaterialsResponse struct {
	Message string   `json:"message"`
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Grades  []string `json:"grades,omitempty"`
}

// ProcessingOptionDTO is one processing rule row.
type ProcessingOptionDTO struct {
	ID               uint     `json:"id"`
	Grade            *string  `json:"grade,omitempty"`
	SurfaceFinish    *string  `json:"surface_finish,omitempty"`
	ThicknessMin     *float64 `json:"thickness_min,omitempty"`
	ThicknessMax     *float64 `json:"thickness_max,omitempty"`
	WidthMin         *int     `json:"width_min,omitempty"`
	WidthMax         *int     `json:"width_max,omitempty"`
	GrindingProvider *string  `json:"grinding_provider,omitempty"`
	GrindingAllowed  bool     `json:"grinding_allowed"`
	FilmType         *string  `json:"film_type,omitempty"`
	FilmAllowed      bool     `json:"film_allowed"`
	Notes            *string  `json:"notes,omitempty"`
}

type ListProcessingOptionsResponse struct {
	Message string                `json:"message"`
	Items   []ProcessingOptionDTO `json:"items"`
}

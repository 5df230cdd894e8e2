package dto

// BulkPriceFilters narrows the base-price rows a bulk change touches. All
// criteria are optional and combined with AND; inactive and zero-priced rows
// are always excluded.
type BulkPriceFilters struct {
	Categories      []string  `json:"categories,omitempty"`
	GroupIDs        []uint    `json:"group_ids,omitempty"`
	Grades          []string  `json:"grades,omitempty"`
	SurfaceFinishes []string  `json:"surface_finishes,omitempty"`
	ThicknessMin    *float64  `json:"thickness_min,omitempty" validate:"omitempty,gt=0"`
	ThicknessMax    *float64  `json:"thickness_max,omitempty" validate:"omitempty,gt=0"`
	Widths          []float64 `json:"widths,omitempty"`
}

// BulkChangeRequest describes one bulk price mutation. change_value of 0 is
// legal (a no-op run); round_to defaults to 2 when omitted.
type BulkChangeRequest struct {
	Filters     BulkPriceFilters `json:"filters"`
	ChangeType  string           `json:"change_type" validate:"required,oneof=percentage absolute"`
	ChangeValue float64          `json:"change_value"`
	RoundTo     *int             `json:"round_to,omitempty" validate:"omitempty,min=0,max=4"`
	Notes       *string          `json:"notes,omitempty"`
}

// BulkPreviewItemDTO is one row of the preview page.
type BulkPreviewItemDTO struct {
	ID            uint    `json:"id"`
	MaterialGrade string  `json:"material_grade"`
	MaterialName  string  `json:"material_name"`
	GroupName     *string `json:"group_name,omitempty"`
	SurfaceFinish string  `json:"surface_finish"`
	Thickness     float64 `json:"thickness"`
	Width         float64 `json:"width"`
	CurrentPrice  float64 `json:"current_price"`
	NewPrice      float64 `json:"new_price"`
	ChangeAmount  float64 `json:"change_amount"`
}

// BulkPreviewResponse aggregates over the whole filtered set and pages the
// per-row deltas.
type BulkPreviewResponse struct {
	TotalAffected     int                  `json:"total_affected"`
	TotalCurrentValue float64              `json:"total_current_value"`
	TotalNewValue     float64              `json:"total_new_value"`
	ChangeType        string               `json:"change_type"`
	ChangeValue       float64              `json:"change_value"`
	Items             []BulkPreviewItemDTO `json:"items"`
	Page              int                  `json:"page"`
	PerPage           int                  `json:"per_page"`
	TotalPages        int                  `json:"total_pages"`
}

type BulkApplyResponse struct {
	Success       bool    `json:"success"`
	UpdatedCount  int     `json:"updated_count"`
	SkippedCount  int     `json:"skipped_count"`
	TotalPrevious float64 `json:"total_previous"`
	TotalNew      float64 `json:"total_new"`
	ChangeType    string  `json:"change_type"`
	ChangeValue   float64 `json:"change_value"`
	AuditID       uint    `json:"audit_id"`
}

// FilterOptionDTO is one selectable facet value.
type FilterOptionDTO struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// GroupOptionDTO is one selectable material group.
type GroupOptionDTO struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

// ThicknessRangeDTO bounds the thickness slider under the current filters.
type ThicknessRangeDTO struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// BulkFilterOptionsResponse carries the mutually-narrowing facet lists.
type BulkFilterOptionsResponse struct {
	Categories      []FilterOptionDTO `json:"categories"`
	Groups          []GroupOptionDTO  `json:"groups"`
	Grades          []string          `json:"grades"`
	SurfaceFinishes []string          `json:"surface_finishes"`
	ThicknessRange  ThicknessRangeDTO `json:"thickness_range"`
	Widths          []float64         `json:"widths"`
}

// PriceAuditEntryDTO is one recorded bulk mutation.
type PriceAuditEntryDTO struct {
	ID            uint    `json:"id"`
	ChangeType    string  `json:"change_type"`
	ChangeValue   float64 `json:"change_value"`
	AffectedCount int     `json:"affected_count"`
	PreviousTotal float64 `json:"previous_total"`
	NewTotal      float64 `json:"new_total"`
	User          string  `json:"user"`
	CreatedAt     string  `json:"created_at"`
	Filters       any     `json:"filters,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

type PriceAuditHistoryResponse struct {
	Message string               `json:"message"`
	Items   []PriceAuditEntryDTO `json:"items"`
	Total   int64                `json:"total"`
	Page    int                  `json:"page"`
	PerPage int                  `json:"per_page"`
}

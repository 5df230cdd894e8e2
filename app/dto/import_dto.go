package dto

// AnalyzeImportRequest points the analyzer at a workbook already on disk.
// Multipart uploads bypass this DTO and stream the file directly.
type AnalyzeImportRequest struct {
	Path string `json:"path" validate:"required"`
}

// ImportChangeItemDTO is one detected difference between the workbook and
// the catalog. Optional fields are populated per data type.
type ImportChangeItemDTO struct {
	RowNumber     int      `json:"row_number"`
	ChangeType    string   `json:"change_type"`
	DataType      string   `json:"data_type"`
	Grade         *string  `json:"grade,omitempty"`
	MaterialName  *string  `json:"material_name,omitempty"`
	SurfaceFinish *string  `json:"surface_finish,omitempty"`
	Thickness     *float64 `json:"thickness,omitempty"`
	Width         *float64 `json:"width,omitempty"`
	Provider      *string  `json:"provider,omitempty"`
	Grit          *string  `json:"grit,omitempty"`
	WithSB        *bool    `json:"with_sb,omitempty"`
	FilmType      *string  `json:"film_type,omitempty"`
	CurrentPrice  *float64 `json:"current_price,omitempty"`
	NewPrice      *float64 `json:"new_price,omitempty"`
	PriceChange   *float64 `json:"price_change,omitempty"`
	ErrorMessage  *string  `json:"error_message,omitempty"`
}

// ImportPreviewResponse summarizes a cached analysis and pages its changes.
type ImportPreviewResponse struct {
	ImportID   string                `json:"import_id"`
	Filename   string                `json:"filename"`
	TotalRows  int                   `json:"total_rows"`
	ValidRows  int                   `json:"valid_rows"`
	ErrorRows  int                   `json:"error_rows"`
	Added      int                   `json:"added"`
	Updated    int                   `json:"updated"`
	Removed    int                   `json:"removed"`
	Unchanged  int                   `json:"unchanged"`
	Items      []ImportChangeItemDTO `json:"items"`
	Page       int                   `json:"page"`
	PerPage    int                   `json:"per_page"`
	TotalPages int                   `json:"total_pages"`
	Errors     []string              `json:"errors,omitempty"`
	Warnings   []string              `json:"warnings,omitempty"`
}

// ImportApplyRequest commits a cached analysis. Confirm must be true; the
// handler rejects unconfirmed applies before the flow runs.
type ImportApplyRequest struct {
	Mode    string `json:"mode" validate:"required,oneof=update_existing add_new full_sync"`
	Confirm bool   `json:"confirm"`
}

type ImportApplyResponse struct {
	Success                bool     `json:"success"`
	ImportID               string   `json:"import_id"`
	RecordsAdded           int      `json:"records_added"`
	RecordsUpdated         int      `json:"records_updated"`
	RecordsSkipped         int      `json:"records_skipped"`
	RecordsFailed          int      `json:"records_failed"`
	Errors                 []string `json:"errors,omitempty"`
	BasePricesImported     int      `json:"base_prices_imported"`
	GrindingPricesImported int      `json:"grinding_prices_imported"`
	FilmPricesImported     int      `json:"film_prices_imported"`
}

// ImportExportHistoryItemDTO is one audit row of a past import or export.
type ImportExportHistoryItemDTO struct {
	ID             uint    `json:"id"`
	OperationType  string  `json:"operation_type"`
	FileName       string  `json:"file_name"`
	FileType       string  `json:"file_type"`
	DataType       string  `json:"data_type"`
	RecordsCount   int     `json:"records_count"`
	RecordsAdded   int     `json:"records_added"`
	RecordsUpdated int     `json:"records_updated"`
	RecordsSkipped int     `json:"records_skipped"`
	User           string  `json:"user"`
	Status         string  `json:"status"`
	ErrorMessage   *string `json:"error_message,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

type ImportExportHistoryResponse struct {
	Message string                       `json:"message"`
	Items   []ImportExportHistoryItemDTO `json:"items"`
	Total   int64                        `json:"total"`
	Page    int                          `json:"page"`
	PerPage int                          `json:"per_page"`
}

package models

import (
	"encoding/json"
	"time"
)

// Import/export operation types
const (
	OperationImport = "import"
	OperationExport = "export"
)

// Import/export file formats
const (
	FileTypeXLSX = "xlsx"
	FileTypeCSV  = "csv"
)

// Import/export outcomes
const (
	AuditStatusSuccess = "success"
	AuditStatusFailed  = "failed"
)

// Exportable data sets
const (
	DataTypeBasePrices = "base_prices"
	DataTypeGrinding   = "grinding"
	DataTypeFilm       = "film"
	DataTypeModifiers  = "modifiers"
	DataTypeAll        = "all"
)

// ImportExportAudit records one workbook import or export run together with
// its row counters and outcome.
type ImportExportAudit struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	OperationType  string          `gorm:"size:20;not null;index:idx_import_export_audits_op" json:"operation_type"`
	FileName       string          `gorm:"size:255;not null" json:"file_name"`
	FileType       string          `gorm:"size:10;not null" json:"file_type"`
	DataType       string          `gorm:"size:50;not null;index:idx_import_export_audits_data" json:"data_type"`
	FiltersJSON    json.RawMessage `gorm:"type:jsonb" json:"filters_json,omitempty"`
	RecordsCount   int             `gorm:"not null;default:0" json:"records_count"`
	RecordsAdded   int             `gorm:"not null;default:0" json:"records_added"`
	RecordsUpdated int             `gorm:"not null;default:0" json:"records_updated"`
	RecordsSkipped int             `gorm:"not null;default:0" json:"records_skipped"`
	UserID         *string         `gorm:"size:100;index:idx_import_export_audits_user" json:"user_id,omitempty"`
	Status         string          `gorm:"size:20;not null;default:'success'" json:"status"`
	ErrorMessage   *string         `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt      time.Time       `gorm:"default:CURRENT_TIMESTAMP;index:idx_import_export_audits_created_at" json:"created_at"`
}

func (ImportExportAudit) TableName() string {
	return "import_export_audits"
}

// ImportExportAuditFilter represents filter criteria for import/export audit queries
type ImportExportAuditFilter struct {
	ID            *uint
	OperationType *string
	DataType      *string
	Status        *string
	UserID        *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

func (a *ImportExportAudit) IsFailed() bool {
	return a.Status == AuditStatusFailed
}

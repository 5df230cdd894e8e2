package models

import (
	"encoding/json"
	"time"
)

// Bulk price change types
const (
	ChangeTypeBulkPercentage = "bulk_percentage"
	ChangeTypeBulkAbsolute   = "bulk_absolute"
)

// PriceChangeAudit records one bulk price mutation: the filter set that
// selected the rows, the adjustment applied and the before/after price totals
// over the rows that actually changed.
type PriceChangeAudit struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	ChangeType    string          `gorm:"size:50;not null;index:idx_price_change_audits_type" json:"change_type"`
	FiltersJSON   json.RawMessage `gorm:"type:jsonb" json:"filters_json,omitempty"`
	ChangeValue   float64         `gorm:"type:double precision;not null" json:"change_value"`
	AffectedCount int             `gorm:"not null;default:0" json:"affected_count"`
	PreviousTotal float64         `gorm:"type:double precision;not null;default:0" json:"previous_total"`
	NewTotal      float64         `gorm:"type:double precision;not null;default:0" json:"new_total"`
	UserID        *string         `gorm:"size:100;index:idx_price_change_audits_user" json:"user_id,omitempty"`
	Notes         *string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time       `gorm:"default:CURRENT_TIMESTAMP;index:idx_price_change_audits_created_at" json:"created_at"`
}

func (PriceChangeAudit) TableName() string {
	return "price_change_audits"
}

// PriceChangeAuditFilter represents filter criteria for price change audit queries
type PriceChangeAuditFilter struct {
	ID            *uint
	ChangeType    *string
	UserID        *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

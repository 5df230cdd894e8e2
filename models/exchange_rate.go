package models

import "time"

// DefaultEURPLNRate is used when no active exchange rate row exists.
const DefaultEURPLNRate = 4.38

// Currency codes stored on exchange rate rows.
const (
	CurrencyPLN = "PLN"
	CurrencyEUR = "EUR"
)

// ExchangeRate stores a conversion rate between two currencies. Pricing reads
// the most recent active EUR->PLN row and divides PLN amounts by it.
type ExchangeRate struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	CurrencyFrom string     `gorm:"size:3;not null;index:idx_exchange_rates_pair" json:"currency_from"`
	CurrencyTo   string     `gorm:"size:3;not null;index:idx_exchange_rates_pair" json:"currency_to"`
	Rate         float64    `gorm:"type:double precision;not null" json:"rate"`
	ValidFrom    time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_exchange_rates_valid_from" json:"valid_from"`
	ValidTo      *time.Time `json:"valid_to"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (ExchangeRate) TableName() string {
	return "exchange_rates"
}

// ExchangeRateFilter represents filter criteria for exchange rate queries
type ExchangeRateFilter struct {
	ID           *uint
	CurrencyFrom *string
	CurrencyTo   *string
	IsActive     *bool
}

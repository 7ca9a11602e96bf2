package models

import (
	"time"

	"billing/internal/money"
	"billing/internal/uuid"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExchangeRate is the daily rate from the base currency to ToCurrency.
// This is immutable reference data: no Base embed, never updated or deleted.
// (Date, FromCurrency, ToCurrency) is the natural key.
type ExchangeRate struct {
	ID           string          `gorm:"type:uuid;primaryKey" json:"id"`
	Date         time.Time       `gorm:"type:date;not null;uniqueIndex:idx_exchange_rates_natural_key,priority:1" json:"date"`
	FromCurrency money.Currency  `gorm:"type:varchar(3);not null;uniqueIndex:idx_exchange_rates_natural_key,priority:2" json:"from_currency"`
	ToCurrency   money.Currency  `gorm:"type:varchar(3);not null;uniqueIndex:idx_exchange_rates_natural_key,priority:3" json:"to_currency"`
	Rate         decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"rate"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (r *ExchangeRate) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New()
	}
	return nil
}

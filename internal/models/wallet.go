package models

import (
	"billing/internal/money"

	"github.com/shopspring/decimal"
)

// Wallet holds a user's funds in a single currency.
// Balance is a cache of SUM(transaction_entries.amount) for the wallet and is
// only ever written by the ledger's reconciliation step.
type Wallet struct {
	Base
	UserID   string          `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Currency money.Currency  `gorm:"type:varchar(3);not null" json:"currency"`
	Balance  decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"balance"`
}

package models

import (
	"time"

	"billing/internal/money"
	"billing/internal/uuid"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction is one balanced economic event. It is immutable once committed
// and owns one entry (top-up) or two entries (payment).
type Transaction struct {
	ID          string             `gorm:"type:uuid;primaryKey" json:"id"`
	Created     time.Time          `gorm:"not null;index" json:"created"`
	Description string             `gorm:"size:500" json:"description"`
	IsTopUp     bool               `gorm:"not null;default:false" json:"is_top_up"`
	Entries     []TransactionEntry `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"entries"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New()
	}
	return nil
}

// TransactionEntry is a signed movement against one wallet: negative amounts
// debit, positive amounts credit. Its currency is the wallet's currency.
type TransactionEntry struct {
	ID            string          `gorm:"type:uuid;primaryKey" json:"id"`
	TransactionID string          `gorm:"type:uuid;not null;index" json:"-"`
	WalletID      string          `gorm:"type:uuid;not null;index" json:"wallet"`
	Amount        decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	Wallet        *Wallet         `gorm:"foreignKey:WalletID;constraint:OnDelete:CASCADE" json:"-"`

	// Currency is filled from the wallet when loaded; it is not a column.
	Currency money.Currency `gorm:"-" json:"currency,omitempty"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (e *TransactionEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New()
	}
	return nil
}

// AfterFind copies the preloaded wallet currency onto the entry.
func (e *TransactionEntry) AfterFind(tx *gorm.DB) error {
	if e.Wallet != nil {
		e.Currency = e.Wallet.Currency
	}
	return nil
}

package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"billing/internal/models"
	"billing/internal/money"
	"billing/internal/pagination"
	"billing/internal/ratefeed"
	"billing/internal/report"
)

// UserServicer defines the contract for user lookups and provisioning.
type UserServicer interface {
	CreateUserWithWallet(ctx context.Context, username, email string, currency money.Currency, isStaff bool) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// WalletServicer defines the contract for wallet lookups.
type WalletServicer interface {
	GetWalletByID(ctx context.Context, id string) (*models.Wallet, error)
	GetUserWallet(ctx context.Context, userID string) (*models.Wallet, error)
}

// EntryRequest is one signed movement requested against a wallet.
type EntryRequest struct {
	WalletID string
	Amount   decimal.Decimal
}

// CreateTransactionRequest describes a transaction and its entries, in the
// order they are written.
type CreateTransactionRequest struct {
	Description string
	IsTopUp     bool
	Entries     []EntryRequest
}

// LedgerServicer defines the contract for writing and reading the ledger.
type LedgerServicer interface {
	CreateEntry(tx *gorm.DB, txn *models.Transaction, walletID string, amount decimal.Decimal) (*models.TransactionEntry, error)
	CreateTransaction(ctx context.Context, req CreateTransactionRequest) (*models.Transaction, error)
	CreateTransactionTx(tx *gorm.DB, req CreateTransactionRequest) (*models.Transaction, error)
	TopUp(ctx context.Context, walletID string, amount decimal.Decimal) (*models.Transaction, error)
	ReconcileWallet(ctx context.Context, walletID string) (*models.Wallet, error)
	ReconcileAll(ctx context.Context) (int, error)
	GetTransaction(ctx context.Context, walletID, transactionID string) (*models.Transaction, error)
	ListWalletTransactions(ctx context.Context, walletID string, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
}

// RateFetcher retrieves one day of Base→X rates from the external feed.
type RateFetcher interface {
	FetchRates(ctx context.Context, date time.Time, base money.Currency, symbols []money.Currency) (*ratefeed.Rates, error)
}

// RateQuery selects rates relative to From. A nil To lists every other
// currency; a zero Date means today.
type RateQuery struct {
	From money.Currency
	To   *money.Currency
	Date time.Time
}

// RateView is a derived rate between two supported currencies.
type RateView struct {
	FromCurrency money.Currency  `json:"from_currency"`
	ToCurrency   money.Currency  `json:"to_currency"`
	Rate         decimal.Decimal `json:"rate"`
	Date         string          `json:"date"`
}

// ExchangeRateServicer defines the contract for the daily rate store.
type ExchangeRateServicer interface {
	FindRates(ctx context.Context, to *money.Currency, date time.Time) ([]models.ExchangeRate, error)
	EnsureRatesForDate(ctx context.Context, date time.Time) error
	BaseRate(ctx context.Context, currency money.Currency, date time.Time) (decimal.Decimal, error)
	ListRates(ctx context.Context, q RateQuery) ([]RateView, error)
}

// TransferRequest moves Amount, in the source wallet's currency, to another wallet.
type TransferRequest struct {
	SourceWalletID      string
	DestinationWalletID string
	Amount              decimal.Decimal
	Description         string
}

// PaymentServicer defines the contract for wallet to wallet payments.
type PaymentServicer interface {
	SendPayment(ctx context.Context, req TransferRequest) (*models.Transaction, *models.Wallet, error)
}

// ReportFilter selects a user's entries by inclusive creation time range.
type ReportFilter struct {
	Username string
	DateFrom *time.Time
	DateTo   *time.Time
}

// ReportServicer defines the contract for activity reports.
type ReportServicer interface {
	GenerateReport(ctx context.Context, filter ReportFilter) ([]report.Row, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(ctx context.Context, ev AuditEvent)
}

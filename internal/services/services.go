package services

import (
	"gorm.io/gorm"

	"billing/internal/cache"
	"billing/internal/clock"
)

// Services bundles the services built over one database, as wired by the
// API server, the operator CLI and the integration tests.
type Services struct {
	Users    UserServicer
	Wallets  WalletServicer
	Ledger   LedgerServicer
	Rates    ExchangeRateServicer
	Payments PaymentServicer
	Reports  ReportServicer
	Audit    AuditServicer
}

// New wires every service against db. A nil rc disables rate caching.
func New(db *gorm.DB, feed RateFetcher, rc cache.RateCache, clk clock.Clock) *Services {
	ledger := NewLedgerService(db, clk)
	wallets := NewWalletService(db)
	rates := NewExchangeRateService(db, feed, rc, clk)
	return &Services{
		Users:    NewUserService(db),
		Wallets:  wallets,
		Ledger:   ledger,
		Rates:    rates,
		Payments: NewPaymentService(db, ledger, rates, wallets, clk),
		Reports:  NewReportService(db),
		Audit:    NewAuditService(db),
	}
}

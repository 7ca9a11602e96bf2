package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/gorm"

	"billing/internal/clock"
	"billing/internal/logger"
	"billing/internal/models"
	"billing/internal/money"
	"billing/internal/ratefeed"
)

func init() {
	logger.Init("test")
}

// testNow is the fixed "now" used across service tests.
var testNow = time.Date(2019, 9, 14, 12, 0, 0, 0, time.UTC)

var testDay = clock.Date(testNow)

// fakeFeed serves canned rates and counts calls.
type fakeFeed struct {
	rates map[string]float64
	err   error
	delay time.Duration
	calls atomic.Int32
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{rates: map[string]float64{
		"CAD": 1.3259568293,
		"EUR": 0.9069472157,
		"CNY": 7.0967712679,
		"USD": 1.0,
	}}
}

func (f *fakeFeed) FetchRates(ctx context.Context, date time.Time, base money.Currency, symbols []money.Currency) (*ratefeed.Rates, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &ratefeed.Rates{Base: string(base), Date: date.Format("2006-01-02"), Rates: f.rates}, nil
}

// memoryCache is an in-process RateCache.
type memoryCache struct {
	mu    sync.Mutex
	rates map[string][]models.ExchangeRate
}

func newMemoryCache() *memoryCache {
	return &memoryCache{rates: map[string][]models.ExchangeRate{}}
}

func (c *memoryCache) GetRates(_ context.Context, date time.Time) ([]models.ExchangeRate, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.rates[date.Format("2006-01-02")]
	return r, ok, nil
}

func (c *memoryCache) SetRates(_ context.Context, date time.Time, rates []models.ExchangeRate) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rates[date.Format("2006-01-02")] = rates
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, date time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.rates, date.Format("2006-01-02"))
	return nil
}

// testServices wires every service against db with a fixed clock.
type testServices struct {
	ledger   LedgerServicer
	rates    ExchangeRateServicer
	wallets  WalletServicer
	payments PaymentServicer
}

func newTestServices(t *testing.T, db *gorm.DB, feed RateFetcher) testServices {
	t.Helper()
	clk := clock.Fixed(testNow)
	ledger := NewLedgerService(db, clk)
	rates := NewExchangeRateService(db, feed, nil, clk)
	wallets := NewWalletService(db)
	return testServices{
		ledger:   ledger,
		rates:    rates,
		wallets:  wallets,
		payments: NewPaymentService(db, ledger, rates, wallets, clk),
	}
}

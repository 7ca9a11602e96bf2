package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"billing/internal/money"
	"billing/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates an active user with a unique username and no wallet.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithName(t, db, fmt.Sprintf("user%d", nextID()))
}

// CreateTestUserWithName creates a user with the given username.
func CreateTestUserWithName(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@test.com",
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestWallet creates an empty wallet for userID.
func CreateTestWallet(t *testing.T, db *gorm.DB, userID string, currency money.Currency) *models.Wallet {
	t.Helper()

	wallet := &models.Wallet{
		UserID:   userID,
		Currency: currency,
		Balance:  decimal.Zero,
	}
	if err := db.Create(wallet).Error; err != nil {
		t.Fatalf("failed to create test wallet: %v", err)
	}
	return wallet
}

// CreateTestUserWithWallet creates a user together with an empty wallet.
func CreateTestUserWithWallet(t *testing.T, db *gorm.DB, currency money.Currency) (*models.User, *models.Wallet) {
	t.Helper()

	user := CreateTestUser(t, db)
	wallet := CreateTestWallet(t, db, user.ID, currency)
	user.Wallet = wallet
	return user, wallet
}

// CreateTestTopUp writes a top-up transaction directly and keeps the cached
// balance consistent with the entries.
func CreateTestTopUp(t *testing.T, db *gorm.DB, wallet *models.Wallet, amount string, created time.Time) *models.Transaction {
	t.Helper()

	amt := decimal.RequireFromString(amount)
	txn := &models.Transaction{
		Created:     created.UTC(),
		Description: "Top up",
		IsTopUp:     true,
		Entries:     []models.TransactionEntry{{WalletID: wallet.ID, Amount: amt}},
	}
	if err := db.Create(txn).Error; err != nil {
		t.Fatalf("failed to create test top-up: %v", err)
	}

	wallet.Balance = wallet.Balance.Add(amt)
	if err := db.Model(&models.Wallet{}).Where("id = ?", wallet.ID).Update("balance", wallet.Balance).Error; err != nil {
		t.Fatalf("failed to update test wallet balance: %v", err)
	}
	return txn
}

// CreateTestRate stores one Base→to rate for date.
func CreateTestRate(t *testing.T, db *gorm.DB, date time.Time, to money.Currency, rate string) *models.ExchangeRate {
	t.Helper()

	r := &models.ExchangeRate{
		Date:         date,
		FromCurrency: money.Base,
		ToCurrency:   to,
		Rate:         decimal.RequireFromString(rate),
	}
	if err := db.Create(r).Error; err != nil {
		t.Fatalf("failed to create test rate: %v", err)
	}
	return r
}

// CreateTestRates stores the usual fixture set: USD 1, EUR 0.90, CAD 1.33, CNY 7.09.
func CreateTestRates(t *testing.T, db *gorm.DB, date time.Time) {
	t.Helper()

	for cur, rate := range map[money.Currency]string{
		money.USD: "1",
		money.EUR: "0.90",
		money.CAD: "1.33",
		money.CNY: "7.09",
	} {
		CreateTestRate(t, db, date, cur, rate)
	}
}

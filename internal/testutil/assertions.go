package testutil

import (
	"errors"
	"testing"

	apperrors "billing/internal/errors"
	"billing/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AssertAppError checks that err is an *AppError with the expected error code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}

	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertDecimal compares two decimals by value, so "90" and "90.00" are equal.
func AssertDecimal(t *testing.T, got decimal.Decimal, want string) {
	t.Helper()

	w := decimal.RequireFromString(want)
	if !got.Equal(w) {
		t.Errorf("expected %s, got %s", w.StringFixed(2), got.StringFixed(2))
	}
}

// AssertBalanceMatchesEntries checks that the stored wallet balance equals the
// sum of its entries.
func AssertBalanceMatchesEntries(t *testing.T, db *gorm.DB, walletID string) {
	t.Helper()

	var wallet models.Wallet
	if err := db.First(&wallet, "id = ?", walletID).Error; err != nil {
		t.Fatalf("failed to load wallet %s: %v", walletID, err)
	}

	var entries []models.TransactionEntry
	if err := db.Where("wallet_id = ?", walletID).Find(&entries).Error; err != nil {
		t.Fatalf("failed to load entries: %v", err)
	}

	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Amount)
	}
	if !wallet.Balance.Equal(sum) {
		t.Errorf("wallet %s balance %s does not match entry sum %s", walletID, wallet.Balance, sum)
	}
}

// CountRows returns the number of rows of model.
func CountRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()

	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return n
}

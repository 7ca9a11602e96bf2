package integration

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"billing/internal/models"
	"billing/internal/money"
	"billing/internal/testutil"
)

func assertAmount(t *testing.T, got, want string) {
	t.Helper()
	if !decimal.RequireFromString(got).Equal(decimal.RequireFromString(want)) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestPaymentFlow_TopUpPayReport(t *testing.T) {
	app := setupApp(t)
	alice, aliceToken := app.createUser(t, "alice", money.USD, false)
	bob, bobToken := app.createUser(t, "bob", money.EUR, false)

	// Top up 500 USD
	rec := app.request("POST", "/api/v1/wallet/top-up", `{"amount":"500"}`, aliceToken)
	expectStatus(t, rec, http.StatusCreated)
	assertAmount(t, parseJSON(t, rec)["balance"].(string), "500")

	// Pay 100 USD to bob's EUR wallet at 0.90
	rec = app.request("POST", "/api/v1/transactions",
		fmt.Sprintf(`{"destination_wallet":%q,"amount":"100","description":"Dinner"}`, bob.Wallet.ID), aliceToken)
	expectStatus(t, rec, http.StatusCreated)
	result := parseJSON(t, rec)
	assertAmount(t, result["balance"].(string), "400")

	entries := result["transaction"].(map[string]interface{})["entries"].([]interface{})
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	credit := entries[1].(map[string]interface{})
	assertAmount(t, credit["amount"].(string), "90")
	if credit["currency"] != "EUR" {
		t.Errorf("expected EUR credit, got %v", credit["currency"])
	}

	assertAmount(t, app.balanceOf(t, bobToken), "90")
	if n := testutil.CountRows(t, app.DB, &models.Transaction{}); n != 2 {
		t.Errorf("expected 2 transactions, got %d", n)
	}
	if n := testutil.CountRows(t, app.DB, &models.TransactionEntry{}); n != 3 {
		t.Errorf("expected 3 entries, got %d", n)
	}
	testutil.AssertBalanceMatchesEntries(t, app.DB, alice.Wallet.ID)
	testutil.AssertBalanceMatchesEntries(t, app.DB, bob.Wallet.ID)

	// Report, newest first
	rec = app.request("GET", "/api/v1/reports", "", aliceToken)
	expectStatus(t, rec, http.StatusOK)
	rows := parseJSON(t, rec)["results"].([]interface{})
	if len(rows) != 2 {
		t.Fatalf("expected 2 report rows, got %d", len(rows))
	}
	assertAmount(t, rows[0].(map[string]interface{})["amount"].(string), "-100")
	assertAmount(t, rows[1].(map[string]interface{})["amount"].(string), "500")

	// CSV download
	rec = app.request("GET", "/api/v1/reports?format=csv", "", aliceToken)
	expectStatus(t, rec, http.StatusOK)
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "alice_report.csv") {
		t.Errorf("unexpected Content-Disposition %q", cd)
	}
	records, err := csv.NewReader(rec.Body).ReadAll()
	if err != nil {
		t.Fatalf("invalid csv: %v", err)
	}
	if len(records) != 3 || strings.Join(records[0], ",") != "amount,created,currency,id,username" {
		t.Errorf("unexpected csv %v", records)
	}

	// Transaction history
	rec = app.request("GET", "/api/v1/transactions", "", bobToken)
	expectStatus(t, rec, http.StatusOK)
	if total := parseJSON(t, rec)["total_items"].(float64); total != 1 {
		t.Errorf("expected bob to see 1 transaction, got %.0f", total)
	}
}

func TestPaymentFlow_InsufficientFunds(t *testing.T) {
	app := setupApp(t)
	_, aliceToken := app.createUser(t, "alice", money.USD, false)
	bob, _ := app.createUser(t, "bob", money.USD, false)

	rec := app.request("POST", "/api/v1/wallet/top-up", `{"amount":"50"}`, aliceToken)
	expectStatus(t, rec, http.StatusCreated)

	rec = app.request("POST", "/api/v1/transactions",
		fmt.Sprintf(`{"destination_wallet":%q,"amount":"100"}`, bob.Wallet.ID), aliceToken)
	expectStatus(t, rec, http.StatusBadRequest)
	expectErrorCode(t, rec, "INSUFFICIENT_FUNDS")

	assertAmount(t, app.balanceOf(t, aliceToken), "50")
	if n := testutil.CountRows(t, app.DB, &models.Transaction{}); n != 1 {
		t.Errorf("expected only the top-up, got %d transactions", n)
	}
}

func TestPaymentFlow_Validation(t *testing.T) {
	app := setupApp(t)
	alice, aliceToken := app.createUser(t, "alice", money.USD, false)

	rec := app.request("POST", "/api/v1/wallet/top-up", `{"amount":"10.001"}`, aliceToken)
	expectStatus(t, rec, http.StatusBadRequest)

	rec = app.request("POST", "/api/v1/transactions",
		fmt.Sprintf(`{"destination_wallet":%q,"amount":"1"}`, alice.Wallet.ID), aliceToken)
	expectStatus(t, rec, http.StatusBadRequest)
	expectErrorCode(t, rec, "SAME_WALLET_TRANSFER")

	rec = app.request("POST", "/api/v1/transactions", `{"destination_wallet":"nope","amount":"1"}`, aliceToken)
	expectStatus(t, rec, http.StatusBadRequest)
	expectErrorCode(t, rec, "INVALID_INPUT")

	rec = app.request("POST", "/api/v1/transactions", `{"destination_wallet":"0190f1d2-7b3c-7a4e-9f00-00000000dead","amount":"1"}`, aliceToken)
	expectStatus(t, rec, http.StatusNotFound)
	expectErrorCode(t, rec, "WALLET_NOT_FOUND")
}

func TestAuthFlow(t *testing.T) {
	app := setupApp(t)
	_, aliceToken := app.createUser(t, "alice", money.USD, false)
	bob, _ := app.createUser(t, "bob", money.USD, false)
	staff, staffToken := app.createUser(t, "admin", money.USD, true)

	t.Run("missing token", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/wallet", "", "")
		expectStatus(t, rec, http.StatusUnauthorized)
		expectErrorCode(t, rec, "UNAUTHORIZED")
	})

	t.Run("report on another user", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/reports?username=bob", "", aliceToken)
		expectStatus(t, rec, http.StatusForbidden)

		rec = app.request("GET", "/api/v1/reports?username=bob", "", staffToken)
		expectStatus(t, rec, http.StatusOK)
	})

	t.Run("reconcile is staff only", func(t *testing.T) {
		path := "/api/v1/admin/wallets/" + bob.Wallet.ID + "/reconcile"

		rec := app.request("POST", path, "", aliceToken)
		expectStatus(t, rec, http.StatusForbidden)

		rec = app.request("POST", path, "", staffToken)
		expectStatus(t, rec, http.StatusOK)
		assertAmount(t, parseJSON(t, rec)["balance"].(string), "0")
	})

	t.Run("demotion applies to issued tokens", func(t *testing.T) {
		if err := app.DB.Model(&models.User{}).Where("id = ?", staff.ID).Update("is_staff", false).Error; err != nil {
			t.Fatalf("failed to demote: %v", err)
		}

		rec := app.request("POST", "/api/v1/admin/wallets/"+bob.Wallet.ID+"/reconcile", "", staffToken)
		expectStatus(t, rec, http.StatusForbidden)

		rec = app.request("GET", "/api/v1/reports?username=bob", "", staffToken)
		expectStatus(t, rec, http.StatusForbidden)
	})

	t.Run("deactivated user is rejected", func(t *testing.T) {
		if err := app.DB.Model(&models.User{}).Where("id = ?", staff.ID).Update("is_active", false).Error; err != nil {
			t.Fatalf("failed to deactivate: %v", err)
		}

		rec := app.request("GET", "/api/v1/wallet", "", staffToken)
		expectStatus(t, rec, http.StatusUnauthorized)
	})
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"billing/internal/logger"
	"billing/internal/middleware"
	"billing/internal/models"
	"billing/internal/money"
	"billing/internal/pagination"
	"billing/internal/report"
	"billing/internal/services"
	"billing/internal/validator"
)

// --- mock services ---

type mockWalletService struct {
	getWalletByIDFn func(id string) (*models.Wallet, error)
	getUserWalletFn func(userID string) (*models.Wallet, error)
}

func (m *mockWalletService) GetWalletByID(_ context.Context, id string) (*models.Wallet, error) {
	if m.getWalletByIDFn != nil {
		return m.getWalletByIDFn(id)
	}
	return &models.Wallet{Base: models.Base{ID: id}, Currency: money.USD}, nil
}

func (m *mockWalletService) GetUserWallet(_ context.Context, userID string) (*models.Wallet, error) {
	if m.getUserWalletFn != nil {
		return m.getUserWalletFn(userID)
	}
	return &models.Wallet{Base: models.Base{ID: "wallet-" + userID}, UserID: userID, Currency: money.USD}, nil
}

var _ services.WalletServicer = (*mockWalletService)(nil)

type mockLedgerService struct {
	topUpFn           func(walletID string, amount decimal.Decimal) (*models.Transaction, error)
	reconcileWalletFn func(walletID string) (*models.Wallet, error)
	getTransactionFn  func(walletID, transactionID string) (*models.Transaction, error)
	listFn            func(walletID string, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
}

func (m *mockLedgerService) CreateEntry(_ *gorm.DB, _ *models.Transaction, _ string, _ decimal.Decimal) (*models.TransactionEntry, error) {
	return &models.TransactionEntry{}, nil
}

func (m *mockLedgerService) CreateTransaction(_ context.Context, _ services.CreateTransactionRequest) (*models.Transaction, error) {
	return &models.Transaction{}, nil
}

func (m *mockLedgerService) CreateTransactionTx(_ *gorm.DB, _ services.CreateTransactionRequest) (*models.Transaction, error) {
	return &models.Transaction{}, nil
}

func (m *mockLedgerService) TopUp(_ context.Context, walletID string, amount decimal.Decimal) (*models.Transaction, error) {
	if m.topUpFn != nil {
		return m.topUpFn(walletID, amount)
	}
	return &models.Transaction{ID: "txn-1", IsTopUp: true}, nil
}

func (m *mockLedgerService) ReconcileWallet(_ context.Context, walletID string) (*models.Wallet, error) {
	if m.reconcileWalletFn != nil {
		return m.reconcileWalletFn(walletID)
	}
	return &models.Wallet{Base: models.Base{ID: walletID}}, nil
}

func (m *mockLedgerService) ReconcileAll(_ context.Context) (int, error) { return 0, nil }

func (m *mockLedgerService) GetTransaction(_ context.Context, walletID, transactionID string) (*models.Transaction, error) {
	if m.getTransactionFn != nil {
		return m.getTransactionFn(walletID, transactionID)
	}
	return &models.Transaction{ID: transactionID}, nil
}

func (m *mockLedgerService) ListWalletTransactions(_ context.Context, walletID string, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	if m.listFn != nil {
		return m.listFn(walletID, page)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
	return &resp, nil
}

var _ services.LedgerServicer = (*mockLedgerService)(nil)

type mockPaymentService struct {
	sendPaymentFn func(req services.TransferRequest) (*models.Transaction, *models.Wallet, error)
}

func (m *mockPaymentService) SendPayment(_ context.Context, req services.TransferRequest) (*models.Transaction, *models.Wallet, error) {
	if m.sendPaymentFn != nil {
		return m.sendPaymentFn(req)
	}
	return &models.Transaction{ID: "txn-1"}, &models.Wallet{Base: models.Base{ID: req.SourceWalletID}}, nil
}

var _ services.PaymentServicer = (*mockPaymentService)(nil)

type mockExchangeRateService struct {
	listRatesFn func(q services.RateQuery) ([]services.RateView, error)
}

func (m *mockExchangeRateService) FindRates(_ context.Context, _ *money.Currency, _ time.Time) ([]models.ExchangeRate, error) {
	return nil, nil
}

func (m *mockExchangeRateService) EnsureRatesForDate(_ context.Context, _ time.Time) error {
	return nil
}

func (m *mockExchangeRateService) BaseRate(_ context.Context, _ money.Currency, _ time.Time) (decimal.Decimal, error) {
	return decimal.NewFromInt(1), nil
}

func (m *mockExchangeRateService) ListRates(_ context.Context, q services.RateQuery) ([]services.RateView, error) {
	if m.listRatesFn != nil {
		return m.listRatesFn(q)
	}
	return []services.RateView{}, nil
}

var _ services.ExchangeRateServicer = (*mockExchangeRateService)(nil)

type mockReportService struct {
	generateFn func(f services.ReportFilter) ([]report.Row, error)
}

func (m *mockReportService) GenerateReport(_ context.Context, f services.ReportFilter) ([]report.Row, error) {
	if m.generateFn != nil {
		return m.generateFn(f)
	}
	return []report.Row{}, nil
}

var _ services.ReportServicer = (*mockReportService)(nil)

type mockAuditService struct {
	mu      sync.Mutex
	entries []services.AuditEvent
}

func (m *mockAuditService) Log(_ context.Context, ev services.AuditEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, ev)
}

var _ services.AuditServicer = (*mockAuditService)(nil)

// --- test helpers ---

const (
	testWalletID      = "0190f1d2-7b3c-7a4e-9f00-0000000000a2"
	testTransactionID = "0190f1d2-7b3c-7a4e-9f00-0000000000b5"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// injectUser stands in for AuthMiddleware.
func injectUser(userID, username string, isStaff bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Set(middleware.ContextUsername, username)
		c.Set(middleware.ContextIsStaff, isStaff)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

func assertDecimalField(t *testing.T, got interface{}, want string) {
	t.Helper()
	s, ok := got.(string)
	if !ok {
		t.Fatalf("expected decimal string, got %T %v", got, got)
	}
	if !decimal.RequireFromString(s).Equal(decimal.RequireFromString(want)) {
		t.Errorf("expected %s, got %s", want, s)
	}
}

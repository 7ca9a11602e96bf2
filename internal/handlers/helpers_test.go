package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "billing/internal/errors"
)

func TestBindingError(t *testing.T) {
	bind := func(query string) error {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/exchange-rates"+query, http.NoBody)
		var q RateListQuery
		return c.ShouldBindQuery(&q)
	}

	if err := bind("?from_currency=eur&to_currency=CNY"); err != nil {
		t.Fatalf("expected supported currencies to bind, got %v", err)
	}

	err := bindingError(bind("?to_currency=GBP"))
	if !errors.Is(err, apperrors.ErrInvalidCurrency) {
		t.Errorf("expected INVALID_CURRENCY, got %v", err)
	}

	err = bindingError(errors.New("malformed query"))
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestParseUUID(t *testing.T) {
	id, err := parseUUID("0190F1D2-7B3C-7A4E-9F00-0000000000A2", "destination_wallet")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != testWalletID {
		t.Errorf("expected canonical id, got %s", id)
	}

	for _, bad := range []string{"", "abc", "1", "0190f1d2-7b3c-7a4e-9f00"} {
		if _, err := parseUUID(bad, "id"); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Errorf("parseUUID(%q): expected INVALID_INPUT, got %v", bad, err)
		}
	}
}

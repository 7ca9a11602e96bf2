// Package money defines the currencies the ledger supports and the fixed-point
// rules applied to amounts and exchange rates.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 code from the supported set.
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	CAD Currency = "CAD"
	CNY Currency = "CNY"
)

// Base is the currency every stored exchange rate is quoted from.
const Base = USD

// Places is the number of decimal places kept for amounts and rates.
const Places int32 = 2

// maxIntegerDigits mirrors the numeric(20,2) columns.
const maxIntegerDigits = 18

var supported = []Currency{USD, EUR, CAD, CNY}

var (
	// ErrUnsupportedCurrency is returned for codes outside the supported set.
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	// ErrInvalidAmount is returned for amounts that are not strictly positive,
	// carry more than two decimal places, or overflow the storage precision.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrZeroRate is returned when a cross rate is requested against a zero base.
	ErrZeroRate = errors.New("base rate must not be zero")
)

// Supported returns the supported currencies in a stable order.
func Supported() []Currency {
	out := make([]Currency, len(supported))
	copy(out, supported)
	return out
}

// SupportedCodes returns the supported currency codes as strings.
func SupportedCodes() []string {
	codes := make([]string, len(supported))
	for i, c := range supported {
		codes[i] = string(c)
	}
	return codes
}

// IsSupported reports whether c belongs to the supported set.
func (c Currency) IsSupported() bool {
	for _, s := range supported {
		if s == c {
			return true
		}
	}
	return false
}

func (c Currency) String() string { return string(c) }

// ParseCurrency normalises s and checks it against the supported set.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsSupported() {
		return "", fmt.Errorf("%w: %q must be one of %s", ErrUnsupportedCurrency, s, strings.Join(SupportedCodes(), ", "))
	}
	return c, nil
}

// Round rounds d to two decimal places, half away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// ValidateAmount checks that d is strictly positive, has at most two decimal
// places and fits numeric(20,2).
func ValidateAmount(d decimal.Decimal) error {
	if !d.IsPositive() {
		return fmt.Errorf("%w: must be greater than zero", ErrInvalidAmount)
	}
	if !d.Equal(Round(d)) {
		return fmt.Errorf("%w: at most %d decimal places allowed", ErrInvalidAmount, Places)
	}
	if len(d.Truncate(0).String()) > maxIntegerDigits {
		return fmt.Errorf("%w: too many digits", ErrInvalidAmount)
	}
	return nil
}

// CrossRate derives the rate between two currencies from their rates against
// Base: target/base rounded to two places. With USD→EUR 0.90 and USD→CAD 1.33,
// EUR→CAD is CrossRate(1.33, 0.90) = 1.48 and CAD→USD is CrossRate(1, 1.33) = 0.75.
func CrossRate(target, base decimal.Decimal) (decimal.Decimal, error) {
	if base.IsZero() {
		return decimal.Zero, ErrZeroRate
	}
	return Round(target.Div(base)), nil
}

// Convert applies rate to amount and rounds the result to two places.
func Convert(amount, rate decimal.Decimal) decimal.Decimal {
	return Round(amount.Mul(rate))
}

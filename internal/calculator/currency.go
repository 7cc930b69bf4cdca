package calculator

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// DefaultCurrency is used for groups that never picked one.
const DefaultCurrency = "USD"

var ErrUnsupportedCurrency = errors.New("unsupported currency")

var supportedCurrencies = []string{"USD", "EUR", "GBP", "PKR"}

// NormalizeCurrency validates an ISO 4217 code against the supported set and
// returns it upper-cased.
func NormalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedCurrency, code)
	}
	if !slices.Contains(supportedCurrencies, unit.String()) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedCurrency, unit)
	}
	return unit.String(), nil
}

// RoundForDisplay formats an amount with the currency's standard number of
// decimals (two when the code is unknown). This is the only place amounts are rounded.
func RoundForDisplay(amount decimal.Decimal, code string) string {
	scale := 2
	if unit, err := currency.ParseISO(code); err == nil {
		scale, _ = currency.Standard.Rounding(unit)
	}
	return amount.StringFixed(int32(scale))
}

// Package money provides the exact-arithmetic value types used across
// finbook: Currency, Money, ExchangeRate and IdempotencyKey.
//
// Money keeps full decimal precision through arithmetic; rounding is
// explicit via Rounded and only happens at display/persistence
// boundaries. All binary operations between two Money values require
// matching currencies and return ErrCurrencyMismatch otherwise.
package money

import (
	"fmt"
	"strings"
)

// Currency describes an ISO 4217 currency and its display precision.
type Currency struct {
	Code          string
	DecimalPlaces int
	Symbol        string
	Name          string
}

// supported is the process-wide currency registry. It is populated once
// here and never mutated afterwards; there is no runtime registration.
var supported = map[string]Currency{
	"USD": {Code: "USD", DecimalPlaces: 2, Symbol: "$", Name: "US Dollar"},
	"EUR": {Code: "EUR", DecimalPlaces: 2, Symbol: "€", Name: "Euro"},
	"GBP": {Code: "GBP", DecimalPlaces: 2, Symbol: "£", Name: "British Pound"},
	"CAD": {Code: "CAD", DecimalPlaces: 2, Symbol: "C$", Name: "Canadian Dollar"},
	"AUD": {Code: "AUD", DecimalPlaces: 2, Symbol: "A$", Name: "Australian Dollar"},
	"JPY": {Code: "JPY", DecimalPlaces: 0, Symbol: "¥", Name: "Japanese Yen"},
	"INR": {Code: "INR", DecimalPlaces: 2, Symbol: "₹", Name: "Indian Rupee"},
}

// GetCurrency returns the registered currency for an ISO 4217 code.
// The lookup is case-insensitive.
func GetCurrency(code string) (Currency, error) {
	code = strings.ToUpper(code)
	if len(code) != 3 || !isAlpha(code) {
		return Currency{}, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, code)
	}
	cur, ok := supported[code]
	if !ok {
		return Currency{}, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, code)
	}
	return cur, nil
}

// IsSupported reports whether a currency code is in the registry.
func IsSupported(code string) bool {
	_, err := GetCurrency(code)
	return err == nil
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func (c Currency) String() string { return c.Code }

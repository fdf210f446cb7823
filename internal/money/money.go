package money

import (
	"fmt"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money is an exact monetary amount in a single currency.
//
// The zero value is a zero amount with no currency, which acts as a
// neutral element only through the explicit Zero constructor; always
// build Money through New, Parse or Zero so the currency is validated.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// New creates a Money from a decimal amount and a currency code.
func New(amount decimal.Decimal, code string) (Money, error) {
	cur, err := GetCurrency(code)
	if err != nil {
		return Money{}, err
	}
	return Money{amount: amount, currency: cur}, nil
}

// Parse creates a Money from a decimal string such as "99.999".
func Parse(amount, code string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}
	return New(d, code)
}

// Zero creates a zero Money in the given currency.
func Zero(code string) (Money, error) {
	return New(decimal.Zero, code)
}

// Amount returns the exact decimal amount.
func (m Money) Amount() decimal.Decimal { return m.amount }

// Currency returns the currency of this value.
func (m Money) Currency() Currency { return m.currency }

// CurrencyCode returns the ISO 4217 code of this value's currency.
func (m Money) CurrencyCode() string { return m.currency.Code }

func (m Money) IsZero() bool     { return m.amount.IsZero() }
func (m Money) IsPositive() bool { return m.amount.IsPositive() }
func (m Money) IsNegative() bool { return m.amount.IsNegative() }

// Add returns m + n, failing if the currencies differ.
func (m Money) Add(n Money) (Money, error) {
	if err := m.sameCurrency(n); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Add(n.amount), currency: m.currency}, nil
}

// Sub returns m - n, failing if the currencies differ.
func (m Money) Sub(n Money) (Money, error) {
	if err := m.sameCurrency(n); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Sub(n.amount), currency: m.currency}, nil
}

// Mul returns m scaled by factor. Scalar multiplication keeps full
// precision and never rounds.
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor), currency: m.currency}
}

// Neg returns -m.
func (m Money) Neg() Money {
	return Money{amount: m.amount.Neg(), currency: m.currency}
}

// Abs returns the absolute value of m.
func (m Money) Abs() Money {
	return Money{amount: m.amount.Abs(), currency: m.currency}
}

// Cmp compares m against n: -1 if m < n, 0 if equal, +1 if m > n.
func (m Money) Cmp(n Money) (int, error) {
	if err := m.sameCurrency(n); err != nil {
		return 0, err
	}
	return m.amount.Cmp(n.amount), nil
}

// LessThan reports m < n, failing if the currencies differ.
func (m Money) LessThan(n Money) (bool, error) {
	c, err := m.Cmp(n)
	return c < 0, err
}

// GreaterThan reports m > n, failing if the currencies differ.
func (m Money) GreaterThan(n Money) (bool, error) {
	c, err := m.Cmp(n)
	return c > 0, err
}

// Equal reports whether m and n have the same currency and amount.
// Unlike the ordering comparisons it never errors: values in different
// currencies are simply not equal.
func (m Money) Equal(n Money) bool {
	return m.currency.Code == n.currency.Code && m.amount.Equal(n.amount)
}

// Rounded returns a copy rounded half-up to the currency's decimal
// places (integer rounding for zero-decimal currencies). Arithmetic
// never rounds implicitly; callers round at display and persistence
// boundaries only.
func (m Money) Rounded() Money {
	return Money{
		amount:   m.amount.Round(int32(m.currency.DecimalPlaces)),
		currency: m.currency,
	}
}

// Format renders the rounded amount for display, optionally with the
// currency symbol: Format(true) -> "$1,234.50".
func (m Money) Format(showSymbol bool) string {
	f := gomoney.Formatter{
		Fraction: m.currency.DecimalPlaces,
		Decimal:  ".",
		Thousand: ",",
		Grapheme: m.currency.Symbol,
		Template: "$1",
	}
	if cur := gomoney.GetCurrency(m.currency.Code); cur != nil {
		f = *cur.Formatter()
		f.Fraction = m.currency.DecimalPlaces
		f.Grapheme = m.currency.Symbol
	}
	if !showSymbol {
		f.Template = "1"
		f.Grapheme = ""
	}
	minor := m.Rounded().amount.Shift(int32(m.currency.DecimalPlaces)).IntPart()
	return f.Format(minor)
}

func (m Money) String() string { return m.Format(true) }

func (m Money) sameCurrency(n Money) error {
	if m.currency.Code != n.currency.Code {
		return fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.currency.Code, n.currency.Code)
	}
	return nil
}

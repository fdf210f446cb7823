package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ExchangeRate converts between two currencies: 1 From = Rate To.
//
// Rates are injected by callers; nothing in this package or the
// calculators fetches rates itself.
type ExchangeRate struct {
	From string
	To   string
	Rate decimal.Decimal
}

// NewExchangeRate creates a validated exchange rate.
func NewExchangeRate(from, to string, rate decimal.Decimal) (ExchangeRate, error) {
	if !rate.IsPositive() {
		return ExchangeRate{}, ErrInvalidRate
	}
	fromCur, err := GetCurrency(from)
	if err != nil {
		return ExchangeRate{}, err
	}
	toCur, err := GetCurrency(to)
	if err != nil {
		return ExchangeRate{}, err
	}
	return ExchangeRate{From: fromCur.Code, To: toCur.Code, Rate: rate}, nil
}

// Convert converts m into the target currency at this rate. The result
// keeps full precision; round at the boundary as usual.
func (r ExchangeRate) Convert(m Money) (Money, error) {
	if m.CurrencyCode() != r.From {
		return Money{}, fmt.Errorf("%w: money is %s, rate converts from %s",
			ErrCurrencyMismatch, m.CurrencyCode(), r.From)
	}
	return New(m.Amount().Mul(r.Rate), r.To)
}

// Inverse returns the rate in the opposite direction.
func (r ExchangeRate) Inverse() ExchangeRate {
	return ExchangeRate{From: r.To, To: r.From, Rate: decimal.NewFromInt(1).Div(r.Rate)}
}

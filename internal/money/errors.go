package money

import "errors"

var (
	// ErrUnsupportedCurrency is returned for codes missing from the registry.
	ErrUnsupportedCurrency = errors.New("unsupported currency")

	// ErrCurrencyMismatch is returned when a binary operation is attempted
	// on two Money values with different currencies.
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// ErrInvalidAmount is returned when an amount cannot be parsed or
	// violates a sign constraint.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidRate is returned for non-positive exchange rates.
	ErrInvalidRate = errors.New("exchange rate must be positive")

	// ErrInvalidIdempotencyKey is returned for malformed idempotency keys.
	ErrInvalidIdempotencyKey = errors.New("idempotency key must be 1-255 characters")
)

package models

import "errors"

// Validation errors: the caller supplied something fixable.
var (
	ErrAmountNotPositive  = errors.New("amount must be positive")
	ErrAmountNegative     = errors.New("amount must be non-negative")
	ErrEmptyName          = errors.New("name is required")
	ErrSameAccount        = errors.New("cannot transfer to the same account")
	ErrNoParticipants     = errors.New("at least one participant required")
	ErrSplitSumMismatch   = errors.New("splits must equal the expense total")
	ErrOverSettlement     = errors.New("settlement amount exceeds remaining balance")
	ErrSelfSettlement     = errors.New("settlement parties must differ")
	ErrUnknownParticipant = errors.New("participant is not part of the expense")
	ErrCurrencyMismatch   = errors.New("currency does not match the account")
)

// State errors: the operation is illegal in the entity's current state.
var (
	ErrNotPending     = errors.New("transaction is not pending")
	ErrAccountClosed  = errors.New("account is closed")
	ErrAlreadyVoided  = errors.New("transaction is already voided")
	ErrDebtNotActive  = errors.New("debt is not active")
	ErrLoanPaidOff    = errors.New("loan has already been paid off")
	ErrNoPendingShare = errors.New("no pending share invitation")
)

// ErrNotFound is surfaced by the storage layer when an entity id does
// not resolve within the tenant scope.
var ErrNotFound = errors.New("not found")

// ErrDuplicateIdempotencyKey is surfaced by the storage layer when a
// financial write reuses an idempotency key within a tenant.
var ErrDuplicateIdempotencyKey = errors.New("idempotency key already used")

// ErrConcurrentUpdate is surfaced by the storage layer when an update
// carries a stale version; the caller must re-read and retry.
var ErrConcurrentUpdate = errors.New("entity was modified concurrently")

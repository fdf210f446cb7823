package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mkhare/finbook/internal/money"
)

// DebtDirection is the direction of a peer debt from the owner's
// perspective.
type DebtDirection string

const (
	// Lent: owner lent money to the contact; the contact owes the owner.
	Lent DebtDirection = "lent"
	// Borrowed: owner borrowed from the contact; the owner owes the contact.
	Borrowed DebtDirection = "borrowed"
)

// Sign returns +1 for lent and -1 for borrowed, the contribution to the
// owner's net position. Derived, never stored.
func (d DebtDirection) Sign() int {
	switch d {
	case Lent:
		return 1
	default:
		return -1
	}
}

// Opposite returns the reverse direction.
func (d DebtDirection) Opposite() DebtDirection {
	if d == Lent {
		return Borrowed
	}
	return Lent
}

// DebtStatus is the lifecycle state of a peer debt.
// active -> settled (remaining reaches zero) or active -> cancelled
// (forgiven); both end states are terminal.
type DebtStatus string

const (
	DebtActive    DebtStatus = "active"
	DebtSettled   DebtStatus = "settled"
	DebtCancelled DebtStatus = "cancelled"
)

// PeerDebt is a bilateral lent/borrowed record between the owner and one
// contact, settled gradually. SettledAmount only ever grows and never
// exceeds Amount.
type PeerDebt struct {
	ID            string
	TenantID      string
	ContactID     string
	Direction     DebtDirection
	Amount        decimal.Decimal
	CurrencyCode  string
	SettledAmount decimal.Decimal
	Description   string
	DebtDate      time.Time
	DueDate       time.Time
	Status        DebtStatus
	Notes         string
	// Version guards read-modify-write cycles; the store rejects an
	// update whose version no longer matches the stored row.
	Version   int64
	CreatedAt int64
	UpdatedAt int64
}

// NewLentDebt records money the owner lent to a contact.
func NewLentDebt(tenantID, contactID string, amount decimal.Decimal, currencyCode string) (*PeerDebt, error) {
	return newDebt(tenantID, contactID, Lent, amount, currencyCode)
}

// NewBorrowedDebt records money the owner borrowed from a contact.
func NewBorrowedDebt(tenantID, contactID string, amount decimal.Decimal, currencyCode string) (*PeerDebt, error) {
	return newDebt(tenantID, contactID, Borrowed, amount, currencyCode)
}

func newDebt(tenantID, contactID string, direction DebtDirection, amount decimal.Decimal, currencyCode string) (*PeerDebt, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("debt: %w", ErrAmountNotPositive)
	}
	cur, err := money.GetCurrency(currencyCode)
	if err != nil {
		return nil, err
	}
	now := time.Now().Unix()
	return &PeerDebt{
		ID:            uuid.New().String(),
		TenantID:      tenantID,
		ContactID:     contactID,
		Direction:     direction,
		Amount:        amount,
		CurrencyCode:  cur.Code,
		SettledAmount: decimal.Zero,
		DebtDate:      time.Now(),
		Status:        DebtActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// RemainingAmount returns the unsettled part of the debt.
func (d *PeerDebt) RemainingAmount() decimal.Decimal {
	return d.Amount.Sub(d.SettledAmount)
}

// IsFullySettled reports whether nothing remains outstanding.
func (d *PeerDebt) IsFullySettled() bool {
	return !d.RemainingAmount().IsPositive()
}

// SignedRemaining returns the remaining amount signed by direction:
// positive when the contact owes the owner.
func (d *PeerDebt) SignedRemaining() decimal.Decimal {
	return d.RemainingAmount().Mul(decimal.NewFromInt(int64(d.Direction.Sign())))
}

// RecordSettlement applies a partial or full settlement. It fails for
// non-positive amounts and amounts above the remaining balance, and
// transitions to settled exactly when the remainder reaches zero.
func (d *PeerDebt) RecordSettlement(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("settlement: %w", ErrAmountNotPositive)
	}
	if amount.GreaterThan(d.RemainingAmount()) {
		return fmt.Errorf("%w: %s remaining, %s requested", ErrOverSettlement, d.RemainingAmount(), amount)
	}
	d.SettledAmount = d.SettledAmount.Add(amount)
	if d.IsFullySettled() {
		d.Status = DebtSettled
	}
	d.UpdatedAt = time.Now().Unix()
	return nil
}

// Cancel forgives the remaining balance. Terminal.
func (d *PeerDebt) Cancel() error {
	if d.Status != DebtActive {
		return fmt.Errorf("%w: status is %s", ErrDebtNotActive, d.Status)
	}
	d.Status = DebtCancelled
	d.UpdatedAt = time.Now().Unix()
	return nil
}

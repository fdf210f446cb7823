package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mkhare/finbook/internal/money"
)

// SplitMethod is how a group expense is divided.
type SplitMethod string

const (
	SplitEqual SplitMethod = "equal"
	SplitExact SplitMethod = "exact"
)

// ExpenseStatus is the lifecycle state of a group expense.
type ExpenseStatus string

const (
	ExpenseActive    ExpenseStatus = "active"
	ExpenseSettled   ExpenseStatus = "settled"
	ExpenseCancelled ExpenseStatus = "cancelled"
)

// SplitStatus is the settlement state of one participant's share.
type SplitStatus string

const (
	SplitPending SplitStatus = "pending"
	SplitPartial SplitStatus = "partial"
	SplitSettled SplitStatus = "settled"
)

// ExpenseSplit is one participant's share of a group expense. The owner
// is the participant with an empty ContactID.
type ExpenseSplit struct {
	ID            string
	ExpenseID     string
	ContactID     string
	ShareAmount   decimal.Decimal
	SettledAmount decimal.Decimal
	Status        SplitStatus
}

// IsOwner reports whether this split belongs to the expense owner.
func (s *ExpenseSplit) IsOwner() bool { return s.ContactID == "" }

// RemainingAmount returns the unsettled part of the share.
func (s *ExpenseSplit) RemainingAmount() decimal.Decimal {
	return s.ShareAmount.Sub(s.SettledAmount)
}

// RecordSettlement applies a partial or full settlement against the
// share, moving pending -> partial -> settled.
func (s *ExpenseSplit) RecordSettlement(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("settlement: %w", ErrAmountNotPositive)
	}
	if amount.GreaterThan(s.RemainingAmount()) {
		return fmt.Errorf("%w: %s remaining, %s requested", ErrOverSettlement, s.RemainingAmount(), amount)
	}
	s.SettledAmount = s.SettledAmount.Add(amount)
	if s.RemainingAmount().IsPositive() {
		s.Status = SplitPartial
	} else {
		s.Status = SplitSettled
	}
	return nil
}

// GroupExpense is a shared cost inside an expense group. Exactly one
// participant paid it: the contact in PaidByContactID, or the owner when
// that id is empty.
type GroupExpense struct {
	ID              string
	TenantID        string
	GroupID         string
	Description     string
	TotalAmount     decimal.Decimal
	CurrencyCode    string
	PaidByContactID string // "" = owner paid
	SplitMethod     SplitMethod
	ExpenseDate     time.Time
	Splits          []*ExpenseSplit
	Status          ExpenseStatus
	Notes           string
	// Version guards read-modify-write cycles; the store rejects an
	// update whose version no longer matches the stored row.
	Version   int64
	CreatedAt int64
	UpdatedAt int64
}

// NewGroupExpense creates an active expense without splits; assign them
// with AddEqualSplits or AddExactSplits.
func NewGroupExpense(tenantID, groupID, description string, total decimal.Decimal, currencyCode, paidByContactID string) (*GroupExpense, error) {
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("expense: %w", ErrEmptyName)
	}
	if !total.IsPositive() {
		return nil, fmt.Errorf("expense: %w", ErrAmountNotPositive)
	}
	cur, err := money.GetCurrency(currencyCode)
	if err != nil {
		return nil, err
	}
	now := time.Now().Unix()
	return &GroupExpense{
		ID:              uuid.New().String(),
		TenantID:        tenantID,
		GroupID:         groupID,
		Description:     strings.TrimSpace(description),
		TotalAmount:     total,
		CurrencyCode:    cur.Code,
		PaidByContactID: paidByContactID,
		SplitMethod:     SplitEqual,
		ExpenseDate:     time.Now(),
		Status:          ExpenseActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// AddEqualSplits divides the total equally among the contacts, plus the
// owner when includeOwner is set. Every participant gets a share, the
// payer included, so net transfers reflect true cost sharing. Shares are
// allocated at the currency's precision with the leftover minor units
// going to the earliest participants, so the shares always sum to the
// total exactly. Any existing splits are replaced.
func (e *GroupExpense) AddEqualSplits(contactIDs []string, includeOwner bool) error {
	participants := make([]string, 0, len(contactIDs)+1)
	if includeOwner {
		participants = append(participants, "")
	}
	participants = append(participants, contactIDs...)
	if len(participants) == 0 {
		return fmt.Errorf("expense: %w", ErrNoParticipants)
	}

	cur, err := money.GetCurrency(e.CurrencyCode)
	if err != nil {
		return err
	}
	shares := allocateEqually(e.TotalAmount, len(participants), cur.DecimalPlaces)

	splits := make([]*ExpenseSplit, len(participants))
	for i, contactID := range participants {
		splits[i] = &ExpenseSplit{
			ID:            uuid.New().String(),
			ExpenseID:     e.ID,
			ContactID:     contactID,
			ShareAmount:   shares[i],
			SettledAmount: decimal.Zero,
			Status:        SplitPending,
		}
	}
	e.Splits = splits
	e.SplitMethod = SplitEqual
	e.UpdatedAt = time.Now().Unix()
	return nil
}

// AddExactSplits assigns caller-supplied shares, keyed by contact id
// with "" for the owner. The shares must sum to the expense total
// exactly; no epsilon, no implicit rounding. Any existing splits are
// replaced, and nothing is changed on failure.
func (e *GroupExpense) AddExactSplits(shares map[string]decimal.Decimal) error {
	if len(shares) == 0 {
		return fmt.Errorf("expense: %w", ErrNoParticipants)
	}

	sum := decimal.Zero
	for _, amount := range shares {
		if !amount.IsPositive() {
			return fmt.Errorf("expense split: %w", ErrAmountNotPositive)
		}
		sum = sum.Add(amount)
	}
	if !sum.Equal(e.TotalAmount) {
		return fmt.Errorf("%w: splits %s, total %s", ErrSplitSumMismatch, sum, e.TotalAmount)
	}

	// Owner first, then contacts in stable order.
	ids := make([]string, 0, len(shares))
	for id := range shares {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	splits := make([]*ExpenseSplit, len(ids))
	for i, id := range ids {
		splits[i] = &ExpenseSplit{
			ID:            uuid.New().String(),
			ExpenseID:     e.ID,
			ContactID:     id,
			ShareAmount:   shares[id],
			SettledAmount: decimal.Zero,
			Status:        SplitPending,
		}
	}
	e.Splits = splits
	e.SplitMethod = SplitExact
	e.UpdatedAt = time.Now().Unix()
	return nil
}

// PayerSplit returns the payer's own split, or nil if the payer has none.
func (e *GroupExpense) PayerSplit() *ExpenseSplit {
	for _, s := range e.Splits {
		if s.ContactID == e.PaidByContactID {
			return s
		}
	}
	return nil
}

// IsFullySettled reports whether every split has been settled.
func (e *GroupExpense) IsFullySettled() bool {
	for _, s := range e.Splits {
		if s.Status != SplitSettled {
			return false
		}
	}
	return len(e.Splits) > 0
}

// Cancel excludes the expense from group balances.
func (e *GroupExpense) Cancel() {
	e.Status = ExpenseCancelled
	e.UpdatedAt = time.Now().Unix()
}

// allocateEqually splits total into n shares at the given precision.
// Each share starts at the rounded-down quotient; leftover minor units
// are handed to the earliest shares one unit at a time, and any residue
// finer than the currency precision lands on the first share so the
// shares always sum to total exactly.
func allocateEqually(total decimal.Decimal, n, decimalPlaces int) []decimal.Decimal {
	base := total.Div(decimal.NewFromInt(int64(n))).RoundDown(int32(decimalPlaces))
	shares := make([]decimal.Decimal, n)
	for i := range shares {
		shares[i] = base
	}
	remainder := total.Sub(base.Mul(decimal.NewFromInt(int64(n))))
	minor := decimal.New(1, int32(-decimalPlaces))
	for i := 0; remainder.GreaterThanOrEqual(minor); i = (i + 1) % n {
		shares[i] = shares[i].Add(minor)
		remainder = remainder.Sub(minor)
	}
	if remainder.IsPositive() {
		shares[0] = shares[0].Add(remainder)
	}
	return shares
}

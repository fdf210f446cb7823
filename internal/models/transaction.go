package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mkhare/finbook/internal/money"
)

// TransactionType indicates money flow direction in single-entry
// accounting: credits increase the balance, debits decrease it.
type TransactionType string

const (
	Credit TransactionType = "credit"
	Debit  TransactionType = "debit"
)

// Sign returns the balance sign for this type. The sign is always
// derived here, never stored alongside the amount.
func (t TransactionType) Sign() int {
	switch t {
	case Credit:
		return 1
	default:
		return -1
	}
}

// TransactionStatus is the lifecycle state of a transaction.
// pending -> posted -> voided; voided is terminal, and a posted
// transaction's content is immutable (corrections are adjustments).
type TransactionStatus string

const (
	TxPending TransactionStatus = "pending"
	TxPosted  TransactionStatus = "posted"
	TxVoided  TransactionStatus = "voided"
)

// Transaction is a single financial movement on an account. Amount is
// always non-negative; direction comes from Type.
type Transaction struct {
	ID              string
	TenantID        string
	AccountID       string
	Type            TransactionType
	Amount          decimal.Decimal
	CurrencyCode    string
	Status          TransactionStatus
	TransactionDate time.Time
	PostedAt        int64
	Description     string
	CategoryID      string
	ReferenceNumber string
	Notes           string
	IdempotencyKey  string
	AdjustmentForID string
	CreatedAt       int64
	UpdatedAt       int64
}

// NewCredit creates a pending credit (money in) transaction.
func NewCredit(tenantID, accountID string, amount decimal.Decimal, currencyCode string, date time.Time) (*Transaction, error) {
	return newTransaction(tenantID, accountID, Credit, amount, currencyCode, date)
}

// NewDebit creates a pending debit (money out) transaction.
func NewDebit(tenantID, accountID string, amount decimal.Decimal, currencyCode string, date time.Time) (*Transaction, error) {
	return newTransaction(tenantID, accountID, Debit, amount, currencyCode, date)
}

func newTransaction(tenantID, accountID string, typ TransactionType, amount decimal.Decimal, currencyCode string, date time.Time) (*Transaction, error) {
	if amount.IsNegative() {
		return nil, fmt.Errorf("transaction: %w", ErrAmountNegative)
	}
	cur, err := money.GetCurrency(currencyCode)
	if err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = time.Now()
	}
	now := time.Now().Unix()
	return &Transaction{
		ID:              uuid.New().String(),
		TenantID:        tenantID,
		AccountID:       accountID,
		Type:            typ,
		Amount:          amount,
		CurrencyCode:    cur.Code,
		Status:          TxPending,
		TransactionDate: date,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

func (t *Transaction) IsPending() bool { return t.Status == TxPending }
func (t *Transaction) IsPosted() bool  { return t.Status == TxPosted }
func (t *Transaction) IsVoided() bool  { return t.Status == TxVoided }

// IsAdjustment reports whether this transaction corrects another one.
func (t *Transaction) IsAdjustment() bool { return t.AdjustmentForID != "" }

// SignedAmount returns the amount signed by transaction type: positive
// for credits, negative for debits.
func (t *Transaction) SignedAmount() decimal.Decimal {
	return t.Amount.Mul(decimal.NewFromInt(int64(t.Type.Sign())))
}

// Money returns the transaction amount as a Money value.
func (t *Transaction) Money() (money.Money, error) {
	return money.New(t.Amount, t.CurrencyCode)
}

// Post makes a pending transaction final. Posted transactions count
// toward balances and are immutable.
func (t *Transaction) Post() error {
	if t.Status != TxPending {
		return fmt.Errorf("%w: status is %s", ErrNotPending, t.Status)
	}
	t.Status = TxPosted
	t.PostedAt = time.Now().Unix()
	t.UpdatedAt = t.PostedAt
	return nil
}

// Void excludes the transaction from balances. Voiding twice fails.
func (t *Transaction) Void() error {
	if t.Status == TxVoided {
		return ErrAlreadyVoided
	}
	t.Status = TxVoided
	t.UpdatedAt = time.Now().Unix()
	return nil
}

// NewAdjustment creates a correction transaction referencing this one.
// The original stays untouched; the adjustment carries the corrected
// amount and/or type.
func (t *Transaction) NewAdjustment(amount decimal.Decimal, typ TransactionType) (*Transaction, error) {
	adj, err := newTransaction(t.TenantID, t.AccountID, typ, amount, t.CurrencyCode, time.Now())
	if err != nil {
		return nil, err
	}
	adj.CategoryID = t.CategoryID
	adj.Description = fmt.Sprintf("Adjustment for transaction %s", t.ID)
	adj.AdjustmentForID = t.ID
	return adj, nil
}

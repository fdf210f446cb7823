package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mkhare/finbook/internal/money"
)

// SettlementMethod is how a settlement was paid.
type SettlementMethod string

const (
	SettleCash     SettlementMethod = "cash"
	SettleTransfer SettlementMethod = "bank_transfer"
	SettleOther    SettlementMethod = "other"
)

// Settlement records money changing hands between two parties. The
// owner is the party with an empty contact id, so an owner-pays
// settlement has FromContactID == "" and an owner-receives settlement
// has ToContactID == "".
type Settlement struct {
	ID             string
	TenantID       string
	FromContactID  string
	ToContactID    string
	Amount         decimal.Decimal
	CurrencyCode   string
	Method         SettlementMethod
	SettlementDate time.Time
	DebtIDs        []string
	SplitIDs       []string
	Notes          string
	CreatedAt      int64
}

// NewSettlement records a payment from one party to another. Both ids
// use the empty string for the owner; paying yourself is rejected.
func NewSettlement(tenantID, fromContactID, toContactID string, amount decimal.Decimal, currencyCode string, method SettlementMethod) (*Settlement, error) {
	if fromContactID == toContactID {
		return nil, fmt.Errorf("settlement: %w", ErrSelfSettlement)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("settlement: %w", ErrAmountNotPositive)
	}
	cur, err := money.GetCurrency(currencyCode)
	if err != nil {
		return nil, err
	}
	if method == "" {
		method = SettleCash
	}
	return &Settlement{
		ID:             uuid.New().String(),
		TenantID:       tenantID,
		FromContactID:  fromContactID,
		ToContactID:    toContactID,
		Amount:         amount,
		CurrencyCode:   cur.Code,
		Method:         method,
		SettlementDate: time.Now(),
		CreatedAt:      time.Now().Unix(),
	}, nil
}

// NewOwnerPays records the owner paying a contact.
func NewOwnerPays(tenantID, contactID string, amount decimal.Decimal, currencyCode string, method SettlementMethod) (*Settlement, error) {
	return NewSettlement(tenantID, "", contactID, amount, currencyCode, method)
}

// NewOwnerReceives records a contact paying the owner.
func NewOwnerReceives(tenantID, contactID string, amount decimal.Decimal, currencyCode string, method SettlementMethod) (*Settlement, error) {
	return NewSettlement(tenantID, contactID, "", amount, currencyCode, method)
}

// LinkDebt associates the settlement with a peer debt it discharges.
func (s *Settlement) LinkDebt(debtID string) {
	s.DebtIDs = append(s.DebtIDs, debtID)
}

// LinkSplit associates the settlement with an expense split it discharges.
func (s *Settlement) LinkSplit(splitID string) {
	s.SplitIDs = append(s.SplitIDs, splitID)
}

package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mkhare/finbook/internal/money"
)

// AccountType classifies a financial account.
type AccountType string

const (
	AccountChecking   AccountType = "checking"
	AccountSavings    AccountType = "savings"
	AccountCash       AccountType = "cash"
	AccountCreditCard AccountType = "credit_card"
	AccountInvestment AccountType = "investment"
	AccountWallet     AccountType = "wallet"
	AccountOther      AccountType = "other"
)

// AccountStatus is the lifecycle state of an account.
type AccountStatus string

const (
	AccountActive   AccountStatus = "active"
	AccountInactive AccountStatus = "inactive"
	AccountClosed   AccountStatus = "closed"
)

// Account is a financial account owned by a tenant. The balance is
// derived from transactions and never stored on the account itself.
// Closed accounts remain queryable for historical balances; rejecting
// new transactions on them is the service layer's job.
type Account struct {
	ID                 string
	TenantID           string
	Name               string
	Type               AccountType
	CurrencyCode       string
	Status             AccountStatus
	Institution        string
	Notes              string
	IncludedInNetWorth bool
	DisplayOrder       int
	CreatedAt          int64
	UpdatedAt          int64
}

// NewAccount creates an active account after validating the currency.
func NewAccount(tenantID, name string, accountType AccountType, currencyCode string) (*Account, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("account: %w", ErrEmptyName)
	}
	cur, err := money.GetCurrency(currencyCode)
	if err != nil {
		return nil, err
	}
	now := time.Now().Unix()
	return &Account{
		ID:                 uuid.New().String(),
		TenantID:           tenantID,
		Name:               strings.TrimSpace(name),
		Type:               accountType,
		CurrencyCode:       cur.Code,
		Status:             AccountActive,
		IncludedInNetWorth: true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// IsActive reports whether the account accepts new transactions.
func (a *Account) IsActive() bool { return a.Status == AccountActive }

// IsClosed reports whether the account has been closed.
func (a *Account) IsClosed() bool { return a.Status == AccountClosed }

// Close closes the account.
func (a *Account) Close() {
	a.Status = AccountClosed
	a.UpdatedAt = time.Now().Unix()
}

// Reopen reactivates a closed or inactive account.
func (a *Account) Reopen() {
	a.Status = AccountActive
	a.UpdatedAt = time.Now().Unix()
}

// Rename updates the account's display name.
func (a *Account) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("account: %w", ErrEmptyName)
	}
	a.Name = strings.TrimSpace(name)
	a.UpdatedAt = time.Now().Unix()
	return nil
}

package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mkhare/finbook/internal/money"
)

// AssetType classifies a standalone asset.
type AssetType string

const (
	AssetRealEstate  AssetType = "real_estate"
	AssetVehicle     AssetType = "vehicle"
	AssetInvestment  AssetType = "investment"
	AssetCollectible AssetType = "collectible"
	AssetReceivable  AssetType = "receivable"
	AssetOther       AssetType = "other"
)

// LiabilityType classifies a liability or loan.
type LiabilityType string

const (
	LiabilityMortgage     LiabilityType = "mortgage"
	LiabilityAutoLoan     LiabilityType = "auto_loan"
	LiabilityPersonalLoan LiabilityType = "personal_loan"
	LiabilityStudentLoan  LiabilityType = "student_loan"
	LiabilityCreditCard   LiabilityType = "credit_card"
	LiabilityLineOfCredit LiabilityType = "line_of_credit"
	LiabilityOther        LiabilityType = "other"
)

// LoanStatus is the lifecycle state of a loan.
type LoanStatus string

const (
	LoanActive    LoanStatus = "active"
	LoanPaidOff   LoanStatus = "paid_off"
	LoanDefaulted LoanStatus = "defaulted"
	LoanDeferred  LoanStatus = "deferred"
)

// Asset is something of value owned, counted on the asset side of net
// worth when flagged for inclusion.
type Asset struct {
	ID                 string
	TenantID           string
	Name               string
	Type               AssetType
	CurrentValue       decimal.Decimal
	CurrencyCode       string
	PurchasePrice      decimal.Decimal // zero when unknown
	IncludedInNetWorth bool
	CreatedAt          int64
	UpdatedAt          int64
}

// NewAsset creates an asset included in net worth by default.
func NewAsset(tenantID, name string, assetType AssetType, value decimal.Decimal, currencyCode string) (*Asset, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("asset: %w", ErrEmptyName)
	}
	cur, err := money.GetCurrency(currencyCode)
	if err != nil {
		return nil, err
	}
	now := time.Now().Unix()
	return &Asset{
		ID:                 uuid.New().String(),
		TenantID:           tenantID,
		Name:               strings.TrimSpace(name),
		Type:               assetType,
		CurrentValue:       value,
		CurrencyCode:       cur.Code,
		IncludedInNetWorth: true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// UpdateValue replaces the current value.
func (a *Asset) UpdateValue(v decimal.Decimal) {
	a.CurrentValue = v
	a.UpdatedAt = time.Now().Unix()
}

// Liability is money owed, counted on the liability side of net worth
// when flagged for inclusion.
type Liability struct {
	ID                 string
	TenantID           string
	Name               string
	Type               LiabilityType
	CurrentBalance     decimal.Decimal
	CurrencyCode       string
	IncludedInNetWorth bool
	CreatedAt          int64
	UpdatedAt          int64
}

// NewLiability creates a liability included in net worth by default.
func NewLiability(tenantID, name string, liabilityType LiabilityType, balance decimal.Decimal, currencyCode string) (*Liability, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("liability: %w", ErrEmptyName)
	}
	cur, err := money.GetCurrency(currencyCode)
	if err != nil {
		return nil, err
	}
	now := time.Now().Unix()
	return &Liability{
		ID:                 uuid.New().String(),
		TenantID:           tenantID,
		Name:               strings.TrimSpace(name),
		Type:               liabilityType,
		CurrentBalance:     balance,
		CurrencyCode:       cur.Code,
		IncludedInNetWorth: true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// RecordPayment reduces the balance by the payment, flooring at zero.
// The floor is a business rule for paydown, not error suppression.
func (l *Liability) RecordPayment(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("liability payment: %w", ErrAmountNotPositive)
	}
	l.CurrentBalance = decimal.Max(decimal.Zero, l.CurrentBalance.Sub(amount))
	l.UpdatedAt = time.Now().Unix()
	return nil
}

// Loan is a liability with a repayment schedule. An active loan counts
// toward net worth liabilities; a paid-off loan does not accept further
// payments.
type Loan struct {
	ID                 string
	TenantID           string
	Name               string
	Type               LiabilityType
	OriginalPrincipal  decimal.Decimal
	CurrentBalance     decimal.Decimal
	CurrencyCode       string
	Status             LoanStatus
	IncludedInNetWorth bool
	CreatedAt          int64
	UpdatedAt          int64
}

// NewLoan creates an active loan with the full principal outstanding.
func NewLoan(tenantID, name string, liabilityType LiabilityType, principal decimal.Decimal, currencyCode string) (*Loan, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("loan: %w", ErrEmptyName)
	}
	if !principal.IsPositive() {
		return nil, fmt.Errorf("loan principal: %w", ErrAmountNotPositive)
	}
	cur, err := money.GetCurrency(currencyCode)
	if err != nil {
		return nil, err
	}
	now := time.Now().Unix()
	return &Loan{
		ID:                 uuid.New().String(),
		TenantID:           tenantID,
		Name:               strings.TrimSpace(name),
		Type:               liabilityType,
		OriginalPrincipal:  principal,
		CurrentBalance:     principal,
		CurrencyCode:       cur.Code,
		Status:             LoanActive,
		IncludedInNetWorth: true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

func (l *Loan) IsActive() bool  { return l.Status == LoanActive }
func (l *Loan) IsPaidOff() bool { return l.Status == LoanPaidOff }

// PrincipalPaid returns how much of the principal has been repaid.
func (l *Loan) PrincipalPaid() decimal.Decimal {
	return l.OriginalPrincipal.Sub(l.CurrentBalance)
}

// RecordPayment applies a principal payment, flooring the balance at
// zero and marking the loan paid off when it reaches zero.
func (l *Loan) RecordPayment(principal decimal.Decimal) error {
	if l.Status == LoanPaidOff {
		return ErrLoanPaidOff
	}
	if !principal.IsPositive() {
		return fmt.Errorf("loan payment: %w", ErrAmountNotPositive)
	}
	l.CurrentBalance = decimal.Max(decimal.Zero, l.CurrentBalance.Sub(principal))
	if l.CurrentBalance.IsZero() {
		l.Status = LoanPaidOff
	}
	l.UpdatedAt = time.Now().Unix()
	return nil
}

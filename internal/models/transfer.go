package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mkhare/finbook/internal/money"
)

// Transfer moves money between two accounts via exactly two linked
// transactions: a debit from the source and a credit to the destination.
type Transfer struct {
	ID                string
	TenantID          string
	FromAccountID     string
	ToAccountID       string
	Amount            decimal.Decimal
	CurrencyCode      string
	FromTransactionID string
	ToTransactionID   string
	TransferDate      time.Time
	Description       string
	ExchangeRate      decimal.Decimal // zero when both accounts share a currency
	CreatedAt         int64
}

// NewTransfer creates a transfer between two distinct accounts.
func NewTransfer(tenantID, fromAccountID, toAccountID string, amount decimal.Decimal, currencyCode string, date time.Time) (*Transfer, error) {
	if fromAccountID == toAccountID {
		return nil, fmt.Errorf("transfer: %w", ErrSameAccount)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("transfer: %w", ErrAmountNotPositive)
	}
	cur, err := money.GetCurrency(currencyCode)
	if err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = time.Now()
	}
	return &Transfer{
		ID:            uuid.New().String(),
		TenantID:      tenantID,
		FromAccountID: fromAccountID,
		ToAccountID:   toAccountID,
		Amount:        amount,
		CurrencyCode:  cur.Code,
		TransferDate:  date,
		Description:   "Transfer",
		CreatedAt:     time.Now().Unix(),
	}, nil
}

// CreateTransactions materializes the debit/credit pair for this
// transfer and records their ids. When an exchange rate is set, the
// credited amount is scaled by it.
func (tr *Transfer) CreateTransactions() (debit, credit *Transaction, err error) {
	debit, err = NewDebit(tr.TenantID, tr.FromAccountID, tr.Amount, tr.CurrencyCode, tr.TransferDate)
	if err != nil {
		return nil, nil, err
	}
	creditAmount := tr.Amount
	if tr.ExchangeRate.IsPositive() {
		creditAmount = tr.Amount.Mul(tr.ExchangeRate)
	}
	credit, err = NewCredit(tr.TenantID, tr.ToAccountID, creditAmount, tr.CurrencyCode, tr.TransferDate)
	if err != nil {
		return nil, nil, err
	}
	debit.Description = tr.Description
	credit.Description = tr.Description
	tr.FromTransactionID = debit.ID
	tr.ToTransactionID = credit.ID
	return debit, credit, nil
}

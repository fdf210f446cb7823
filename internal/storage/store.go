// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mkhare/finbook/internal/models"
)

// Store defines the persistence interface for all ledger and social
// entities. Every method is tenant-scoped. Implementations must return
// models.ErrNotFound for missing entities and
// models.ErrDuplicateIdempotencyKey when an idempotency key was already
// used, checked atomically with the write it protects.
type Store interface {
	// Accounts.
	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccount(ctx context.Context, tenantID, accountID string) (*models.Account, error)
	ListAccounts(ctx context.Context, tenantID string) ([]*models.Account, error)
	UpdateAccount(ctx context.Context, account *models.Account) error

	// Transactions. CreateTransaction enforces the transaction's
	// idempotency key, when present, in the same database transaction
	// as the insert.
	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	GetTransaction(ctx context.Context, tenantID, transactionID string) (*models.Transaction, error)
	ListTransactions(ctx context.Context, tenantID, accountID string) ([]*models.Transaction, error)
	UpdateTransaction(ctx context.Context, tx *models.Transaction) error

	// CreateTransfer persists the transfer and both its legs atomically.
	CreateTransfer(ctx context.Context, transfer *models.Transfer, debit, credit *models.Transaction) error

	// Net-worth items.
	SaveAsset(ctx context.Context, asset *models.Asset) error
	ListAssets(ctx context.Context, tenantID string) ([]*models.Asset, error)
	SaveLiability(ctx context.Context, liability *models.Liability) error
	ListLiabilities(ctx context.Context, tenantID string) ([]*models.Liability, error)
	SaveLoan(ctx context.Context, loan *models.Loan) error
	ListLoans(ctx context.Context, tenantID string) ([]*models.Loan, error)

	// Contacts.
	CreateContact(ctx context.Context, contact *models.Contact) error
	GetContact(ctx context.Context, tenantID, contactID string) (*models.Contact, error)
	ListContacts(ctx context.Context, tenantID string) ([]*models.Contact, error)
	UpdateContact(ctx context.Context, contact *models.Contact) error

	// Peer debts. UpdateDebt is guarded by the debt's Version: a stale
	// snapshot fails with models.ErrConcurrentUpdate and the caller must
	// re-read before retrying.
	CreateDebt(ctx context.Context, debt *models.PeerDebt) error
	GetDebt(ctx context.Context, tenantID, debtID string) (*models.PeerDebt, error)
	ListDebts(ctx context.Context, tenantID string) ([]*models.PeerDebt, error)
	UpdateDebt(ctx context.Context, debt *models.PeerDebt) error

	// Expense groups and their expenses.
	CreateGroup(ctx context.Context, group *models.ExpenseGroup) error
	GetGroup(ctx context.Context, tenantID, groupID string) (*models.ExpenseGroup, error)
	ListGroups(ctx context.Context, tenantID string) ([]*models.ExpenseGroup, error)
	UpdateGroup(ctx context.Context, group *models.ExpenseGroup) error

	// CreateExpense and UpdateExpense persist the expense together with
	// its splits; the splits are replaced wholesale on update. Updates
	// carry the same Version guard as UpdateDebt.
	CreateExpense(ctx context.Context, expense *models.GroupExpense) error
	GetExpense(ctx context.Context, tenantID, expenseID string) (*models.GroupExpense, error)
	ListExpenses(ctx context.Context, tenantID, groupID string) ([]*models.GroupExpense, error)
	UpdateExpense(ctx context.Context, expense *models.GroupExpense) error

	// Settlements, persisted with their debt/split links.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error
	ListSettlements(ctx context.Context, tenantID string) ([]*models.Settlement, error)

	// Close releases any resources held by the store.
	Close() error
}

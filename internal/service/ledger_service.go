package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mkhare/finbook/internal/calculator"
	"github.com/mkhare/finbook/internal/events"
	"github.com/mkhare/finbook/internal/metrics"
	"github.com/mkhare/finbook/internal/models"
	"github.com/mkhare/finbook/internal/storage"
)

// LedgerService orchestrates account and transaction use cases: it
// loads entities, applies the entity state machines, persists the
// result, and emits events. All balance math is delegated to the
// calculator package.
type LedgerService struct {
	store     storage.Store
	publisher events.Publisher
}

// NewLedgerService creates a LedgerService with the given storage and
// event publisher.
func NewLedgerService(store storage.Store, publisher events.Publisher) *LedgerService {
	return &LedgerService{store: store, publisher: publisher}
}

// CreateAccount creates and persists a new account.
func (s *LedgerService) CreateAccount(ctx context.Context, tenantID, name string, accountType models.AccountType, currencyCode string) (*models.Account, error) {
	account, err := models.NewAccount(tenantID, name, accountType, currencyCode)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	slog.InfoContext(ctx, "Account created", "account_id", account.ID, "tenant_id", tenantID)
	return account, nil
}

// TransactionParams describes a transaction to record.
type TransactionParams struct {
	TenantID       string
	AccountID      string
	Type           models.TransactionType
	Amount         decimal.Decimal
	CurrencyCode   string
	Date           time.Time
	Description    string
	CategoryID     string
	IdempotencyKey string
	CorrelationID  string
	// PostImmediately posts the transaction in the same write instead
	// of leaving it pending.
	PostImmediately bool
}

// RecordTransaction validates and persists a new transaction against an
// active account. The idempotency key, when set, is claimed atomically
// with the insert; a duplicate submission fails with
// models.ErrDuplicateIdempotencyKey.
func (s *LedgerService) RecordTransaction(ctx context.Context, p TransactionParams) (*models.Transaction, error) {
	account, err := s.store.GetAccount(ctx, p.TenantID, p.AccountID)
	if err != nil {
		return nil, err
	}
	if account.IsClosed() {
		return nil, fmt.Errorf("account %s is closed: %w", account.ID, models.ErrAccountClosed)
	}
	if account.CurrencyCode != p.CurrencyCode {
		return nil, fmt.Errorf("transaction currency %s on %s account: %w", p.CurrencyCode, account.CurrencyCode, models.ErrCurrencyMismatch)
	}

	var tx *models.Transaction
	switch p.Type {
	case models.Credit:
		tx, err = models.NewCredit(p.TenantID, p.AccountID, p.Amount, p.CurrencyCode, p.Date)
	case models.Debit:
		tx, err = models.NewDebit(p.TenantID, p.AccountID, p.Amount, p.CurrencyCode, p.Date)
	default:
		return nil, fmt.Errorf("unknown transaction type %q", p.Type)
	}
	if err != nil {
		return nil, err
	}
	tx.Description = p.Description
	tx.CategoryID = p.CategoryID
	tx.IdempotencyKey = p.IdempotencyKey

	if p.PostImmediately {
		if err := tx.Post(); err != nil {
			return nil, err
		}
	}

	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		if isDuplicateKey(err) {
			metrics.IdempotencyConflicts.Inc()
		}
		return nil, err
	}
	metrics.TransactionsCreated.WithLabelValues(string(tx.Type)).Inc()

	if tx.IsPosted() {
		s.publish(ctx, events.TypeTransactionPosted, p.TenantID, p.CorrelationID, transactionPayload(tx))
	}

	slog.InfoContext(ctx, "Transaction recorded",
		"transaction_id", tx.ID,
		"account_id", tx.AccountID,
		"type", tx.Type,
		"status", tx.Status)
	return tx, nil
}

// PostTransaction makes a pending transaction final.
func (s *LedgerService) PostTransaction(ctx context.Context, tenantID, transactionID, correlationID string) (*models.Transaction, error) {
	tx, err := s.store.GetTransaction(ctx, tenantID, transactionID)
	if err != nil {
		return nil, err
	}
	if err := tx.Post(); err != nil {
		return nil, err
	}
	if err := s.store.UpdateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("post transaction: %w", err)
	}
	s.publish(ctx, events.TypeTransactionPosted, tenantID, correlationID, transactionPayload(tx))
	slog.InfoContext(ctx, "Transaction posted", "transaction_id", tx.ID)
	return tx, nil
}

// VoidTransaction excludes a transaction from balances.
func (s *LedgerService) VoidTransaction(ctx context.Context, tenantID, transactionID, correlationID string) (*models.Transaction, error) {
	tx, err := s.store.GetTransaction(ctx, tenantID, transactionID)
	if err != nil {
		return nil, err
	}
	if err := tx.Void(); err != nil {
		return nil, err
	}
	if err := s.store.UpdateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("void transaction: %w", err)
	}
	metrics.TransactionsVoided.Inc()
	s.publish(ctx, events.TypeTransactionVoided, tenantID, correlationID, transactionPayload(tx))
	slog.InfoContext(ctx, "Transaction voided", "transaction_id", tx.ID)
	return tx, nil
}

// AdjustTransaction records a correction referencing the original
// transaction. The original is left untouched; the adjustment posts
// immediately.
func (s *LedgerService) AdjustTransaction(ctx context.Context, tenantID, transactionID string, amount decimal.Decimal, typ models.TransactionType, correlationID string) (*models.Transaction, error) {
	orig, err := s.store.GetTransaction(ctx, tenantID, transactionID)
	if err != nil {
		return nil, err
	}
	adj, err := orig.NewAdjustment(amount, typ)
	if err != nil {
		return nil, err
	}
	if err := adj.Post(); err != nil {
		return nil, err
	}
	if err := s.store.CreateTransaction(ctx, adj); err != nil {
		return nil, fmt.Errorf("create adjustment: %w", err)
	}
	metrics.TransactionsCreated.WithLabelValues(string(adj.Type)).Inc()
	s.publish(ctx, events.TypeTransactionPosted, tenantID, correlationID, transactionPayload(adj))
	slog.InfoContext(ctx, "Adjustment recorded", "transaction_id", adj.ID, "adjusts", orig.ID)
	return adj, nil
}

// CreateTransfer moves money between two accounts, persisting the
// transfer and both legs atomically. Both legs post immediately.
func (s *LedgerService) CreateTransfer(ctx context.Context, tenantID, fromAccountID, toAccountID string, amount decimal.Decimal, currencyCode string, date time.Time, correlationID string) (*models.Transfer, error) {
	if _, err := s.store.GetAccount(ctx, tenantID, fromAccountID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetAccount(ctx, tenantID, toAccountID); err != nil {
		return nil, err
	}

	transfer, err := models.NewTransfer(tenantID, fromAccountID, toAccountID, amount, currencyCode, date)
	if err != nil {
		return nil, err
	}
	debit, credit, err := transfer.CreateTransactions()
	if err != nil {
		return nil, err
	}
	if err := debit.Post(); err != nil {
		return nil, err
	}
	if err := credit.Post(); err != nil {
		return nil, err
	}

	if err := s.store.CreateTransfer(ctx, transfer, debit, credit); err != nil {
		return nil, fmt.Errorf("create transfer: %w", err)
	}
	metrics.TransactionsCreated.WithLabelValues(string(models.Debit)).Inc()
	metrics.TransactionsCreated.WithLabelValues(string(models.Credit)).Inc()
	s.publish(ctx, events.TypeTransferCreated, tenantID, correlationID, map[string]string{
		"transfer_id": transfer.ID,
		"from":        fromAccountID,
		"to":          toAccountID,
		"amount":      amount.String(),
		"currency":    currencyCode,
	})

	slog.InfoContext(ctx, "Transfer created", "transfer_id", transfer.ID, "from", fromAccountID, "to", toAccountID)
	return transfer, nil
}

// AccountBalance derives an account's balance from its transaction
// history.
func (s *LedgerService) AccountBalance(ctx context.Context, tenantID, accountID string, opts calculator.BalanceOptions) (calculator.BalanceResult, error) {
	if _, err := s.store.GetAccount(ctx, tenantID, accountID); err != nil {
		return calculator.BalanceResult{}, err
	}
	txns, err := s.store.ListTransactions(ctx, tenantID, accountID)
	if err != nil {
		return calculator.BalanceResult{}, err
	}
	return calculator.CalculateBalance(txns, opts), nil
}

// AccountHistory returns the running balance after each non-voided
// transaction, chronologically.
func (s *LedgerService) AccountHistory(ctx context.Context, tenantID, accountID string, startingBalance decimal.Decimal) ([]calculator.RunningBalanceEntry, error) {
	if _, err := s.store.GetAccount(ctx, tenantID, accountID); err != nil {
		return nil, err
	}
	txns, err := s.store.ListTransactions(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	return calculator.CalculateRunningBalance(txns, startingBalance), nil
}

func (s *LedgerService) publish(ctx context.Context, eventType, tenantID, correlationID string, payload any) {
	event, err := events.New(eventType, tenantID, correlationID, payload)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to build event", "event_type", eventType, "error", err)
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		// Event delivery is at-least-once via the broker once accepted;
		// a publish failure here is logged, not fatal to the mutation.
		slog.ErrorContext(ctx, "Failed to publish event", "event_type", eventType, "error", err)
		return
	}
	metrics.EventsPublished.WithLabelValues(eventType).Inc()
}

func transactionPayload(tx *models.Transaction) map[string]string {
	return map[string]string{
		"transaction_id": tx.ID,
		"account_id":     tx.AccountID,
		"type":           string(tx.Type),
		"amount":         tx.Amount.String(),
		"currency":       tx.CurrencyCode,
		"status":         string(tx.Status),
	}
}

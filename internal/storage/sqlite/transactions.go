package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mkhare/finbook/internal/models"
)

const transactionColumns = `id, tenant_id, account_id, type, amount, currency_code, status,
	transaction_date, posted_at, description, category_id, reference_number, notes,
	idempotency_key, adjustment_for_id, created_at, updated_at`

func scanTransaction(row interface{ Scan(...any) error }) (*models.Transaction, error) {
	tx := &models.Transaction{}
	var amount string
	var txDate int64
	err := row.Scan(&tx.ID, &tx.TenantID, &tx.AccountID, &tx.Type, &amount, &tx.CurrencyCode,
		&tx.Status, &txDate, &tx.PostedAt, &tx.Description, &tx.CategoryID, &tx.ReferenceNumber,
		&tx.Notes, &tx.IdempotencyKey, &tx.AdjustmentForID, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if tx.Amount, err = parseDecimal(amount); err != nil {
		return nil, err
	}
	tx.TransactionDate = unixTime(txDate)
	return tx, nil
}

func insertTransaction(ctx context.Context, q *sql.Tx, tx *models.Transaction) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO transactions (`+transactionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.TenantID, tx.AccountID, tx.Type, tx.Amount.String(), tx.CurrencyCode,
		tx.Status, toUnix(tx.TransactionDate), tx.PostedAt, tx.Description, tx.CategoryID,
		tx.ReferenceNumber, tx.Notes, tx.IdempotencyKey, tx.AdjustmentForID,
		tx.CreatedAt, tx.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// claimIdempotencyKey inserts the key inside the surrounding database
// transaction, so the uniqueness check commits or rolls back together
// with the financial write it protects.
func claimIdempotencyKey(ctx context.Context, q *sql.Tx, key, tenantID, resourceID, resourceType string) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO idempotency_keys (key, tenant_id, resource_id, resource_type, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		key, tenantID, resourceID, resourceType, time.Now().Unix(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("idempotency key %q: %w", key, models.ErrDuplicateIdempotencyKey)
		}
		return fmt.Errorf("failed to claim idempotency key: %w", err)
	}
	return nil
}

// CreateTransaction persists a transaction, claiming its idempotency
// key (when present) atomically with the insert.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	if tx.IdempotencyKey != "" {
		if err := claimIdempotencyKey(ctx, dbTx, tx.IdempotencyKey, tx.TenantID, tx.ID, "transaction"); err != nil {
			return err
		}
	}
	if err := insertTransaction(ctx, dbTx, tx); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetTransaction retrieves a transaction by id within the tenant.
func (s *SQLiteStore) GetTransaction(ctx context.Context, tenantID, transactionID string) (*models.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ? AND tenant_id = ?`,
		transactionID, tenantID,
	)
	tx, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("transaction %s: %w", transactionID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return tx, nil
}

// ListTransactions returns an account's transactions, oldest first. An
// empty accountID lists every transaction in the tenant.
func (s *SQLiteStore) ListTransactions(ctx context.Context, tenantID, accountID string) ([]*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE tenant_id = ?`
	args := []any{tenantID}
	if accountID != "" {
		query += ` AND account_id = ?`
		args = append(args, accountID)
	}
	query += ` ORDER BY transaction_date, created_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []*models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txns, nil
}

// UpdateTransaction rewrites a transaction's status fields. Amounts on
// posted transactions never change; corrections are new adjustment
// transactions.
func (s *SQLiteStore) UpdateTransaction(ctx context.Context, tx *models.Transaction) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET status = ?, posted_at = ?, notes = ?, updated_at = ?
		 WHERE id = ? AND tenant_id = ?`,
		tx.Status, tx.PostedAt, tx.Notes, tx.UpdatedAt, tx.ID, tx.TenantID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %s: %w", tx.ID, models.ErrNotFound)
	}
	return nil
}

// CreateTransfer persists the transfer and both its legs in one
// database transaction, so a transfer never appears with a missing leg.
func (s *SQLiteStore) CreateTransfer(ctx context.Context, transfer *models.Transfer, debit, credit *models.Transaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	if err := insertTransaction(ctx, dbTx, debit); err != nil {
		return err
	}
	if err := insertTransaction(ctx, dbTx, credit); err != nil {
		return err
	}

	_, err = dbTx.ExecContext(ctx,
		`INSERT INTO transfers (id, tenant_id, from_account_id, to_account_id, amount, currency_code,
		 from_transaction_id, to_transaction_id, transfer_date, description, exchange_rate, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		transfer.ID, transfer.TenantID, transfer.FromAccountID, transfer.ToAccountID,
		transfer.Amount.String(), transfer.CurrencyCode, transfer.FromTransactionID,
		transfer.ToTransactionID, toUnix(transfer.TransferDate), transfer.Description,
		transfer.ExchangeRate.String(), transfer.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transfer: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

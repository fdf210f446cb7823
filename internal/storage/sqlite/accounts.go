package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mkhare/finbook/internal/models"
)

const accountColumns = `id, tenant_id, name, type, currency_code, status, institution, notes,
	included_in_net_worth, display_order, created_at, updated_at`

func scanAccount(row interface{ Scan(...any) error }) (*models.Account, error) {
	account := &models.Account{}
	err := row.Scan(&account.ID, &account.TenantID, &account.Name, &account.Type,
		&account.CurrencyCode, &account.Status, &account.Institution, &account.Notes,
		&account.IncludedInNetWorth, &account.DisplayOrder, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return account, nil
}

// CreateAccount persists a new account.
func (s *SQLiteStore) CreateAccount(ctx context.Context, account *models.Account) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (`+accountColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		account.ID, account.TenantID, account.Name, account.Type, account.CurrencyCode,
		account.Status, account.Institution, account.Notes,
		account.IncludedInNetWorth, account.DisplayOrder, account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

// GetAccount retrieves an account by id within the tenant.
func (s *SQLiteStore) GetAccount(ctx context.Context, tenantID, accountID string) (*models.Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ? AND tenant_id = ?`,
		accountID, tenantID,
	)
	account, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("account %s: %w", accountID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// ListAccounts returns all accounts for a tenant ordered for display.
func (s *SQLiteStore) ListAccounts(ctx context.Context, tenantID string) ([]*models.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE tenant_id = ? ORDER BY display_order, name`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	return accounts, nil
}

// UpdateAccount rewrites an existing account's mutable fields.
func (s *SQLiteStore) UpdateAccount(ctx context.Context, account *models.Account) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET name = ?, status = ?, institution = ?, notes = ?,
		 included_in_net_worth = ?, display_order = ?, updated_at = ?
		 WHERE id = ? AND tenant_id = ?`,
		account.Name, account.Status, account.Institution, account.Notes,
		account.IncludedInNetWorth, account.DisplayOrder, account.UpdatedAt,
		account.ID, account.TenantID,
	)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("account %s: %w", account.ID, models.ErrNotFound)
	}
	return nil
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mkhare/finbook/internal/models"
)

const expenseColumns = `id, tenant_id, group_id, description, total_amount, currency_code,
	paid_by_contact_id, split_method, expense_date, status, notes, version, created_at, updated_at`

func scanExpense(row interface{ Scan(...any) error }) (*models.GroupExpense, error) {
	expense := &models.GroupExpense{}
	var total string
	var date int64
	err := row.Scan(&expense.ID, &expense.TenantID, &expense.GroupID, &expense.Description,
		&total, &expense.CurrencyCode, &expense.PaidByContactID, &expense.SplitMethod,
		&date, &expense.Status, &expense.Notes, &expense.Version, &expense.CreatedAt, &expense.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if expense.TotalAmount, err = parseDecimal(total); err != nil {
		return nil, err
	}
	expense.ExpenseDate = unixTime(date)
	return expense, nil
}

// CreateExpense persists an expense with its splits atomically.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.GroupExpense) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	_, err = dbTx.ExecContext(ctx,
		`INSERT INTO group_expenses (`+expenseColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.TenantID, expense.GroupID, expense.Description,
		expense.TotalAmount.String(), expense.CurrencyCode, expense.PaidByContactID,
		expense.SplitMethod, toUnix(expense.ExpenseDate), expense.Status, expense.Notes,
		expense.Version, expense.CreatedAt, expense.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	if err := insertSplits(ctx, dbTx, expense); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertSplits(ctx context.Context, dbTx *sql.Tx, expense *models.GroupExpense) error {
	for _, split := range expense.Splits {
		if _, err := dbTx.ExecContext(ctx,
			`INSERT INTO expense_splits (id, expense_id, contact_id, share_amount, settled_amount, status)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			split.ID, expense.ID, split.ContactID, split.ShareAmount.String(),
			split.SettledAmount.String(), split.Status,
		); err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}
	return nil
}

// GetExpense retrieves an expense with its splits.
func (s *SQLiteStore) GetExpense(ctx context.Context, tenantID, expenseID string) (*models.GroupExpense, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM group_expenses WHERE id = ? AND tenant_id = ?`,
		expenseID, tenantID,
	)
	expense, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("expense %s: %w", expenseID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if err := s.loadSplits(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *SQLiteStore) loadSplits(ctx context.Context, expense *models.GroupExpense) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, expense_id, contact_id, share_amount, settled_amount, status
		 FROM expense_splits WHERE expense_id = ? ORDER BY contact_id`,
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		split := &models.ExpenseSplit{}
		var share, settled string
		if err := rows.Scan(&split.ID, &split.ExpenseID, &split.ContactID, &share, &settled, &split.Status); err != nil {
			return fmt.Errorf("failed to scan split: %w", err)
		}
		if split.ShareAmount, err = parseDecimal(share); err != nil {
			return err
		}
		if split.SettledAmount, err = parseDecimal(settled); err != nil {
			return err
		}
		expense.Splits = append(expense.Splits, split)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate splits: %w", err)
	}
	return nil
}

// ListExpenses returns a group's expenses with splits, oldest first. An
// empty groupID lists every expense in the tenant.
func (s *SQLiteStore) ListExpenses(ctx context.Context, tenantID, groupID string) ([]*models.GroupExpense, error) {
	query := `SELECT ` + expenseColumns + ` FROM group_expenses WHERE tenant_id = ?`
	args := []any{tenantID}
	if groupID != "" {
		query += ` AND group_id = ?`
		args = append(args, groupID)
	}
	query += ` ORDER BY expense_date, created_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.GroupExpense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, expense := range expenses {
		if err := s.loadSplits(ctx, expense); err != nil {
			return nil, err
		}
	}
	return expenses, nil
}

// UpdateExpense rewrites an expense and replaces its splits wholesale,
// matching the in-memory contract where re-splitting swaps the whole
// set. The expense row's version guards the whole write: splits are
// only replaced when the caller's snapshot is still current, otherwise
// ErrConcurrentUpdate.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.GroupExpense) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	res, err := dbTx.ExecContext(ctx,
		`UPDATE group_expenses SET description = ?, total_amount = ?, paid_by_contact_id = ?,
		 split_method = ?, expense_date = ?, status = ?, notes = ?, version = version + 1, updated_at = ?
		 WHERE id = ? AND tenant_id = ? AND version = ?`,
		expense.Description, expense.TotalAmount.String(), expense.PaidByContactID,
		expense.SplitMethod, toUnix(expense.ExpenseDate), expense.Status, expense.Notes,
		expense.UpdatedAt, expense.ID, expense.TenantID, expense.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		var exists int
		err := dbTx.QueryRowContext(ctx,
			`SELECT 1 FROM group_expenses WHERE id = ? AND tenant_id = ?`,
			expense.ID, expense.TenantID,
		).Scan(&exists)
		if err == sql.ErrNoRows {
			return fmt.Errorf("expense %s: %w", expense.ID, models.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to check expense existence: %w", err)
		}
		return fmt.Errorf("expense %s: %w", expense.ID, models.ErrConcurrentUpdate)
	}

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM expense_splits WHERE expense_id = ?`, expense.ID); err != nil {
		return fmt.Errorf("failed to clear splits: %w", err)
	}
	if err := insertSplits(ctx, dbTx, expense); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	expense.Version++
	return nil
}

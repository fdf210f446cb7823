package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mkhare/finbook/internal/models"
)

const debtColumns = `id, tenant_id, contact_id, direction, amount, currency_code, settled_amount,
	description, debt_date, due_date, status, notes, version, created_at, updated_at`

func scanDebt(row interface{ Scan(...any) error }) (*models.PeerDebt, error) {
	debt := &models.PeerDebt{}
	var amount, settled string
	var debtDate, dueDate int64
	err := row.Scan(&debt.ID, &debt.TenantID, &debt.ContactID, &debt.Direction, &amount,
		&debt.CurrencyCode, &settled, &debt.Description, &debtDate, &dueDate, &debt.Status,
		&debt.Notes, &debt.Version, &debt.CreatedAt, &debt.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if debt.Amount, err = parseDecimal(amount); err != nil {
		return nil, err
	}
	if debt.SettledAmount, err = parseDecimal(settled); err != nil {
		return nil, err
	}
	debt.DebtDate = unixTime(debtDate)
	debt.DueDate = unixTime(dueDate)
	return debt, nil
}

// CreateDebt persists a new peer debt.
func (s *SQLiteStore) CreateDebt(ctx context.Context, debt *models.PeerDebt) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO peer_debts (`+debtColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		debt.ID, debt.TenantID, debt.ContactID, debt.Direction, debt.Amount.String(),
		debt.CurrencyCode, debt.SettledAmount.String(), debt.Description,
		toUnix(debt.DebtDate), toUnix(debt.DueDate), debt.Status, debt.Notes,
		debt.Version, debt.CreatedAt, debt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert debt: %w", err)
	}
	return nil
}

// GetDebt retrieves a peer debt by id within the tenant.
func (s *SQLiteStore) GetDebt(ctx context.Context, tenantID, debtID string) (*models.PeerDebt, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+debtColumns+` FROM peer_debts WHERE id = ? AND tenant_id = ?`,
		debtID, tenantID,
	)
	debt, err := scanDebt(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("debt %s: %w", debtID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get debt: %w", err)
	}
	return debt, nil
}

// ListDebts returns all peer debts for a tenant, oldest first.
func (s *SQLiteStore) ListDebts(ctx context.Context, tenantID string) ([]*models.PeerDebt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+debtColumns+` FROM peer_debts WHERE tenant_id = ? ORDER BY debt_date, created_at`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}
	defer rows.Close()

	var debts []*models.PeerDebt
	for rows.Next() {
		debt, err := scanDebt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan debt: %w", err)
		}
		debts = append(debts, debt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate debts: %w", err)
	}
	return debts, nil
}

// UpdateDebt rewrites a debt's settlement progress and status. The
// write only lands if the row still carries the version the caller
// read, so two callers settling from the same snapshot cannot both
// pass the over-settlement check; the loser gets ErrConcurrentUpdate
// and must re-read.
func (s *SQLiteStore) UpdateDebt(ctx context.Context, debt *models.PeerDebt) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE peer_debts SET settled_amount = ?, status = ?, notes = ?, due_date = ?,
		 version = version + 1, updated_at = ?
		 WHERE id = ? AND tenant_id = ? AND version = ?`,
		debt.SettledAmount.String(), debt.Status, debt.Notes, toUnix(debt.DueDate),
		debt.UpdatedAt, debt.ID, debt.TenantID, debt.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update debt: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		var exists int
		err := s.db.QueryRowContext(ctx,
			`SELECT 1 FROM peer_debts WHERE id = ? AND tenant_id = ?`,
			debt.ID, debt.TenantID,
		).Scan(&exists)
		if err == sql.ErrNoRows {
			return fmt.Errorf("debt %s: %w", debt.ID, models.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to check debt existence: %w", err)
		}
		return fmt.Errorf("debt %s: %w", debt.ID, models.ErrConcurrentUpdate)
	}
	debt.Version++
	return nil
}

// CreateSettlement persists a settlement and its debt/split links
// atomically.
func (s *SQLiteStore) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	_, err = dbTx.ExecContext(ctx,
		`INSERT INTO settlements (id, tenant_id, from_contact_id, to_contact_id, amount, currency_code,
		 method, settlement_date, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, settlement.TenantID, settlement.FromContactID, settlement.ToContactID,
		settlement.Amount.String(), settlement.CurrencyCode, settlement.Method,
		toUnix(settlement.SettlementDate), settlement.Notes, settlement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}

	for _, debtID := range settlement.DebtIDs {
		if _, err := dbTx.ExecContext(ctx,
			`INSERT INTO settlement_links (settlement_id, target_type, target_id) VALUES (?, 'debt', ?)`,
			settlement.ID, debtID,
		); err != nil {
			return fmt.Errorf("failed to insert settlement debt link: %w", err)
		}
	}
	for _, splitID := range settlement.SplitIDs {
		if _, err := dbTx.ExecContext(ctx,
			`INSERT INTO settlement_links (settlement_id, target_type, target_id) VALUES (?, 'split', ?)`,
			settlement.ID, splitID,
		); err != nil {
			return fmt.Errorf("failed to insert settlement split link: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListSettlements returns all settlements for a tenant with their
// links, oldest first.
func (s *SQLiteStore) ListSettlements(ctx context.Context, tenantID string) ([]*models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tenant_id, from_contact_id, to_contact_id, amount, currency_code, method,
		 settlement_date, notes, created_at
		 FROM settlements WHERE tenant_id = ? ORDER BY settlement_date, created_at`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		settlement := &models.Settlement{}
		var amount string
		var date int64
		if err := rows.Scan(&settlement.ID, &settlement.TenantID, &settlement.FromContactID,
			&settlement.ToContactID, &amount, &settlement.CurrencyCode, &settlement.Method,
			&date, &settlement.Notes, &settlement.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		if settlement.Amount, err = parseDecimal(amount); err != nil {
			return nil, err
		}
		settlement.SettlementDate = unixTime(date)
		settlements = append(settlements, settlement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}

	for _, settlement := range settlements {
		if err := s.loadSettlementLinks(ctx, settlement); err != nil {
			return nil, err
		}
	}
	return settlements, nil
}

func (s *SQLiteStore) loadSettlementLinks(ctx context.Context, settlement *models.Settlement) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT target_type, target_id FROM settlement_links WHERE settlement_id = ? ORDER BY target_id`,
		settlement.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get settlement links: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var targetType, targetID string
		if err := rows.Scan(&targetType, &targetID); err != nil {
			return fmt.Errorf("failed to scan settlement link: %w", err)
		}
		switch targetType {
		case "debt":
			settlement.DebtIDs = append(settlement.DebtIDs, targetID)
		case "split":
			settlement.SplitIDs = append(settlement.SplitIDs, targetID)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate settlement links: %w", err)
	}
	return nil
}

package sqlite

import (
	"context"
	"fmt"

	"github.com/mkhare/finbook/internal/models"
)

// SaveAsset inserts or replaces a standalone asset.
func (s *SQLiteStore) SaveAsset(ctx context.Context, asset *models.Asset) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO assets (id, tenant_id, name, type, current_value, currency_code,
		 purchase_price, included_in_net_worth, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		asset.ID, asset.TenantID, asset.Name, asset.Type, asset.CurrentValue.String(),
		asset.CurrencyCode, asset.PurchasePrice.String(), asset.IncludedInNetWorth,
		asset.CreatedAt, asset.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save asset: %w", err)
	}
	return nil
}

// ListAssets returns all standalone assets for a tenant.
func (s *SQLiteStore) ListAssets(ctx context.Context, tenantID string) ([]*models.Asset, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tenant_id, name, type, current_value, currency_code, purchase_price,
		 included_in_net_worth, created_at, updated_at
		 FROM assets WHERE tenant_id = ? ORDER BY name`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	var assets []*models.Asset
	for rows.Next() {
		asset := &models.Asset{}
		var value, purchase string
		if err := rows.Scan(&asset.ID, &asset.TenantID, &asset.Name, &asset.Type, &value,
			&asset.CurrencyCode, &purchase, &asset.IncludedInNetWorth, &asset.CreatedAt, &asset.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		if asset.CurrentValue, err = parseDecimal(value); err != nil {
			return nil, err
		}
		if asset.PurchasePrice, err = parseDecimal(purchase); err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assets: %w", err)
	}
	return assets, nil
}

// SaveLiability inserts or replaces a standalone liability.
func (s *SQLiteStore) SaveLiability(ctx context.Context, liability *models.Liability) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO liabilities (id, tenant_id, name, type, current_balance, currency_code,
		 included_in_net_worth, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		liability.ID, liability.TenantID, liability.Name, liability.Type, liability.CurrentBalance.String(),
		liability.CurrencyCode, liability.IncludedInNetWorth, liability.CreatedAt, liability.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save liability: %w", err)
	}
	return nil
}

// ListLiabilities returns all standalone liabilities for a tenant.
func (s *SQLiteStore) ListLiabilities(ctx context.Context, tenantID string) ([]*models.Liability, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tenant_id, name, type, current_balance, currency_code, included_in_net_worth, created_at, updated_at
		 FROM liabilities WHERE tenant_id = ? ORDER BY name`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list liabilities: %w", err)
	}
	defer rows.Close()

	var liabilities []*models.Liability
	for rows.Next() {
		liability := &models.Liability{}
		var balance string
		if err := rows.Scan(&liability.ID, &liability.TenantID, &liability.Name, &liability.Type, &balance,
			&liability.CurrencyCode, &liability.IncludedInNetWorth, &liability.CreatedAt, &liability.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan liability: %w", err)
		}
		if liability.CurrentBalance, err = parseDecimal(balance); err != nil {
			return nil, err
		}
		liabilities = append(liabilities, liability)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate liabilities: %w", err)
	}
	return liabilities, nil
}

// SaveLoan inserts or replaces a loan.
func (s *SQLiteStore) SaveLoan(ctx context.Context, loan *models.Loan) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO loans (id, tenant_id, name, type, original_principal, current_balance,
		 currency_code, status, included_in_net_worth, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		loan.ID, loan.TenantID, loan.Name, loan.Type, loan.OriginalPrincipal.String(),
		loan.CurrentBalance.String(), loan.CurrencyCode, loan.Status, loan.IncludedInNetWorth,
		loan.CreatedAt, loan.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save loan: %w", err)
	}
	return nil
}

// ListLoans returns all loans for a tenant.
func (s *SQLiteStore) ListLoans(ctx context.Context, tenantID string) ([]*models.Loan, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tenant_id, name, type, original_principal, current_balance, currency_code, status,
		 included_in_net_worth, created_at, updated_at
		 FROM loans WHERE tenant_id = ? ORDER BY name`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	defer rows.Close()

	var loans []*models.Loan
	for rows.Next() {
		loan := &models.Loan{}
		var principal, balance string
		if err := rows.Scan(&loan.ID, &loan.TenantID, &loan.Name, &loan.Type, &principal, &balance,
			&loan.CurrencyCode, &loan.Status, &loan.IncludedInNetWorth, &loan.CreatedAt, &loan.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		if loan.OriginalPrincipal, err = parseDecimal(principal); err != nil {
			return nil, err
		}
		if loan.CurrentBalance, err = parseDecimal(balance); err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate loans: %w", err)
	}
	return loans, nil
}

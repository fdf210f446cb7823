package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mkhare/finbook/internal/models"
)

// CreateGroup persists a group and its membership atomically.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.ExpenseGroup) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	_, err = dbTx.ExecContext(ctx,
		`INSERT INTO expense_groups (id, tenant_id, name, description, default_currency, include_owner, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		group.ID, group.TenantID, group.Name, group.Description, group.DefaultCurrency,
		group.IncludeOwner, group.CreatedAt, group.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}
	if err := insertGroupMembers(ctx, dbTx, group); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertGroupMembers(ctx context.Context, dbTx *sql.Tx, group *models.ExpenseGroup) error {
	for i, contactID := range group.MemberContactIDs {
		if _, err := dbTx.ExecContext(ctx,
			`INSERT INTO group_members (group_id, contact_id, position) VALUES (?, ?, ?)`,
			group.ID, contactID, i,
		); err != nil {
			return fmt.Errorf("failed to insert group member: %w", err)
		}
	}
	return nil
}

// GetGroup retrieves a group with its membership.
func (s *SQLiteStore) GetGroup(ctx context.Context, tenantID, groupID string) (*models.ExpenseGroup, error) {
	group := &models.ExpenseGroup{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, tenant_id, name, description, default_currency, include_owner, created_at, updated_at
		 FROM expense_groups WHERE id = ? AND tenant_id = ?`,
		groupID, tenantID,
	).Scan(&group.ID, &group.TenantID, &group.Name, &group.Description, &group.DefaultCurrency,
		&group.IncludeOwner, &group.CreatedAt, &group.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("group %s: %w", groupID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	if err := s.loadGroupMembers(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *SQLiteStore) loadGroupMembers(ctx context.Context, group *models.ExpenseGroup) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT contact_id FROM group_members WHERE group_id = ? ORDER BY position`,
		group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var contactID string
		if err := rows.Scan(&contactID); err != nil {
			return fmt.Errorf("failed to scan group member: %w", err)
		}
		group.MemberContactIDs = append(group.MemberContactIDs, contactID)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate group members: %w", err)
	}
	return nil
}

// ListGroups returns all groups for a tenant with their membership.
func (s *SQLiteStore) ListGroups(ctx context.Context, tenantID string) ([]*models.ExpenseGroup, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tenant_id, name, description, default_currency, include_owner, created_at, updated_at
		 FROM expense_groups WHERE tenant_id = ? ORDER BY name`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.ExpenseGroup
	for rows.Next() {
		group := &models.ExpenseGroup{}
		if err := rows.Scan(&group.ID, &group.TenantID, &group.Name, &group.Description,
			&group.DefaultCurrency, &group.IncludeOwner, &group.CreatedAt, &group.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	for _, group := range groups {
		if err := s.loadGroupMembers(ctx, group); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

// UpdateGroup rewrites a group and replaces its membership.
func (s *SQLiteStore) UpdateGroup(ctx context.Context, group *models.ExpenseGroup) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	res, err := dbTx.ExecContext(ctx,
		`UPDATE expense_groups SET name = ?, description = ?, default_currency = ?, include_owner = ?, updated_at = ?
		 WHERE id = ? AND tenant_id = ?`,
		group.Name, group.Description, group.DefaultCurrency, group.IncludeOwner, group.UpdatedAt,
		group.ID, group.TenantID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("group %s: %w", group.ID, models.ErrNotFound)
	}

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM group_members WHERE group_id = ?`, group.ID); err != nil {
		return fmt.Errorf("failed to clear group members: %w", err)
	}
	if err := insertGroupMembers(ctx, dbTx, group); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

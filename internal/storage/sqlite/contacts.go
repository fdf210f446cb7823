package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mkhare/finbook/internal/models"
)

const contactColumns = `id, tenant_id, name, email, phone, notes, status, linked_user_id, share_status, created_at, updated_at`

func scanContact(row interface{ Scan(...any) error }) (*models.Contact, error) {
	contact := &models.Contact{}
	err := row.Scan(&contact.ID, &contact.TenantID, &contact.Name, &contact.Email, &contact.Phone,
		&contact.Notes, &contact.Status, &contact.LinkedUserID, &contact.ShareStatus,
		&contact.CreatedAt, &contact.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return contact, nil
}

// CreateContact persists a new contact.
func (s *SQLiteStore) CreateContact(ctx context.Context, contact *models.Contact) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contacts (`+contactColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		contact.ID, contact.TenantID, contact.Name, contact.Email, contact.Phone, contact.Notes,
		contact.Status, contact.LinkedUserID, contact.ShareStatus, contact.CreatedAt, contact.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert contact: %w", err)
	}
	return nil
}

// GetContact retrieves a contact by id within the tenant.
func (s *SQLiteStore) GetContact(ctx context.Context, tenantID, contactID string) (*models.Contact, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = ? AND tenant_id = ?`,
		contactID, tenantID,
	)
	contact, err := scanContact(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("contact %s: %w", contactID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	return contact, nil
}

// ListContacts returns all contacts for a tenant.
func (s *SQLiteStore) ListContacts(ctx context.Context, tenantID string) ([]*models.Contact, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE tenant_id = ? ORDER BY name`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*models.Contact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contacts: %w", err)
	}
	return contacts, nil
}

// UpdateContact rewrites an existing contact's mutable fields.
func (s *SQLiteStore) UpdateContact(ctx context.Context, contact *models.Contact) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE contacts SET name = ?, email = ?, phone = ?, notes = ?, status = ?,
		 linked_user_id = ?, share_status = ?, updated_at = ?
		 WHERE id = ? AND tenant_id = ?`,
		contact.Name, contact.Email, contact.Phone, contact.Notes, contact.Status,
		contact.LinkedUserID, contact.ShareStatus, contact.UpdatedAt,
		contact.ID, contact.TenantID,
	)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("contact %s: %w", contact.ID, models.ErrNotFound)
	}
	return nil
}

package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ContactStatus is the lifecycle state of a contact.
type ContactStatus string

const (
	ContactActive   ContactStatus = "active"
	ContactArchived ContactStatus = "archived"
)

// ShareStatus tracks whether a linked registered user may see records
// involving this contact.
type ShareStatus string

const (
	ShareNotShared ShareStatus = "not_shared"
	SharePending   ShareStatus = "pending"
	ShareAccepted  ShareStatus = "accepted"
	ShareDeclined  ShareStatus = "declined"
)

// Contact is a person the owner tracks debts and shared expenses with.
// A contact may optionally be linked to a registered user account.
type Contact struct {
	ID           string
	TenantID     string
	Name         string
	Email        string
	Phone        string
	Notes        string
	Status       ContactStatus
	LinkedUserID string
	ShareStatus  ShareStatus
	CreatedAt    int64
	UpdatedAt    int64
}

// NewContact creates an active, unlinked contact.
func NewContact(tenantID, name string) (*Contact, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("contact: %w", ErrEmptyName)
	}
	now := time.Now().Unix()
	return &Contact{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		Name:        strings.TrimSpace(name),
		Status:      ContactActive,
		ShareStatus: ShareNotShared,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Archive hides the contact from active use.
func (c *Contact) Archive() {
	c.Status = ContactArchived
	c.UpdatedAt = time.Now().Unix()
}

// Restore reactivates an archived contact.
func (c *Contact) Restore() {
	c.Status = ContactActive
	c.UpdatedAt = time.Now().Unix()
}

// LinkToUser associates the contact with a registered user and opens a
// pending share invitation.
func (c *Contact) LinkToUser(userID string) {
	c.LinkedUserID = userID
	c.ShareStatus = SharePending
	c.UpdatedAt = time.Now().Unix()
}

// AcceptShare marks a pending invitation accepted.
func (c *Contact) AcceptShare() error {
	if c.ShareStatus != SharePending {
		return ErrNoPendingShare
	}
	c.ShareStatus = ShareAccepted
	c.UpdatedAt = time.Now().Unix()
	return nil
}

// DeclineShare marks a pending invitation declined.
func (c *Contact) DeclineShare() error {
	if c.ShareStatus != SharePending {
		return ErrNoPendingShare
	}
	c.ShareStatus = ShareDeclined
	c.UpdatedAt = time.Now().Unix()
	return nil
}

// IsLinked reports whether the contact maps to a registered user.
func (c *Contact) IsLinked() bool { return c.LinkedUserID != "" }

// IsShared reports whether records are actively shared with the linked user.
func (c *Contact) IsShared() bool { return c.ShareStatus == ShareAccepted }

package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mkhare/finbook/internal/money"
)

// ExpenseGroup is a container for shared expenses among the owner and a
// set of contacts. The owner participates as the empty contact id, the
// same convention splits and settlements use; IncludeOwner controls
// whether equal splits count the owner by default.
type ExpenseGroup struct {
	ID               string
	TenantID         string
	Name             string
	Description      string
	DefaultCurrency  string
	MemberContactIDs []string
	IncludeOwner     bool
	CreatedAt        int64
	UpdatedAt        int64
}

// NewExpenseGroup creates a group with the given members.
func NewExpenseGroup(tenantID, name, defaultCurrency string, memberContactIDs []string, includeOwner bool) (*ExpenseGroup, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("expense group: %w", ErrEmptyName)
	}
	cur, err := money.GetCurrency(defaultCurrency)
	if err != nil {
		return nil, err
	}
	now := time.Now().Unix()
	return &ExpenseGroup{
		ID:               uuid.New().String(),
		TenantID:         tenantID,
		Name:             strings.TrimSpace(name),
		DefaultCurrency:  cur.Code,
		MemberContactIDs: append([]string(nil), memberContactIDs...),
		IncludeOwner:     includeOwner,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// AddMember adds a contact to the group if not already present.
func (g *ExpenseGroup) AddMember(contactID string) {
	for _, id := range g.MemberContactIDs {
		if id == contactID {
			return
		}
	}
	g.MemberContactIDs = append(g.MemberContactIDs, contactID)
	g.UpdatedAt = time.Now().Unix()
}

// RemoveMember removes a contact from the group.
func (g *ExpenseGroup) RemoveMember(contactID string) {
	for i, id := range g.MemberContactIDs {
		if id == contactID {
			g.MemberContactIDs = append(g.MemberContactIDs[:i], g.MemberContactIDs[i+1:]...)
			g.UpdatedAt = time.Now().Unix()
			return
		}
	}
}

// HasMember reports whether the contact participates in the group. The
// empty id stands for the owner.
func (g *ExpenseGroup) HasMember(contactID string) bool {
	if contactID == "" {
		return g.IncludeOwner
	}
	for _, id := range g.MemberContactIDs {
		if id == contactID {
			return true
		}
	}
	return false
}

// Participants returns the participant ids for this group, with the
// owner represented by the empty id when included.
func (g *ExpenseGroup) Participants() []string {
	ids := make([]string, 0, len(g.MemberContactIDs)+1)
	if g.IncludeOwner {
		ids = append(ids, "")
	}
	ids = append(ids, g.MemberContactIDs...)
	return ids
}

// TotalMembers counts participants, owner included when applicable.
func (g *ExpenseGroup) TotalMembers() int {
	return len(g.Participants())
}

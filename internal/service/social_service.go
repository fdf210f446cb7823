package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/mkhare/finbook/internal/calculator"
	"github.com/mkhare/finbook/internal/events"
	"github.com/mkhare/finbook/internal/metrics"
	"github.com/mkhare/finbook/internal/models"
	"github.com/mkhare/finbook/internal/storage"
)

// SocialService orchestrates the contact-facing use cases: contacts,
// peer debts, shared expense groups, and settlements that discharge
// debts and expense splits.
type SocialService struct {
	store     storage.Store
	publisher events.Publisher
}

// NewSocialService creates a SocialService with the given storage and
// event publisher.
func NewSocialService(store storage.Store, publisher events.Publisher) *SocialService {
	return &SocialService{store: store, publisher: publisher}
}

// CreateContact creates and persists a new contact.
func (s *SocialService) CreateContact(ctx context.Context, tenantID, name, email, phone string) (*models.Contact, error) {
	contact, err := models.NewContact(tenantID, name)
	if err != nil {
		return nil, err
	}
	contact.Email = email
	contact.Phone = phone
	if err := s.store.CreateContact(ctx, contact); err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	slog.InfoContext(ctx, "Contact created", "contact_id", contact.ID, "tenant_id", tenantID)
	return contact, nil
}

// ShareContact invites a registered user to see the ledger entries they
// appear in. The invitation stays pending until accepted.
func (s *SocialService) ShareContact(ctx context.Context, tenantID, contactID, userID string) (*models.Contact, error) {
	contact, err := s.store.GetContact(ctx, tenantID, contactID)
	if err != nil {
		return nil, err
	}
	contact.LinkToUser(userID)
	if err := s.store.UpdateContact(ctx, contact); err != nil {
		return nil, fmt.Errorf("share contact: %w", err)
	}
	slog.InfoContext(ctx, "Contact share invited", "contact_id", contactID, "user_id", userID)
	return contact, nil
}

// RespondToShare accepts or declines a pending share invitation.
func (s *SocialService) RespondToShare(ctx context.Context, tenantID, contactID string, accept bool) (*models.Contact, error) {
	contact, err := s.store.GetContact(ctx, tenantID, contactID)
	if err != nil {
		return nil, err
	}
	if accept {
		err = contact.AcceptShare()
	} else {
		err = contact.DeclineShare()
	}
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateContact(ctx, contact); err != nil {
		return nil, fmt.Errorf("respond to share: %w", err)
	}
	return contact, nil
}

// RecordDebt records money lent to or borrowed from a contact.
func (s *SocialService) RecordDebt(ctx context.Context, tenantID, contactID string, direction models.DebtDirection, amount decimal.Decimal, currencyCode, description, correlationID string) (*models.PeerDebt, error) {
	if _, err := s.store.GetContact(ctx, tenantID, contactID); err != nil {
		return nil, err
	}

	var debt *models.PeerDebt
	var err error
	switch direction {
	case models.Lent:
		debt, err = models.NewLentDebt(tenantID, contactID, amount, currencyCode)
	case models.Borrowed:
		debt, err = models.NewBorrowedDebt(tenantID, contactID, amount, currencyCode)
	default:
		return nil, fmt.Errorf("unknown debt direction %q", direction)
	}
	if err != nil {
		return nil, err
	}
	debt.Description = description

	if err := s.store.CreateDebt(ctx, debt); err != nil {
		return nil, fmt.Errorf("create debt: %w", err)
	}
	s.publish(ctx, events.TypeDebtCreated, tenantID, correlationID, debtPayload(debt))
	slog.InfoContext(ctx, "Debt recorded", "debt_id", debt.ID, "contact_id", contactID, "direction", direction)
	return debt, nil
}

// SettleDebt records a payment against a single debt. The settlement
// direction follows the debt: settling a lent debt means the contact
// paid the owner. Over-settlement leaves the debt unchanged and fails.
func (s *SocialService) SettleDebt(ctx context.Context, tenantID, debtID string, amount decimal.Decimal, method models.SettlementMethod, correlationID string) (*models.Settlement, error) {
	debt, err := s.store.GetDebt(ctx, tenantID, debtID)
	if err != nil {
		return nil, err
	}
	if err := debt.RecordSettlement(amount); err != nil {
		return nil, err
	}

	var settlement *models.Settlement
	if debt.Direction == models.Lent {
		settlement, err = models.NewOwnerReceives(tenantID, debt.ContactID, amount, debt.CurrencyCode, method)
	} else {
		settlement, err = models.NewOwnerPays(tenantID, debt.ContactID, amount, debt.CurrencyCode, method)
	}
	if err != nil {
		return nil, err
	}
	settlement.LinkDebt(debt.ID)

	if err := s.store.UpdateDebt(ctx, debt); err != nil {
		return nil, fmt.Errorf("update debt: %w", err)
	}
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		return nil, fmt.Errorf("create settlement: %w", err)
	}
	metrics.SettlementsRecorded.WithLabelValues("debt").Inc()
	s.publish(ctx, events.TypeDebtSettled, tenantID, correlationID, map[string]string{
		"debt_id":       debt.ID,
		"settlement_id": settlement.ID,
		"amount":        amount.String(),
		"status":        string(debt.Status),
	})
	slog.InfoContext(ctx, "Debt settled", "debt_id", debt.ID, "amount", amount, "status", debt.Status)
	return settlement, nil
}

// CancelDebt cancels an active debt without settling it.
func (s *SocialService) CancelDebt(ctx context.Context, tenantID, debtID, correlationID string) (*models.PeerDebt, error) {
	debt, err := s.store.GetDebt(ctx, tenantID, debtID)
	if err != nil {
		return nil, err
	}
	if err := debt.Cancel(); err != nil {
		return nil, err
	}
	if err := s.store.UpdateDebt(ctx, debt); err != nil {
		return nil, fmt.Errorf("cancel debt: %w", err)
	}
	s.publish(ctx, events.TypeDebtCancelled, tenantID, correlationID, debtPayload(debt))
	slog.InfoContext(ctx, "Debt cancelled", "debt_id", debt.ID)
	return debt, nil
}

// CreateGroup creates an expense group. Every member contact must
// exist; the owner participates when includeOwner is set.
func (s *SocialService) CreateGroup(ctx context.Context, tenantID, name, defaultCurrency string, memberContactIDs []string, includeOwner bool) (*models.ExpenseGroup, error) {
	for _, id := range memberContactIDs {
		if _, err := s.store.GetContact(ctx, tenantID, id); err != nil {
			return nil, fmt.Errorf("member %s: %w", id, err)
		}
	}
	group, err := models.NewExpenseGroup(tenantID, name, defaultCurrency, memberContactIDs, includeOwner)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}
	slog.InfoContext(ctx, "Group created", "group_id", group.ID, "members", group.TotalMembers())
	return group, nil
}

// AddGroupMember adds a contact to a group. Adding an existing member
// is a no-op.
func (s *SocialService) AddGroupMember(ctx context.Context, tenantID, groupID, contactID string) (*models.ExpenseGroup, error) {
	group, err := s.store.GetGroup(ctx, tenantID, groupID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetContact(ctx, tenantID, contactID); err != nil {
		return nil, err
	}
	group.AddMember(contactID)
	if err := s.store.UpdateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("add group member: %w", err)
	}
	return group, nil
}

// RemoveGroupMember removes a contact from a group. Past expenses keep
// their splits.
func (s *SocialService) RemoveGroupMember(ctx context.Context, tenantID, groupID, contactID string) (*models.ExpenseGroup, error) {
	group, err := s.store.GetGroup(ctx, tenantID, groupID)
	if err != nil {
		return nil, err
	}
	group.RemoveMember(contactID)
	if err := s.store.UpdateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("remove group member: %w", err)
	}
	return group, nil
}

// ExpenseParams describes a shared expense to record in a group.
type ExpenseParams struct {
	TenantID        string
	GroupID         string
	Description     string
	Total           decimal.Decimal
	CurrencyCode    string
	PaidByContactID string // empty means the owner paid
	Method          models.SplitMethod
	// Participants are the contact ids sharing an equal split.
	Participants []string
	IncludeOwner bool
	// ExactShares maps contact id to share for an exact split. The
	// owner's share uses the empty id.
	ExactShares   map[string]decimal.Decimal
	CorrelationID string
}

// AddExpense records a shared expense in a group, splitting it among
// the named participants. Every participant must be a group member.
func (s *SocialService) AddExpense(ctx context.Context, p ExpenseParams) (*models.GroupExpense, error) {
	group, err := s.store.GetGroup(ctx, p.TenantID, p.GroupID)
	if err != nil {
		return nil, err
	}
	if p.CurrencyCode == "" {
		p.CurrencyCode = group.DefaultCurrency
	}

	expense, err := models.NewGroupExpense(p.TenantID, p.GroupID, p.Description, p.Total, p.CurrencyCode, p.PaidByContactID)
	if err != nil {
		return nil, err
	}

	switch p.Method {
	case models.SplitEqual:
		if err := requireMembers(group, p.Participants); err != nil {
			return nil, err
		}
		if err := expense.AddEqualSplits(p.Participants, p.IncludeOwner); err != nil {
			return nil, err
		}
	case models.SplitExact:
		ids := make([]string, 0, len(p.ExactShares))
		for id := range p.ExactShares {
			if id != "" {
				ids = append(ids, id)
			}
		}
		if err := requireMembers(group, ids); err != nil {
			return nil, err
		}
		if err := expense.AddExactSplits(p.ExactShares); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown split method %q", p.Method)
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}
	s.publish(ctx, events.TypeExpenseCreated, p.TenantID, p.CorrelationID, map[string]string{
		"expense_id": expense.ID,
		"group_id":   expense.GroupID,
		"total":      expense.TotalAmount.String(),
		"currency":   expense.CurrencyCode,
	})
	slog.InfoContext(ctx, "Expense recorded",
		"expense_id", expense.ID,
		"group_id", expense.GroupID,
		"total", expense.TotalAmount,
		"splits", len(expense.Splits))
	return expense, nil
}

// CancelExpense cancels an expense so it no longer counts toward group
// balances.
func (s *SocialService) CancelExpense(ctx context.Context, tenantID, expenseID string) (*models.GroupExpense, error) {
	expense, err := s.store.GetExpense(ctx, tenantID, expenseID)
	if err != nil {
		return nil, err
	}
	expense.Cancel()
	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("cancel expense: %w", err)
	}
	slog.InfoContext(ctx, "Expense cancelled", "expense_id", expense.ID)
	return expense, nil
}

// SplitTarget names one expense split inside its expense.
type SplitTarget struct {
	ExpenseID string
	SplitID   string
}

// SettlementParams describes a settlement that discharges one or more
// debts and expense splits in the order given.
type SettlementParams struct {
	TenantID      string
	FromContactID string // empty means the owner pays
	ToContactID   string // empty means the owner receives
	Amount        decimal.Decimal
	CurrencyCode  string
	Method        models.SettlementMethod
	DebtIDs       []string
	Splits        []SplitTarget
	CorrelationID string
}

// RecordSettlement records a payment and applies it across the named
// debts and splits, in order, until the amount is exhausted. The full
// amount must be absorbed; a leftover after the last target fails with
// models.ErrOverSettlement and nothing is persisted.
func (s *SocialService) RecordSettlement(ctx context.Context, p SettlementParams) (*models.Settlement, error) {
	settlement, err := models.NewSettlement(p.TenantID, p.FromContactID, p.ToContactID, p.Amount, p.CurrencyCode, p.Method)
	if err != nil {
		return nil, err
	}

	remaining := p.Amount
	var debts []*models.PeerDebt
	for _, id := range p.DebtIDs {
		debt, err := s.store.GetDebt(ctx, p.TenantID, id)
		if err != nil {
			return nil, err
		}
		portion := decimal.Min(remaining, debt.RemainingAmount())
		if portion.IsPositive() {
			if err := debt.RecordSettlement(portion); err != nil {
				return nil, fmt.Errorf("debt %s: %w", id, err)
			}
			remaining = remaining.Sub(portion)
			settlement.LinkDebt(debt.ID)
			debts = append(debts, debt)
		}
	}

	var expenses []*models.GroupExpense
	for _, target := range p.Splits {
		expense, err := s.store.GetExpense(ctx, p.TenantID, target.ExpenseID)
		if err != nil {
			return nil, err
		}
		split := findSplit(expense, target.SplitID)
		if split == nil {
			return nil, fmt.Errorf("split %s: %w", target.SplitID, models.ErrNotFound)
		}
		portion := decimal.Min(remaining, split.RemainingAmount())
		if portion.IsPositive() {
			if err := split.RecordSettlement(portion); err != nil {
				return nil, fmt.Errorf("split %s: %w", target.SplitID, err)
			}
			remaining = remaining.Sub(portion)
			settlement.LinkSplit(split.ID)
			expenses = append(expenses, expense)
		}
	}

	if remaining.IsPositive() && (len(p.DebtIDs) > 0 || len(p.Splits) > 0) {
		return nil, fmt.Errorf("settlement exceeds targets by %s: %w", remaining, models.ErrOverSettlement)
	}

	for _, debt := range debts {
		if err := s.store.UpdateDebt(ctx, debt); err != nil {
			return nil, fmt.Errorf("update debt %s: %w", debt.ID, err)
		}
	}
	for _, expense := range expenses {
		if err := s.store.UpdateExpense(ctx, expense); err != nil {
			return nil, fmt.Errorf("update expense %s: %w", expense.ID, err)
		}
	}
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		return nil, fmt.Errorf("create settlement: %w", err)
	}

	metrics.SettlementsRecorded.WithLabelValues("combined").Inc()
	s.publish(ctx, events.TypeSettlementCreated, p.TenantID, p.CorrelationID, map[string]string{
		"settlement_id": settlement.ID,
		"from":          settlement.FromContactID,
		"to":            settlement.ToContactID,
		"amount":        settlement.Amount.String(),
		"currency":      settlement.CurrencyCode,
	})
	slog.InfoContext(ctx, "Settlement recorded",
		"settlement_id", settlement.ID,
		"amount", settlement.Amount,
		"debts", len(settlement.DebtIDs),
		"splits", len(settlement.SplitIDs))
	return settlement, nil
}

// ContactBalances returns the net position per contact in one currency,
// derived from all debts and settlements.
func (s *SocialService) ContactBalances(ctx context.Context, tenantID, currencyCode string) (map[string]calculator.ContactBalance, error) {
	debts, err := s.store.ListDebts(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	settlements, err := s.store.ListSettlements(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return calculator.CalculateAllBalances(debts, settlements, currencyCode), nil
}

// SuggestSettlements proposes one payment per contact with a non-zero
// balance, sorted by contact id.
func (s *SocialService) SuggestSettlements(ctx context.Context, tenantID, currencyCode string) ([]calculator.TransferEntry, error) {
	balances, err := s.ContactBalances(ctx, tenantID, currencyCode)
	if err != nil {
		return nil, err
	}
	return calculator.SuggestAllSettlements(balances), nil
}

// GroupBalances derives each participant's net position in a group
// along with the transfers that would settle it.
func (s *SocialService) GroupBalances(ctx context.Context, tenantID, groupID string) (calculator.GroupBalanceResult, error) {
	group, err := s.store.GetGroup(ctx, tenantID, groupID)
	if err != nil {
		return calculator.GroupBalanceResult{}, err
	}
	expenses, err := s.store.ListExpenses(ctx, tenantID, groupID)
	if err != nil {
		return calculator.GroupBalanceResult{}, err
	}
	return calculator.CalculateGroupBalances(expenses, group.DefaultCurrency), nil
}

// SimplifyGroupDebts reduces a group's balances to a minimal transfer
// set.
func (s *SocialService) SimplifyGroupDebts(ctx context.Context, tenantID, groupID string) ([]calculator.TransferEntry, error) {
	result, err := s.GroupBalances(ctx, tenantID, groupID)
	if err != nil {
		return nil, err
	}
	balances := make(map[string]decimal.Decimal, len(result.Balances))
	for _, b := range result.Balances {
		balances[b.ParticipantID] = b.NetBalance
	}
	return calculator.SimplifyDebts(balances)
}

func (s *SocialService) publish(ctx context.Context, eventType, tenantID, correlationID string, payload any) {
	event, err := events.New(eventType, tenantID, correlationID, payload)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to build event", "event_type", eventType, "error", err)
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish event", "event_type", eventType, "error", err)
		return
	}
	metrics.EventsPublished.WithLabelValues(eventType).Inc()
}

func requireMembers(group *models.ExpenseGroup, contactIDs []string) error {
	for _, id := range contactIDs {
		if !group.HasMember(id) {
			return fmt.Errorf("contact %s: %w", id, models.ErrUnknownParticipant)
		}
	}
	return nil
}

func findSplit(expense *models.GroupExpense, splitID string) *models.ExpenseSplit {
	for _, split := range expense.Splits {
		if split.ID == splitID {
			return split
		}
	}
	return nil
}

func debtPayload(debt *models.PeerDebt) map[string]string {
	return map[string]string{
		"debt_id":    debt.ID,
		"contact_id": debt.ContactID,
		"direction":  string(debt.Direction),
		"amount":     debt.Amount.String(),
		"currency":   debt.CurrencyCode,
		"status":     string(debt.Status),
	}
}

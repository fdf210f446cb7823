package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mkhare/finbook/internal/models"
)

// ParticipantBalance is one group participant's position across a set
// of expenses. The owner is the participant with an empty id. Positive
// net means the participant paid more than their share.
type ParticipantBalance struct {
	ParticipantID string
	TotalPaid     decimal.Decimal
	TotalOwed     decimal.Decimal
	NetBalance    decimal.Decimal
}

// TransferEntry is a directed payment between two participants.
type TransferEntry struct {
	FromID string
	ToID   string
	Amount decimal.Decimal
}

// GroupBalanceResult holds the who-paid/who-owes matrix for one group.
type GroupBalanceResult struct {
	Balances      []ParticipantBalance
	Entries       []TransferEntry
	TotalExpenses decimal.Decimal
}

// CalculateGroupBalances computes each participant's net position from
// a set of group expenses and resolves it into directed payment
// entries. Cancelled expenses and expenses in other currencies are
// skipped.
//
// For each expense the payer is credited the full total and every
// split participant is charged their share; the payer's own share
// nets against their payment. Deficits are then matched against
// surpluses greedily in the order participants first appear, which
// keeps the output deterministic for a given expense order but is not
// guaranteed to minimize the entry count.
func CalculateGroupBalances(expenses []*models.GroupExpense, currencyCode string) GroupBalanceResult {
	balances := make(map[string]*ParticipantBalance)
	var order []string
	totalExpenses := decimal.Zero

	participant := func(id string) *ParticipantBalance {
		if pb, ok := balances[id]; ok {
			return pb
		}
		pb := &ParticipantBalance{
			ParticipantID: id,
			TotalPaid:     decimal.Zero,
			TotalOwed:     decimal.Zero,
		}
		balances[id] = pb
		order = append(order, id)
		return pb
	}

	for _, e := range expenses {
		if e.Status == models.ExpenseCancelled || e.CurrencyCode != currencyCode {
			continue
		}
		totalExpenses = totalExpenses.Add(e.TotalAmount)

		payer := participant(e.PaidByContactID)
		payer.TotalPaid = payer.TotalPaid.Add(e.TotalAmount)

		for _, s := range e.Splits {
			pb := participant(s.ContactID)
			pb.TotalOwed = pb.TotalOwed.Add(s.ShareAmount)
		}
	}

	result := GroupBalanceResult{TotalExpenses: totalExpenses}
	for _, id := range order {
		pb := balances[id]
		pb.NetBalance = pb.TotalPaid.Sub(pb.TotalOwed)
		result.Balances = append(result.Balances, *pb)
	}
	result.Entries = resolveTransfers(result.Balances)
	return result
}

// resolveTransfers greedily matches each debtor's deficit against
// creditors' surplus in the order given, emitting entries until every
// deficit is zero.
func resolveTransfers(balances []ParticipantBalance) []TransferEntry {
	var debtors, creditors []ParticipantBalance
	for _, pb := range balances {
		if pb.NetBalance.IsNegative() {
			debtors = append(debtors, pb)
		} else if pb.NetBalance.IsPositive() {
			creditors = append(creditors, pb)
		}
	}

	var entries []TransferEntry
	j := 0
	remaining := decimal.Zero
	if len(creditors) > 0 {
		remaining = creditors[0].NetBalance
	}

	for _, d := range debtors {
		deficit := d.NetBalance.Neg()
		for deficit.IsPositive() && j < len(creditors) {
			amount := decimal.Min(deficit, remaining)
			if amount.IsPositive() {
				entries = append(entries, TransferEntry{
					FromID: d.ParticipantID,
					ToID:   creditors[j].ParticipantID,
					Amount: amount,
				})
			}
			deficit = deficit.Sub(amount)
			remaining = remaining.Sub(amount)
			if remaining.IsZero() {
				j++
				if j < len(creditors) {
					remaining = creditors[j].NetBalance
				}
			}
		}
	}
	return entries
}

package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mkhare/finbook/internal/models"
)

// ContactBalance is the owner's net position with one contact in one
// currency. A positive NetBalance means the contact owes the owner.
type ContactBalance struct {
	ContactID            string
	CurrencyCode         string
	TotalLent            decimal.Decimal
	TotalBorrowed        decimal.Decimal
	TotalSettledToThem   decimal.Decimal
	TotalSettledFromThem decimal.Decimal
	NetBalance           decimal.Decimal
}

// CalculateContactBalance nets one contact's debts and settlements in a
// single currency. Cancelled debts and entries in other currencies are
// skipped. Settled totals come from settlement direction: payments the
// owner made to the contact reduce what the owner owes, payments the
// contact made to the owner reduce what they owe.
func CalculateContactBalance(debts []*models.PeerDebt, settlements []*models.Settlement, contactID, currencyCode string) ContactBalance {
	cb := ContactBalance{
		ContactID:            contactID,
		CurrencyCode:         currencyCode,
		TotalLent:            decimal.Zero,
		TotalBorrowed:        decimal.Zero,
		TotalSettledToThem:   decimal.Zero,
		TotalSettledFromThem: decimal.Zero,
	}

	for _, d := range debts {
		if d.ContactID != contactID || d.CurrencyCode != currencyCode {
			continue
		}
		if d.Status == models.DebtCancelled {
			continue
		}
		switch d.Direction {
		case models.Lent:
			cb.TotalLent = cb.TotalLent.Add(d.Amount)
		case models.Borrowed:
			cb.TotalBorrowed = cb.TotalBorrowed.Add(d.Amount)
		}
	}

	for _, s := range settlements {
		if s.CurrencyCode != currencyCode {
			continue
		}
		if s.ToContactID == contactID && s.FromContactID == "" {
			cb.TotalSettledToThem = cb.TotalSettledToThem.Add(s.Amount)
		}
		if s.FromContactID == contactID && s.ToContactID == "" {
			cb.TotalSettledFromThem = cb.TotalSettledFromThem.Add(s.Amount)
		}
	}

	cb.NetBalance = cb.TotalLent.Sub(cb.TotalSettledFromThem).
		Sub(cb.TotalBorrowed.Sub(cb.TotalSettledToThem))
	return cb
}

// CalculateAllBalances computes a ContactBalance for every contact id
// appearing in either the debts or the settlements. Linear scans per
// contact; callers with very large debt sets should pre-index.
func CalculateAllBalances(debts []*models.PeerDebt, settlements []*models.Settlement, currencyCode string) map[string]ContactBalance {
	seen := make(map[string]bool)
	for _, d := range debts {
		seen[d.ContactID] = true
	}
	for _, s := range settlements {
		if s.FromContactID != "" {
			seen[s.FromContactID] = true
		}
		if s.ToContactID != "" {
			seen[s.ToContactID] = true
		}
	}

	balances := make(map[string]ContactBalance, len(seen))
	for contactID := range seen {
		balances[contactID] = CalculateContactBalance(debts, settlements, contactID, currencyCode)
	}
	return balances
}

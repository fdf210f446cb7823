package calculator

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// ErrUnbalanced is returned when net balances handed to SimplifyDebts
// do not sum to zero.
var ErrUnbalanced = errors.New("net balances do not sum to zero")

// SimplifyDebts reduces a balanced map of participant net positions
// (positive = owed money, negative = owes money; owner keyed by "")
// into a small set of transfers with the same net effect.
//
// Debtors and creditors are each sorted descending by magnitude, with
// the participant id as tie-break so the output is deterministic, then
// the largest debtor is matched against the largest creditor for
// min(debt, credit) per step. The heuristic usually minimizes the
// number of transfers but does not provably do so; only conservation
// is guaranteed: every participant's transfers sum to exactly their
// original deficit or surplus.
func SimplifyDebts(balances map[string]decimal.Decimal) ([]TransferEntry, error) {
	type position struct {
		id     string
		amount decimal.Decimal // always positive
	}

	var debtors, creditors []position
	sum := decimal.Zero
	for id, net := range balances {
		sum = sum.Add(net)
		switch {
		case net.IsNegative():
			debtors = append(debtors, position{id: id, amount: net.Neg()})
		case net.IsPositive():
			creditors = append(creditors, position{id: id, amount: net})
		}
	}
	if !sum.IsZero() {
		return nil, fmt.Errorf("%w: residual %s", ErrUnbalanced, sum)
	}

	byMagnitude := func(ps []position) func(i, j int) bool {
		return func(i, j int) bool {
			if !ps[i].amount.Equal(ps[j].amount) {
				return ps[i].amount.GreaterThan(ps[j].amount)
			}
			return ps[i].id < ps[j].id
		}
	}
	sort.Slice(debtors, byMagnitude(debtors))
	sort.Slice(creditors, byMagnitude(creditors))

	var entries []TransferEntry
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := decimal.Min(debtors[i].amount, creditors[j].amount)
		entries = append(entries, TransferEntry{
			FromID: debtors[i].id,
			ToID:   creditors[j].id,
			Amount: amount,
		})
		debtors[i].amount = debtors[i].amount.Sub(amount)
		creditors[j].amount = creditors[j].amount.Sub(amount)
		if debtors[i].amount.IsZero() {
			i++
		}
		if creditors[j].amount.IsZero() {
			j++
		}
	}
	return entries, nil
}

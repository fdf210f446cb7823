package calculator

import "sort"

// SuggestSettlement proposes the single transfer that zeroes one
// contact's balance: contact pays the owner when they owe, the owner
// pays the contact when the owner owes. A zero balance yields nil.
func SuggestSettlement(cb ContactBalance) *TransferEntry {
	switch {
	case cb.NetBalance.IsPositive():
		return &TransferEntry{FromID: cb.ContactID, ToID: "", Amount: cb.NetBalance}
	case cb.NetBalance.IsNegative():
		return &TransferEntry{FromID: "", ToID: cb.ContactID, Amount: cb.NetBalance.Neg()}
	default:
		return nil
	}
}

// SuggestAllSettlements proposes one transfer per contact with a
// non-zero balance. Each suggestion is independent, no cross-contact
// netting happens here. Output is ordered by contact id.
func SuggestAllSettlements(balances map[string]ContactBalance) []TransferEntry {
	ids := make([]string, 0, len(balances))
	for id := range balances {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var suggestions []TransferEntry
	for _, id := range ids {
		if s := SuggestSettlement(balances[id]); s != nil {
			suggestions = append(suggestions, *s)
		}
	}
	return suggestions
}

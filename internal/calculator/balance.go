package calculator

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mkhare/finbook/internal/models"
)

// BalanceResult is the derived balance for one account.
type BalanceResult struct {
	Balance          decimal.Decimal
	TotalCredits     decimal.Decimal
	TotalDebits      decimal.Decimal
	TransactionCount int
}

// BalanceOptions control which transactions count toward a balance.
type BalanceOptions struct {
	// AsOf excludes transactions dated after it. Zero means no cutoff.
	AsOf time.Time
	// IncludePending counts pending transactions alongside posted ones.
	IncludePending bool
}

// CalculateBalance derives an account balance from its transactions.
// Voided transactions never count; pending ones only when asked for.
// The accumulation is commutative, so transaction order is irrelevant.
func CalculateBalance(transactions []*models.Transaction, opts BalanceOptions) BalanceResult {
	var result BalanceResult
	result.TotalCredits = decimal.Zero
	result.TotalDebits = decimal.Zero

	for _, tx := range transactions {
		if !countsTowardBalance(tx, opts) {
			continue
		}
		switch tx.Type {
		case models.Credit:
			result.TotalCredits = result.TotalCredits.Add(tx.Amount)
		case models.Debit:
			result.TotalDebits = result.TotalDebits.Add(tx.Amount)
		}
		result.TransactionCount++
	}

	result.Balance = result.TotalCredits.Sub(result.TotalDebits)
	return result
}

func countsTowardBalance(tx *models.Transaction, opts BalanceOptions) bool {
	if tx.IsVoided() {
		return false
	}
	if tx.IsPending() && !opts.IncludePending {
		return false
	}
	if !opts.AsOf.IsZero() && tx.TransactionDate.After(opts.AsOf) {
		return false
	}
	return true
}

// RunningBalanceEntry is the balance immediately after one transaction.
type RunningBalanceEntry struct {
	Transaction *models.Transaction
	Balance     decimal.Decimal
}

// CalculateRunningBalance walks the transactions in caller-supplied
// order (typically chronological) and yields the balance after each
// non-voided one, starting from startingBalance.
func CalculateRunningBalance(transactions []*models.Transaction, startingBalance decimal.Decimal) []RunningBalanceEntry {
	entries := make([]RunningBalanceEntry, 0, len(transactions))
	balance := startingBalance
	for _, tx := range transactions {
		if tx.IsVoided() {
			continue
		}
		balance = balance.Add(tx.SignedAmount())
		entries = append(entries, RunningBalanceEntry{Transaction: tx, Balance: balance})
	}
	return entries
}

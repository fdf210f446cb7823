package calculator

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mkhare/finbook/internal/models"
)

// UncategorizedKey buckets transactions without a category.
const UncategorizedKey = "uncategorized"

// CashFlowResult summarizes income and expenses over a window.
type CashFlowResult struct {
	TotalIncome       decimal.Decimal
	TotalExpenses     decimal.Decimal
	NetCashFlow       decimal.Decimal
	IncomeByCategory  map[string]decimal.Decimal
	ExpenseByCategory map[string]decimal.Decimal
}

// AnalyzeCashFlow buckets posted transactions into income (credits) and
// expenses (debits), in total and per category. Pending and voided
// transactions are always excluded, unlike balance calculation. A zero
// from/to leaves that end of the window open.
func AnalyzeCashFlow(transactions []*models.Transaction, from, to time.Time) CashFlowResult {
	result := CashFlowResult{
		TotalIncome:       decimal.Zero,
		TotalExpenses:     decimal.Zero,
		IncomeByCategory:  make(map[string]decimal.Decimal),
		ExpenseByCategory: make(map[string]decimal.Decimal),
	}

	for _, tx := range transactions {
		if !tx.IsPosted() {
			continue
		}
		if !from.IsZero() && tx.TransactionDate.Before(from) {
			continue
		}
		if !to.IsZero() && tx.TransactionDate.After(to) {
			continue
		}

		category := tx.CategoryID
		if category == "" {
			category = UncategorizedKey
		}

		switch tx.Type {
		case models.Credit:
			result.TotalIncome = result.TotalIncome.Add(tx.Amount)
			result.IncomeByCategory[category] = result.IncomeByCategory[category].Add(tx.Amount)
		case models.Debit:
			result.TotalExpenses = result.TotalExpenses.Add(tx.Amount)
			result.ExpenseByCategory[category] = result.ExpenseByCategory[category].Add(tx.Amount)
		}
	}

	result.NetCashFlow = result.TotalIncome.Sub(result.TotalExpenses)
	return result
}

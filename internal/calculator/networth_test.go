package calculator

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mkhare/finbook/internal/models"
)

func TestCalculateNetWorth(t *testing.T) {
	checking, err := models.NewAccount("t1", "Checking", models.AccountChecking, "USD")
	if err != nil {
		t.Fatalf("NewAccount: %v", err)
	}
	closed, err := models.NewAccount("t1", "Old Savings", models.AccountSavings, "USD")
	if err != nil {
		t.Fatalf("NewAccount: %v", err)
	}
	closed.Close()
	excluded, err := models.NewAccount("t1", "Petty Cash", models.AccountCash, "USD")
	if err != nil {
		t.Fatalf("NewAccount: %v", err)
	}
	excluded.IncludedInNetWorth = false

	accounts := []AccountBalance{
		{Account: checking, Balance: decimal.RequireFromString("1500.00")},
		{Account: closed, Balance: decimal.RequireFromString("800.00")},
		{Account: excluded, Balance: decimal.RequireFromString("50.00")},
	}

	house, err := models.NewAsset("t1", "House", models.AssetRealEstate, decimal.RequireFromString("250000.00"), "USD")
	if err != nil {
		t.Fatalf("NewAsset: %v", err)
	}
	card, err := models.NewLiability("t1", "Credit Card", models.LiabilityCreditCard, decimal.RequireFromString("1200.00"), "USD")
	if err != nil {
		t.Fatalf("NewLiability: %v", err)
	}
	mortgage, err := models.NewLoan("t1", "Mortgage", models.LiabilityMortgage, decimal.RequireFromString("200000.00"), "USD")
	if err != nil {
		t.Fatalf("NewLoan: %v", err)
	}
	paidOff, err := models.NewLoan("t1", "Car Loan", models.LiabilityAutoLoan, decimal.RequireFromString("9000.00"), "USD")
	if err != nil {
		t.Fatalf("NewLoan: %v", err)
	}
	if err := paidOff.RecordPayment(decimal.RequireFromString("9000.00")); err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}

	result := CalculateNetWorth(accounts,
		[]*models.Asset{house},
		[]*models.Liability{card},
		[]*models.Loan{mortgage, paidOff})

	if !result.TotalAssets.Equal(decimal.RequireFromString("251500.00")) {
		t.Errorf("total assets = %s, want 251500.00", result.TotalAssets)
	}
	if !result.TotalLiabilities.Equal(decimal.RequireFromString("201200.00")) {
		t.Errorf("total liabilities = %s, want 201200.00", result.TotalLiabilities)
	}
	if !result.NetWorth.Equal(decimal.RequireFromString("50300.00")) {
		t.Errorf("net worth = %s, want 50300.00", result.NetWorth)
	}
	if result.AssetCount != 2 {
		t.Errorf("asset count = %d, want 2", result.AssetCount)
	}
	if result.LiabilityCount != 2 {
		t.Errorf("liability count = %d, want 2", result.LiabilityCount)
	}
}

func TestAnalyzeCashFlow(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 5, d, 0, 0, 0, 0, time.UTC) }

	salary := postedCredit(t, "3000.00", day(1))
	salary.CategoryID = "salary"
	rent := postedDebit(t, "1200.00", day(2))
	rent.CategoryID = "housing"
	groceries := postedDebit(t, "350.00", day(10))
	groceries.CategoryID = "food"
	misc := postedDebit(t, "45.00", day(12))

	pending, err := models.NewDebit("t1", "acc1", decimal.NewFromInt(500), "USD", day(5))
	if err != nil {
		t.Fatalf("NewDebit: %v", err)
	}
	outside := postedDebit(t, "999.00", day(25))

	txns := []*models.Transaction{salary, rent, groceries, misc, pending, outside}
	result := AnalyzeCashFlow(txns, day(1), day(20))

	if !result.TotalIncome.Equal(decimal.RequireFromString("3000.00")) {
		t.Errorf("total income = %s, want 3000.00", result.TotalIncome)
	}
	if !result.TotalExpenses.Equal(decimal.RequireFromString("1595.00")) {
		t.Errorf("total expenses = %s, want 1595.00", result.TotalExpenses)
	}
	if !result.NetCashFlow.Equal(decimal.RequireFromString("1405.00")) {
		t.Errorf("net cash flow = %s, want 1405.00", result.NetCashFlow)
	}
	if !result.ExpenseByCategory["housing"].Equal(decimal.RequireFromString("1200.00")) {
		t.Errorf("housing = %s, want 1200.00", result.ExpenseByCategory["housing"])
	}
	if !result.ExpenseByCategory[UncategorizedKey].Equal(decimal.RequireFromString("45.00")) {
		t.Errorf("uncategorized = %s, want 45.00", result.ExpenseByCategory[UncategorizedKey])
	}
	if !result.IncomeByCategory["salary"].Equal(decimal.RequireFromString("3000.00")) {
		t.Errorf("salary = %s, want 3000.00", result.IncomeByCategory["salary"])
	}
}

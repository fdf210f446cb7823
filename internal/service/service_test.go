package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mkhare/finbook/internal/calculator"
	"github.com/mkhare/finbook/internal/events"
	"github.com/mkhare/finbook/internal/models"
	"github.com/mkhare/finbook/internal/money"
	"github.com/mkhare/finbook/internal/storage"
	"github.com/mkhare/finbook/internal/storage/sqlite"
)

const testTenant = "tenant-1"

// newTestStore creates a SQLite store backed by a temp file.
func newTestStore(t *testing.T) storage.Store {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "service-test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestServices(t *testing.T) (*LedgerService, *SocialService, *ReportService, storage.Store) {
	t.Helper()
	store := newTestStore(t)
	publisher := events.NopPublisher{}
	return NewLedgerService(store, publisher), NewSocialService(store, publisher), NewReportService(store), store
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestLedgerServiceTransactionFlow(t *testing.T) {
	ledger, _, _, store := newTestServices(t)
	ctx := context.Background()

	account, err := ledger.CreateAccount(ctx, testTenant, "Checking", models.AccountChecking, "USD")
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	_, err = ledger.RecordTransaction(ctx, TransactionParams{
		TenantID:        testTenant,
		AccountID:       account.ID,
		Type:            models.Credit,
		Amount:          d("1000.00"),
		CurrencyCode:    "USD",
		Date:            time.Now(),
		Description:     "Salary",
		PostImmediately: true,
	})
	if err != nil {
		t.Fatalf("RecordTransaction credit failed: %v", err)
	}

	debit, err := ledger.RecordTransaction(ctx, TransactionParams{
		TenantID:     testTenant,
		AccountID:    account.ID,
		Type:         models.Debit,
		Amount:       d("250.00"),
		CurrencyCode: "USD",
		Date:         time.Now(),
	})
	if err != nil {
		t.Fatalf("RecordTransaction debit failed: %v", err)
	}
	if !debit.IsPending() {
		t.Fatalf("expected pending debit, got %s", debit.Status)
	}

	// Pending transactions do not count by default.
	result, err := ledger.AccountBalance(ctx, testTenant, account.ID, calculator.BalanceOptions{})
	if err != nil {
		t.Fatalf("AccountBalance failed: %v", err)
	}
	if !result.Balance.Equal(d("1000.00")) {
		t.Errorf("balance before posting = %s, want 1000.00", result.Balance)
	}

	if _, err := ledger.PostTransaction(ctx, testTenant, debit.ID, ""); err != nil {
		t.Fatalf("PostTransaction failed: %v", err)
	}
	result, err = ledger.AccountBalance(ctx, testTenant, account.ID, calculator.BalanceOptions{})
	if err != nil {
		t.Fatalf("AccountBalance failed: %v", err)
	}
	if !result.Balance.Equal(d("750.00")) {
		t.Errorf("balance after posting = %s, want 750.00", result.Balance)
	}

	if _, err := ledger.VoidTransaction(ctx, testTenant, debit.ID, ""); err != nil {
		t.Fatalf("VoidTransaction failed: %v", err)
	}
	result, err = ledger.AccountBalance(ctx, testTenant, account.ID, calculator.BalanceOptions{})
	if err != nil {
		t.Fatalf("AccountBalance failed: %v", err)
	}
	if !result.Balance.Equal(d("1000.00")) {
		t.Errorf("balance after void = %s, want 1000.00", result.Balance)
	}

	t.Run("currency mismatch rejected", func(t *testing.T) {
		_, err := ledger.RecordTransaction(ctx, TransactionParams{
			TenantID:     testTenant,
			AccountID:    account.ID,
			Type:         models.Credit,
			Amount:       d("10.00"),
			CurrencyCode: "EUR",
			Date:         time.Now(),
		})
		if !errors.Is(err, models.ErrCurrencyMismatch) {
			t.Errorf("expected ErrCurrencyMismatch, got %v", err)
		}
	})

	t.Run("closed account rejected", func(t *testing.T) {
		account.Close()
		if err := store.UpdateAccount(ctx, account); err != nil {
			t.Fatalf("UpdateAccount failed: %v", err)
		}
		_, err := ledger.RecordTransaction(ctx, TransactionParams{
			TenantID:     testTenant,
			AccountID:    account.ID,
			Type:         models.Credit,
			Amount:       d("10.00"),
			CurrencyCode: "USD",
			Date:         time.Now(),
		})
		if !errors.Is(err, models.ErrAccountClosed) {
			t.Errorf("expected ErrAccountClosed, got %v", err)
		}
	})
}

func TestLedgerServiceIdempotency(t *testing.T) {
	ledger, _, _, _ := newTestServices(t)
	ctx := context.Background()

	account, err := ledger.CreateAccount(ctx, testTenant, "Checking", models.AccountChecking, "USD")
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	params := TransactionParams{
		TenantID:        testTenant,
		AccountID:       account.ID,
		Type:            models.Credit,
		Amount:          d("50.00"),
		CurrencyCode:    "USD",
		Date:            time.Now(),
		IdempotencyKey:  "req-42",
		PostImmediately: true,
	}
	if _, err := ledger.RecordTransaction(ctx, params); err != nil {
		t.Fatalf("first submission failed: %v", err)
	}
	_, err = ledger.RecordTransaction(ctx, params)
	if !errors.Is(err, models.ErrDuplicateIdempotencyKey) {
		t.Fatalf("expected ErrDuplicateIdempotencyKey, got %v", err)
	}

	// The rejected write must not affect the balance.
	result, err := ledger.AccountBalance(ctx, testTenant, account.ID, calculator.BalanceOptions{})
	if err != nil {
		t.Fatalf("AccountBalance failed: %v", err)
	}
	if !result.Balance.Equal(d("50.00")) {
		t.Errorf("balance = %s, want 50.00", result.Balance)
	}
}

func TestLedgerServiceTransfer(t *testing.T) {
	ledger, _, _, _ := newTestServices(t)
	ctx := context.Background()

	checking, err := ledger.CreateAccount(ctx, testTenant, "Checking", models.AccountChecking, "USD")
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	savings, err := ledger.CreateAccount(ctx, testTenant, "Savings", models.AccountSavings, "USD")
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	if _, err := ledger.CreateTransfer(ctx, testTenant, checking.ID, savings.ID, d("200.00"), "USD", time.Now(), ""); err != nil {
		t.Fatalf("CreateTransfer failed: %v", err)
	}

	from, err := ledger.AccountBalance(ctx, testTenant, checking.ID, calculator.BalanceOptions{})
	if err != nil {
		t.Fatalf("AccountBalance failed: %v", err)
	}
	to, err := ledger.AccountBalance(ctx, testTenant, savings.ID, calculator.BalanceOptions{})
	if err != nil {
		t.Fatalf("AccountBalance failed: %v", err)
	}
	if !from.Balance.Equal(d("-200.00")) {
		t.Errorf("source balance = %s, want -200.00", from.Balance)
	}
	if !to.Balance.Equal(d("200.00")) {
		t.Errorf("destination balance = %s, want 200.00", to.Balance)
	}

	if _, err := ledger.CreateTransfer(ctx, testTenant, checking.ID, "missing", d("10.00"), "USD", time.Now(), ""); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing account, got %v", err)
	}
}

func TestSocialServiceDebtLifecycle(t *testing.T) {
	_, social, _, _ := newTestServices(t)
	ctx := context.Background()

	alice, err := social.CreateContact(ctx, testTenant, "Alice", "alice@example.com", "")
	if err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}

	debt, err := social.RecordDebt(ctx, testTenant, alice.ID, models.Lent, d("100.00"), "USD", "Lunch money", "")
	if err != nil {
		t.Fatalf("RecordDebt failed: %v", err)
	}

	if _, err := social.SettleDebt(ctx, testTenant, debt.ID, d("40.00"), models.SettleCash, ""); err != nil {
		t.Fatalf("partial settlement failed: %v", err)
	}

	balances, err := social.ContactBalances(ctx, testTenant, "USD")
	if err != nil {
		t.Fatalf("ContactBalances failed: %v", err)
	}
	if got := balances[alice.ID].NetBalance; !got.Equal(d("60.00")) {
		t.Errorf("net balance = %s, want 60.00", got)
	}

	if _, err := social.SettleDebt(ctx, testTenant, debt.ID, d("70.00"), models.SettleCash, ""); !errors.Is(err, models.ErrOverSettlement) {
		t.Errorf("expected ErrOverSettlement, got %v", err)
	}

	if _, err := social.SettleDebt(ctx, testTenant, debt.ID, d("60.00"), models.SettleTransfer, ""); err != nil {
		t.Fatalf("final settlement failed: %v", err)
	}
	balances, err = social.ContactBalances(ctx, testTenant, "USD")
	if err != nil {
		t.Fatalf("ContactBalances failed: %v", err)
	}
	if got := balances[alice.ID].NetBalance; !got.IsZero() {
		t.Errorf("net balance after full settlement = %s, want 0", got)
	}

	if _, err := social.CancelDebt(ctx, testTenant, debt.ID, ""); !errors.Is(err, models.ErrDebtNotActive) {
		t.Errorf("expected ErrDebtNotActive cancelling a settled debt, got %v", err)
	}
}

func TestSocialServiceGroupExpenseFlow(t *testing.T) {
	_, social, _, _ := newTestServices(t)
	ctx := context.Background()

	alice, err := social.CreateContact(ctx, testTenant, "Alice", "", "")
	if err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}
	bob, err := social.CreateContact(ctx, testTenant, "Bob", "", "")
	if err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}

	group, err := social.CreateGroup(ctx, testTenant, "Trip", "USD", []string{alice.ID, bob.ID}, true)
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	expense, err := social.AddExpense(ctx, ExpenseParams{
		TenantID:     testTenant,
		GroupID:      group.ID,
		Description:  "Dinner",
		Total:        d("90.00"),
		Method:       models.SplitEqual,
		Participants: []string{alice.ID, bob.ID},
		IncludeOwner: true,
	})
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	if len(expense.Splits) != 3 {
		t.Fatalf("expected 3 splits, got %d", len(expense.Splits))
	}

	result, err := social.GroupBalances(ctx, testTenant, group.ID)
	if err != nil {
		t.Fatalf("GroupBalances failed: %v", err)
	}
	want := map[string]string{"": "60", alice.ID: "-30", bob.ID: "-30"}
	for _, pb := range result.Balances {
		if !pb.NetBalance.Equal(d(want[pb.ParticipantID])) {
			t.Errorf("participant %q net = %s, want %s", pb.ParticipantID, pb.NetBalance, want[pb.ParticipantID])
		}
	}

	transfers, err := social.SimplifyGroupDebts(ctx, testTenant, group.ID)
	if err != nil {
		t.Fatalf("SimplifyGroupDebts failed: %v", err)
	}
	if len(transfers) != 2 {
		t.Fatalf("expected 2 transfers, got %d", len(transfers))
	}
	total := decimal.Zero
	for _, tr := range transfers {
		if tr.ToID != "" {
			t.Errorf("transfer to %q, want owner", tr.ToID)
		}
		total = total.Add(tr.Amount)
	}
	if !total.Equal(d("60")) {
		t.Errorf("transfers total %s, want 60", total)
	}

	t.Run("non-member rejected", func(t *testing.T) {
		_, err := social.AddExpense(ctx, ExpenseParams{
			TenantID:     testTenant,
			GroupID:      group.ID,
			Description:  "Taxi",
			Total:        d("20.00"),
			Method:       models.SplitEqual,
			Participants: []string{"stranger"},
			IncludeOwner: true,
		})
		if !errors.Is(err, models.ErrUnknownParticipant) {
			t.Errorf("expected ErrUnknownParticipant, got %v", err)
		}
	})

	t.Run("cancelled expense drops out", func(t *testing.T) {
		if _, err := social.CancelExpense(ctx, testTenant, expense.ID); err != nil {
			t.Fatalf("CancelExpense failed: %v", err)
		}
		result, err := social.GroupBalances(ctx, testTenant, group.ID)
		if err != nil {
			t.Fatalf("GroupBalances failed: %v", err)
		}
		if !result.TotalExpenses.IsZero() {
			t.Errorf("total after cancel = %s, want 0", result.TotalExpenses)
		}
	})
}

func TestSocialServiceRecordSettlementAcrossTargets(t *testing.T) {
	_, social, _, store := newTestServices(t)
	ctx := context.Background()

	alice, err := social.CreateContact(ctx, testTenant, "Alice", "", "")
	if err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}
	first, err := social.RecordDebt(ctx, testTenant, alice.ID, models.Lent, d("30.00"), "USD", "", "")
	if err != nil {
		t.Fatalf("RecordDebt failed: %v", err)
	}
	second, err := social.RecordDebt(ctx, testTenant, alice.ID, models.Lent, d("50.00"), "USD", "", "")
	if err != nil {
		t.Fatalf("RecordDebt failed: %v", err)
	}

	settlement, err := social.RecordSettlement(ctx, SettlementParams{
		TenantID:      testTenant,
		FromContactID: alice.ID,
		Amount:        d("80.00"),
		CurrencyCode:  "USD",
		Method:        models.SettleTransfer,
		DebtIDs:       []string{first.ID, second.ID},
	})
	if err != nil {
		t.Fatalf("RecordSettlement failed: %v", err)
	}
	if len(settlement.DebtIDs) != 2 {
		t.Errorf("expected 2 linked debts, got %d", len(settlement.DebtIDs))
	}

	for _, id := range []string{first.ID, second.ID} {
		debt, err := store.GetDebt(ctx, testTenant, id)
		if err != nil {
			t.Fatalf("GetDebt failed: %v", err)
		}
		if !debt.IsFullySettled() {
			t.Errorf("debt %s not fully settled, remaining %s", id, debt.RemainingAmount())
		}
	}

	t.Run("amount exceeding targets rejected", func(t *testing.T) {
		debt, err := social.RecordDebt(ctx, testTenant, alice.ID, models.Lent, d("10.00"), "USD", "", "")
		if err != nil {
			t.Fatalf("RecordDebt failed: %v", err)
		}
		_, err = social.RecordSettlement(ctx, SettlementParams{
			TenantID:      testTenant,
			FromContactID: alice.ID,
			Amount:        d("25.00"),
			CurrencyCode:  "USD",
			Method:        models.SettleCash,
			DebtIDs:       []string{debt.ID},
		})
		if !errors.Is(err, models.ErrOverSettlement) {
			t.Errorf("expected ErrOverSettlement, got %v", err)
		}
		// The rejected settlement must not have touched the debt.
		got, err := store.GetDebt(ctx, testTenant, debt.ID)
		if err != nil {
			t.Fatalf("GetDebt failed: %v", err)
		}
		if !got.SettledAmount.IsZero() {
			t.Errorf("debt settled amount = %s, want 0", got.SettledAmount)
		}
	})
}

func TestReportServiceNetWorth(t *testing.T) {
	ledger, _, reports, store := newTestServices(t)
	ctx := context.Background()

	account, err := ledger.CreateAccount(ctx, testTenant, "Checking", models.AccountChecking, "USD")
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	if _, err := ledger.RecordTransaction(ctx, TransactionParams{
		TenantID:        testTenant,
		AccountID:       account.ID,
		Type:            models.Credit,
		Amount:          d("1500.00"),
		CurrencyCode:    "USD",
		Date:            time.Now(),
		PostImmediately: true,
	}); err != nil {
		t.Fatalf("RecordTransaction failed: %v", err)
	}

	asset, err := models.NewAsset(testTenant, "Car", models.AssetVehicle, d("8000.00"), "USD")
	if err != nil {
		t.Fatalf("NewAsset failed: %v", err)
	}
	if err := store.SaveAsset(ctx, asset); err != nil {
		t.Fatalf("SaveAsset failed: %v", err)
	}
	foreign, err := models.NewAsset(testTenant, "Shares", models.AssetInvestment, d("1000.00"), "EUR")
	if err != nil {
		t.Fatalf("NewAsset failed: %v", err)
	}
	if err := store.SaveAsset(ctx, foreign); err != nil {
		t.Fatalf("SaveAsset failed: %v", err)
	}
	loan, err := models.NewLoan(testTenant, "Car loan", models.LiabilityAutoLoan, d("5000.00"), "USD")
	if err != nil {
		t.Fatalf("NewLoan failed: %v", err)
	}
	if err := store.SaveLoan(ctx, loan); err != nil {
		t.Fatalf("SaveLoan failed: %v", err)
	}

	eurUSD, err := money.NewExchangeRate("EUR", "USD", d("1.10"))
	if err != nil {
		t.Fatalf("NewExchangeRate failed: %v", err)
	}
	result, err := reports.NetWorth(ctx, testTenant, "USD", NewStaticRates(eurUSD))
	if err != nil {
		t.Fatalf("NetWorth failed: %v", err)
	}

	// 1500 account + 8000 car + 1100 converted shares, less the loan.
	if !result.TotalAssets.Equal(d("10600.00")) {
		t.Errorf("total assets = %s, want 10600.00", result.TotalAssets)
	}
	if !result.TotalLiabilities.Equal(d("5000.00")) {
		t.Errorf("total liabilities = %s, want 5000.00", result.TotalLiabilities)
	}
	if !result.NetWorth.Equal(d("5600.00")) {
		t.Errorf("net worth = %s, want 5600.00", result.NetWorth)
	}

	t.Run("missing rate fails", func(t *testing.T) {
		_, err := reports.NetWorth(ctx, testTenant, "USD", NewStaticRates())
		if !errors.Is(err, ErrNoRate) {
			t.Errorf("expected ErrNoRate, got %v", err)
		}
	})
}

func TestStaticRates(t *testing.T) {
	eurUSD, err := money.NewExchangeRate("EUR", "USD", d("1.25"))
	if err != nil {
		t.Fatalf("NewExchangeRate failed: %v", err)
	}
	rates := NewStaticRates(eurUSD)

	got, err := rates.Convert(d("100"), "EUR", "USD")
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if !got.Equal(d("125")) {
		t.Errorf("EUR->USD = %s, want 125", got)
	}

	// Inverse direction falls back to the reciprocal.
	got, err = rates.Convert(d("125"), "USD", "EUR")
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if !got.Equal(d("100")) {
		t.Errorf("USD->EUR = %s, want 100", got)
	}

	if same, err := rates.Convert(d("7"), "USD", "USD"); err != nil || !same.Equal(d("7")) {
		t.Errorf("identity conversion = %s, %v", same, err)
	}
}

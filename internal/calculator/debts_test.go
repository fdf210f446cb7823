package calculator

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mkhare/finbook/internal/models"
)

func lent(t *testing.T, contactID, amount string) *models.PeerDebt {
	t.Helper()
	d, err := models.NewLentDebt("t1", contactID, decimal.RequireFromString(amount), "USD")
	if err != nil {
		t.Fatalf("NewLentDebt: %v", err)
	}
	return d
}

func borrowed(t *testing.T, contactID, amount string) *models.PeerDebt {
	t.Helper()
	d, err := models.NewBorrowedDebt("t1", contactID, decimal.RequireFromString(amount), "USD")
	if err != nil {
		t.Fatalf("NewBorrowedDebt: %v", err)
	}
	return d
}

func TestCalculateContactBalance(t *testing.T) {
	debts := []*models.PeerDebt{
		lent(t, "alice", "100.00"),
		lent(t, "alice", "50.00"),
		borrowed(t, "alice", "30.00"),
		lent(t, "bob", "999.00"), // other contact, ignored
	}

	ownerReceives, err := models.NewOwnerReceives("t1", "alice", decimal.RequireFromString("40.00"), "USD", models.SettleCash)
	if err != nil {
		t.Fatalf("NewOwnerReceives: %v", err)
	}
	ownerPays, err := models.NewOwnerPays("t1", "alice", decimal.RequireFromString("10.00"), "USD", models.SettleCash)
	if err != nil {
		t.Fatalf("NewOwnerPays: %v", err)
	}
	settlements := []*models.Settlement{ownerReceives, ownerPays}

	cb := CalculateContactBalance(debts, settlements, "alice", "USD")
	if !cb.TotalLent.Equal(decimal.RequireFromString("150.00")) {
		t.Errorf("total lent = %s, want 150.00", cb.TotalLent)
	}
	if !cb.TotalBorrowed.Equal(decimal.RequireFromString("30.00")) {
		t.Errorf("total borrowed = %s, want 30.00", cb.TotalBorrowed)
	}
	if !cb.TotalSettledFromThem.Equal(decimal.RequireFromString("40.00")) {
		t.Errorf("settled from them = %s, want 40.00", cb.TotalSettledFromThem)
	}
	if !cb.TotalSettledToThem.Equal(decimal.RequireFromString("10.00")) {
		t.Errorf("settled to them = %s, want 10.00", cb.TotalSettledToThem)
	}
	// (150 - 40) - (30 - 10) = 90: alice still owes the owner 90.
	if !cb.NetBalance.Equal(decimal.RequireFromString("90.00")) {
		t.Errorf("net balance = %s, want 90.00", cb.NetBalance)
	}
}

func TestCalculateContactBalanceSkipsCancelledAndOtherCurrencies(t *testing.T) {
	cancelled := lent(t, "alice", "75.00")
	if err := cancelled.Cancel(); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	euro, err := models.NewLentDebt("t1", "alice", decimal.NewFromInt(60), "EUR")
	if err != nil {
		t.Fatalf("NewLentDebt: %v", err)
	}
	debts := []*models.PeerDebt{cancelled, euro, lent(t, "alice", "20.00")}

	cb := CalculateContactBalance(debts, nil, "alice", "USD")
	if !cb.NetBalance.Equal(decimal.RequireFromString("20.00")) {
		t.Errorf("net balance = %s, want 20.00", cb.NetBalance)
	}
}

func TestCalculateAllBalances(t *testing.T) {
	debts := []*models.PeerDebt{
		lent(t, "alice", "100.00"),
		borrowed(t, "bob", "25.00"),
	}
	payment, err := models.NewOwnerPays("t1", "carol", decimal.RequireFromString("5.00"), "USD", models.SettleCash)
	if err != nil {
		t.Fatalf("NewOwnerPays: %v", err)
	}
	settlements := []*models.Settlement{payment}

	balances := CalculateAllBalances(debts, settlements, "USD")
	if len(balances) != 3 {
		t.Fatalf("got %d contacts, want 3 (carol appears only via settlement)", len(balances))
	}
	if !balances["alice"].NetBalance.Equal(decimal.RequireFromString("100.00")) {
		t.Errorf("alice net = %s, want 100.00", balances["alice"].NetBalance)
	}
	if !balances["bob"].NetBalance.Equal(decimal.RequireFromString("-25.00")) {
		t.Errorf("bob net = %s, want -25.00", balances["bob"].NetBalance)
	}
	if !balances["carol"].NetBalance.Equal(decimal.RequireFromString("5.00")) {
		t.Errorf("carol net = %s, want 5.00", balances["carol"].NetBalance)
	}
}

func TestSuggestSettlement(t *testing.T) {
	tests := []struct {
		name     string
		net      string
		wantFrom string
		wantTo   string
		wantNil  bool
	}{
		{name: "contact owes owner", net: "90.00", wantFrom: "alice", wantTo: ""},
		{name: "owner owes contact", net: "-15.00", wantFrom: "", wantTo: "alice"},
		{name: "settled up", net: "0", wantNil: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb := ContactBalance{ContactID: "alice", NetBalance: decimal.RequireFromString(tt.net)}
			got := SuggestSettlement(cb)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("suggestion = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("suggestion = nil, want one transfer")
			}
			if got.FromID != tt.wantFrom || got.ToID != tt.wantTo {
				t.Errorf("direction = %q -> %q, want %q -> %q", got.FromID, got.ToID, tt.wantFrom, tt.wantTo)
			}
			wantAmount := decimal.RequireFromString(tt.net).Abs()
			if !got.Amount.Equal(wantAmount) {
				t.Errorf("amount = %s, want %s", got.Amount, wantAmount)
			}
		})
	}
}

func TestSuggestAllSettlementsIsPerContact(t *testing.T) {
	balances := map[string]ContactBalance{
		"alice": {ContactID: "alice", NetBalance: decimal.NewFromInt(20)},
		"bob":   {ContactID: "bob", NetBalance: decimal.NewFromInt(-20)},
		"carol": {ContactID: "carol", NetBalance: decimal.Zero},
	}
	got := SuggestAllSettlements(balances)
	// No cross-contact netting: alice and bob each get their own
	// suggestion even though their balances cancel out.
	if len(got) != 2 {
		t.Fatalf("got %d suggestions, want 2", len(got))
	}
	if got[0].FromID != "alice" || got[0].ToID != "" {
		t.Errorf("first suggestion = %q -> %q, want alice -> owner", got[0].FromID, got[0].ToID)
	}
	if got[1].FromID != "" || got[1].ToID != "bob" {
		t.Errorf("second suggestion = %q -> %q, want owner -> bob", got[1].FromID, got[1].ToID)
	}
}

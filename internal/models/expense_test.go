package models

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestAddEqualSplitsSumExactly(t *testing.T) {
	tests := []struct {
		name         string
		total        string
		currency     string
		contacts     []string
		includeOwner bool
		wantShares   []string
	}{
		{
			name:         "even four way",
			total:        "120.00",
			currency:     "USD",
			contacts:     []string{"a", "b", "c"},
			includeOwner: true,
			wantShares:   []string{"30.00", "30.00", "30.00", "30.00"},
		},
		{
			name:         "indivisible three way",
			total:        "100.00",
			currency:     "USD",
			contacts:     []string{"a", "b"},
			includeOwner: true,
			wantShares:   []string{"33.34", "33.33", "33.33"},
		},
		{
			name:         "penny remainder",
			total:        "10.00",
			currency:     "USD",
			contacts:     []string{"a", "b"},
			includeOwner: true,
			wantShares:   []string{"3.34", "3.33", "3.33"},
		},
		{
			name:         "zero decimal currency",
			total:        "1000",
			currency:     "JPY",
			contacts:     []string{"a", "b"},
			includeOwner: true,
			wantShares:   []string{"334", "333", "333"},
		},
		{
			name:         "contacts only",
			total:        "50.00",
			currency:     "USD",
			contacts:     []string{"a", "b"},
			includeOwner: false,
			wantShares:   []string{"25.00", "25.00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp, err := NewGroupExpense("t1", "g1", "dinner", decimal.RequireFromString(tt.total), tt.currency, "")
			if err != nil {
				t.Fatalf("NewGroupExpense: %v", err)
			}
			if err := exp.AddEqualSplits(tt.contacts, tt.includeOwner); err != nil {
				t.Fatalf("AddEqualSplits: %v", err)
			}
			if len(exp.Splits) != len(tt.wantShares) {
				t.Fatalf("got %d splits, want %d", len(exp.Splits), len(tt.wantShares))
			}
			sum := decimal.Zero
			for i, s := range exp.Splits {
				want := decimal.RequireFromString(tt.wantShares[i])
				if !s.ShareAmount.Equal(want) {
					t.Errorf("split %d share = %s, want %s", i, s.ShareAmount, want)
				}
				sum = sum.Add(s.ShareAmount)
			}
			if !sum.Equal(exp.TotalAmount) {
				t.Errorf("splits sum to %s, want %s", sum, exp.TotalAmount)
			}
		})
	}
}

func TestAddEqualSplitsRequiresParticipants(t *testing.T) {
	exp, err := NewGroupExpense("t1", "g1", "dinner", decimal.NewFromInt(10), "USD", "")
	if err != nil {
		t.Fatalf("NewGroupExpense: %v", err)
	}
	if err := exp.AddEqualSplits(nil, false); !errors.Is(err, ErrNoParticipants) {
		t.Errorf("no participants error = %v, want ErrNoParticipants", err)
	}
}

func TestAddExactSplits(t *testing.T) {
	exp, err := NewGroupExpense("t1", "g1", "trip", decimal.RequireFromString("90.00"), "USD", "a")
	if err != nil {
		t.Fatalf("NewGroupExpense: %v", err)
	}

	mismatch := map[string]decimal.Decimal{
		"":  decimal.RequireFromString("30.00"),
		"a": decimal.RequireFromString("30.00"),
		"b": decimal.RequireFromString("30.01"),
	}
	if err := exp.AddExactSplits(mismatch); !errors.Is(err, ErrSplitSumMismatch) {
		t.Errorf("mismatched splits error = %v, want ErrSplitSumMismatch", err)
	}
	if len(exp.Splits) != 0 {
		t.Error("failed AddExactSplits must not assign splits")
	}

	exact := map[string]decimal.Decimal{
		"":  decimal.RequireFromString("20.00"),
		"a": decimal.RequireFromString("45.50"),
		"b": decimal.RequireFromString("24.50"),
	}
	if err := exp.AddExactSplits(exact); err != nil {
		t.Fatalf("AddExactSplits: %v", err)
	}
	if len(exp.Splits) != 3 {
		t.Fatalf("got %d splits, want 3", len(exp.Splits))
	}
	if !exp.Splits[0].IsOwner() {
		t.Error("owner split should come first")
	}

	payer := exp.PayerSplit()
	if payer == nil || payer.ContactID != "a" {
		t.Fatalf("PayerSplit = %+v, want contact a", payer)
	}
	if !payer.ShareAmount.Equal(decimal.RequireFromString("45.50")) {
		t.Errorf("payer share = %s, want 45.50", payer.ShareAmount)
	}
}

func TestSplitSettlementLifecycle(t *testing.T) {
	exp, err := NewGroupExpense("t1", "g1", "rent", decimal.RequireFromString("100.00"), "USD", "")
	if err != nil {
		t.Fatalf("NewGroupExpense: %v", err)
	}
	if err := exp.AddEqualSplits([]string{"a"}, true); err != nil {
		t.Fatalf("AddEqualSplits: %v", err)
	}

	split := exp.Splits[1]
	if split.Status != SplitPending {
		t.Fatalf("new split status = %s, want pending", split.Status)
	}

	if err := split.RecordSettlement(decimal.RequireFromString("20.00")); err != nil {
		t.Fatalf("RecordSettlement: %v", err)
	}
	if split.Status != SplitPartial {
		t.Errorf("status after partial = %s, want partial", split.Status)
	}

	if err := split.RecordSettlement(decimal.RequireFromString("30.01")); !errors.Is(err, ErrOverSettlement) {
		t.Errorf("over-settlement error = %v, want ErrOverSettlement", err)
	}

	if err := split.RecordSettlement(decimal.RequireFromString("30.00")); err != nil {
		t.Fatalf("RecordSettlement: %v", err)
	}
	if split.Status != SplitSettled {
		t.Errorf("status after full = %s, want settled", split.Status)
	}

	if exp.IsFullySettled() {
		t.Error("expense should not be fully settled while owner split is pending")
	}
	if err := exp.Splits[0].RecordSettlement(decimal.RequireFromString("50.00")); err != nil {
		t.Fatalf("RecordSettlement owner: %v", err)
	}
	if !exp.IsFullySettled() {
		t.Error("expense should be fully settled")
	}
}

func TestSettlementValidation(t *testing.T) {
	if _, err := NewSettlement("t1", "a", "a", decimal.NewFromInt(5), "USD", SettleCash); !errors.Is(err, ErrSelfSettlement) {
		t.Errorf("self settlement error = %v, want ErrSelfSettlement", err)
	}
	if _, err := NewOwnerPays("t1", "a", decimal.Zero, "USD", SettleCash); !errors.Is(err, ErrAmountNotPositive) {
		t.Errorf("zero settlement error = %v, want ErrAmountNotPositive", err)
	}

	s, err := NewOwnerReceives("t1", "a", decimal.NewFromInt(5), "USD", "")
	if err != nil {
		t.Fatalf("NewOwnerReceives: %v", err)
	}
	if s.FromContactID != "a" || s.ToContactID != "" {
		t.Errorf("owner-receives direction = %q -> %q, want a -> owner", s.FromContactID, s.ToContactID)
	}
	if s.Method != SettleCash {
		t.Errorf("default method = %s, want cash", s.Method)
	}
}

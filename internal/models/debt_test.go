package models

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestDebtPartialSettlement(t *testing.T) {
	debt, err := NewLentDebt("t1", "alice", decimal.NewFromInt(100), "USD")
	if err != nil {
		t.Fatalf("NewLentDebt: %v", err)
	}

	if err := debt.RecordSettlement(decimal.NewFromInt(40)); err != nil {
		t.Fatalf("RecordSettlement(40): %v", err)
	}
	if got := debt.RemainingAmount(); !got.Equal(decimal.NewFromInt(60)) {
		t.Errorf("remaining after partial = %s, want 60", got)
	}
	if debt.Status != DebtActive {
		t.Errorf("status after partial = %s, want active", debt.Status)
	}

	if err := debt.RecordSettlement(decimal.NewFromInt(60)); err != nil {
		t.Fatalf("RecordSettlement(60): %v", err)
	}
	if !debt.IsFullySettled() {
		t.Error("debt should be fully settled")
	}
	if debt.Status != DebtSettled {
		t.Errorf("status after full settlement = %s, want settled", debt.Status)
	}
}

func TestDebtOverSettlement(t *testing.T) {
	debt, err := NewBorrowedDebt("t1", "bob", decimal.NewFromInt(50), "USD")
	if err != nil {
		t.Fatalf("NewBorrowedDebt: %v", err)
	}
	if err := debt.RecordSettlement(decimal.NewFromInt(51)); !errors.Is(err, ErrOverSettlement) {
		t.Errorf("over-settlement error = %v, want ErrOverSettlement", err)
	}
	if !debt.RemainingAmount().Equal(decimal.NewFromInt(50)) {
		t.Error("failed settlement must not change remaining amount")
	}
}

func TestDebtSettleAfterSettledFails(t *testing.T) {
	debt, err := NewLentDebt("t1", "alice", decimal.NewFromInt(30), "USD")
	if err != nil {
		t.Fatalf("NewLentDebt: %v", err)
	}
	if err := debt.RecordSettlement(decimal.NewFromInt(30)); err != nil {
		t.Fatalf("RecordSettlement: %v", err)
	}
	if err := debt.RecordSettlement(decimal.NewFromInt(1)); err == nil {
		t.Error("settling a settled debt should fail")
	}
}

func TestDebtCancel(t *testing.T) {
	debt, err := NewLentDebt("t1", "alice", decimal.NewFromInt(10), "USD")
	if err != nil {
		t.Fatalf("NewLentDebt: %v", err)
	}
	if err := debt.Cancel(); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if err := debt.Cancel(); !errors.Is(err, ErrDebtNotActive) {
		t.Errorf("cancelling twice error = %v, want ErrDebtNotActive", err)
	}
}

func TestDebtSignedRemaining(t *testing.T) {
	lent, _ := NewLentDebt("t1", "alice", decimal.NewFromInt(25), "USD")
	borrowed, _ := NewBorrowedDebt("t1", "alice", decimal.NewFromInt(10), "USD")

	if got := lent.SignedRemaining(); !got.Equal(decimal.NewFromInt(25)) {
		t.Errorf("lent signed remaining = %s, want 25", got)
	}
	if got := borrowed.SignedRemaining(); !got.Equal(decimal.NewFromInt(-10)) {
		t.Errorf("borrowed signed remaining = %s, want -10", got)
	}
}

func TestDebtRejectsNonPositiveAmount(t *testing.T) {
	if _, err := NewLentDebt("t1", "alice", decimal.Zero, "USD"); !errors.Is(err, ErrAmountNotPositive) {
		t.Errorf("zero-amount debt error = %v, want ErrAmountNotPositive", err)
	}
}

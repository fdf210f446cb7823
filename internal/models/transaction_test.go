package models

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestTransactionSign(t *testing.T) {
	credit, err := NewCredit("t1", "acc1", decimal.NewFromInt(50), "USD", time.Time{})
	if err != nil {
		t.Fatalf("NewCredit: %v", err)
	}
	debit, err := NewDebit("t1", "acc1", decimal.NewFromInt(20), "USD", time.Time{})
	if err != nil {
		t.Fatalf("NewDebit: %v", err)
	}

	if got := credit.SignedAmount(); !got.Equal(decimal.NewFromInt(50)) {
		t.Errorf("credit signed amount = %s, want 50", got)
	}
	if got := debit.SignedAmount(); !got.Equal(decimal.NewFromInt(-20)) {
		t.Errorf("debit signed amount = %s, want -20", got)
	}
}

func TestTransactionRejectsNegativeAmount(t *testing.T) {
	if _, err := NewCredit("t1", "acc1", decimal.NewFromInt(-5), "USD", time.Time{}); !errors.Is(err, ErrAmountNegative) {
		t.Errorf("NewCredit(-5) error = %v, want ErrAmountNegative", err)
	}
	if _, err := NewDebit("t1", "acc1", decimal.NewFromInt(-5), "USD", time.Time{}); !errors.Is(err, ErrAmountNegative) {
		t.Errorf("NewDebit(-5) error = %v, want ErrAmountNegative", err)
	}
}

func TestTransactionLifecycle(t *testing.T) {
	tx, err := NewCredit("t1", "acc1", decimal.NewFromInt(10), "USD", time.Time{})
	if err != nil {
		t.Fatalf("NewCredit: %v", err)
	}
	if tx.Status != TxPending {
		t.Fatalf("new transaction status = %s, want pending", tx.Status)
	}

	if err := tx.Post(); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if tx.Status != TxPosted {
		t.Errorf("status after post = %s, want posted", tx.Status)
	}
	if err := tx.Post(); !errors.Is(err, ErrNotPending) {
		t.Errorf("double post error = %v, want ErrNotPending", err)
	}

	if err := tx.Void(); err != nil {
		t.Fatalf("Void: %v", err)
	}
	if err := tx.Void(); !errors.Is(err, ErrAlreadyVoided) {
		t.Errorf("double void error = %v, want ErrAlreadyVoided", err)
	}
	if err := tx.Post(); err == nil {
		t.Error("posting a voided transaction should fail")
	}
}

func TestAdjustmentReferencesOriginal(t *testing.T) {
	orig, err := NewDebit("t1", "acc1", decimal.RequireFromString("45.00"), "USD", time.Time{})
	if err != nil {
		t.Fatalf("NewDebit: %v", err)
	}
	if err := orig.Post(); err != nil {
		t.Fatalf("Post: %v", err)
	}

	adj, err := orig.NewAdjustment(decimal.RequireFromString("5.00"), Credit)
	if err != nil {
		t.Fatalf("NewAdjustment: %v", err)
	}
	if adj.AdjustmentForID != orig.ID {
		t.Errorf("adjustment references %q, want %q", adj.AdjustmentForID, orig.ID)
	}
	if adj.AccountID != orig.AccountID {
		t.Errorf("adjustment account = %q, want %q", adj.AccountID, orig.AccountID)
	}
	if !adj.IsAdjustment() {
		t.Error("IsAdjustment() = false, want true")
	}
	if orig.Status != TxPosted {
		t.Errorf("original status changed to %s, want posted", orig.Status)
	}
}

func TestTransferCreatesBalancedPair(t *testing.T) {
	tr, err := NewTransfer("t1", "checking", "savings", decimal.NewFromInt(200), "USD", time.Time{})
	if err != nil {
		t.Fatalf("NewTransfer: %v", err)
	}
	debit, credit, err := tr.CreateTransactions()
	if err != nil {
		t.Fatalf("CreateTransactions: %v", err)
	}
	if debit.Type != Debit || debit.AccountID != "checking" {
		t.Errorf("debit leg = %s on %s, want debit on checking", debit.Type, debit.AccountID)
	}
	if credit.Type != Credit || credit.AccountID != "savings" {
		t.Errorf("credit leg = %s on %s, want credit on savings", credit.Type, credit.AccountID)
	}
	if sum := debit.SignedAmount().Add(credit.SignedAmount()); !sum.IsZero() {
		t.Errorf("transfer legs sum to %s, want 0", sum)
	}
	if tr.FromTransactionID != debit.ID || tr.ToTransactionID != credit.ID {
		t.Error("transfer did not record transaction ids")
	}
}

func TestTransferRejectsSameAccount(t *testing.T) {
	if _, err := NewTransfer("t1", "checking", "checking", decimal.NewFromInt(10), "USD", time.Time{}); !errors.Is(err, ErrSameAccount) {
		t.Errorf("same-account transfer error = %v, want ErrSameAccount", err)
	}
}

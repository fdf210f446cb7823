// Package models defines the core domain entities for finbook.
//
// # Ledger
//
//   - Account: a financial account; its balance is never stored, always
//     derived from transactions by the calculator package.
//   - Transaction: a signed movement (credit or debit) on one account.
//     Posted transactions are immutable; corrections are new transactions
//     referencing the original via AdjustmentForID.
//   - Transfer: a linked debit/credit pair between two accounts.
//   - Asset, Liability, Loan: standalone net-worth items.
//
// # Social finance
//
//   - Contact: a person the owner tracks debts with.
//   - PeerDebt: bilateral lent/borrowed record with partial settlement.
//   - ExpenseGroup, GroupExpense, ExpenseSplit: shared costs divided
//     among participants.
//   - Settlement: a payment discharging peer debts and/or splits.
//
// # Conventions
//
// Entities are identified by UUID strings and scoped to a tenant.
// Participants are contact IDs, with the empty string standing for the
// owner everywhere (payer, split holder, settlement party). Monetary
// amounts are exact decimals paired with a currency code.
//
// Mutating methods (Post, Void, RecordSettlement, ...) validate state
// transitions but carry no locking; callers persisting entities must
// serialize read-modify-write cycles per entity at the storage boundary.
package models

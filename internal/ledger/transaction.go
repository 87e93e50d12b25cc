// Package ledger computes settlement balances for a trip's shared money.
//
// Every function in this package is pure: it reads a Roster and a list of
// transactions and returns fresh values. Nothing is cached between calls, so
// balances are always recomputed in full from the transaction list.
package ledger

import "github.com/shopspring/decimal"

// Kind discriminates the transaction variants.
type Kind string

const (
	KindExpense  Kind = "expense"
	KindIncome   Kind = "income"
	KindTransfer Kind = "transfer"
)

// Transaction is one of Expense, Income or Transfer.
type Transaction interface {
	// TxID returns the transaction identifier.
	TxID() string
	// Kind returns the variant tag.
	Kind() Kind
	// Total returns the transaction amount.
	Total() decimal.Decimal

	sealed()
}

// Split describes how an amount is distributed over beneficiaries.
// It is either EqualSplit or CustomSplit.
type Split interface {
	isSplit()
}

// EqualSplit divides the amount evenly across the beneficiary units.
type EqualSplit struct{}

// CustomSplit assigns an explicit amount to each settlement unit.
// Units missing from Amounts receive nothing.
type CustomSplit struct {
	Amounts map[string]decimal.Decimal
}

func (EqualSplit) isSplit()  {}
func (CustomSplit) isSplit() {}

// Expense is money a payer spent on behalf of beneficiaries.
type Expense struct {
	ID            string
	PaidBy        string
	Beneficiaries []string
	Split         Split
	Category      string
	Amount        decimal.Decimal
}

// Income is money a payer received that belongs to beneficiaries.
type Income struct {
	ID            string
	PaidBy        string
	Beneficiaries []string
	Split         Split
	Amount        decimal.Decimal
}

// Transfer moves money directly from one party to another.
type Transfer struct {
	ID     string
	From   string
	To     string
	Amount decimal.Decimal
}

func (e Expense) TxID() string            { return e.ID }
func (e Expense) Kind() Kind              { return KindExpense }
func (e Expense) Total() decimal.Decimal  { return e.Amount }
func (Expense) sealed()                   {}
func (i Income) TxID() string             { return i.ID }
func (i Income) Kind() Kind               { return KindIncome }
func (i Income) Total() decimal.Decimal   { return i.Amount }
func (Income) sealed()                    {}
func (t Transfer) TxID() string           { return t.ID }
func (t Transfer) Kind() Kind             { return KindTransfer }
func (t Transfer) Total() decimal.Decimal { return t.Amount }
func (Transfer) sealed()                  {}

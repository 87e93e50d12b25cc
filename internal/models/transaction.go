package models

// TransactionType discriminates how a record moves balances.
type TransactionType string

const (
	TransactionExpense  TransactionType = "expense"
	TransactionIncome   TransactionType = "income"
	TransactionTransfer TransactionType = "transfer"
)

// SplitType controls how the amount is distributed over beneficiaries.
type SplitType string

const (
	SplitEqual  SplitType = "equal"
	SplitCustom SplitType = "custom"
)

// TransactionRecord is a ledger entry as stored.
type TransactionRecord struct {
	// ID is the unique identifier (UUID format).
	ID string

	TripID string

	Type TransactionType

	// Description is the free-text label shown in lists.
	Description string

	// Amount is the decimal string as entered.
	Amount string

	// PaidBy is the payer for expense/income and the sender for transfer.
	PaidBy string

	// Beneficiaries are ordered participant or group ids.
	// A transfer has exactly one: the receiver.
	Beneficiaries []string

	SplitType SplitType

	// SplitAmounts is populated only for custom splits.
	SplitAmounts map[string]string

	// Category only applies to expenses.
	Category string

	// Date is the display date (DateLayout).
	Date string

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64
	UpdatedAt int64
}

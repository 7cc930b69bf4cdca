package models

import "github.com/shopspring/decimal"

// TransactionType distinguishes money in from money out.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// Transaction is a personal income or expense entry, visible only to its owner.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string

	// UserID is the owner.
	UserID string

	Type     TransactionType
	Category string

	// Amount is zero or positive; the type gives the direction.
	Amount decimal.Decimal

	Note string

	// Date is when the transaction happened (Unix seconds).
	Date int64

	CreatedAt int64
	UpdatedAt int64
}

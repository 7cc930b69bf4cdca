package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
)

// Expense represents a shared expense recorded in a group.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// Description is a short label (e.g., "Groceries"), at most 180 characters.
	Description string

	// Amount is the total paid, always positive.
	Amount decimal.Decimal

	// Type is one of the group's expense types.
	Type string

	// PaidBy is the payer's display name when the expense was recorded.
	PaidBy string

	// PaidByUserID is the payer's member ID. Empty on older rows, which resolve by name.
	PaidByUserID string

	// Involved lists the members splitting the expense evenly.
	// An empty list means the payer absorbs the full amount.
	Involved []InvolvedMember

	// Date is when the expense happened (Unix seconds).
	Date int64

	// Note is an optional comment, at most 240 characters.
	Note string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last change.
	UpdatedAt int64
}

// InvolvedMember references one member sharing an expense.
type InvolvedMember struct {
	UserID string
	Name   string
}

// ForCalculator converts the expense to the calculator's input form.
func (e *Expense) ForCalculator() calculator.Expense {
	involved := make([]calculator.MemberRef, len(e.Involved))
	for i, inv := range e.Involved {
		involved[i] = calculator.MemberRef{ID: inv.UserID, Name: inv.Name}
	}
	return calculator.Expense{
		Amount:     e.Amount,
		Payer:      calculator.MemberRef{ID: e.PaidByUserID, Name: e.PaidBy},
		Involved:   involved,
		OccurredAt: time.Unix(e.Date, 0),
	}
}

// CalculatorExpenses converts a list of expenses for the calculator.
func CalculatorExpenses(expenses []*Expense) []calculator.Expense {
	out := make([]calculator.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = e.ForCalculator()
	}
	return out
}

package api

// Amounts on the wire are decimal strings ("12.50") to keep them exact.

// Expense is a shared expense within a group.
type Expense struct {
	ID           string           `json:"id"`
	GroupID      string           `json:"groupId"`
	Description  string           `json:"description"`
	Amount       string           `json:"amount"`
	Type         string           `json:"type"`
	PaidBy       string           `json:"paidBy"`
	PaidByUserID string           `json:"paidByUserId"`
	Involved     []InvolvedMember `json:"involved"`
	Date         int64            `json:"date"`
	Note         string           `json:"note,omitempty"`
	CreatedAt    int64            `json:"createdAt"`
}

// InvolvedMember references one member sharing an expense.
type InvolvedMember struct {
	UserID string `json:"userId"`
	Name   string `json:"name" validate:"required"`
}

type CreateExpenseRequest struct {
	GroupID      string           `json:"groupId" validate:"required"`
	Description  string           `json:"description" validate:"required,max=180"`
	Amount       string           `json:"amount" validate:"required,money"`
	Type         string           `json:"type" validate:"required"`
	PaidBy       string           `json:"paidBy" validate:"required"`
	PaidByUserID string           `json:"paidByUserId,omitempty"`
	Involved     []InvolvedMember `json:"involved" validate:"dive"`
	// Date is Unix seconds; zero means now.
	Date int64  `json:"date,omitempty" validate:"gte=0"`
	Note string `json:"note,omitempty" validate:"max=240"`
}

type CreateExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type ListExpensesRequest struct {
	GroupID string `json:"groupId" validate:"required"`
}

type ListExpensesResponse struct {
	Expenses []Expense `json:"expenses"`
}

// MemberBalance is one member's net position. Positive means the group owes them.
type MemberBalance struct {
	MemberID string `json:"memberId"`
	Name     string `json:"name"`
	Net      string `json:"net"`
}

// Transfer is one payment in the simplified group plan.
type Transfer struct {
	FromID   string `json:"fromId"`
	FromName string `json:"fromName"`
	ToID     string `json:"toId"`
	ToName   string `json:"toName"`
	Amount   string `json:"amount"`
}

type GetBalancesRequest struct {
	GroupID string `json:"groupId" validate:"required"`
}

type GetBalancesResponse struct {
	Currency  string          `json:"currency"`
	Balances  []MemberBalance `json:"balances"`
	TotalOwe  string          `json:"totalOwe"`
	TotalOwed string          `json:"totalOwed"`
	Transfers []Transfer      `json:"transfers"`
	// UnresolvedRefs counts expense references that matched no current member.
	UnresolvedRefs int `json:"unresolvedRefs"`
}

// Settlement is one line of the caller's settle-up view.
// Direction is "owes" (caller pays) or "owed" (caller receives).
type Settlement struct {
	CounterpartyID   string `json:"counterpartyId"`
	CounterpartyName string `json:"counterpartyName"`
	Amount           string `json:"amount"`
	Direction        string `json:"direction"`
}

type GetMySettlementsRequest struct {
	GroupID string `json:"groupId" validate:"required"`
}

type GetMySettlementsResponse struct {
	Currency    string       `json:"currency"`
	Net         string       `json:"net"`
	Settlements []Settlement `json:"settlements"`
}

// ExpenseDelta is the effect of one expense on the caller's net.
type ExpenseDelta struct {
	ExpenseID string `json:"expenseId"`
	Delta     string `json:"delta"`
}

type GetSpendingSummaryRequest struct {
	GroupID string `json:"groupId" validate:"required"`
}

type GetSpendingSummaryResponse struct {
	Currency   string         `json:"currency"`
	WeekTotal  string         `json:"weekTotal"`
	MonthTotal string         `json:"monthTotal"`
	Deltas     []ExpenseDelta `json:"deltas"`
}

// GroupSummary is one row of the dashboard.
type GroupSummary struct {
	GroupID  string `json:"groupId"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
	Net      string `json:"net"`
}

type GetDashboardRequest struct{}

// GetDashboardResponse totals are plain sums across groups; currencies are not converted.
type GetDashboardResponse struct {
	Groups    []GroupSummary `json:"groups"`
	TotalOwe  string         `json:"totalOwe"`
	TotalOwed string         `json:"totalOwed"`
}

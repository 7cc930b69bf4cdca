package api

// Group is a shared-expense group with its members in join order.
type Group struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	InviteCode    string   `json:"inviteCode"`
	CreatedByID   string   `json:"createdById"`
	CreatedByName string   `json:"createdByName"`
	ExpenseTypes  []string `json:"expenseTypes"`
	Members       []Member `json:"members"`
	Currency      string   `json:"currency"`
	CreatedAt     int64    `json:"createdAt"`
}

// Member is one person in a group. Role is "admin" or "member".
type Member struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type CreateGroupRequest struct {
	Name string `json:"name" validate:"required,max=80"`
}

type CreateGroupResponse struct {
	Group Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"groupId" validate:"required"`
}

type GetGroupResponse struct {
	Group Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []Group `json:"groups"`
}

// JoinGroupRequest joins by invite code. MemberName defaults to the caller's display name.
type JoinGroupRequest struct {
	InviteCode string `json:"inviteCode" validate:"required,len=10,hexadecimal"`
	MemberName string `json:"memberName,omitempty" validate:"max=60"`
}

type JoinGroupResponse struct {
	Group Group `json:"group"`
	// AlreadyMember is true when the call matched an existing member and changed nothing.
	AlreadyMember bool `json:"alreadyMember"`
}

type UpdateCurrencyRequest struct {
	GroupID  string `json:"groupId" validate:"required"`
	Currency string `json:"currency" validate:"required,len=3,alpha"`
}

type UpdateCurrencyResponse struct {
	Group Group `json:"group"`
}

type AddExpenseTypeRequest struct {
	GroupID     string `json:"groupId" validate:"required"`
	ExpenseType string `json:"expenseType" validate:"required,max=40"`
}

type AddExpenseTypeResponse struct {
	Group Group `json:"group"`
}

type RemoveMemberRequest struct {
	GroupID  string `json:"groupId" validate:"required"`
	MemberID string `json:"memberId" validate:"required"`
}

type RemoveMemberResponse struct {
	Group Group `json:"group"`
	// UnsettledBalance is the removed member's net at removal time, display-rounded.
	UnsettledBalance string `json:"unsettledBalance"`
}

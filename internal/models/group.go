package models

import (
	"strings"

	"github.com/mmynk/splitledger/internal/calculator"
)

// Role is a member's permission level within a group.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// DefaultExpenseTypes are the expense types every new group starts with.
var DefaultExpenseTypes = []string{"Food", "Housing", "Transport", "Health", "Entertainment", "Other"}

// Group represents a set of people sharing expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Trip").
	Name string

	// InviteCode is the 10 hex character code used to join the group.
	InviteCode string

	// CreatedByID is the user ID of the creator, who is the group admin.
	CreatedByID string

	// CreatedByName is the creator's display name at creation time.
	CreatedByName string

	// ExpenseTypes are the allowed expense categories, in insertion order.
	ExpenseTypes []string

	// Members in join order. Balance and settlement order follow this order.
	Members []Member

	// Currency is the ISO 4217 code amounts are displayed in.
	Currency string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last change.
	UpdatedAt int64
}

// Member is one person in a group.
type Member struct {
	// ID is the stable member identifier; the user ID for account-backed members.
	ID string

	// Name is the member's display name.
	Name string

	// Role is admin for the creator, member otherwise.
	Role Role
}

// FindMember returns the member with the given ID.
func (g *Group) FindMember(id string) (Member, bool) {
	for _, m := range g.Members {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}

// FindMemberByName returns the first member whose name matches, ignoring case.
func (g *Group) FindMemberByName(name string) (Member, bool) {
	for _, m := range g.Members {
		if strings.EqualFold(m.Name, strings.TrimSpace(name)) {
			return m, true
		}
	}
	return Member{}, false
}

// IsMember reports whether the user belongs to the group.
func (g *Group) IsMember(userID string) bool {
	_, ok := g.FindMember(userID)
	return ok
}

// IsAdmin reports whether the user administers the group.
func (g *Group) IsAdmin(userID string) bool {
	m, ok := g.FindMember(userID)
	if ok && m.Role == RoleAdmin {
		return true
	}
	return g.CreatedByID == userID
}

// HasExpenseType reports whether the type is allowed, ignoring case and surrounding spaces.
func (g *Group) HasExpenseType(expenseType string) bool {
	expenseType = strings.TrimSpace(expenseType)
	for _, t := range g.ExpenseTypes {
		if strings.EqualFold(t, expenseType) {
			return true
		}
	}
	return false
}

// CalculatorMembers converts members to the calculator's input form.
func (g *Group) CalculatorMembers() []calculator.Member {
	members := make([]calculator.Member, len(g.Members))
	for i, m := range g.Members {
		members[i] = calculator.Member{ID: m.ID, DisplayName: m.Name}
	}
	return members
}

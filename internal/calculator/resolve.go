package calculator

// RefRole says where on an expense a member reference appeared.
type RefRole string

const (
	RolePayer    RefRole = "payer"
	RoleInvolved RefRole = "involved"
)

// MemberRef is a member reference as stored on an expense.
// Older records only carry the display name, so either field may be empty.
type MemberRef struct {
	ID   string
	Name string
}

// UnresolvedRef records a reference that matched no current member and was dropped.
type UnresolvedRef struct {
	ExpenseIndex int
	Role         RefRole
	Ref          MemberRef
}

// ResolveMemberRef maps a reference to a current member ID.
//
// A reference carrying an ID resolves only by exact ID match. A stored ID that
// no longer matches means the member left, and a later member who took the same
// name must not inherit their expenses. Name-only references (older records)
// resolve by exact, case-sensitive display name, first in member order.
// Anything else is unresolved and reported with ok == false.
func ResolveMemberRef(ref MemberRef, members []Member) (id string, ok bool) {
	if ref.ID != "" {
		for _, m := range members {
			if m.ID == ref.ID {
				return m.ID, true
			}
		}
		return "", false
	}
	if ref.Name != "" {
		for _, m := range members {
			if m.DisplayName == ref.Name {
				return m.ID, true
			}
		}
	}
	return "", false
}

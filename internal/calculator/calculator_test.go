package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}

func members(ids ...string) []Member {
	out := make([]Member, len(ids))
	for i, id := range ids {
		out[i] = Member{ID: id, DisplayName: "name-" + id}
	}
	return out
}

func byID(ids ...string) []MemberRef {
	out := make([]MemberRef, len(ids))
	for i, id := range ids {
		out[i] = MemberRef{ID: id}
	}
	return out
}

func expense(amount string, payer string, involved ...string) Expense {
	return Expense{
		Amount:   dec(amount),
		Payer:    MemberRef{ID: payer},
		Involved: byID(involved...),
	}
}

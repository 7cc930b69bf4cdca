package calculator

import (
	"github.com/shopspring/decimal"
)

// ExpenseDelta returns how a single expense moves one member's balance.
// The payer gains the amount minus their own shares; an involved non-payer loses
// their shares; anyone else is unaffected. A member listed more than once is
// debited once per listing. Summed over all expenses it equals the member's net
// from ComputeBalances.
func ExpenseDelta(e Expense, memberID string, members []Member) decimal.Decimal {
	split := resolveSplit(e, members, nil)
	debit, involved := split.debitOf(memberID)

	if split.payerOK && split.payerID == memberID {
		if involved {
			return e.Amount.Sub(debit)
		}
		return e.Amount
	}
	if involved {
		return debit.Neg()
	}
	return decimal.Zero
}

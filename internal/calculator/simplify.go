package calculator

import "github.com/shopspring/decimal"

// Transfer is one payment in a group-wide settlement plan.
type Transfer struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount decimal.Decimal
}

// SimplifyDebts produces a group-wide settlement plan (min cash flow).
//
// Each round pairs the largest creditor with the largest debtor and moves the
// smaller of the two magnitudes, which settles at least one of them. That bounds
// the plan at n-1 transfers. Ties go to the member that comes first in the
// balance order. This is independent of ComputeSettlementsFor.
func SimplifyDebts(b *Balances) []Transfer {
	entries := b.Entries()
	remaining := make([]decimal.Decimal, len(entries))
	for i, e := range entries {
		remaining[i] = e.Net
	}

	transfers := []Transfer{}
	for {
		creditor, debtor := -1, -1
		for i, amount := range remaining {
			if amount.IsPositive() && (creditor < 0 || amount.GreaterThan(remaining[creditor])) {
				creditor = i
			}
			if amount.IsNegative() && (debtor < 0 || amount.LessThan(remaining[debtor])) {
				debtor = i
			}
		}
		if creditor < 0 || debtor < 0 {
			return transfers
		}

		amount := decimal.Min(remaining[creditor], remaining[debtor].Neg())
		transfers = append(transfers, Transfer{
			From:   entries[debtor].MemberID,
			To:     entries[creditor].MemberID,
			Amount: amount,
		})
		remaining[creditor] = remaining[creditor].Sub(amount)
		remaining[debtor] = remaining[debtor].Add(amount)
	}
}

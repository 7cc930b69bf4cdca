package calculator

import (
	"github.com/shopspring/decimal"
)

// Share computes one participant's even portion of an amount.
// Returns zero when there are no participants, so the amount is attributed to nobody.
// The division runs at decimal.DivisionPrecision and is never rounded here;
// callers round only when formatting for display.
func Share(amount decimal.Decimal, participants int) decimal.Decimal {
	if participants <= 0 {
		return decimal.Zero
	}
	return amount.Div(decimal.NewFromInt(int64(participants)))
}

// SplitShares divides amount among participants so the shares sum to amount exactly.
// Every share is Share(amount, participants) except the first, which also carries
// the division residue (at most a unit in the last place of DivisionPrecision).
func SplitShares(amount decimal.Decimal, participants int) []decimal.Decimal {
	if participants <= 0 {
		return nil
	}
	share := Share(amount, participants)
	shares := make([]decimal.Decimal, participants)
	for i := range shares {
		shares[i] = share
	}
	residue := amount.Sub(share.Mul(decimal.NewFromInt(int64(participants))))
	shares[0] = share.Add(residue)
	return shares
}

// resolvedSplit is an expense with its references resolved against the current member list.
// shares[i] is the debit for involved[i]; a member listed twice is debited twice.
type resolvedSplit struct {
	payerID  string
	payerOK  bool
	involved []string
	shares   []decimal.Decimal
}

// debitOf returns the total debited to one member across all their occurrences.
func (rs resolvedSplit) debitOf(memberID string) (decimal.Decimal, bool) {
	total, found := decimal.Zero, false
	for i, id := range rs.involved {
		if id == memberID {
			total = total.Add(rs.shares[i])
			found = true
		}
	}
	return total, found
}

// resolveSplit resolves payer and involved references and computes each involved share.
// Unresolved references are passed to drop (which may be nil) and excluded from the split.
func resolveSplit(e Expense, members []Member, drop func(RefRole, MemberRef)) resolvedSplit {
	var rs resolvedSplit

	rs.payerID, rs.payerOK = ResolveMemberRef(e.Payer, members)
	if !rs.payerOK && drop != nil {
		drop(RolePayer, e.Payer)
	}

	rs.involved = make([]string, 0, len(e.Involved))
	for _, ref := range e.Involved {
		id, ok := ResolveMemberRef(ref, members)
		if !ok {
			if drop != nil {
				drop(RoleInvolved, ref)
			}
			continue
		}
		rs.involved = append(rs.involved, id)
	}

	rs.shares = SplitShares(e.Amount, len(rs.involved))
	return rs
}

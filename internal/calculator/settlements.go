package calculator

import "github.com/shopspring/decimal"

// Direction is the focal member's side of a settlement entry.
type Direction string

const (
	DirectionOwes Direction = "owes" // focal member pays the counterparty
	DirectionOwed Direction = "owed" // counterparty pays the focal member
)

// SettlementEntry is one transfer between the focal member and a counterparty.
type SettlementEntry struct {
	CounterpartyID string
	Amount         decimal.Decimal
	Direction      Direction
}

// ComputeSettlementsFor lists the transfers that zero out one member's balance.
//
// A net debtor is matched greedily against creditors, a net creditor against
// debtors, each time taking min(remaining, counterparty magnitude). Counterparties
// are visited in balance insertion order, not by size, so the entry count is not
// guaranteed minimal. Entries for counterparties missing from members are dropped
// at the end, which can leave the total below |net| (removed members).
func ComputeSettlementsFor(b *Balances, focal string, members []Member) []SettlementEntry {
	focalNet := b.Net(focal)
	if focalNet.IsZero() {
		return []SettlementEntry{}
	}

	var creditors, debtors []MemberBalance
	for _, e := range b.Entries() {
		if e.MemberID == focal {
			continue
		}
		if e.Net.IsPositive() {
			creditors = append(creditors, e)
		} else if e.Net.IsNegative() {
			debtors = append(debtors, MemberBalance{MemberID: e.MemberID, Net: e.Net.Abs()})
		}
	}

	counterparties, direction := creditors, DirectionOwes
	if focalNet.IsPositive() {
		counterparties, direction = debtors, DirectionOwed
	}

	remaining := focalNet.Abs()
	entries := make([]SettlementEntry, 0, len(counterparties))
	for _, c := range counterparties {
		if !remaining.IsPositive() {
			break
		}
		amount := decimal.Min(remaining, c.Net)
		if amount.IsPositive() {
			entries = append(entries, SettlementEntry{
				CounterpartyID: c.MemberID,
				Amount:         amount,
				Direction:      direction,
			})
			remaining = remaining.Sub(amount)
		}
	}

	return filterToMembers(entries, members)
}

func filterToMembers(entries []SettlementEntry, members []Member) []SettlementEntry {
	memberIDs := make(map[string]struct{}, len(members))
	for _, m := range members {
		memberIDs[m.ID] = struct{}{}
	}
	kept := entries[:0]
	for _, e := range entries {
		if _, ok := memberIDs[e.CounterpartyID]; ok {
			kept = append(kept, e)
		}
	}
	return kept
}

package calculator

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

// Member represents one group member for balance calculations.
type Member struct {
	ID          string
	DisplayName string
}

// Expense represents an expense with the minimal information needed for balance calculations.
type Expense struct {
	Amount     decimal.Decimal
	Payer      MemberRef
	Involved   []MemberRef
	OccurredAt time.Time
}

// MemberBalance is one member's net position.
type MemberBalance struct {
	MemberID string
	Net      decimal.Decimal // Positive = owed money, Negative = owes money
}

// Balances maps member IDs to net balances, remembering insertion order.
// Settlement walks depend on that order, so it is part of the contract.
type Balances struct {
	order      []string
	net        map[string]decimal.Decimal
	unresolved []UnresolvedRef
}

func newBalances(capacity int) *Balances {
	return &Balances{
		order: make([]string, 0, capacity),
		net:   make(map[string]decimal.Decimal, capacity),
	}
}

// BalancesFrom builds Balances from explicit entries, keeping their order.
// Repeated IDs are summed into the first occurrence.
func BalancesFrom(entries ...MemberBalance) *Balances {
	b := newBalances(len(entries))
	for _, e := range entries {
		b.ensure(e.MemberID)
		b.add(e.MemberID, e.Net)
	}
	return b
}

func (b *Balances) ensure(id string) {
	if _, exists := b.net[id]; !exists {
		b.net[id] = decimal.Zero
		b.order = append(b.order, id)
	}
}

func (b *Balances) add(id string, delta decimal.Decimal) {
	b.net[id] = b.net[id].Add(delta)
}

// Net returns the member's net balance, or zero for unknown members.
func (b *Balances) Net(id string) decimal.Decimal {
	if b == nil {
		return decimal.Zero
	}
	return b.net[id]
}

// Has reports whether the member has an entry.
func (b *Balances) Has(id string) bool {
	if b == nil {
		return false
	}
	_, ok := b.net[id]
	return ok
}

// Len returns the number of entries.
func (b *Balances) Len() int {
	if b == nil {
		return 0
	}
	return len(b.order)
}

// IDs returns member IDs in insertion order.
func (b *Balances) IDs() []string {
	if b == nil {
		return nil
	}
	ids := make([]string, len(b.order))
	copy(ids, b.order)
	return ids
}

// Entries returns all balances in insertion order.
func (b *Balances) Entries() []MemberBalance {
	if b == nil {
		return nil
	}
	entries := make([]MemberBalance, 0, len(b.order))
	for _, id := range b.order {
		entries = append(entries, MemberBalance{MemberID: id, Net: b.net[id]})
	}
	return entries
}

// Sum returns the sum of all net balances. It is zero whenever no reference
// was dropped and every expense had at least one resolved involved member.
func (b *Balances) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, e := range b.Entries() {
		sum = sum.Add(e.Net)
	}
	return sum
}

// TotalOwe is the sum of all negative balances, as a positive amount.
func (b *Balances) TotalOwe() decimal.Decimal {
	total := decimal.Zero
	for _, e := range b.Entries() {
		if e.Net.IsNegative() {
			total = total.Add(e.Net.Abs())
		}
	}
	return total
}

// TotalOwed is the sum of all positive balances.
func (b *Balances) TotalOwed() decimal.Decimal {
	total := decimal.Zero
	for _, e := range b.Entries() {
		if e.Net.IsPositive() {
			total = total.Add(e.Net)
		}
	}
	return total
}

// Unresolved returns the references dropped while computing the balances.
func (b *Balances) Unresolved() []UnresolvedRef {
	if b == nil {
		return nil
	}
	return b.unresolved
}

// ComputeBalances folds expenses into a net balance per member.
//
// Algorithm:
//   - Every member starts at zero, in member order
//   - The resolved payer is credited the full amount
//   - Each resolved involved member is debited amount / len(resolved involved);
//     the first also absorbs the division residue so the debits sum to amount
//   - An expense with no resolved involved members only credits the payer
//
// References that match no current member are dropped, logged and recorded
// in Balances.Unresolved. The function never fails and has no side effects
// on its inputs.
func ComputeBalances(expenses []Expense, members []Member) *Balances {
	b := newBalances(len(members))
	for _, m := range members {
		b.ensure(m.ID)
	}

	for i, e := range expenses {
		split := resolveSplit(e, members, func(role RefRole, ref MemberRef) {
			slog.Warn("Dropping unresolved member reference",
				"expense_index", i,
				"role", string(role),
				"ref_id", ref.ID,
				"ref_name", ref.Name,
			)
			b.unresolved = append(b.unresolved, UnresolvedRef{ExpenseIndex: i, Role: role, Ref: ref})
		})

		if split.payerOK {
			b.add(split.payerID, e.Amount)
		}
		for i, id := range split.involved {
			b.add(id, split.shares[i].Neg())
		}
	}

	return b
}

package model

import "github.com/shopspring/decimal"

// Delta is the signed per-participant change produced by one bill.
type Delta [NumParticipants]decimal.Decimal

// Neg returns the exact negation of d.
func (d Delta) Neg() Delta {
	var out Delta
	for i := range d {
		out[i] = d[i].Neg()
	}
	return out
}

// Sum totals the delta. Split engine output always sums to zero.
func (d Delta) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, v := range d {
		total = total.Add(v)
	}
	return total
}

// Get returns the change for p.
func (d Delta) Get(p Participant) decimal.Decimal {
	return d[p]
}

// Balances holds each participant's running amount owed to the group.
// Positive means the participant owes; negative means they are owed.
type Balances [NumParticipants]decimal.Decimal

// ZeroBalances returns balances with every participant at 0.00.
func ZeroBalances() Balances {
	var b Balances
	for i := range b {
		b[i] = decimal.Zero
	}
	return b
}

// Get returns p's balance.
func (b Balances) Get(p Participant) decimal.Decimal {
	return b[p]
}

// Apply returns b with d added.
func (b Balances) Apply(d Delta) Balances {
	out := b
	for i := range out {
		out[i] = out[i].Add(d[i])
	}
	return out
}

// Sum totals all balances.
func (b Balances) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, v := range b {
		total = total.Add(v)
	}
	return total
}

// IsZero reports whether every balance is exactly zero.
func (b Balances) IsZero() bool {
	for _, v := range b {
		if !v.IsZero() {
			return false
		}
	}
	return true
}

// Equal compares balances by value, ignoring decimal exponent.
func (b Balances) Equal(other Balances) bool {
	for i := range b {
		if !b[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

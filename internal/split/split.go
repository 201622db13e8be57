// Package split computes how a bill moves money between the household's
// running balances.
//
// Every non-payer share is rounded to cents half-up and the payer's delta is
// the exact negative sum of those rounded shares, so a computed Delta always
// sums to zero and negating it reverses it exactly.
package split

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/billcollector-dev/billcollector/internal/model"
	"github.com/billcollector-dev/billcollector/internal/money"
)

// ErrUnknownParticipant is returned for a payer outside the household.
var ErrUnknownParticipant = errors.New("unknown participant")

var (
	three = decimal.NewFromInt(3)

	rentWeights = [model.NumParticipants]decimal.Decimal{
		model.Armando: decimal.RequireFromString("0.35"),
		model.David:   decimal.RequireFromString("0.32"),
		model.Noah:    decimal.RequireFromString("0.32"),
	}
)

// Weight returns p's fixed share of a rent bill.
func Weight(p model.Participant) decimal.Decimal {
	return rentWeights[p]
}

// Compute returns the balance change for a bill.
func Compute(name string, amount decimal.Decimal, payer model.Participant) (model.Delta, error) {
	return ForBill(model.Bill{Name: name, Amount: amount, Payer: payer})
}

// ForBill returns the balance change for a stored bill. Reversing the bill
// is ForBill(b).Neg().
func ForBill(b model.Bill) (model.Delta, error) {
	if !b.Payer.Valid() {
		return model.Delta{}, fmt.Errorf("%w: %v", ErrUnknownParticipant, b.Payer)
	}
	if !b.Amount.IsPositive() || !money.IsCents(b.Amount) {
		return model.Delta{}, fmt.Errorf("%w: %s", money.ErrInvalidAmount, b.Amount.String())
	}

	var d model.Delta
	payerTotal := decimal.Zero
	for _, p := range model.Participants {
		if p == b.Payer {
			continue
		}
		share := money.Round(shareOf(b, p))
		d[p] = share
		payerTotal = payerTotal.Add(share)
	}
	d[b.Payer] = payerTotal.Neg()
	return d, nil
}

func shareOf(b model.Bill, p model.Participant) decimal.Decimal {
	if b.IsRent() {
		return b.Amount.Mul(rentWeights[p])
	}
	return b.Amount.Div(three)
}

// Recompute derives balances from scratch as the sum of every unpaid bill's
// delta. Paid bills contribute nothing.
func Recompute(bills []model.Bill) (model.Balances, error) {
	balances := model.ZeroBalances()
	for _, b := range bills {
		if b.Paid {
			continue
		}
		d, err := ForBill(b)
		if err != nil {
			return model.Balances{}, fmt.Errorf("bill %d: %w", b.ID, err)
		}
		balances = balances.Apply(d)
	}
	return balances, nil
}

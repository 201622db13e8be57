// Package ledger records household bills and keeps each participant's running
// balance in step with them.
//
// The Service owns the in-memory Balances. Every mutating call computes the
// next balances from a copy, writes the bill change and the new balances in
// one storage transaction, and only then adopts the new state. A failed call
// leaves both the database and the Service unchanged.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/billcollector-dev/billcollector/internal/model"
	"github.com/billcollector-dev/billcollector/internal/money"
	"github.com/billcollector-dev/billcollector/internal/split"
	"github.com/billcollector-dev/billcollector/internal/storage"
)

// Options tunes ledger behavior.
type Options struct {
	// ReverseOnDelete reverses an unpaid bill's split when it is deleted.
	// When false, deleting leaves balances untouched.
	ReverseOnDelete bool

	// Now stamps new bills. Defaults to time.Now.
	Now func() time.Time
}

// Service provides the ledger operations.
type Service struct {
	store    storage.Store
	opts     Options
	balances model.Balances
}

// Open loads the persisted balances and returns a ready Service.
func Open(ctx context.Context, store storage.Store, opts Options) (*Service, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	balances, err := store.LoadBalances(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading balances: %w", err)
	}
	if !balances.Sum().IsZero() {
		slog.WarnContext(ctx, "Persisted balances do not sum to zero", "sum", balances.Sum().StringFixed(2))
	}
	return &Service{store: store, opts: opts, balances: balances}, nil
}

// Balances returns a snapshot of the current balances.
func (s *Service) Balances() model.Balances {
	return s.balances
}

// ListBills returns every bill, paid or not, in creation order.
func (s *Service) ListBills(ctx context.Context) ([]model.Bill, error) {
	bills, err := s.store.ListBills(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing bills: %w", err)
	}
	return bills, nil
}

// GetBill returns a single bill.
func (s *Service) GetBill(ctx context.Context, id int64) (model.Bill, error) {
	b, err := s.store.GetBill(ctx, id)
	if err != nil {
		return model.Bill{}, translate(err, id)
	}
	return b, nil
}

// CreateBill validates the submitted form values, splits the bill and
// stores it together with the updated balances.
func (s *Service) CreateBill(ctx context.Context, name, rawAmount, payer string) (model.Bill, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return model.Bill{}, &FieldError{Field: "name"}
	case strings.TrimSpace(rawAmount) == "":
		return model.Bill{}, &FieldError{Field: "amount"}
	case strings.TrimSpace(payer) == "":
		return model.Bill{}, &FieldError{Field: "payer"}
	}

	amount, err := money.ParseAmount(rawAmount)
	if err != nil {
		return model.Bill{}, err
	}
	p, err := model.ParseParticipant(payer)
	if err != nil {
		return model.Bill{}, fmt.Errorf("%w: %q", ErrUnknownParticipant, payer)
	}

	bill := model.Bill{
		Name:      name,
		Amount:    amount,
		Payer:     p,
		CreatedAt: s.opts.Now(),
	}
	delta, err := split.ForBill(bill)
	if err != nil {
		return model.Bill{}, err
	}
	next := s.balances.Apply(delta)

	err = s.store.WithTx(ctx, func(tx storage.Tx) error {
		if err := tx.InsertBill(&bill); err != nil {
			return err
		}
		return tx.SaveBalances(next)
	})
	if err != nil {
		return model.Bill{}, fmt.Errorf("creating bill: %w", err)
	}
	s.balances = next

	slog.InfoContext(ctx, "Bill created",
		"id", bill.ID,
		"name", bill.Name,
		"amount", bill.Amount.StringFixed(2),
		"payer", bill.Payer.String(),
		"rent", bill.IsRent())
	return bill, nil
}

// MarkPaid settles a bill: its split is reversed and it stops affecting
// balances. Marking an already-paid bill returns ErrNotFound and changes
// nothing. Once no unpaid bills remain, balances are forced back to zero.
func (s *Service) MarkPaid(ctx context.Context, id int64) (model.Bill, error) {
	var (
		bill model.Bill
		next model.Balances
	)
	err := s.store.WithTx(ctx, func(tx storage.Tx) error {
		b, err := tx.GetBill(id)
		if err != nil {
			return err
		}
		if b.Paid {
			return fmt.Errorf("%w: bill %d is already paid", ErrNotFound, id)
		}

		delta, err := split.ForBill(b)
		if err != nil {
			return err
		}
		next = s.balances.Apply(delta.Neg())

		if err := tx.SetPaid(id); err != nil {
			return err
		}

		unpaid, err := tx.CountUnpaid()
		if err != nil {
			return err
		}
		if unpaid == 0 {
			if !next.IsZero() {
				slog.WarnContext(ctx, "Balances left over with no unpaid bills; resetting",
					"armando", next.Get(model.Armando).StringFixed(2),
					"david", next.Get(model.David).StringFixed(2),
					"noah", next.Get(model.Noah).StringFixed(2))
			}
			next = model.ZeroBalances()
		}

		if err := tx.SaveBalances(next); err != nil {
			return err
		}
		b.Paid = true
		bill = b
		return nil
	})
	if err != nil {
		return model.Bill{}, translate(err, id)
	}
	s.balances = next

	slog.InfoContext(ctx, "Bill marked paid", "id", bill.ID, "name", bill.Name)
	return bill, nil
}

// DeleteBill removes a bill in either state. Balances are only adjusted when
// Options.ReverseOnDelete is set and the bill was still unpaid.
func (s *Service) DeleteBill(ctx context.Context, id int64) (model.Bill, error) {
	var (
		bill     model.Bill
		next     = s.balances
		reversed bool
	)
	err := s.store.WithTx(ctx, func(tx storage.Tx) error {
		b, err := tx.GetBill(id)
		if err != nil {
			return err
		}
		if err := tx.DeleteBill(id); err != nil {
			return err
		}
		bill = b

		if !s.opts.ReverseOnDelete || b.Paid {
			return nil
		}
		delta, err := split.ForBill(b)
		if err != nil {
			return err
		}
		next = s.balances.Apply(delta.Neg())
		reversed = true
		return tx.SaveBalances(next)
	})
	if err != nil {
		return model.Bill{}, translate(err, id)
	}
	s.balances = next

	slog.InfoContext(ctx, "Bill deleted", "id", bill.ID, "name", bill.Name, "paid", bill.Paid, "reversed", reversed)
	return bill, nil
}

// ResetBalances forces every balance to zero and persists it.
func (s *Service) ResetBalances(ctx context.Context) error {
	zero := model.ZeroBalances()
	err := s.store.WithTx(ctx, func(tx storage.Tx) error {
		return tx.SaveBalances(zero)
	})
	if err != nil {
		return fmt.Errorf("resetting balances: %w", err)
	}
	s.balances = zero

	slog.InfoContext(ctx, "Balances reset")
	return nil
}

func translate(err error, id int64) error {
	if errors.Is(err, storage.ErrBillNotFound) {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return err
}

package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/billcollector-dev/billcollector/internal/model"
	"github.com/billcollector-dev/billcollector/internal/split"
	"github.com/billcollector-dev/billcollector/internal/storage"
)

// CheckKind identifies which consistency rule a Discrepancy broke.
type CheckKind string

const (
	// CheckZeroSum: balances must add up to exactly zero.
	CheckZeroSum CheckKind = "zero-sum"
	// CheckPersisted: the balances table must match the in-memory state.
	CheckPersisted CheckKind = "persisted"
	// CheckRecomputed: balances must equal the sum of unpaid bills' splits.
	CheckRecomputed CheckKind = "recomputed"
)

// Discrepancy describes a single consistency violation.
type Discrepancy struct {
	Kind        CheckKind
	Participant string // empty for ledger-wide checks
	Description string
}

func (d Discrepancy) Error() string {
	if d.Participant == "" {
		return fmt.Sprintf("%s: %s", d.Kind, d.Description)
	}
	return fmt.Sprintf("%s [%s]: %s", d.Kind, d.Participant, d.Description)
}

// Check compares the live balances against the balances table and against a
// from-scratch recomputation over the unpaid bills. Deleting an unpaid bill
// without ReverseOnDelete is the usual cause of a recomputed mismatch.
func (s *Service) Check(ctx context.Context) ([]Discrepancy, error) {
	var out []Discrepancy

	if sum := s.balances.Sum(); !sum.IsZero() {
		out = append(out, Discrepancy{
			Kind:        CheckZeroSum,
			Description: fmt.Sprintf("balances sum to %s", sum.StringFixed(2)),
		})
	}

	persisted, err := s.store.LoadBalances(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading balances: %w", err)
	}
	out = append(out, compare(CheckPersisted, s.balances, persisted)...)

	bills, err := s.store.ListBills(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing bills: %w", err)
	}
	recomputed, err := split.Recompute(bills)
	if err != nil {
		return nil, fmt.Errorf("recomputing balances: %w", err)
	}
	out = append(out, compare(CheckRecomputed, s.balances, recomputed)...)

	return out, nil
}

// Rebuild replaces the balances with the recomputation over unpaid bills.
func (s *Service) Rebuild(ctx context.Context) (model.Balances, error) {
	var next model.Balances
	err := s.store.WithTx(ctx, func(tx storage.Tx) error {
		bills, err := tx.ListBills()
		if err != nil {
			return err
		}
		next, err = split.Recompute(bills)
		if err != nil {
			return err
		}
		return tx.SaveBalances(next)
	})
	if err != nil {
		return model.Balances{}, fmt.Errorf("rebuilding balances: %w", err)
	}

	if !next.Equal(s.balances) {
		slog.InfoContext(ctx, "Balances rebuilt from unpaid bills",
			"armando", next.Get(model.Armando).StringFixed(2),
			"david", next.Get(model.David).StringFixed(2),
			"noah", next.Get(model.Noah).StringFixed(2))
	}
	s.balances = next
	return next, nil
}

func compare(kind CheckKind, have, want model.Balances) []Discrepancy {
	var out []Discrepancy
	for _, p := range model.Participants {
		if have.Get(p).Equal(want.Get(p)) {
			continue
		}
		out = append(out, Discrepancy{
			Kind:        kind,
			Participant: p.String(),
			Description: fmt.Sprintf("balance %s, expected %s", have.Get(p).StringFixed(2), want.Get(p).StringFixed(2)),
		})
	}
	return out
}

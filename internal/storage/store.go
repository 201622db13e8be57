// Package storage defines the durable ledger state: bill rows and the
// per-participant balances table.
package storage

import (
	"context"
	"errors"

	"github.com/billcollector-dev/billcollector/internal/model"
)

// ErrBillNotFound is returned when no bill has the requested ID.
var ErrBillNotFound = errors.New("bill not found")

// Store is the persistent ledger. Reads run outside a transaction; every
// write goes through WithTx so bill and balance changes commit together.
type Store interface {
	// ListBills returns every bill in insertion order.
	ListBills(ctx context.Context) ([]model.Bill, error)

	// GetBill returns ErrBillNotFound if id does not exist.
	GetBill(ctx context.Context, id int64) (model.Bill, error)

	// LoadBalances returns the persisted balances.
	LoadBalances(ctx context.Context) (model.Balances, error)

	// WithTx runs fn in a single transaction. The transaction commits only
	// if fn returns nil; otherwise nothing fn wrote is kept.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
}

// Tx is the write surface available inside WithTx.
type Tx interface {
	GetBill(id int64) (model.Bill, error)
	ListBills() ([]model.Bill, error)

	// InsertBill stores b and sets b.ID.
	InsertBill(b *model.Bill) error
	SetPaid(id int64) error
	DeleteBill(id int64) error

	CountBills() (int, error)
	CountUnpaid() (int, error)

	SaveBalances(b model.Balances) error
}

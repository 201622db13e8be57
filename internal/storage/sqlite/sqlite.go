// Package sqlite provides a SQLite-backed implementation of storage.Store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/billcollector-dev/billcollector/internal/model"
	"github.com/billcollector-dev/billcollector/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

const timeFormat = time.RFC3339Nano

// Store implements storage.Store using SQLite.
type Store struct {
	db *sql.DB
}

// Open creates the database file if needed and migrates it to the current
// schema. A fresh database starts with every participant at 0.00.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection serialises writers; the ledger is single-user.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ListBills returns every bill ordered by ID.
func (s *Store) ListBills(ctx context.Context) ([]model.Bill, error) {
	return listBills(ctx, s.db)
}

// GetBill retrieves a bill by ID.
func (s *Store) GetBill(ctx context.Context, id int64) (model.Bill, error) {
	return getBill(ctx, s.db, id)
}

// LoadBalances reads the balances table.
func (s *Store) LoadBalances(ctx context.Context) (model.Balances, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT participant, amount FROM balances")
	if err != nil {
		return model.Balances{}, fmt.Errorf("query balances: %w", err)
	}
	defer rows.Close()

	balances := model.ZeroBalances()
	for rows.Next() {
		var name, amount string
		if err := rows.Scan(&name, &amount); err != nil {
			return model.Balances{}, fmt.Errorf("scan balance: %w", err)
		}
		p, err := model.ParseParticipant(name)
		if err != nil {
			return model.Balances{}, fmt.Errorf("balances row: %w", err)
		}
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return model.Balances{}, fmt.Errorf("parsing balance %q for %s: %w", amount, name, err)
		}
		balances[p] = d
	}
	if err := rows.Err(); err != nil {
		return model.Balances{}, fmt.Errorf("iterate balances: %w", err)
	}
	return balances, nil
}

// WithTx runs fn inside a database transaction.
func (s *Store) WithTx(ctx context.Context, fn func(tx storage.Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&tx{ctx: ctx, tx: sqlTx}); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type tx struct {
	ctx context.Context
	tx  *sql.Tx
}

func (t *tx) GetBill(id int64) (model.Bill, error) {
	return getBill(t.ctx, t.tx, id)
}

func (t *tx) ListBills() ([]model.Bill, error) {
	return listBills(t.ctx, t.tx)
}

func (t *tx) InsertBill(b *model.Bill) error {
	res, err := t.tx.ExecContext(t.ctx,
		"INSERT INTO bills (name, amount, payer, created_at, paid) VALUES (?, ?, ?, ?, ?)",
		b.Name, b.Amount.StringFixed(2), b.Payer.String(), b.CreatedAt.UTC().Format(timeFormat), b.Paid,
	)
	if err != nil {
		return fmt.Errorf("insert bill: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read bill id: %w", err)
	}
	b.ID = id
	return nil
}

func (t *tx) SetPaid(id int64) error {
	res, err := t.tx.ExecContext(t.ctx, "UPDATE bills SET paid = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("mark bill %d paid: %w", id, err)
	}
	return requireOneRow(res, id)
}

func (t *tx) DeleteBill(id int64) error {
	res, err := t.tx.ExecContext(t.ctx, "DELETE FROM bills WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete bill %d: %w", id, err)
	}
	return requireOneRow(res, id)
}

func (t *tx) CountBills() (int, error) {
	var n int
	if err := t.tx.QueryRowContext(t.ctx, "SELECT COUNT(*) FROM bills").Scan(&n); err != nil {
		return 0, fmt.Errorf("count bills: %w", err)
	}
	return n, nil
}

func (t *tx) CountUnpaid() (int, error) {
	var n int
	if err := t.tx.QueryRowContext(t.ctx, "SELECT COUNT(*) FROM bills WHERE paid = 0").Scan(&n); err != nil {
		return 0, fmt.Errorf("count unpaid bills: %w", err)
	}
	return n, nil
}

func (t *tx) SaveBalances(b model.Balances) error {
	for _, p := range model.Participants {
		_, err := t.tx.ExecContext(t.ctx,
			"REPLACE INTO balances (participant, amount) VALUES (?, ?)",
			p.String(), b.Get(p).StringFixed(2),
		)
		if err != nil {
			return fmt.Errorf("save balance for %s: %w", p, err)
		}
	}
	return nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const selectBill = "SELECT id, name, amount, payer, created_at, paid FROM bills"

type scanner interface {
	Scan(dest ...any) error
}

func getBill(ctx context.Context, q querier, id int64) (model.Bill, error) {
	b, err := scanBill(q.QueryRowContext(ctx, selectBill+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Bill{}, fmt.Errorf("%w: %d", storage.ErrBillNotFound, id)
	}
	if err != nil {
		return model.Bill{}, fmt.Errorf("get bill %d: %w", id, err)
	}
	return b, nil
}

func listBills(ctx context.Context, q querier) ([]model.Bill, error) {
	rows, err := q.QueryContext(ctx, selectBill+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query bills: %w", err)
	}
	defer rows.Close()

	var bills []model.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		bills = append(bills, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bills: %w", err)
	}
	return bills, nil
}

func scanBill(row scanner) (model.Bill, error) {
	var (
		b                        model.Bill
		amount, payer, createdAt string
	)
	if err := row.Scan(&b.ID, &b.Name, &amount, &payer, &createdAt, &b.Paid); err != nil {
		return model.Bill{}, err
	}

	var err error
	b.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return model.Bill{}, fmt.Errorf("bill %d: parsing amount %q: %w", b.ID, amount, err)
	}
	b.Payer, err = model.ParseParticipant(payer)
	if err != nil {
		return model.Bill{}, fmt.Errorf("bill %d: %w", b.ID, err)
	}
	b.CreatedAt, err = time.Parse(timeFormat, createdAt)
	if err != nil {
		return model.Bill{}, fmt.Errorf("bill %d: parsing created_at %q: %w", b.ID, createdAt, err)
	}
	return b, nil
}

func requireOneRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", storage.ErrBillNotFound, id)
	}
	return nil
}

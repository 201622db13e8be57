package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billcollector-dev/billcollector/internal/model"
	"github.com/billcollector-dev/billcollector/internal/storage"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "bills.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func insert(t *testing.T, s *Store, b model.Bill) model.Bill {
	t.Helper()
	err := s.WithTx(context.Background(), func(tx storage.Tx) error {
		return tx.InsertBill(&b)
	})
	require.NoError(t, err)
	return b
}

func TestOpen_SeedsBalances(t *testing.T) {
	s, _ := openTestStore(t)

	b, err := s.LoadBalances(context.Background())
	require.NoError(t, err)
	assert.True(t, b.IsZero())

	bills, err := s.ListBills(context.Background())
	require.NoError(t, err)
	assert.Empty(t, bills)
}

func TestOpen_Reopen(t *testing.T) {
	s, path := openTestStore(t)
	ctx := context.Background()

	insert(t, s, model.Bill{Name: "water", Amount: dec("45.10"), Payer: model.Noah, CreatedAt: time.Now()})
	err := s.WithTx(ctx, func(tx storage.Tx) error {
		return tx.SaveBalances(model.Balances{dec("15.03"), dec("15.03"), dec("-30.06")})
	})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Migrations are idempotent and the seed does not clobber balances.
	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	b, err := s2.LoadBalances(ctx)
	require.NoError(t, err)
	assert.Equal(t, "-30.06", b.Get(model.Noah).StringFixed(2))

	bills, err := s2.ListBills(ctx)
	require.NoError(t, err)
	require.Len(t, bills, 1)
	assert.Equal(t, "water", bills[0].Name)
}

func TestInsertAndGetBill(t *testing.T) {
	s, _ := openTestStore(t)
	created := time.Date(2025, 3, 1, 18, 30, 0, 0, time.UTC)

	b := insert(t, s, model.Bill{Name: "rent", Amount: dec("1000.00"), Payer: model.David, CreatedAt: created})
	assert.NotZero(t, b.ID)

	got, err := s.GetBill(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)
	assert.Equal(t, "rent", got.Name)
	assert.True(t, got.Amount.Equal(dec("1000")))
	assert.Equal(t, model.David, got.Payer)
	assert.True(t, got.CreatedAt.Equal(created))
	assert.False(t, got.Paid)
}

func TestGetBill_NotFound(t *testing.T) {
	s, _ := openTestStore(t)
	_, err := s.GetBill(context.Background(), 99)
	assert.ErrorIs(t, err, storage.ErrBillNotFound)
}

func TestListBills_InsertionOrder(t *testing.T) {
	s, _ := openTestStore(t)
	names := []string{"rent", "power", "internet", "groceries"}
	for _, n := range names {
		insert(t, s, model.Bill{Name: n, Amount: dec("10.00"), Payer: model.Armando, CreatedAt: time.Now()})
	}

	bills, err := s.ListBills(context.Background())
	require.NoError(t, err)
	require.Len(t, bills, len(names))
	for i, b := range bills {
		assert.Equal(t, names[i], b.Name)
		if i > 0 {
			assert.Greater(t, b.ID, bills[i-1].ID)
		}
	}
}

func TestSetPaidAndDelete(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()
	b := insert(t, s, model.Bill{Name: "gas", Amount: dec("30.00"), Payer: model.Armando, CreatedAt: time.Now()})

	err := s.WithTx(ctx, func(tx storage.Tx) error {
		if err := tx.SetPaid(b.ID); err != nil {
			return err
		}
		unpaid, err := tx.CountUnpaid()
		require.NoError(t, err)
		assert.Equal(t, 0, unpaid)
		total, err := tx.CountBills()
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		return nil
	})
	require.NoError(t, err)

	got, err := s.GetBill(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, got.Paid)

	err = s.WithTx(ctx, func(tx storage.Tx) error { return tx.DeleteBill(b.ID) })
	require.NoError(t, err)

	_, err = s.GetBill(ctx, b.ID)
	assert.ErrorIs(t, err, storage.ErrBillNotFound)

	err = s.WithTx(ctx, func(tx storage.Tx) error { return tx.DeleteBill(b.ID) })
	assert.ErrorIs(t, err, storage.ErrBillNotFound)

	err = s.WithTx(ctx, func(tx storage.Tx) error { return tx.SetPaid(b.ID) })
	assert.ErrorIs(t, err, storage.ErrBillNotFound)
}

func TestWithTx_RollbackOnError(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(tx storage.Tx) error {
		b := model.Bill{Name: "rent", Amount: dec("1000.00"), Payer: model.Armando, CreatedAt: time.Now()}
		if err := tx.InsertBill(&b); err != nil {
			return err
		}
		if err := tx.SaveBalances(model.Balances{dec("-640"), dec("320"), dec("320")}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	bills, err := s.ListBills(ctx)
	require.NoError(t, err)
	assert.Empty(t, bills, "bill insert must roll back")

	b, err := s.LoadBalances(ctx)
	require.NoError(t, err)
	assert.True(t, b.IsZero(), "balances must roll back with the bill")
}

package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/money"
	"github.com/chris/remittance-ledger/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAccount(t *testing.T, s *Store, id string, balance int64) {
	t.Helper()
	_, err := s.CreateAccount(context.Background(), &models.Account{
		Id:       id,
		Currency: money.NGN,
		Balance:  money.FromInt(balance),
		Limits:   models.DefaultLimits(),
		Status:   models.ACTIVE,
	})
	require.NoError(t, err)
}

func balanceOf(t *testing.T, s *Store, id string) string {
	t.Helper()
	a, err := s.GetAccount(context.Background(), id)
	require.NoError(t, err)
	return a.Balance.String()
}

func reserve(txID, acct string, amount int64) storage.LedgerMutation {
	return storage.LedgerMutation{AccountId: acct, TransactionId: txID, Kind: models.EntryReserve, Amount: money.FromInt(amount), Currency: money.NGN}
}

func TestReserve(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		s := New()
		seedAccount(t, s, "a", 1000)
		require.NoError(t, s.Reserve(ctx, reserve("tx1", "a", 400)))
		assert.Equal(t, "600.00", balanceOf(t, s, "a"))

		entries, err := s.ListLedgerEntriesByTransaction(ctx, "tx1")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "tx1#reserve", entries[0].EntryID)
	})

	t.Run("Insufficient Funds Fails", func(t *testing.T) {
		s := New()
		seedAccount(t, s, "a", 1000)
		err := s.Reserve(ctx, reserve("tx1", "a", 10000))
		assert.ErrorIs(t, err, storage.ErrInsufficientFunds)
		assert.Equal(t, "1000.00", balanceOf(t, s, "a"))
	})

	t.Run("Replay Fails", func(t *testing.T) {
		s := New()
		seedAccount(t, s, "a", 1000)
		require.NoError(t, s.Reserve(ctx, reserve("tx1", "a", 100)))
		assert.ErrorIs(t, s.Reserve(ctx, reserve("tx1", "a", 100)), storage.ErrAlreadyApplied)
		assert.Equal(t, "900.00", balanceOf(t, s, "a"))
	})

	t.Run("Disabled Account Fails", func(t *testing.T) {
		s := New()
		seedAccount(t, s, "a", 1000)
		require.NoError(t, s.SetAccountStatus(ctx, "a", models.DISABLED))
		assert.ErrorIs(t, s.Reserve(ctx, reserve("tx1", "a", 100)), storage.ErrAccountDisabled)
	})

	t.Run("Currency Mismatch Fails", func(t *testing.T) {
		s := New()
		seedAccount(t, s, "a", 1000)
		m := reserve("tx1", "a", 100)
		m.Currency = money.KES
		assert.ErrorIs(t, s.Reserve(ctx, m), storage.ErrCurrencyMismatch)
	})

	t.Run("Unknown Account Fails", func(t *testing.T) {
		s := New()
		assert.ErrorIs(t, s.Reserve(ctx, reserve("tx1", "ghost", 100)), storage.ErrNotFound)
	})
}

func TestConcurrentReservesNeverOverdraw(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedAccount(t, s, "a", 1000)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := s.Reserve(ctx, reserve(fmt.Sprintf("tx-%d", i), "a", 100)); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	assert.Equal(t, "0.00", balanceOf(t, s, "a"))
}

func TestCredit(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedAccount(t, s, "a", 0)

	m := storage.LedgerMutation{AccountId: "a", TransactionId: "dep1", Kind: models.EntryCredit, Amount: money.FromInt(250), Currency: money.NGN}
	require.NoError(t, s.Credit(ctx, m))
	assert.ErrorIs(t, s.Credit(ctx, m), storage.ErrAlreadyApplied)
	assert.Equal(t, "250.00", balanceOf(t, s, "a"))

	assert.Error(t, s.Credit(ctx, reserve("dep2", "a", 1)))
}

func TestCreateTransactionIsAtomic(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedAccount(t, s, "a", 1000)
	seedAccount(t, s, "b", 0)

	tx := models.NewTransaction(models.NewTransactionParams{Type: models.TypeInternalTransfer, AccountId: "a", Amount: money.FromInt(500), Currency: money.NGN})
	credit := storage.LedgerMutation{AccountId: "b", TransactionId: tx.Id, Kind: models.EntryCredit, Amount: money.FromInt(500), Currency: money.NGN}

	t.Run("Failing Effect Stores Nothing", func(t *testing.T) {
		err := s.CreateTransaction(ctx, tx, credit, reserve(tx.Id, "a", 5000))
		assert.ErrorIs(t, err, storage.ErrInsufficientFunds)
		assert.Equal(t, "0.00", balanceOf(t, s, "b"))
		_, err = s.GetTransaction(ctx, tx.Id)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("Success", func(t *testing.T) {
		require.NoError(t, s.CreateTransaction(ctx, tx, reserve(tx.Id, "a", 500), credit))
		assert.Equal(t, "500.00", balanceOf(t, s, "a"))
		assert.Equal(t, "500.00", balanceOf(t, s, "b"))

		got, err := s.GetTransactionByReference(ctx, tx.Reference)
		require.NoError(t, err)
		assert.Equal(t, tx.Id, got.Id)
	})

	t.Run("Duplicate Fails", func(t *testing.T) {
		assert.ErrorIs(t, s.CreateTransaction(ctx, tx), storage.ErrAlreadyExists)
	})
}

func TestUpdateTransaction(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	s := New()
	tx := models.NewTransaction(models.NewTransactionParams{Type: models.TypeBankTransfer, AccountId: "a", Amount: money.FromInt(10), Currency: money.NGN, Now: now})
	require.NoError(t, s.CreateTransaction(ctx, tx))

	t.Run("Success", func(t *testing.T) {
		next := tx.Clone()
		require.NoError(t, next.Transition(models.PROCESSING, "accepted", nil, now))
		require.NoError(t, s.UpdateTransaction(ctx, next, models.PENDING))
		assert.Equal(t, int64(1), next.Version)

		got, err := s.GetTransaction(ctx, tx.Id)
		require.NoError(t, err)
		assert.Equal(t, models.PROCESSING, got.Status)
		assert.Len(t, got.Timeline, 2)
	})

	t.Run("Stale Writer Fails", func(t *testing.T) {
		stale := tx.Clone()
		require.NoError(t, stale.Transition(models.CANCELLED, "cancel", nil, now))
		err := s.UpdateTransaction(ctx, stale, models.PENDING)
		assert.ErrorIs(t, err, storage.ErrStatusConflict)
	})

	t.Run("Returned Copies Are Isolated", func(t *testing.T) {
		got, err := s.GetTransaction(ctx, tx.Id)
		require.NoError(t, err)
		got.AppendNote("local only", nil, now)
		again, err := s.GetTransaction(ctx, tx.Id)
		require.NoError(t, err)
		assert.Len(t, again.Timeline, 2)
	})
}

func TestListTransactions(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s := New()

	old := models.NewTransaction(models.NewTransactionParams{Type: models.TypeBankTransfer, AccountId: "a", Amount: money.FromInt(1), Currency: money.NGN, Now: base})
	recent := models.NewTransaction(models.NewTransactionParams{Type: models.TypeInternalTransfer, AccountId: "b", Counterparty: "a", Amount: money.FromInt(1), Currency: money.NGN, Now: base.Add(2 * time.Hour)})
	require.NoError(t, s.CreateTransaction(ctx, old))
	require.NoError(t, s.CreateTransaction(ctx, recent))

	all, err := s.ListTransactionsByAccount(ctx, "a", base)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, recent.Id, all[0].Id)

	since, err := s.ListTransactionsByAccount(ctx, "a", base.Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, since, 1)

	pending, err := s.ListTransactionsByStatus(ctx, models.PENDING, base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, old.Id, pending[0].Id)
}

func TestConnections(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.AddConnection(ctx, "c1", "a"))
	require.NoError(t, s.AddConnection(ctx, "c2", "a"))
	require.NoError(t, s.AddConnection(ctx, "c3", "b"))
	require.NoError(t, s.RemoveConnection(ctx, "c2"))

	conns, err := s.GetConnectionsForAccount(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, conns)
}

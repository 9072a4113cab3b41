package storage

import (
	"testing"
	"time"

	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/money"
	"github.com/stretchr/testify/assert"
)

func TestLedgerMutation(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Reserve Entry Is Debit", func(t *testing.T) {
		m := LedgerMutation{AccountId: "a", TransactionId: "tx1", Kind: models.EntryReserve, Amount: money.FromInt(10), Currency: money.NGN}
		assert.NoError(t, m.Validate())
		e := m.Entry(now)
		assert.Equal(t, "tx1#reserve", e.EntryID)
		assert.Equal(t, "10.00", e.Debit.String())
		assert.True(t, e.Credit.IsZero())
		assert.Equal(t, models.LedgerPartition, e.GSI1PK)
		assert.Equal(t, now, e.Timestamp)
	})

	t.Run("Compensate Entry Is Credit", func(t *testing.T) {
		m := LedgerMutation{AccountId: "a", TransactionId: "tx1", Kind: models.EntryCompensate, Amount: money.FromInt(10)}
		e := m.Entry(now)
		assert.Equal(t, "tx1#compensate", e.EntryID)
		assert.Equal(t, "10.00", e.Credit.String())
	})

	t.Run("Untraceable Mutation Fails", func(t *testing.T) {
		assert.Error(t, LedgerMutation{AccountId: "a", Kind: models.EntryCredit, Amount: money.FromInt(1)}.Validate())
		assert.Error(t, LedgerMutation{AccountId: "a", TransactionId: "t", Kind: models.EntryCredit}.Validate())
	})
}

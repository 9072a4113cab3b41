package provider

import (
	"context"
	"testing"
	"time"

	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulator(t *testing.T) {
	t.Run("Completes By Default", func(t *testing.T) {
		sim := NewSimulator("secret")
		result, err := sim.Transfer(context.Background(), transferRequest())
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, result.Status)
		assert.Equal(t, 1, sim.Calls())
	})

	t.Run("Per Reference Failure", func(t *testing.T) {
		sim := NewSimulator("secret")
		sim.SetOutcome("TXN-ABC-12345678", OutcomeFail)

		_, err := sim.Transfer(context.Background(), transferRequest())
		assert.ErrorIs(t, err, ErrRejected)
	})

	t.Run("Timeout Waits For Context", func(t *testing.T) {
		sim := NewSimulator("secret")
		sim.SetDefault(OutcomeTimeout)
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := sim.Transfer(ctx, transferRequest())
		assert.ErrorIs(t, err, ErrAmbiguous)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("Accepted Then Settled", func(t *testing.T) {
		sim := NewSimulator("secret")
		sim.SetDefault(OutcomeAccept)

		result, err := sim.Transfer(context.Background(), transferRequest())
		require.NoError(t, err)
		assert.Equal(t, StatusAccepted, result.Status)

		require.NoError(t, sim.Settle(result.ExternalId, StatusFailed))
		st, err := sim.GetTransferStatus(context.Background(), result.ExternalId)
		require.NoError(t, err)
		assert.Equal(t, StatusFailed, st.Status)
	})

	t.Run("Collection Instruments", func(t *testing.T) {
		sim := NewSimulator("secret")
		link, err := sim.InitiateCollection(context.Background(), CollectionRequest{Reference: "TXN-9", Kind: models.InstrumentPaymentLink})
		require.NoError(t, err)
		assert.Contains(t, link.Link, "TXN-9")

		va, err := sim.InitiateCollection(context.Background(), CollectionRequest{Reference: "TXN-9", Kind: models.InstrumentVirtualAccount})
		require.NoError(t, err)
		assert.Len(t, va.AccountNumber, 10)
	})
}

package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/provider"
)

// PollStatus asks the provider about a processing payout and applies the answer
// as if it had arrived by webhook. Other statuses are returned unchanged. When
// the provider cannot answer, tx is returned with the error and nothing is written.
func (r *Reconciler) PollStatus(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	if tx.Status != models.PROCESSING || tx.Provider == nil || tx.Provider.ExternalId == "" {
		return tx, nil
	}

	st, err := r.client.GetTransferStatus(ctx, tx.Provider.ExternalId)
	if err != nil {
		return tx, fmt.Errorf("failed to poll %s: %w", tx.Provider.ExternalId, err)
	}

	var status provider.EventStatus
	switch st.Status {
	case provider.StatusCompleted:
		status = provider.EventSuccessful
	case provider.StatusFailed:
		status = provider.EventFailed
	default:
		slog.Log(ctx, slog.LevelDebug, "Transfer still in flight", "transaction_id", tx.Id, "external_id", tx.Provider.ExternalId)
		return tx, nil
	}

	_, out, err := r.apply(ctx, provider.Event{
		Type:       provider.EventTransferCompleted,
		Reference:  tx.Reference,
		ExternalId: st.ExternalId,
		Status:     status,
	}, "poll")
	if out == nil {
		out = tx
	}
	return out, err
}

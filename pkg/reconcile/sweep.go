package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/notify"
	"github.com/chris/remittance-ledger/pkg/storage"
)

// SweepReport counts what one sweep did.
type SweepReport struct {
	Expired  int `json:"expired"`
	Polled   int `json:"polled"`
	Resolved int `json:"resolved"`
	// Stuck counts payouts handed to the provider with no recorded reply.
	Stuck  int `json:"stuck"`
	Errors int `json:"errors"`
}

// Sweep persists lazy expiry of pending transactions, returning their
// reservations, and polls payouts that have been processing for longer than
// ProcessingAge. Payouts engaged for longer than ProcessingAge without a
// recorded provider reply are counted and flagged for review, since neither
// expiry nor polling can resolve them. Per-transaction failures are logged and counted; only listing
// failures abort the sweep.
func (r *Reconciler) Sweep(ctx context.Context) (SweepReport, error) {
	var report SweepReport
	now := r.opts.Now()

	pending, err := r.store.ListTransactionsByStatus(ctx, models.PENDING, now)
	if err != nil {
		return report, fmt.Errorf("failed to list pending transactions: %w", err)
	}
	for i := range pending {
		tx := &pending[i]
		if r.stuck(tx, now) {
			report.Stuck++
			if err := r.flagStuck(ctx, tx); err != nil {
				slog.Error("Failed to flag stuck transaction", "transaction_id", tx.Id, "error", err)
				report.Errors++
			}
			continue
		}
		if tx.EffectiveStatus(now) != models.EXPIRED {
			continue
		}
		expired, err := r.expire(ctx, tx)
		if err != nil {
			slog.Error("Failed to expire transaction", "transaction_id", tx.Id, "error", err)
			report.Errors++
			continue
		}
		if expired {
			report.Expired++
		}
	}

	processing, err := r.store.ListTransactionsByStatus(ctx, models.PROCESSING, now.Add(-r.opts.ProcessingAge))
	if err != nil {
		return report, fmt.Errorf("failed to list processing transactions: %w", err)
	}
	for i := range processing {
		tx := &processing[i]
		report.Polled++
		out, err := r.PollStatus(ctx, tx)
		if err != nil && !errors.Is(err, ErrReconciliationConflict) {
			slog.Warn("Failed to poll transaction", "transaction_id", tx.Id, "error", err)
			report.Errors++
			continue
		}
		if out.Status != models.PROCESSING {
			report.Resolved++
		}
	}

	slog.Info("Sweep finished", "expired", report.Expired, "polled", report.Polled, "resolved", report.Resolved, "stuck", report.Stuck, "errors", report.Errors)
	return report, nil
}

// expire writes the expired status, compensating a held reservation in the
// same write. It reports false when a concurrent writer moved tx first.
func (r *Reconciler) expire(ctx context.Context, tx *models.Transaction) (bool, error) {
	now := r.opts.Now()
	next := tx.Clone()
	if err := next.Transition(models.EXPIRED, "Transaction expired", models.Expiry(*tx.ExpiresAt), now); err != nil {
		return false, err
	}

	var effects []storage.LedgerMutation
	if tx.Reserved {
		effects = append(effects, storage.LedgerMutation{
			AccountId:     tx.AccountId,
			TransactionId: tx.Id,
			Kind:          models.EntryCompensate,
			Amount:        tx.TotalAmount,
			Currency:      tx.Currency,
			Description:   "expired",
		})
		next.AppendNote("Reservation reversed", models.Compensation(tx.AccountId, tx.TotalAmount, "expired"), now)
	}

	err := r.store.UpdateTransaction(ctx, next, models.PENDING, effects...)
	switch {
	case errors.Is(err, storage.ErrStatusConflict), errors.Is(err, storage.ErrAlreadyApplied):
		slog.Info("Transaction changed before expiry", "transaction_id", tx.Id)
		return false, nil
	case err != nil:
		return false, err
	}

	slog.Info("Transaction expired", "transaction_id", tx.Id, "reference", tx.Reference)
	if tx.Reserved {
		r.publish(ctx, notify.WalletUpdate(next, tx.AccountId, tx.TotalAmount))
	}
	r.publish(ctx, notify.TransactionUpdate(next))
	return true, nil
}

func (r *Reconciler) stuck(tx *models.Transaction, now time.Time) bool {
	return tx.Type.IsOutbound() && tx.EngagedProvider() && tx.Provider.ExternalId == "" &&
		tx.CreatedAt.Before(now.Add(-r.opts.ProcessingAge))
}

// flagStuck marks tx for manual reconciliation once.
func (r *Reconciler) flagStuck(ctx context.Context, tx *models.Transaction) error {
	slog.Warn("Payout has no recorded provider reply", "transaction_id", tx.Id, "reference", tx.Reference, "created_at", tx.CreatedAt)
	if tx.NeedsReview {
		return nil
	}

	now := r.opts.Now()
	next := tx.Clone()
	next.NeedsReview = true
	next.AppendNote("No provider reply recorded, pending manual reconciliation",
		models.AmbiguousOutcome(tx.Provider.Name, "no provider reply recorded", r.opts.ProcessingAge), now)

	err := r.store.UpdateTransaction(ctx, next, models.PENDING)
	switch {
	case errors.Is(err, storage.ErrStatusConflict), errors.Is(err, storage.ErrAlreadyApplied):
		return nil
	case err != nil:
		return fmt.Errorf("failed to flag transaction %s: %w", tx.Id, err)
	}
	r.publish(ctx, notify.TransactionUpdate(next))
	return nil
}

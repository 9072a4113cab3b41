package transfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/storage"
)

// DefaultHistoryWindow bounds History when no start is given.
const DefaultHistoryWindow = 90 * 24 * time.Hour

// owned loads a transaction by id or reference. Non-admin actors only see
// transactions they sent or received; anything else is reported as not found.
func (s *Service) owned(ctx context.Context, actor Actor, idOrRef string) (*models.Transaction, error) {
	if idOrRef == "" {
		return nil, validationf("missing transaction id")
	}
	tx, err := s.store.GetTransaction(ctx, idOrRef)
	if errors.Is(err, storage.ErrNotFound) {
		tx, err = s.store.GetTransactionByReference(ctx, idOrRef)
	}
	if err != nil {
		return nil, err
	}
	if actor.Admin || tx.AccountId == actor.AccountId || (tx.CounterpartyAccountId != "" && tx.CounterpartyAccountId == actor.AccountId) {
		return tx, nil
	}
	return nil, fmt.Errorf("%w: transaction %s", ErrNotFound, idOrRef)
}

// Cancel cancels a pending transaction that has not been handed to the
// provider, returning any reservation.
func (s *Service) Cancel(ctx context.Context, actor Actor, txID string) (*models.Transaction, error) {
	tx, err := s.owned(ctx, actor, txID)
	if err != nil {
		return nil, err
	}
	if !actor.Admin && tx.AccountId != actor.AccountId {
		return nil, fmt.Errorf("%w: only the sender may cancel", ErrNotCancellable)
	}

	now := s.now()
	if !cancellable(tx, now) {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotCancellable, tx.Id, tx.EffectiveStatus(now))
	}

	var effects []storage.LedgerMutation
	if tx.Reserved {
		effects = append(effects, compensation(tx, "cancelled by "+actorName(actor)))
	}
	out, applied, err := s.update(ctx, tx, func(t *models.Transaction) error {
		if !cancellable(t, now) {
			return fmt.Errorf("%w: %s is %s", ErrNotCancellable, t.Id, t.EffectiveStatus(now))
		}
		if err := t.Transition(models.CANCELLED, "Cancelled by "+actorName(actor), nil, now); err != nil {
			return err
		}
		if t.Reserved {
			t.AppendNote("Reservation reversed", models.Compensation(t.AccountId, t.TotalAmount, "cancelled"), now)
		}
		return nil
	}, effects...)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, fmt.Errorf("%w: %s is now %s", ErrNotCancellable, out.Id, out.Status)
	}

	slog.Info("Transaction cancelled", "transaction_id", out.Id, "actor", actor.AccountId)
	if tx.Reserved {
		s.publishWallet(ctx, out, out.AccountId, out.TotalAmount)
	}
	s.publishTransaction(ctx, out)
	return out, nil
}

func cancellable(tx *models.Transaction, now time.Time) bool {
	if tx.EffectiveStatus(now) != models.PENDING {
		return false
	}
	return !(tx.Type.IsOutbound() && tx.EngagedProvider())
}

func actorName(a Actor) string {
	if a.Admin {
		return "admin"
	}
	return "account holder"
}

// Status returns the transaction with its effective status. A processing
// transaction is refreshed from the provider first when a poller is wired;
// poll failures are logged and the stored record is returned.
func (s *Service) Status(ctx context.Context, actor Actor, idOrRef string) (*models.Transaction, error) {
	tx, err := s.owned(ctx, actor, idOrRef)
	if err != nil {
		return nil, err
	}
	if tx.Status == models.PROCESSING && s.poller != nil {
		polled, perr := s.poller.PollStatus(ctx, tx)
		if perr != nil {
			slog.Warn("Failed to poll provider status", "transaction_id", tx.Id, "error", perr)
		} else if polled != nil {
			tx = polled
		}
	}
	return effective(tx, s.now()), nil
}

// History lists the transactions an account sent or received since the given
// time, newest first. A zero since selects DefaultHistoryWindow.
func (s *Service) History(ctx context.Context, accountID string, since time.Time) ([]models.Transaction, error) {
	if accountID == "" {
		return nil, validationf("missing account")
	}
	now := s.now()
	if since.IsZero() {
		since = now.Add(-DefaultHistoryWindow)
	}
	txs, err := s.store.ListTransactionsByAccount(ctx, accountID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	for i := range txs {
		txs[i].Status = txs[i].EffectiveStatus(now)
	}
	return txs, nil
}

func effective(tx *models.Transaction, now time.Time) *models.Transaction {
	out := tx.Clone()
	out.Status = tx.EffectiveStatus(now)
	return out
}

// Package transfer orchestrates money movement: it validates requests against
// the sender's account, reserves funds, drives the provider and compensates
// reservations when a transfer does not go through.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chris/remittance-ledger/pkg/banks"
	"github.com/chris/remittance-ledger/pkg/fees"
	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/money"
	"github.com/chris/remittance-ledger/pkg/notify"
	"github.com/chris/remittance-ledger/pkg/provider"
	"github.com/chris/remittance-ledger/pkg/rates"
	"github.com/chris/remittance-ledger/pkg/storage"
)

const (
	DefaultProviderTimeout = 30 * time.Second
	defaultUpdateAttempts  = 5
)

// Poller refreshes a processing transaction from the provider.
type Poller interface {
	PollStatus(ctx context.Context, tx *models.Transaction) (*models.Transaction, error)
}

// Options tune the service. Zero values select defaults.
type Options struct {
	ProviderTimeout time.Duration
	Expiry          time.Duration
	Now             func() time.Time
}

// Actor is the caller on whose behalf an operation runs.
type Actor struct {
	AccountId string
	Admin     bool
}

// Service is the transfer orchestrator.
type Service struct {
	store     storage.ApiStore
	provider  provider.Client
	rates     rates.Provider
	banks     *banks.Directory
	fees      fees.Schedule
	publisher notify.Publisher
	poller    Poller
	opts      Options
}

// NewService creates a Service. A nil publisher disables notifications.
func NewService(store storage.ApiStore, client provider.Client, rateProvider rates.Provider, directory *banks.Directory, schedule fees.Schedule, publisher notify.Publisher, opts Options) *Service {
	if opts.ProviderTimeout <= 0 {
		opts.ProviderTimeout = DefaultProviderTimeout
	}
	if opts.Expiry <= 0 {
		opts.Expiry = models.DefaultExpiry
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	if publisher == nil {
		publisher = &notify.NoOpPublisher{}
	}
	return &Service{
		store:     store,
		provider:  client,
		rates:     rateProvider,
		banks:     directory,
		fees:      schedule,
		publisher: publisher,
		opts:      opts,
	}
}

// SetPoller wires the reconciliation poller used by Status.
func (s *Service) SetPoller(p Poller) {
	s.poller = p
}

func (s *Service) now() time.Time {
	return s.opts.Now()
}

// update applies fn to a copy of tx and writes it guarded by the status and
// version it was read at. When the write loses to a concurrent writer the
// record is reloaded: if its status moved, the other writer wins and applied is
// false; otherwise fn is re-applied to the fresh copy.
func (s *Service) update(ctx context.Context, tx *models.Transaction, fn func(*models.Transaction) error, effects ...storage.LedgerMutation) (*models.Transaction, bool, error) {
	cur := tx
	for attempt := 0; attempt < defaultUpdateAttempts; attempt++ {
		next := cur.Clone()
		if err := fn(next); err != nil {
			return cur, false, err
		}
		err := s.store.UpdateTransaction(ctx, next, cur.Status, effects...)
		if err == nil {
			return next, true, nil
		}
		if !errors.Is(err, storage.ErrStatusConflict) && !errors.Is(err, storage.ErrAlreadyApplied) {
			return cur, false, err
		}

		fresh, gerr := s.store.GetTransaction(ctx, tx.Id)
		if gerr != nil {
			return cur, false, fmt.Errorf("failed to reload transaction %s: %w", tx.Id, gerr)
		}
		if fresh.Status != cur.Status {
			slog.Info("Transaction advanced concurrently", "transaction_id", tx.Id, "expected", cur.Status, "actual", fresh.Status)
			return fresh, false, nil
		}
		cur = fresh
	}
	return cur, false, fmt.Errorf("%w: transaction %s kept changing", storage.ErrStatusConflict, tx.Id)
}

// compensation reverses the reservation of tx. Every reversal path shares one
// ledger entry id, so a reservation is returned at most once.
func compensation(tx *models.Transaction, cause string) storage.LedgerMutation {
	return storage.LedgerMutation{
		AccountId:     tx.AccountId,
		TransactionId: tx.Id,
		Kind:          models.EntryCompensate,
		Amount:        tx.TotalAmount,
		Currency:      tx.Currency,
		Description:   cause,
	}
}

func reservation(tx *models.Transaction) storage.LedgerMutation {
	return storage.LedgerMutation{
		AccountId:     tx.AccountId,
		TransactionId: tx.Id,
		Kind:          models.EntryReserve,
		Amount:        tx.TotalAmount,
		Currency:      tx.Currency,
		Description:   fmt.Sprintf("%s %s", tx.Type, tx.Reference),
	}
}

// fail moves tx to failed and reverses its reservation in the same write. If the
// write cannot be confirmed the transaction is flagged and ErrCompensationFailed
// is returned.
func (s *Service) fail(ctx context.Context, tx *models.Transaction, message string, detail *models.Detail, needsReview bool) (*models.Transaction, error) {
	now := s.now()
	var effects []storage.LedgerMutation
	if tx.Reserved {
		effects = append(effects, compensation(tx, message))
	}

	out, _, err := s.update(ctx, tx, func(t *models.Transaction) error {
		if err := t.Transition(models.FAILED, message, detail, now); err != nil {
			return err
		}
		if needsReview {
			t.NeedsReview = true
		}
		if t.Reserved {
			t.AppendNote("Reservation reversed", models.Compensation(t.AccountId, t.TotalAmount, message), now)
		}
		return nil
	}, effects...)
	if err != nil {
		s.flagCompensationFailure(ctx, tx, err)
		return tx, fmt.Errorf("%w: transaction %s: %v", ErrCompensationFailed, tx.Id, err)
	}
	if out.Status == models.FAILED && tx.Reserved {
		s.publishWallet(ctx, out, out.AccountId, out.TotalAmount)
	}
	s.publishTransaction(ctx, out)
	return out, nil
}

// flagCompensationFailure records the failed reversal on the transaction so it
// shows up for manual reconciliation.
func (s *Service) flagCompensationFailure(ctx context.Context, tx *models.Transaction, cause error) {
	slog.Error("Failed to compensate reservation", "transaction_id", tx.Id, "account_id", tx.AccountId, "amount", tx.TotalAmount.String(), "error", cause)
	now := s.now()
	_, _, err := s.update(ctx, tx, func(t *models.Transaction) error {
		t.NeedsReview = true
		t.AppendNote("Compensation could not be confirmed", models.CompensationFailed(t.AccountId, t.TotalAmount, cause), now)
		return nil
	})
	if err != nil {
		slog.Error("Failed to flag transaction for review", "transaction_id", tx.Id, "error", err)
	}
}

func (s *Service) publishWallet(ctx context.Context, tx *models.Transaction, accountID string, change money.Amount) {
	if err := s.publisher.Publish(ctx, notify.WalletUpdate(tx, accountID, change)); err != nil {
		slog.Warn("Failed to publish wallet update", "transaction_id", tx.Id, "error", err)
	}
}

func (s *Service) publishTransaction(ctx context.Context, tx *models.Transaction) {
	if err := s.publisher.Publish(ctx, notify.TransactionUpdate(tx)); err != nil {
		slog.Warn("Failed to publish transaction update", "transaction_id", tx.Id, "error", err)
	}
}

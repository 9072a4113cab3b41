// Package reconcile moves transactions to their final state from what the
// provider reports, by webhook or by poll, and sweeps stale records.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/notify"
	"github.com/chris/remittance-ledger/pkg/provider"
	"github.com/chris/remittance-ledger/pkg/storage"
)

var (
	// ErrInvalidSignature is returned before anything is read from an unsigned or mis-signed payload.
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrReconciliationConflict is returned when the provider disagrees with a
	// terminal local state. The transaction is flagged; the event is still acknowledged.
	ErrReconciliationConflict = models.ErrReconciliationConflict
)

const (
	DefaultProcessingAge = 20 * time.Minute
	maxApplyAttempts     = 5
)

// Outcome summarizes what an event did.
type Outcome string

const (
	OutcomeApplied          Outcome = "applied"
	OutcomeDuplicate        Outcome = "duplicate"
	OutcomeIgnored          Outcome = "ignored"
	OutcomeConflict         Outcome = "conflict"
	OutcomeUnknownReference Outcome = "unknown_reference"
)

// Result is reported back to the webhook caller.
type Result struct {
	Outcome       Outcome                  `json:"outcome"`
	TransactionId string                   `json:"transaction_id,omitempty"`
	Status        models.TransactionStatus `json:"status,omitempty"`
}

// Options tune the reconciler. Zero values select defaults.
type Options struct {
	// ProcessingAge is how long a transaction may stay processing before Sweep polls it.
	ProcessingAge time.Duration
	Now           func() time.Time
}

// Reconciler applies provider events to transactions.
type Reconciler struct {
	store     storage.ApiStore
	client    provider.Client
	publisher notify.Publisher
	opts      Options
}

// New creates a Reconciler. A nil publisher disables notifications.
func New(store storage.ApiStore, client provider.Client, publisher notify.Publisher, opts Options) *Reconciler {
	if opts.ProcessingAge <= 0 {
		opts.ProcessingAge = DefaultProcessingAge
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	if publisher == nil {
		publisher = &notify.NoOpPublisher{}
	}
	return &Reconciler{store: store, client: client, publisher: publisher, opts: opts}
}

// Verify checks the webhook signature.
func (r *Reconciler) Verify(payload []byte, signature string) error {
	if signature == "" || !r.client.VerifyWebhookSignature(payload, signature) {
		return ErrInvalidSignature
	}
	return nil
}

// OnWebhook verifies, parses and applies a webhook.
func (r *Reconciler) OnWebhook(ctx context.Context, payload []byte, signature string) (Result, error) {
	if err := r.Verify(payload, signature); err != nil {
		slog.Warn("Rejected webhook with invalid signature")
		return Result{}, err
	}
	return r.ApplyPayload(ctx, payload)
}

// ApplyPayload parses an already verified payload and applies it.
func (r *Reconciler) ApplyPayload(ctx context.Context, payload []byte) (Result, error) {
	ev, err := r.client.ParseWebhook(payload)
	if err != nil {
		return Result{}, fmt.Errorf("failed to parse webhook: %w", err)
	}
	return r.Apply(ctx, ev)
}

// Apply reconciles one provider event against its transaction.
func (r *Reconciler) Apply(ctx context.Context, ev provider.Event) (Result, error) {
	res, _, err := r.apply(ctx, ev, "webhook")
	return res, err
}

func (r *Reconciler) apply(ctx context.Context, ev provider.Event, source string) (Result, *models.Transaction, error) {
	if ev.Type != provider.EventChargeCompleted && ev.Type != provider.EventTransferCompleted {
		slog.Info("Ignoring provider event", "event", ev.Type, "reference", ev.Reference)
		return Result{Outcome: OutcomeIgnored}, nil, nil
	}
	if ev.Status == provider.EventPending {
		slog.Info("Ignoring pending provider event", "event", ev.Type, "reference", ev.Reference)
		return Result{Outcome: OutcomeIgnored}, nil, nil
	}

	tx, err := r.store.GetTransactionByReference(ctx, ev.Reference)
	if errors.Is(err, storage.ErrNotFound) {
		slog.Warn("Provider event for unknown reference", "event", ev.Type, "reference", ev.Reference)
		return Result{Outcome: OutcomeUnknownReference}, nil, nil
	}
	if err != nil {
		return Result{}, nil, fmt.Errorf("failed to load transaction %s: %w", ev.Reference, err)
	}
	if !matchesRail(tx, ev) {
		slog.Warn("Provider event does not match transaction type", "event", ev.Type, "transaction_id", tx.Id, "type", tx.Type)
		return Result{Outcome: OutcomeIgnored, TransactionId: tx.Id, Status: tx.Status}, tx, nil
	}

	for attempt := 0; attempt < maxApplyAttempts; attempt++ {
		now := r.opts.Now()
		d := decide(tx, ev, source, now)

		next := tx.Clone()
		if err := d.mutate(next, now); err != nil {
			return Result{}, tx, err
		}
		err := r.store.UpdateTransaction(ctx, next, tx.Status, d.effects...)
		if err == nil {
			r.report(ctx, tx, next, d)
			res := Result{Outcome: d.outcome, TransactionId: next.Id, Status: next.Status}
			if d.outcome == OutcomeConflict {
				return res, next, fmt.Errorf("%w: %s", ErrReconciliationConflict, d.reason)
			}
			return res, next, nil
		}
		if !errors.Is(err, storage.ErrStatusConflict) && !errors.Is(err, storage.ErrAlreadyApplied) {
			return Result{}, tx, fmt.Errorf("failed to apply %s to %s: %w", ev.Type, tx.Id, err)
		}

		slog.Info("Transaction changed while reconciling, re-evaluating", "transaction_id", tx.Id, "attempt", attempt+1)
		if tx, err = r.store.GetTransaction(ctx, tx.Id); err != nil {
			return Result{}, nil, fmt.Errorf("failed to reload transaction: %w", err)
		}
	}
	return Result{}, tx, fmt.Errorf("%w: transaction %s kept changing", storage.ErrStatusConflict, tx.Id)
}

// report logs and publishes what an applied decision changed.
func (r *Reconciler) report(ctx context.Context, before, after *models.Transaction, d decision) {
	switch d.outcome {
	case OutcomeApplied:
		slog.Info("Reconciled transaction", "transaction_id", after.Id, "from", before.Status, "to", after.Status)
	case OutcomeDuplicate:
		slog.Info("Duplicate provider event", "transaction_id", after.Id, "status", after.Status)
		return
	case OutcomeConflict:
		slog.Error("Reconciliation conflict", "transaction_id", after.Id, "status", after.Status, "reason", d.reason)
		return
	}

	for _, m := range d.effects {
		change := m.Amount
		if m.Kind.IsDebit() {
			change = change.Neg()
		}
		r.publish(ctx, notify.WalletUpdate(after, m.AccountId, change))
	}
	r.publish(ctx, notify.TransactionUpdate(after))
}

func (r *Reconciler) publish(ctx context.Context, msg notify.Message) {
	if err := r.publisher.Publish(ctx, msg); err != nil {
		slog.Warn("Failed to publish update", "account_id", msg.AccountId, "error", err)
	}
}

// matchesRail reports whether the event kind belongs to the transaction's rail:
// collections settle deposits, transfers settle payouts.
func matchesRail(tx *models.Transaction, ev provider.Event) bool {
	switch ev.Type {
	case provider.EventChargeCompleted:
		return tx.Type == models.TypeWalletDeposit
	case provider.EventTransferCompleted:
		return tx.Type.IsOutbound() && tx.Type.UsesProvider()
	}
	return false
}

package transfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/storage"
)

// Retry creates a new attempt for a failed transfer. The attempt keeps the
// original's amount, fees, rate and recipient; the original stays failed and
// points at the attempt.
func (s *Service) Retry(ctx context.Context, actor Actor, txID string) (*models.Transaction, error) {
	if !actor.Admin {
		return nil, ErrForbidden
	}
	orig, err := s.owned(ctx, actor, txID)
	if err != nil {
		return nil, err
	}
	if orig.Status != models.FAILED || !orig.Type.IsOutbound() {
		return nil, fmt.Errorf("%w: %s is %s %s", ErrNotRetryable, orig.Id, orig.Status, orig.Type)
	}
	if orig.RetriedBy != "" {
		return nil, fmt.Errorf("%w: already retried by %s", ErrNotRetryable, orig.RetriedBy)
	}

	account, err := s.activeAccount(ctx, orig.AccountId)
	if err != nil {
		return nil, err
	}
	if err := checkVerification(account, orig.Type); err != nil {
		return nil, err
	}
	if err := s.checkLimits(ctx, account, orig.Amount, true); err != nil {
		return nil, err
	}
	if orig.Type == models.TypeInternalTransfer {
		recipient, err := s.store.GetAccount(ctx, orig.CounterpartyAccountId)
		if err != nil {
			return nil, err
		}
		if !recipient.IsActive() {
			return nil, fmt.Errorf("%w: recipient %s", ErrAccountDisabled, recipient.Id)
		}
	}

	now := s.now()
	attempt := models.NewTransaction(models.NewTransactionParams{
		Type:              orig.Type,
		AccountId:         orig.AccountId,
		Counterparty:      orig.CounterpartyAccountId,
		Sender:            orig.Sender,
		Recipient:         orig.Recipient,
		Amount:            orig.Amount,
		Currency:          orig.Currency,
		Fees:              orig.Fees,
		ExchangeRate:      orig.ExchangeRate,
		RecipientAmount:   orig.RecipientAmount,
		RecipientCurrency: orig.RecipientCurrency,
		Narration:         orig.Narration,
		Expiry:            s.opts.Expiry,
		Now:               now,
	})
	attempt.RetryOf = orig.Id
	attempt.Reserved = true

	parent := orig.Clone()
	parent.RetriedBy = attempt.Id
	parent.AppendNote("Retried", models.Retry(orig.Id, attempt.Id), now)

	err = s.store.CreateRelatedTransaction(ctx, attempt, parent, models.FAILED, reservation(attempt))
	switch {
	case errors.Is(err, storage.ErrStatusConflict):
		return nil, fmt.Errorf("%w: %s changed concurrently", ErrNotRetryable, orig.Id)
	case err != nil:
		return nil, fmt.Errorf("failed to create retry attempt: %w", err)
	}
	slog.Info("Retry attempt created", "transaction_id", attempt.Id, "retry_of", orig.Id)
	s.publishWallet(ctx, attempt, attempt.AccountId, attempt.TotalAmount.Neg())

	if attempt.Type == models.TypeInternalTransfer {
		return s.completeInternal(ctx, attempt)
	}
	return s.dispatch(ctx, attempt)
}

// Refund returns the total amount of a completed transfer to its sender. The
// refund is its own transaction; the original moves to refunded.
func (s *Service) Refund(ctx context.Context, actor Actor, txID, reason string) (*models.Transaction, error) {
	if !actor.Admin {
		return nil, ErrForbidden
	}
	orig, err := s.owned(ctx, actor, txID)
	if err != nil {
		return nil, err
	}
	if orig.Status != models.COMPLETED || !orig.Type.IsOutbound() {
		return nil, fmt.Errorf("%w: %s is %s %s", ErrNotRefundable, orig.Id, orig.Status, orig.Type)
	}
	if orig.RefundedBy != "" {
		return nil, fmt.Errorf("%w: already refunded by %s", ErrNotRefundable, orig.RefundedBy)
	}
	if reason == "" {
		reason = "Refund requested"
	}

	now := s.now()
	refund := models.NewTransaction(models.NewTransactionParams{
		Type:         models.TypeRefund,
		AccountId:    orig.AccountId,
		Counterparty: orig.CounterpartyAccountId,
		Sender:       orig.Recipient,
		Recipient:    orig.Sender,
		Amount:       orig.TotalAmount,
		Currency:     orig.Currency,
		Narration:    fmt.Sprintf("Refund of %s", orig.Reference),
		Expiry:       s.opts.Expiry,
		Now:          now,
	})
	refund.RefundOf = orig.Id
	if err := refund.Transition(models.COMPLETED, "Refund completed", models.Refund(refund.Id, refund.Amount, reason), now); err != nil {
		return nil, err
	}

	parent := orig.Clone()
	parent.RefundedBy = refund.Id
	if err := parent.Transition(models.REFUNDED, "Transaction refunded", models.Refund(refund.Id, refund.Amount, reason), now); err != nil {
		return nil, err
	}

	effects := []storage.LedgerMutation{{
		AccountId:     orig.AccountId,
		TransactionId: refund.Id,
		Kind:          models.EntryRefund,
		Amount:        orig.TotalAmount,
		Currency:      orig.Currency,
		Description:   fmt.Sprintf("refund of %s", orig.Reference),
	}}
	if orig.Type == models.TypeInternalTransfer {
		// The recipient gives back what they received; the platform returns the fees.
		effects = append(effects, storage.LedgerMutation{
			AccountId:     orig.CounterpartyAccountId,
			TransactionId: refund.Id,
			Kind:          models.EntryReserve,
			Amount:        orig.Amount,
			Currency:      orig.Currency,
			Description:   fmt.Sprintf("refund of %s", orig.Reference),
		})
	}

	err = s.store.CreateRelatedTransaction(ctx, refund, parent, models.COMPLETED, effects...)
	switch {
	case errors.Is(err, storage.ErrStatusConflict):
		return nil, fmt.Errorf("%w: %s changed concurrently", ErrNotRefundable, orig.Id)
	case err != nil:
		return nil, fmt.Errorf("failed to refund %s: %w", orig.Id, err)
	}

	slog.Info("Transaction refunded", "transaction_id", orig.Id, "refund_id", refund.Id, "amount", refund.Amount.String())
	s.publishWallet(ctx, refund, orig.AccountId, orig.TotalAmount)
	if orig.Type == models.TypeInternalTransfer {
		s.publishWallet(ctx, refund, orig.CounterpartyAccountId, orig.Amount.Neg())
	}
	s.publishTransaction(ctx, parent)
	return refund, nil
}

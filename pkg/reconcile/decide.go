package reconcile

import (
	"fmt"
	"time"

	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/provider"
	"github.com/chris/remittance-ledger/pkg/storage"
)

// decision is what one event does to a transaction in its current state.
type decision struct {
	outcome Outcome
	to      models.TransactionStatus
	message string
	detail  *models.Detail
	effects []storage.LedgerMutation
	// compensated marks a reversal of the reservation in effects.
	compensated bool
	reason      string
}

func (d decision) mutate(t *models.Transaction, now time.Time) error {
	switch d.outcome {
	case OutcomeApplied:
		if err := t.Transition(d.to, d.message, d.detail, now); err != nil {
			return err
		}
		if d.compensated {
			t.AppendNote("Reservation reversed", models.Compensation(t.AccountId, t.TotalAmount, d.message), now)
		}
	case OutcomeConflict:
		t.NeedsReview = true
		t.AppendNote(d.message, d.detail, now)
	default:
		t.AppendNote(d.message, d.detail, now)
	}
	return nil
}

// decide maps (local state, provider outcome) to a decision. Ledger effects are
// only attached to transitions, which are status-guarded, so a replayed event
// cannot move money twice.
func decide(tx *models.Transaction, ev provider.Event, source string, now time.Time) decision {
	success := ev.Status == provider.EventSuccessful
	eventDetail := models.ProviderEvent(ev.Type, ev.ExternalId, string(ev.Status), source)
	duplicate := decision{
		outcome: OutcomeDuplicate,
		message: "Duplicate provider event",
		detail:  models.DuplicateEvent(ev.Type, string(ev.Status), source),
	}
	conflict := func(reason string) decision {
		return decision{
			outcome: OutcomeConflict,
			message: "Provider disagrees with local state",
			detail:  models.Conflict(tx.EffectiveStatus(now), string(ev.Status), reason),
			reason:  reason,
		}
	}

	if reason := mismatch(tx, ev); success && reason != "" {
		return conflict(reason)
	}

	if tx.Type == models.TypeWalletDeposit {
		switch status := tx.EffectiveStatus(now); {
		case success && status == models.PENDING:
			return decision{
				outcome: OutcomeApplied,
				to:      models.COMPLETED,
				message: "Deposit received",
				detail:  eventDetail,
				effects: []storage.LedgerMutation{{
					AccountId:     tx.AccountId,
					TransactionId: tx.Id,
					Kind:          models.EntryCredit,
					Amount:        tx.Amount,
					Currency:      tx.Currency,
					Description:   fmt.Sprintf("deposit %s", tx.Reference),
				}},
			}
		case success && status == models.COMPLETED:
			return duplicate
		case success:
			return conflict(fmt.Sprintf("payment received for %s deposit", status))
		case status == models.PENDING:
			return decision{outcome: OutcomeApplied, to: models.FAILED, message: "Deposit failed", detail: eventDetail}
		case status == models.COMPLETED:
			return conflict("failure reported for completed deposit")
		default:
			return duplicate
		}
	}

	switch tx.Status {
	case models.PENDING, models.PROCESSING:
		if success {
			return decision{outcome: OutcomeApplied, to: models.COMPLETED, message: "Transfer completed", detail: eventDetail}
		}
		d := decision{outcome: OutcomeApplied, to: models.FAILED, message: "Transfer failed", detail: eventDetail}
		if tx.Reserved {
			d.compensated = true
			d.effects = []storage.LedgerMutation{{
				AccountId:     tx.AccountId,
				TransactionId: tx.Id,
				Kind:          models.EntryCompensate,
				Amount:        tx.TotalAmount,
				Currency:      tx.Currency,
				Description:   "provider reported failure",
			}}
		}
		return d
	case models.COMPLETED, models.REFUNDED:
		if success {
			return duplicate
		}
		return conflict(fmt.Sprintf("failure reported for %s transfer", tx.Status))
	default:
		if success {
			return conflict(fmt.Sprintf("success reported for %s transfer", tx.Status))
		}
		return duplicate
	}
}

// mismatch compares the amount and currency the provider reports with the
// transaction. Collections are charged the total; payouts carry either side
// of a conversion.
func mismatch(tx *models.Transaction, ev provider.Event) string {
	if ev.Currency != "" {
		ok := ev.Currency == tx.Currency || (tx.RecipientCurrency != "" && ev.Currency == tx.RecipientCurrency)
		if !ok {
			return fmt.Sprintf("currency %s does not match %s", ev.Currency, tx.Currency)
		}
	}
	if ev.Amount == nil {
		return ""
	}
	if ev.Amount.Equal(tx.Amount) || ev.Amount.Equal(tx.TotalAmount) {
		return ""
	}
	if tx.RecipientAmount != nil && ev.Amount.Equal(*tx.RecipientAmount) {
		return ""
	}
	return fmt.Sprintf("amount %s does not match %s", ev.Amount, tx.TotalAmount)
}

package transfer

import (
	"errors"
	"fmt"

	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/storage"
)

var (
	// ErrValidation is returned for malformed or missing input, before any state changes.
	ErrValidation = errors.New("validation error")

	// ErrLimitExceeded is returned when a single, daily or monthly limit would be exceeded.
	ErrLimitExceeded = errors.New("limit exceeded")

	// ErrVerificationRequired is returned when the account has not passed the checks the rail requires.
	ErrVerificationRequired = errors.New("verification required")

	// ErrProvider is returned when the provider definitively rejected the request.
	ErrProvider = errors.New("provider error")

	// ErrAmbiguousOutcome is returned when the provider call timed out or failed in transit.
	// The reservation has been reversed and the transaction flagged for review.
	ErrAmbiguousOutcome = errors.New("ambiguous provider outcome")

	// ErrCompensationFailed is returned when a reservation could not be reversed.
	// The transaction is flagged for manual reconciliation.
	ErrCompensationFailed = errors.New("compensation failed")

	// ErrReconciliationConflict is returned when the provider's answer disagrees with
	// an outcome already recorded for the transaction. The transaction is flagged for review.
	ErrReconciliationConflict = models.ErrReconciliationConflict

	// ErrForbidden is returned when an operation needs the admin role.
	ErrForbidden = errors.New("forbidden")

	ErrNotCancellable = errors.New("transaction cannot be cancelled")
	ErrNotRetryable   = errors.New("transaction cannot be retried")
	ErrNotRefundable  = errors.New("transaction cannot be refunded")

	// Storage sentinels surfaced unchanged to callers.
	ErrNotFound          = storage.ErrNotFound
	ErrInsufficientFunds = storage.ErrInsufficientFunds
	ErrAccountDisabled   = storage.ErrAccountDisabled
	ErrCurrencyMismatch  = storage.ErrCurrencyMismatch
)

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

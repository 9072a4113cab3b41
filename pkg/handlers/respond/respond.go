// Package respond writes JSON responses and maps domain errors to HTTP statuses.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/chris/remittance-ledger/pkg/api"
	"github.com/chris/remittance-ledger/pkg/banks"
	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/provider"
	"github.com/chris/remittance-ledger/pkg/rates"
	"github.com/chris/remittance-ledger/pkg/reconcile"
	"github.com/chris/remittance-ledger/pkg/storage"
	"github.com/chris/remittance-ledger/pkg/transfer"
)

// JSON writes body with the given status.
func JSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}

// Decode reads a JSON request body into dst. Malformed bodies are validation errors.
func Decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body: %w", transfer.ErrValidation, err)
	}
	return nil
}

type mapping struct {
	target error
	status int
	code   string
}

// Order matters: the first sentinel err wraps decides the status.
var mappings = []mapping{
	{transfer.ErrValidation, http.StatusBadRequest, "validation_error"},
	{rates.ErrUnsupportedPair, http.StatusBadRequest, "unsupported_currency_pair"},
	{provider.ErrInvalidPayload, http.StatusBadRequest, "invalid_payload"},
	{reconcile.ErrInvalidSignature, http.StatusUnauthorized, "invalid_signature"},
	{transfer.ErrVerificationRequired, http.StatusForbidden, "verification_required"},
	{transfer.ErrForbidden, http.StatusForbidden, "forbidden"},
	{storage.ErrAccountDisabled, http.StatusForbidden, "account_disabled"},
	{storage.ErrNotFound, http.StatusNotFound, "not_found"},
	{banks.ErrUnsupportedCountry, http.StatusNotFound, "unsupported_country"},
	{transfer.ErrNotCancellable, http.StatusConflict, "not_cancellable"},
	{transfer.ErrNotRetryable, http.StatusConflict, "not_retryable"},
	{transfer.ErrNotRefundable, http.StatusConflict, "not_refundable"},
	{storage.ErrAlreadyExists, http.StatusConflict, "already_exists"},
	{storage.ErrInsufficientFunds, http.StatusUnprocessableEntity, "insufficient_funds"},
	{transfer.ErrLimitExceeded, http.StatusUnprocessableEntity, "limit_exceeded"},
	{storage.ErrCurrencyMismatch, http.StatusUnprocessableEntity, "currency_mismatch"},
	{transfer.ErrReconciliationConflict, http.StatusConflict, "reconciliation_conflict"},
	{transfer.ErrCompensationFailed, http.StatusInternalServerError, "compensation_failed"},
	{transfer.ErrProvider, http.StatusBadGateway, "provider_error"},
	{rates.ErrUnavailable, http.StatusServiceUnavailable, "rate_unavailable"},
	{transfer.ErrAmbiguousOutcome, http.StatusGatewayTimeout, "ambiguous_outcome"},
}

// Status returns the HTTP status and error code for err.
func Status(err error) (int, string) {
	for _, m := range mappings {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, "internal_error"
}

// Error writes err as an api.Error.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	TransactionError(w, r, nil, err)
}

// TransactionError writes err and, when the failed attempt was persisted, the
// id of its transaction record.
func TransactionError(w http.ResponseWriter, r *http.Request, tx *models.Transaction, err error) {
	status, code := Status(err)
	body := api.Error{Code: code, Message: err.Error()}
	switch {
	case code == "internal_error":
		slog.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		body.Message = "internal server error"
	case status == http.StatusUnauthorized:
		body.Message = "unauthorized"
	case status >= 500:
		slog.Error("Request failed", "method", r.Method, "path", r.URL.Path, "code", code, "error", err)
	}
	if tx != nil && tx.Id != "" {
		id := tx.Id
		body.TransactionId = &id
	}
	JSON(w, status, body)
}

// ParamError is the error handler for the generated router's parameter binding.
func ParamError(w http.ResponseWriter, r *http.Request, err error) {
	JSON(w, http.StatusBadRequest, api.Error{Code: "validation_error", Message: err.Error()})
}

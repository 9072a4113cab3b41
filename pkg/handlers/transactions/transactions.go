package transactions

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/chris/remittance-ledger/pkg/api"
	"github.com/chris/remittance-ledger/pkg/handlers/respond"
	"github.com/chris/remittance-ledger/pkg/mapping"
	"github.com/chris/remittance-ledger/pkg/middleware"
	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/transfer"
)

// Service is the part of the transfer service that reads and acts on existing transactions.
type Service interface {
	Status(ctx context.Context, actor transfer.Actor, idOrRef string) (*models.Transaction, error)
	History(ctx context.Context, accountID string, since time.Time) ([]models.Transaction, error)
	Cancel(ctx context.Context, actor transfer.Actor, txID string) (*models.Transaction, error)
	Retry(ctx context.Context, actor transfer.Actor, txID string) (*models.Transaction, error)
	Refund(ctx context.Context, actor transfer.Actor, txID, reason string) (*models.Transaction, error)
}

// TransactionHandler holds the dependencies for transaction-related handlers.
type TransactionHandler struct {
	Service Service
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(service Service) *TransactionHandler {
	return &TransactionHandler{Service: service}
}

// GetTransaction returns a transaction by id or reference with its effective status.
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request, transactionId string) {
	id, ok := middleware.CallerIdentity(w, r)
	if !ok {
		return
	}

	tx, err := h.Service.Status(r.Context(), id.Actor(), transactionId)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiTransaction(tx))
}

// ListTransactions returns the caller's transactions, newest first. Without
// since, the default history window applies.
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request, params api.ListTransactionsParams) {
	id, ok := middleware.CallerIdentity(w, r)
	if !ok {
		return
	}
	var since time.Time
	if params.Since != nil {
		since = *params.Since
	}

	txs, err := h.Service.History(r.Context(), id.AccountId, since)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiTransactions(txs))
}

// CancelTransaction cancels a pending transaction the caller sent.
func (h *TransactionHandler) CancelTransaction(w http.ResponseWriter, r *http.Request, transactionId string) {
	id, ok := middleware.CallerIdentity(w, r)
	if !ok {
		return
	}

	tx, err := h.Service.Cancel(r.Context(), id.Actor(), transactionId)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiTransaction(tx))
}

// RetryTransaction creates a new attempt for a failed outbound transaction.
func (h *TransactionHandler) RetryTransaction(w http.ResponseWriter, r *http.Request, transactionId string) {
	id, ok := middleware.CallerIdentity(w, r)
	if !ok {
		return
	}

	tx, err := h.Service.Retry(r.Context(), id.Actor(), transactionId)
	if err != nil {
		respond.TransactionError(w, r, tx, err)
		return
	}
	respond.JSON(w, http.StatusCreated, mapping.ToApiTransaction(tx))
}

// RefundTransaction refunds a completed outbound transaction. The body is optional.
func (h *TransactionHandler) RefundTransaction(w http.ResponseWriter, r *http.Request, transactionId string) {
	id, ok := middleware.CallerIdentity(w, r)
	if !ok {
		return
	}
	var body api.RefundRequest
	if err := respond.Decode(r, &body); err != nil && !errors.Is(err, io.EOF) {
		respond.Error(w, r, err)
		return
	}
	reason := "Refund requested"
	if body.Reason != nil && *body.Reason != "" {
		reason = *body.Reason
	}

	tx, err := h.Service.Refund(r.Context(), id.Actor(), transactionId, reason)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, mapping.ToApiTransaction(tx))
}

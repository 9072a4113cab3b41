package webhooks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/chris/remittance-ledger/pkg/api"
	"github.com/chris/remittance-ledger/pkg/handlers/respond"
	"github.com/chris/remittance-ledger/pkg/provider"
	"github.com/chris/remittance-ledger/pkg/reconcile"
	"github.com/chris/remittance-ledger/pkg/scheduler"
)

const maxPayloadBytes = 1 << 20

// Reconciler verifies and applies provider webhooks.
type Reconciler interface {
	Verify(payload []byte, signature string) error
	ApplyPayload(ctx context.Context, payload []byte) (reconcile.Result, error)
}

// WebhookHandler receives provider callbacks. With a Scheduler set, verified
// payloads are queued and applied asynchronously; otherwise they are applied inline.
type WebhookHandler struct {
	Reconciler Reconciler
	Scheduler  scheduler.Scheduler
}

// NewWebhookHandler creates a new WebhookHandler. sched may be nil.
func NewWebhookHandler(reconciler Reconciler, sched scheduler.Scheduler) *WebhookHandler {
	return &WebhookHandler{Reconciler: reconciler, Scheduler: sched}
}

// ReceiveProviderWebhook verifies the signature over the raw body before anything is parsed.
func (h *WebhookHandler) ReceiveProviderWebhook(w http.ResponseWriter, r *http.Request, params api.ReceiveProviderWebhookParams) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err != nil {
		respond.Error(w, r, fmt.Errorf("%w: %w", provider.ErrInvalidPayload, err))
		return
	}
	signature := ""
	if params.VerifHash != nil {
		signature = *params.VerifHash
	}
	if err := h.Reconciler.Verify(payload, signature); err != nil {
		slog.Warn("Rejected provider webhook", "remote_addr", r.RemoteAddr, "error", err)
		respond.Error(w, r, err)
		return
	}

	if h.Scheduler != nil {
		env := scheduler.WebhookEnvelope{Payload: string(payload), Signature: signature, ReceivedAt: time.Now().UTC()}
		if err := h.Scheduler.EnqueueWebhook(r.Context(), env); err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, api.WebhookAck{Outcome: "queued"})
		return
	}

	res, err := h.Reconciler.ApplyPayload(r.Context(), payload)
	if err != nil && !errors.Is(err, reconcile.ErrReconciliationConflict) {
		respond.Error(w, r, err)
		return
	}
	// Conflicts are flagged for review and still acknowledged so the provider stops retrying.
	respond.JSON(w, http.StatusOK, toAck(res))
}

func toAck(res reconcile.Result) api.WebhookAck {
	ack := api.WebhookAck{Outcome: string(res.Outcome)}
	if res.TransactionId != "" {
		id := res.TransactionId
		ack.TransactionId = &id
	}
	if res.Status != "" {
		s := string(res.Status)
		ack.Status = &s
	}
	return ack
}

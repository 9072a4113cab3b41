package scheduler

import (
	"context"
	"time"
)

// WebhookEnvelope is a provider webhook accepted at the edge and queued for
// processing. Payload keeps the exact bytes that were signed.
type WebhookEnvelope struct {
	Payload    string    `json:"payload"`
	Signature  string    `json:"signature"`
	ReceivedAt time.Time `json:"received_at"`
}

// Scheduler defines the interface for a component that defers webhook processing.
type Scheduler interface {
	// EnqueueWebhook durably accepts a webhook for asynchronous processing.
	EnqueueWebhook(ctx context.Context, env WebhookEnvelope) error
}

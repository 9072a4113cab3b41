// Package provider is the boundary to the external payment provider that pays
// out to banks and mobile-money wallets and collects deposits.
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/money"
)

var (
	// ErrRejected means the provider definitively declined the request.
	ErrRejected = errors.New("provider rejected request")
	// ErrAmbiguous means the request may or may not have been acted upon.
	ErrAmbiguous = errors.New("provider outcome unknown")
	// ErrInvalidPayload is returned by ParseWebhook for bodies it cannot read.
	ErrInvalidPayload = errors.New("invalid webhook payload")
)

// TransferStatus is the provider's view of a payout.
type TransferStatus string

const (
	// StatusAccepted means the payout is queued; a webhook will settle it.
	StatusAccepted  TransferStatus = "accepted"
	StatusCompleted TransferStatus = "completed"
	StatusFailed    TransferStatus = "failed"
)

// EventStatus is the normalized outcome carried by a webhook.
type EventStatus string

const (
	EventSuccessful EventStatus = "successful"
	EventFailed     EventStatus = "failed"
	EventPending    EventStatus = "pending"
)

// Webhook event types the system acts on. Anything else is acknowledged and ignored.
const (
	EventChargeCompleted   = "charge.completed"
	EventTransferCompleted = "transfer.completed"
)

// TransferRequest is a payout to a bank account or mobile-money wallet. For
// mobile money AccountBank is the network code and AccountNumber the phone number.
type TransferRequest struct {
	Reference       string
	AccountBank     string
	AccountNumber   string
	BeneficiaryName string
	Amount          money.Amount
	Currency        money.Currency
	// DebitCurrency is the wallet currency funding the payout; empty means Currency.
	DebitCurrency money.Currency
	Narration     string
}

// TransferResult is the provider's answer to a payout request.
type TransferResult struct {
	ExternalId string
	Status     TransferStatus
	Message    string
	Raw        string
}

// CollectionRequest asks the provider for an instrument the customer can pay into.
type CollectionRequest struct {
	Reference string
	Kind      models.InstrumentKind
	Amount    money.Amount
	Currency  money.Currency
	Email     string
	Name      string
	Phone     string
}

// StatusResult is the answer to a status poll.
type StatusResult struct {
	ExternalId string
	Reference  string
	Status     TransferStatus
	Message    string
}

// Event is a parsed webhook.
type Event struct {
	Type       string
	Reference  string
	ExternalId string
	Status     EventStatus
	Amount     *money.Amount
	Currency   money.Currency
	Raw        []byte
}

// Client defines the operations the orchestrator and reconciliation need from a provider.
type Client interface {
	Name() string
	Transfer(ctx context.Context, req TransferRequest) (TransferResult, error)
	InitiateCollection(ctx context.Context, req CollectionRequest) (models.Instrument, error)
	GetTransferStatus(ctx context.Context, externalID string) (StatusResult, error)
	VerifyWebhookSignature(payload []byte, signature string) bool
	ParseWebhook(payload []byte) (Event, error)
}

// APIError is an error response from the provider. 4xx responses are
// rejections; 5xx responses leave the outcome unknown.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("provider error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("provider error %d: %s", e.StatusCode, e.Message)
}

// Is lets callers match an APIError against ErrRejected or ErrAmbiguous.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrRejected:
		return e.StatusCode < 500
	case ErrAmbiguous:
		return e.StatusCode >= 500
	}
	return false
}

package models

import (
	"time"

	"github.com/chris/remittance-ledger/pkg/money"
)

// EntryKind separates status transitions from informational notes.
type EntryKind string

const (
	EntryTransition EntryKind = "transition"
	EntryNote       EntryKind = "note"
)

// TimelineEntry is one append-only audit record.
type TimelineEntry struct {
	Kind      EntryKind         `json:"kind" dynamodbav:"kind"`
	Status    TransactionStatus `json:"status" dynamodbav:"status"`
	Timestamp time.Time         `json:"timestamp" dynamodbav:"timestamp"`
	Message   string            `json:"message" dynamodbav:"message"`
	Detail    *Detail           `json:"detail,omitempty" dynamodbav:"detail,omitempty"`
}

// DetailKind tags which member of Detail is set.
type DetailKind string

const (
	DetailProviderError      DetailKind = "provider_error"
	DetailAmbiguousOutcome   DetailKind = "ambiguous_outcome"
	DetailProviderAccepted   DetailKind = "provider_accepted"
	DetailProviderEvent      DetailKind = "provider_event"
	DetailRefund             DetailKind = "refund"
	DetailCompensation       DetailKind = "compensation"
	DetailCompensationFailed DetailKind = "compensation_failed"
	DetailDuplicateEvent     DetailKind = "duplicate_event"
	DetailConflict           DetailKind = "reconciliation_conflict"
	DetailRetry              DetailKind = "retry"
	DetailExpiry             DetailKind = "expiry"
	DetailFunds              DetailKind = "insufficient_funds"
)

// Detail is a tagged union: Kind names the single non-nil member.
type Detail struct {
	Kind               DetailKind                `json:"kind" dynamodbav:"kind"`
	ProviderError      *ProviderErrorDetail      `json:"provider_error,omitempty" dynamodbav:"provider_error,omitempty"`
	AmbiguousOutcome   *AmbiguousOutcomeDetail   `json:"ambiguous_outcome,omitempty" dynamodbav:"ambiguous_outcome,omitempty"`
	ProviderAccepted   *ProviderAcceptedDetail   `json:"provider_accepted,omitempty" dynamodbav:"provider_accepted,omitempty"`
	ProviderEvent      *ProviderEventDetail      `json:"provider_event,omitempty" dynamodbav:"provider_event,omitempty"`
	Refund             *RefundDetail             `json:"refund,omitempty" dynamodbav:"refund,omitempty"`
	Compensation       *CompensationDetail       `json:"compensation,omitempty" dynamodbav:"compensation,omitempty"`
	CompensationFailed *CompensationFailedDetail `json:"compensation_failed,omitempty" dynamodbav:"compensation_failed,omitempty"`
	DuplicateEvent     *DuplicateEventDetail     `json:"duplicate_event,omitempty" dynamodbav:"duplicate_event,omitempty"`
	Conflict           *ConflictDetail           `json:"conflict,omitempty" dynamodbav:"conflict,omitempty"`
	Retry              *RetryDetail              `json:"retry,omitempty" dynamodbav:"retry,omitempty"`
	Expiry             *ExpiryDetail             `json:"expiry,omitempty" dynamodbav:"expiry,omitempty"`
	Funds              *FundsDetail              `json:"funds,omitempty" dynamodbav:"funds,omitempty"`
}

type ProviderErrorDetail struct {
	Provider string `json:"provider" dynamodbav:"provider"`
	Code     string `json:"code,omitempty" dynamodbav:"code,omitempty"`
	Message  string `json:"message" dynamodbav:"message"`
}

// AmbiguousOutcomeDetail marks a failure recorded without knowing whether the provider acted.
type AmbiguousOutcomeDetail struct {
	Provider string `json:"provider" dynamodbav:"provider"`
	Cause    string `json:"cause" dynamodbav:"cause"`
	Timeout  string `json:"timeout,omitempty" dynamodbav:"timeout,omitempty"`
}

type ProviderAcceptedDetail struct {
	Provider   string `json:"provider" dynamodbav:"provider"`
	ExternalId string `json:"external_id" dynamodbav:"external_id"`
}

type ProviderEventDetail struct {
	Event      string `json:"event" dynamodbav:"event"`
	ExternalId string `json:"external_id,omitempty" dynamodbav:"external_id,omitempty"`
	Status     string `json:"status" dynamodbav:"status"`
	Source     string `json:"source" dynamodbav:"source"`
}

type RefundDetail struct {
	RefundTransactionId string       `json:"refund_transaction_id,omitempty" dynamodbav:"refund_transaction_id,omitempty"`
	Amount              money.Amount `json:"amount" dynamodbav:"amount"`
	Reason              string       `json:"reason" dynamodbav:"reason"`
}

type CompensationDetail struct {
	AccountId string       `json:"account_id" dynamodbav:"account_id"`
	Amount    money.Amount `json:"amount" dynamodbav:"amount"`
	Cause     string       `json:"cause" dynamodbav:"cause"`
}

// CompensationFailedDetail means a reservation could not be confirmed as reversed.
type CompensationFailedDetail struct {
	AccountId string       `json:"account_id" dynamodbav:"account_id"`
	Amount    money.Amount `json:"amount" dynamodbav:"amount"`
	Error     string       `json:"error" dynamodbav:"error"`
}

type DuplicateEventDetail struct {
	Event  string `json:"event" dynamodbav:"event"`
	Status string `json:"status" dynamodbav:"status"`
	Source string `json:"source" dynamodbav:"source"`
}

type ConflictDetail struct {
	LocalStatus    TransactionStatus `json:"local_status" dynamodbav:"local_status"`
	ProviderStatus string            `json:"provider_status" dynamodbav:"provider_status"`
	Reason         string            `json:"reason" dynamodbav:"reason"`
}

type RetryDetail struct {
	OriginalId string `json:"original_id,omitempty" dynamodbav:"original_id,omitempty"`
	AttemptId  string `json:"attempt_id,omitempty" dynamodbav:"attempt_id,omitempty"`
}

type ExpiryDetail struct {
	ExpiresAt time.Time `json:"expires_at" dynamodbav:"expires_at"`
}

type FundsDetail struct {
	Required money.Amount `json:"required" dynamodbav:"required"`
	Reason   string       `json:"reason" dynamodbav:"reason"`
}

func ProviderError(provider, code, message string) *Detail {
	return &Detail{Kind: DetailProviderError, ProviderError: &ProviderErrorDetail{Provider: provider, Code: code, Message: message}}
}

func AmbiguousOutcome(provider, cause string, timeout time.Duration) *Detail {
	d := &AmbiguousOutcomeDetail{Provider: provider, Cause: cause}
	if timeout > 0 {
		d.Timeout = timeout.String()
	}
	return &Detail{Kind: DetailAmbiguousOutcome, AmbiguousOutcome: d}
}

func ProviderAccepted(provider, externalID string) *Detail {
	return &Detail{Kind: DetailProviderAccepted, ProviderAccepted: &ProviderAcceptedDetail{Provider: provider, ExternalId: externalID}}
}

func ProviderEvent(event, externalID, status, source string) *Detail {
	return &Detail{Kind: DetailProviderEvent, ProviderEvent: &ProviderEventDetail{Event: event, ExternalId: externalID, Status: status, Source: source}}
}

func Refund(refundTxID string, amount money.Amount, reason string) *Detail {
	return &Detail{Kind: DetailRefund, Refund: &RefundDetail{RefundTransactionId: refundTxID, Amount: amount, Reason: reason}}
}

func Compensation(accountID string, amount money.Amount, cause string) *Detail {
	return &Detail{Kind: DetailCompensation, Compensation: &CompensationDetail{AccountId: accountID, Amount: amount, Cause: cause}}
}

func CompensationFailed(accountID string, amount money.Amount, err error) *Detail {
	return &Detail{Kind: DetailCompensationFailed, CompensationFailed: &CompensationFailedDetail{AccountId: accountID, Amount: amount, Error: err.Error()}}
}

func DuplicateEvent(event, status, source string) *Detail {
	return &Detail{Kind: DetailDuplicateEvent, DuplicateEvent: &DuplicateEventDetail{Event: event, Status: status, Source: source}}
}

func Conflict(local TransactionStatus, providerStatus, reason string) *Detail {
	return &Detail{Kind: DetailConflict, Conflict: &ConflictDetail{LocalStatus: local, ProviderStatus: providerStatus, Reason: reason}}
}

func Retry(originalID, attemptID string) *Detail {
	return &Detail{Kind: DetailRetry, Retry: &RetryDetail{OriginalId: originalID, AttemptId: attemptID}}
}

func Expiry(at time.Time) *Detail {
	return &Detail{Kind: DetailExpiry, Expiry: &ExpiryDetail{ExpiresAt: at}}
}

func InsufficientFunds(required money.Amount, reason string) *Detail {
	return &Detail{Kind: DetailFunds, Funds: &FundsDetail{Required: required, Reason: reason}}
}

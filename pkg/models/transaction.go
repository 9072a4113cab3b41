package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chris/remittance-ledger/pkg/money"
	"github.com/google/uuid"
)

// DefaultExpiry is how long a transaction may stay pending before it is logically expired.
const DefaultExpiry = 24 * time.Hour

// Fees is the frozen fee breakdown of a transaction.
type Fees struct {
	TransactionFee money.Amount `json:"transaction_fee" dynamodbav:"transaction_fee"`
	ExchangeFee    money.Amount `json:"exchange_fee" dynamodbav:"exchange_fee"`
	ProcessingFee  money.Amount `json:"processing_fee" dynamodbav:"processing_fee"`
	TotalFees      money.Amount `json:"total_fees" dynamodbav:"total_fees"`
}

// RateSnapshot is the exchange rate observed when a cross-currency transaction was created.
type RateSnapshot struct {
	From       money.Currency `json:"from" dynamodbav:"from"`
	To         money.Currency `json:"to" dynamodbav:"to"`
	Rate       money.Rate     `json:"rate" dynamodbav:"rate"`
	ObservedAt time.Time      `json:"observed_at" dynamodbav:"observed_at"`
}

// InstrumentKind is the kind of payment instrument issued for a deposit.
type InstrumentKind string

const (
	InstrumentPaymentLink    InstrumentKind = "payment_link"
	InstrumentVirtualAccount InstrumentKind = "virtual_account"
)

// Instrument tells the payer how to fund a pending deposit.
type Instrument struct {
	Kind          InstrumentKind `json:"kind" dynamodbav:"kind"`
	Link          string         `json:"link,omitempty" dynamodbav:"link,omitempty"`
	AccountNumber string         `json:"account_number,omitempty" dynamodbav:"account_number,omitempty"`
	BankName      string         `json:"bank_name,omitempty" dynamodbav:"bank_name,omitempty"`
	ExpiresAt     *time.Time     `json:"expires_at,omitempty" dynamodbav:"expires_at,omitempty"`
}

// ProviderInfo links a transaction to the external rail. Name is set once the
// transaction has been handed to the provider, ExternalId once it is accepted.
type ProviderInfo struct {
	Name        string      `json:"name" dynamodbav:"name"`
	ExternalId  string      `json:"external_transaction_id,omitempty" dynamodbav:"external_transaction_id,omitempty"`
	RawResponse string      `json:"raw_response,omitempty" dynamodbav:"raw_response,omitempty"`
	Instrument  *Instrument `json:"instrument,omitempty" dynamodbav:"instrument,omitempty"`
}

// Transaction is the durable record of one money movement.
type Transaction struct {
	Id        string          `json:"id" dynamodbav:"id"`
	Reference string          `json:"reference" dynamodbav:"reference"`
	Type      TransactionType `json:"type" dynamodbav:"type"`

	// AccountId is the account whose balance the transaction primarily moves: the
	// sender for outbound transfers, the depositor for deposits.
	AccountId             string `json:"account_id" dynamodbav:"account_id"`
	CounterpartyAccountId string `json:"counterparty_account_id,omitempty" dynamodbav:"counterparty_account_id,omitempty"`

	Sender    Party `json:"sender" dynamodbav:"sender"`
	Recipient Party `json:"recipient" dynamodbav:"recipient"`

	Amount            money.Amount   `json:"amount" dynamodbav:"amount"`
	Currency          money.Currency `json:"currency" dynamodbav:"currency"`
	ExchangeRate      *RateSnapshot  `json:"exchange_rate,omitempty" dynamodbav:"exchange_rate,omitempty"`
	RecipientAmount   *money.Amount  `json:"recipient_amount,omitempty" dynamodbav:"recipient_amount,omitempty"`
	RecipientCurrency money.Currency `json:"recipient_currency,omitempty" dynamodbav:"recipient_currency,omitempty"`
	Fees              Fees           `json:"fees" dynamodbav:"fees"`
	TotalAmount       money.Amount   `json:"total_amount" dynamodbav:"total_amount"`

	Status    TransactionStatus `json:"status" dynamodbav:"status"`
	Provider  *ProviderInfo     `json:"provider,omitempty" dynamodbav:"provider,omitempty"`
	Narration string            `json:"narration,omitempty" dynamodbav:"narration,omitempty"`
	Timeline  []TimelineEntry   `json:"timeline" dynamodbav:"timeline"`

	// Reserved is true once the sender's balance has been debited for TotalAmount.
	Reserved bool `json:"reserved" dynamodbav:"reserved"`
	// NeedsReview flags the record for manual reconciliation.
	NeedsReview bool `json:"needs_review" dynamodbav:"needs_review"`

	RetryOf    string `json:"retry_of,omitempty" dynamodbav:"retry_of,omitempty"`
	RetriedBy  string `json:"retried_by,omitempty" dynamodbav:"retried_by,omitempty"`
	RefundOf   string `json:"refund_of,omitempty" dynamodbav:"refund_of,omitempty"`
	RefundedBy string `json:"refunded_by,omitempty" dynamodbav:"refunded_by,omitempty"`

	ExpiresAt   *time.Time `json:"expires_at,omitempty" dynamodbav:"expires_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty" dynamodbav:"completed_at,omitempty"`
	FailedAt    *time.Time `json:"failed_at,omitempty" dynamodbav:"failed_at,omitempty"`
	Version     int64      `json:"version" dynamodbav:"version"`
	CreatedAt   time.Time  `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" dynamodbav:"updated_at"`
}

// NewTransactionParams are the inputs fixed at construction.
type NewTransactionParams struct {
	Type              TransactionType
	AccountId         string
	Counterparty      string
	Sender            Party
	Recipient         Party
	Amount            money.Amount
	Currency          money.Currency
	Fees              Fees
	ExchangeRate      *RateSnapshot
	RecipientAmount   *money.Amount
	RecipientCurrency money.Currency
	Narration         string
	Expiry            time.Duration
	Now               time.Time
}

// NewTransaction builds a pending transaction. The id and reference are generated
// here and never change; TotalAmount is frozen from Amount and Fees.
func NewTransaction(p NewTransactionParams) *Transaction {
	now := p.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	expiry := p.Expiry
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	expiresAt := now.Add(expiry)

	tx := &Transaction{
		Id:                    uuid.New().String(),
		Reference:             NewReference(now),
		Type:                  p.Type,
		AccountId:             p.AccountId,
		CounterpartyAccountId: p.Counterparty,
		Sender:                p.Sender,
		Recipient:             p.Recipient,
		Amount:                p.Amount,
		Currency:              p.Currency,
		ExchangeRate:          p.ExchangeRate,
		RecipientAmount:       p.RecipientAmount,
		RecipientCurrency:     p.RecipientCurrency,
		Fees:                  p.Fees,
		TotalAmount:           p.Amount.Add(p.Fees.TotalFees),
		Status:                PENDING,
		Narration:             p.Narration,
		ExpiresAt:             &expiresAt,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	tx.Timeline = []TimelineEntry{{
		Kind:      EntryTransition,
		Status:    PENDING,
		Timestamp: now,
		Message:   "Transaction created",
	}}
	return tx
}

// NewReference returns an external-facing reference such as TXN-LZ3K9Q0A-4F1C2B7D.
func NewReference(now time.Time) string {
	ts := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("TXN-%s-%s", ts, suffix)
}

// AppendTimeline records a status change. Completion and failure timestamps are
// only set the first time.
func (t *Transaction) AppendTimeline(status TransactionStatus, message string, detail *Detail, at time.Time) {
	t.Timeline = append(t.Timeline, TimelineEntry{
		Kind:      EntryTransition,
		Status:    status,
		Timestamp: at,
		Message:   message,
		Detail:    detail,
	})
	t.Status = status
	t.UpdatedAt = at

	switch status {
	case COMPLETED:
		if t.CompletedAt == nil {
			ts := at
			t.CompletedAt = &ts
		}
	case FAILED, EXPIRED, CANCELLED:
		if t.FailedAt == nil {
			ts := at
			t.FailedAt = &ts
		}
	}
}

// AppendNote records an observation that does not change the status.
func (t *Transaction) AppendNote(message string, detail *Detail, at time.Time) {
	t.Timeline = append(t.Timeline, TimelineEntry{
		Kind:      EntryNote,
		Status:    t.Status,
		Timestamp: at,
		Message:   message,
		Detail:    detail,
	})
	t.UpdatedAt = at
}

// Transition validates the move against the state machine and appends it.
func (t *Transaction) Transition(to TransactionStatus, message string, detail *Detail, at time.Time) error {
	if err := checkTransition(t.Status, to); err != nil {
		return err
	}
	t.AppendTimeline(to, message, detail, at)
	return nil
}

// EngagedProvider reports whether the transaction has been handed to the provider.
func (t *Transaction) EngagedProvider() bool {
	return t.Provider != nil
}

// EffectiveStatus applies lazy expiry: a pending transaction past ExpiresAt is
// expired even if nothing has written that yet. Outbound transfers already handed
// to the provider are resolved by the provider, not the clock.
func (t *Transaction) EffectiveStatus(now time.Time) TransactionStatus {
	if t.Status != PENDING || t.ExpiresAt == nil || !now.After(*t.ExpiresAt) {
		return t.Status
	}
	if t.Type.IsOutbound() && t.EngagedProvider() {
		return t.Status
	}
	return EXPIRED
}

// Transitions returns the status-changing entries of the timeline.
func (t *Transaction) Transitions() []TimelineEntry {
	var out []TimelineEntry
	for _, e := range t.Timeline {
		if e.Kind != EntryNote {
			out = append(out, e)
		}
	}
	return out
}

// Clone returns a copy that can be mutated without touching t.
func (t *Transaction) Clone() *Transaction {
	c := *t
	c.Timeline = append([]TimelineEntry(nil), t.Timeline...)
	if t.Provider != nil {
		p := *t.Provider
		c.Provider = &p
	}
	return &c
}

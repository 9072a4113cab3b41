package provider

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/chris/remittance-ledger/pkg/models"
)

// Outcome selects how the simulator answers a transfer.
type Outcome string

const (
	// OutcomeComplete settles synchronously.
	OutcomeComplete Outcome = "complete"
	// OutcomeAccept queues the payout; a webhook or Settle call finishes it.
	OutcomeAccept  Outcome = "accept"
	OutcomeFail    Outcome = "fail"
	OutcomeTimeout Outcome = "timeout"
)

// Simulator is an in-process provider for local runs and tests.
type Simulator struct {
	mu            sync.Mutex
	webhookSecret string
	defaultOut    Outcome
	latency       time.Duration
	outcomes      map[string]Outcome
	transfers     map[string]StatusResult
	seq           int
	calls         int
}

// NewSimulator returns a simulator that completes transfers unless told otherwise.
func NewSimulator(webhookSecret string) *Simulator {
	return &Simulator{
		webhookSecret: webhookSecret,
		defaultOut:    OutcomeComplete,
		outcomes:      make(map[string]Outcome),
		transfers:     make(map[string]StatusResult),
	}
}

// SetDefault changes the outcome for references without an override.
func (s *Simulator) SetDefault(o Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaultOut = o
}

// SetOutcome overrides the outcome for one reference.
func (s *Simulator) SetOutcome(reference string, o Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes[reference] = o
}

// SetLatency delays every call.
func (s *Simulator) SetLatency(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latency = d
}

// Calls reports how many transfers were requested.
func (s *Simulator) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Settle moves an accepted payout to its final status, as the provider would
// before sending the webhook.
func (s *Simulator) Settle(externalID string, status TransferStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.transfers[externalID]
	if !ok {
		return fmt.Errorf("unknown transfer %s", externalID)
	}
	st.Status = status
	s.transfers[externalID] = st
	return nil
}

// WebhookSecret exposes the signing secret so tests can build signed payloads.
func (s *Simulator) WebhookSecret() string { return s.webhookSecret }

func (s *Simulator) Name() string { return "simulator" }

func (s *Simulator) wait(ctx context.Context) error {
	s.mu.Lock()
	d := s.latency
	s.mu.Unlock()
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrAmbiguous, ctx.Err())
	}
}

// Transfer answers according to the configured outcome.
func (s *Simulator) Transfer(ctx context.Context, req TransferRequest) (TransferResult, error) {
	s.mu.Lock()
	s.calls++
	out, ok := s.outcomes[req.Reference]
	if !ok {
		out = s.defaultOut
	}
	s.mu.Unlock()

	if out == OutcomeTimeout {
		<-ctx.Done()
		return TransferResult{}, fmt.Errorf("%w: %w", ErrAmbiguous, ctx.Err())
	}
	if err := s.wait(ctx); err != nil {
		return TransferResult{}, err
	}
	if out == OutcomeFail {
		return TransferResult{}, &APIError{StatusCode: http.StatusBadRequest, Code: "SIMULATED_FAILURE", Message: "Transfer declined by simulator"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	id := fmt.Sprintf("SIM-%06d", s.seq)
	status := StatusCompleted
	if out == OutcomeAccept {
		status = StatusAccepted
	}
	s.transfers[id] = StatusResult{ExternalId: id, Reference: req.Reference, Status: status}
	return TransferResult{ExternalId: id, Status: status, Message: "Transfer queued"}, nil
}

// InitiateCollection returns a fake payment link or virtual account.
func (s *Simulator) InitiateCollection(ctx context.Context, req CollectionRequest) (models.Instrument, error) {
	if err := s.wait(ctx); err != nil {
		return models.Instrument{}, err
	}
	switch req.Kind {
	case models.InstrumentPaymentLink:
		return models.Instrument{Kind: req.Kind, Link: "https://checkout.simulator.local/pay/" + req.Reference}, nil
	case models.InstrumentVirtualAccount:
		s.mu.Lock()
		s.seq++
		n := s.seq
		s.mu.Unlock()
		expires := time.Now().UTC().Add(time.Hour)
		return models.Instrument{
			Kind:          req.Kind,
			AccountNumber: fmt.Sprintf("99%08d", n),
			BankName:      "Simulator Bank",
			ExpiresAt:     &expires,
		}, nil
	}
	return models.Instrument{}, fmt.Errorf("%w: unsupported instrument %q", ErrRejected, req.Kind)
}

// GetTransferStatus returns the stored status of a payout.
func (s *Simulator) GetTransferStatus(ctx context.Context, externalID string) (StatusResult, error) {
	if err := s.wait(ctx); err != nil {
		return StatusResult{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.transfers[externalID]
	if !ok {
		return StatusResult{}, &APIError{StatusCode: http.StatusNotFound, Message: "transfer not found"}
	}
	return st, nil
}

func (s *Simulator) VerifyWebhookSignature(payload []byte, signature string) bool {
	return VerifySignature(s.webhookSecret, payload, signature)
}

func (s *Simulator) ParseWebhook(payload []byte) (Event, error) {
	return parseEvent(payload)
}

var _ Client = (*Simulator)(nil)

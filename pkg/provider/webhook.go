package provider

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chris/remittance-ledger/pkg/money"
)

// flexibleID accepts numeric and string ids.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(b []byte) error {
	*f = flexibleID(strings.Trim(string(bytes.TrimSpace(b)), `"`))
	return nil
}

type webhookBody struct {
	Event string `json:"event"`
	Data  struct {
		Id        flexibleID    `json:"id"`
		TxRef     string        `json:"tx_ref"`
		Reference string        `json:"reference"`
		Status    string        `json:"status"`
		Amount    *money.Amount `json:"amount"`
		Currency  string        `json:"currency"`
	} `json:"data"`
}

// parseEvent reads the provider's webhook body. Collections carry the reference in
// tx_ref, payouts in reference.
func parseEvent(payload []byte) (Event, error) {
	var body webhookBody
	if err := json.Unmarshal(payload, &body); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if body.Event == "" {
		return Event{}, fmt.Errorf("%w: missing event type", ErrInvalidPayload)
	}

	ref := body.Data.Reference
	if ref == "" {
		ref = body.Data.TxRef
	}
	return Event{
		Type:       body.Event,
		Reference:  ref,
		ExternalId: string(body.Data.Id),
		Status:     normalizeEventStatus(body.Data.Status),
		Amount:     body.Data.Amount,
		Currency:   money.Currency(strings.ToUpper(body.Data.Currency)),
		Raw:        payload,
	}, nil
}

func normalizeEventStatus(s string) EventStatus {
	switch strings.ToLower(s) {
	case "successful", "success", "completed":
		return EventSuccessful
	case "failed", "failure", "cancelled":
		return EventFailed
	}
	return EventPending
}

// BuildWebhook renders a webhook body in the provider's format and signs it.
func BuildWebhook(secret, eventType, reference, externalID string, status EventStatus, amount money.Amount, currency money.Currency) ([]byte, string) {
	data := map[string]interface{}{
		"id":       externalID,
		"status":   string(status),
		"amount":   amount,
		"currency": string(currency),
	}
	if eventType == EventChargeCompleted {
		data["tx_ref"] = reference
	} else {
		data["reference"] = reference
	}
	payload, _ := json.Marshal(map[string]interface{}{
		"event": eventType,
		"data":  data,
	})
	return payload, Sign(secret, payload)
}

package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/chris/remittance-ledger/pkg/models"
)

const (
	defaultBaseURL = "https://api.flutterwave.com/v3"
	providerName   = "flutterwave"
)

// HTTPClient talks to a Flutterwave-style REST API.
type HTTPClient struct {
	baseURL       string
	secretKey     string
	webhookSecret string
	client        *http.Client
}

// NewHTTPClient creates a provider client. The caller bounds each call with its context.
func NewHTTPClient(baseURL, secretKey, webhookSecret string, client *http.Client) *HTTPClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &HTTPClient{
		baseURL:       strings.TrimRight(baseURL, "/"),
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
		client:        client,
	}
}

// envelope is the provider's response wrapper.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

type transferData struct {
	Id        flexibleID `json:"id"`
	Reference string     `json:"reference"`
	Status    string     `json:"status"`
	Message   string     `json:"complete_message"`
}

// Name identifies the provider on transaction records.
func (c *HTTPClient) Name() string { return providerName }

// Transfer initiates a payout.
func (c *HTTPClient) Transfer(ctx context.Context, req TransferRequest) (TransferResult, error) {
	debit := req.DebitCurrency
	if debit == "" {
		debit = req.Currency
	}
	body := map[string]interface{}{
		"account_bank":     req.AccountBank,
		"account_number":   req.AccountNumber,
		"amount":           req.Amount,
		"currency":         string(req.Currency),
		"debit_currency":   string(debit),
		"reference":        req.Reference,
		"narration":        req.Narration,
		"beneficiary_name": req.BeneficiaryName,
	}

	env, raw, err := c.do(ctx, http.MethodPost, "/transfers", body)
	if err != nil {
		return TransferResult{}, err
	}
	var data transferData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return TransferResult{}, fmt.Errorf("%w: failed to decode transfer response: %v", ErrAmbiguous, err)
	}

	status := transferStatus(data.Status)
	if status == StatusFailed {
		return TransferResult{}, &APIError{StatusCode: http.StatusUnprocessableEntity, Code: "TRANSFER_FAILED", Message: firstNonEmpty(data.Message, env.Message)}
	}
	return TransferResult{
		ExternalId: string(data.Id),
		Status:     status,
		Message:    env.Message,
		Raw:        raw,
	}, nil
}

// InitiateCollection creates a hosted payment link or a temporary virtual account.
func (c *HTTPClient) InitiateCollection(ctx context.Context, req CollectionRequest) (models.Instrument, error) {
	switch req.Kind {
	case models.InstrumentPaymentLink:
		env, _, err := c.do(ctx, http.MethodPost, "/payments", map[string]interface{}{
			"tx_ref":   req.Reference,
			"amount":   req.Amount,
			"currency": string(req.Currency),
			"customer": map[string]string{
				"email":       req.Email,
				"name":        req.Name,
				"phonenumber": req.Phone,
			},
		})
		if err != nil {
			return models.Instrument{}, err
		}
		var data struct {
			Link string `json:"link"`
		}
		if err := json.Unmarshal(env.Data, &data); err != nil || data.Link == "" {
			return models.Instrument{}, fmt.Errorf("%w: payment link missing from response", ErrAmbiguous)
		}
		return models.Instrument{Kind: models.InstrumentPaymentLink, Link: data.Link}, nil

	case models.InstrumentVirtualAccount:
		env, _, err := c.do(ctx, http.MethodPost, "/virtual-account-numbers", map[string]interface{}{
			"tx_ref":       req.Reference,
			"email":        req.Email,
			"amount":       req.Amount,
			"currency":     string(req.Currency),
			"is_permanent": false,
			"narration":    req.Name,
		})
		if err != nil {
			return models.Instrument{}, err
		}
		var data struct {
			AccountNumber string `json:"account_number"`
			BankName      string `json:"bank_name"`
			ExpiryDate    string `json:"expiry_date"`
		}
		if err := json.Unmarshal(env.Data, &data); err != nil || data.AccountNumber == "" {
			return models.Instrument{}, fmt.Errorf("%w: virtual account missing from response", ErrAmbiguous)
		}
		inst := models.Instrument{
			Kind:          models.InstrumentVirtualAccount,
			AccountNumber: data.AccountNumber,
			BankName:      data.BankName,
		}
		if t, err := time.Parse(time.RFC3339, data.ExpiryDate); err == nil {
			inst.ExpiresAt = &t
		}
		return inst, nil
	}
	return models.Instrument{}, fmt.Errorf("%w: unsupported instrument %q", ErrRejected, req.Kind)
}

// GetTransferStatus polls a payout by the provider's id.
func (c *HTTPClient) GetTransferStatus(ctx context.Context, externalID string) (StatusResult, error) {
	env, _, err := c.do(ctx, http.MethodGet, "/transfers/"+url.PathEscape(externalID), nil)
	if err != nil {
		return StatusResult{}, err
	}
	var data transferData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return StatusResult{}, fmt.Errorf("failed to decode transfer status: %w", err)
	}
	return StatusResult{
		ExternalId: string(data.Id),
		Reference:  data.Reference,
		Status:     transferStatus(data.Status),
		Message:    data.Message,
	}, nil
}

// VerifyWebhookSignature checks the verif-hash header value.
func (c *HTTPClient) VerifyWebhookSignature(payload []byte, signature string) bool {
	return VerifySignature(c.webhookSecret, payload, signature)
}

// ParseWebhook normalizes a webhook body.
func (c *HTTPClient) ParseWebhook(payload []byte) (Event, error) {
	return parseEvent(payload)
}

// do sends one request. Transport errors and 5xx responses are ambiguous; 4xx
// responses and an explicit "error" status are rejections.
func (c *HTTPClient) do(ctx context.Context, method, path string, body interface{}) (envelope, string, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return envelope{}, "", fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return envelope{}, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return envelope{}, "", fmt.Errorf("%w: %w", ErrAmbiguous, ctx.Err())
		}
		return envelope{}, "", fmt.Errorf("%w: %v", ErrAmbiguous, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return envelope{}, "", fmt.Errorf("%w: failed to read response: %v", ErrAmbiguous, err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)
	if resp.StatusCode >= 400 {
		msg := env.Message
		if decodeErr != nil || msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return envelope{}, string(raw), &APIError{StatusCode: resp.StatusCode, Code: env.Code, Message: msg}
	}
	if decodeErr != nil {
		return envelope{}, string(raw), fmt.Errorf("%w: failed to decode response: %v", ErrAmbiguous, decodeErr)
	}
	if env.Status == "error" {
		return envelope{}, string(raw), &APIError{StatusCode: http.StatusBadRequest, Code: env.Code, Message: env.Message}
	}
	return env, string(raw), nil
}

func transferStatus(s string) TransferStatus {
	switch strings.ToUpper(s) {
	case "SUCCESSFUL", "SUCCESS", "COMPLETED":
		return StatusCompleted
	case "FAILED":
		return StatusFailed
	}
	return StatusAccepted
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

var _ Client = (*HTTPClient)(nil)

package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/chris/remittance-ledger/pkg/money"
)

const defaultBaseURL = "https://v6.exchangerate-api.com/v6"

// HTTPProvider reads pair rates from an exchangerate-api style endpoint.
type HTTPProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPProvider creates a provider. An empty baseURL selects the public endpoint.
func NewHTTPProvider(baseURL, apiKey string, client *http.Client) *HTTPProvider {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPProvider{baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, client: client}
}

type pairResponse struct {
	Result             string      `json:"result"`
	ErrorType          string      `json:"error-type"`
	ConversionRate     json.Number `json:"conversion_rate"`
	TimeLastUpdateUnix int64       `json:"time_last_update_unix"`
}

// GetRate fetches the pair rate.
func (p *HTTPProvider) GetRate(ctx context.Context, from, to money.Currency) (Rate, error) {
	if from == to {
		return Identity(from, time.Now().UTC()), nil
	}

	url := fmt.Sprintf("%s/%s/pair/%s/%s", p.baseURL, p.apiKey, from, to)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Rate{}, fmt.Errorf("failed to create rate request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return Rate{}, fmt.Errorf("failed to fetch rate %s/%s: %w", from, to, err)
	}
	defer resp.Body.Close()

	var body pairResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Rate{}, fmt.Errorf("failed to decode rate response (status %d): %w", resp.StatusCode, err)
	}
	if body.Result != "success" {
		if body.ErrorType == "unsupported-code" {
			return Rate{}, fmt.Errorf("%w: %s/%s", ErrUnsupportedPair, from, to)
		}
		return Rate{}, fmt.Errorf("rate source returned %q (%s)", body.Result, body.ErrorType)
	}

	value, err := money.NewRate(body.ConversionRate.String())
	if err != nil {
		return Rate{}, err
	}
	observed := time.Now().UTC()
	if body.TimeLastUpdateUnix > 0 {
		observed = time.Unix(body.TimeLastUpdateUnix, 0).UTC()
	}
	return Rate{From: from, To: to, Value: value, ObservedAt: observed}, nil
}

var _ Provider = (*HTTPProvider)(nil)

package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewHTTPClient(server.URL, "sk_test", "whsec", server.Client())
}

func transferRequest() TransferRequest {
	return TransferRequest{
		Reference:       "TXN-ABC-12345678",
		AccountBank:     "058",
		AccountNumber:   "0123456789",
		BeneficiaryName: "Ada Obi",
		Amount:          money.FromInt(5000),
		Currency:        money.NGN,
		Narration:       "rent",
	}
}

func TestHTTPClientTransfer(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/transfers", r.URL.Path)
			assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "TXN-ABC-12345678", body["reference"])
			assert.Equal(t, "058", body["account_bank"])

			w.Write([]byte(`{"status":"success","message":"Transfer Queued Successfully","data":{"id":190626,"reference":"TXN-ABC-12345678","status":"NEW"}}`))
		})

		result, err := client.Transfer(context.Background(), transferRequest())
		require.NoError(t, err)
		assert.Equal(t, "190626", result.ExternalId)
		assert.Equal(t, StatusAccepted, result.Status)
		assert.NotEmpty(t, result.Raw)
	})

	t.Run("Synchronous Completion", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":"success","data":{"id":"abc","status":"SUCCESSFUL"}}`))
		})

		result, err := client.Transfer(context.Background(), transferRequest())
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, result.Status)
	})

	t.Run("Rejected", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"status":"error","message":"Insufficient balance in wallet","data":null}`))
		})

		_, err := client.Transfer(context.Background(), transferRequest())
		assert.ErrorIs(t, err, ErrRejected)
		assert.NotErrorIs(t, err, ErrAmbiguous)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, "Insufficient balance in wallet", apiErr.Message)
	})

	t.Run("Server Error Is Ambiguous", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := client.Transfer(context.Background(), transferRequest())
		assert.ErrorIs(t, err, ErrAmbiguous)
		assert.NotErrorIs(t, err, ErrRejected)
	})

	t.Run("Timeout Is Ambiguous", func(t *testing.T) {
		release := make(chan struct{})
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		})
		defer close(release)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := client.Transfer(ctx, transferRequest())
		assert.ErrorIs(t, err, ErrAmbiguous)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestHTTPClientInitiateCollection(t *testing.T) {
	t.Run("Payment Link", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/payments", r.URL.Path)
			w.Write([]byte(`{"status":"success","data":{"link":"https://checkout.example/pay/xyz"}}`))
		})

		inst, err := client.InitiateCollection(context.Background(), CollectionRequest{
			Reference: "TXN-1", Kind: models.InstrumentPaymentLink, Amount: money.FromInt(100), Currency: money.NGN,
		})
		require.NoError(t, err)
		assert.Equal(t, "https://checkout.example/pay/xyz", inst.Link)
	})

	t.Run("Virtual Account", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/virtual-account-numbers", r.URL.Path)
			w.Write([]byte(`{"status":"success","data":{"account_number":"7824822527","bank_name":"WEMA BANK","expiry_date":"2025-03-02T12:00:00Z"}}`))
		})

		inst, err := client.InitiateCollection(context.Background(), CollectionRequest{
			Reference: "TXN-2", Kind: models.InstrumentVirtualAccount, Amount: money.FromInt(100), Currency: money.NGN,
		})
		require.NoError(t, err)
		assert.Equal(t, "7824822527", inst.AccountNumber)
		assert.Equal(t, "WEMA BANK", inst.BankName)
		require.NotNil(t, inst.ExpiresAt)
	})
}

func TestHTTPClientGetTransferStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/transfers/190626", r.URL.Path)
		w.Write([]byte(`{"status":"success","data":{"id":190626,"reference":"TXN-ABC","status":"FAILED","complete_message":"Account resolved failed"}}`))
	})

	st, err := client.GetTransferStatus(context.Background(), "190626")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, st.Status)
	assert.Equal(t, "TXN-ABC", st.Reference)
}

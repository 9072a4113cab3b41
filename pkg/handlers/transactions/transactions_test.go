package transactions

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chris/remittance-ledger/pkg/api"
	"github.com/chris/remittance-ledger/pkg/handlers/transactions/mocks"
	"github.com/chris/remittance-ledger/pkg/middleware"
	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/money"
	"github.com/chris/remittance-ledger/pkg/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	alice = middleware.Identity{AccountId: "alice", Role: middleware.RoleUser}
	ops   = middleware.Identity{AccountId: "ops", Role: middleware.RoleAdmin}
)

func as(id middleware.Identity, req *http.Request) *http.Request {
	return req.WithContext(middleware.WithIdentity(req.Context(), id))
}

func sampleTx(status models.TransactionStatus) *models.Transaction {
	tx := models.NewTransaction(models.NewTransactionParams{
		Type:      models.TypeBankTransfer,
		AccountId: "alice",
		Amount:    money.FromInt(5000),
		Currency:  money.NGN,
		Now:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	})
	tx.Status = status
	return tx
}

func TestGetTransaction(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		svc := new(mocks.Service)
		tx := sampleTx(models.COMPLETED)
		tx.AppendNote("Reservation reversed", models.Compensation("alice", money.FromInt(5025), "provider declined"), tx.CreatedAt)
		svc.On("Status", mock.Anything, transfer.Actor{AccountId: "alice"}, tx.Reference).Return(tx, nil)
		h := NewTransactionHandler(svc)
		rr := httptest.NewRecorder()

		// Act
		h.GetTransaction(rr, as(alice, httptest.NewRequest(http.MethodGet, "/transactions/"+tx.Reference, nil)), tx.Reference)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		var out api.Transaction
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
		assert.Equal(t, tx.Id, out.Id)
		require.Len(t, out.Timeline, 2)
		require.NotNil(t, out.Timeline[1].Detail)
		assert.Equal(t, string(models.DetailCompensation), (*out.Timeline[1].Detail)["kind"])
		svc.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		svc := new(mocks.Service)
		svc.On("Status", mock.Anything, mock.Anything, "missing").Return(nil, transfer.ErrNotFound)
		h := NewTransactionHandler(svc)
		rr := httptest.NewRecorder()

		h.GetTransaction(rr, as(alice, httptest.NewRequest(http.MethodGet, "/transactions/missing", nil)), "missing")

		assert.Equal(t, http.StatusNotFound, rr.Code)
		svc.AssertExpectations(t)
	})
}

func TestListTransactions(t *testing.T) {
	t.Run("Default Window", func(t *testing.T) {
		svc := new(mocks.Service)
		svc.On("History", mock.Anything, "alice", time.Time{}).Return([]models.Transaction{*sampleTx(models.COMPLETED), *sampleTx(models.FAILED)}, nil)
		h := NewTransactionHandler(svc)
		rr := httptest.NewRecorder()

		h.ListTransactions(rr, as(alice, httptest.NewRequest(http.MethodGet, "/transactions", nil)), api.ListTransactionsParams{})

		assert.Equal(t, http.StatusOK, rr.Code)
		var out []api.Transaction
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
		assert.Len(t, out, 2)
		svc.AssertExpectations(t)
	})

	t.Run("Since", func(t *testing.T) {
		svc := new(mocks.Service)
		since := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
		svc.On("History", mock.Anything, "alice", since).Return([]models.Transaction{}, nil)
		h := NewTransactionHandler(svc)
		rr := httptest.NewRecorder()

		h.ListTransactions(rr, as(alice, httptest.NewRequest(http.MethodGet, "/transactions", nil)), api.ListTransactionsParams{Since: &since})

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "[]", strings.TrimSpace(rr.Body.String()))
		svc.AssertExpectations(t)
	})
}

func TestCancelTransaction(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(mocks.Service)
		tx := sampleTx(models.CANCELLED)
		svc.On("Cancel", mock.Anything, transfer.Actor{AccountId: "alice"}, tx.Id).Return(tx, nil)
		h := NewTransactionHandler(svc)
		rr := httptest.NewRecorder()

		h.CancelTransaction(rr, as(alice, httptest.NewRequest(http.MethodPost, "/transactions/"+tx.Id+"/cancel", nil)), tx.Id)

		assert.Equal(t, http.StatusOK, rr.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Not Cancellable", func(t *testing.T) {
		svc := new(mocks.Service)
		svc.On("Cancel", mock.Anything, mock.Anything, "tx-1").Return(nil, transfer.ErrNotCancellable)
		h := NewTransactionHandler(svc)
		rr := httptest.NewRecorder()

		h.CancelTransaction(rr, as(alice, httptest.NewRequest(http.MethodPost, "/transactions/tx-1/cancel", nil)), "tx-1")

		assert.Equal(t, http.StatusConflict, rr.Code)
		svc.AssertExpectations(t)
	})
}

func TestRetryTransaction(t *testing.T) {
	svc := new(mocks.Service)
	attempt := sampleTx(models.PROCESSING)
	attempt.RetryOf = "tx-1"
	svc.On("Retry", mock.Anything, transfer.Actor{AccountId: "ops", Admin: true}, "tx-1").Return(attempt, nil)
	h := NewTransactionHandler(svc)
	rr := httptest.NewRecorder()

	h.RetryTransaction(rr, as(ops, httptest.NewRequest(http.MethodPost, "/admin/transactions/tx-1/retry", nil)), "tx-1")

	assert.Equal(t, http.StatusCreated, rr.Code)
	var out api.Transaction
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.NotNil(t, out.RetryOf)
	assert.Equal(t, "tx-1", *out.RetryOf)
	svc.AssertExpectations(t)
}

func TestRefundTransaction(t *testing.T) {
	t.Run("With Reason", func(t *testing.T) {
		svc := new(mocks.Service)
		svc.On("Refund", mock.Anything, mock.Anything, "tx-1", "duplicate payment").Return(sampleTx(models.COMPLETED), nil)
		h := NewTransactionHandler(svc)
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/admin/transactions/tx-1/refund", strings.NewReader(`{"reason":"duplicate payment"}`))

		h.RefundTransaction(rr, as(ops, req), "tx-1")

		assert.Equal(t, http.StatusCreated, rr.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Empty Body", func(t *testing.T) {
		svc := new(mocks.Service)
		svc.On("Refund", mock.Anything, mock.Anything, "tx-1", "Refund requested").Return(nil, transfer.ErrNotRefundable)
		h := NewTransactionHandler(svc)
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/admin/transactions/tx-1/refund", http.NoBody)

		h.RefundTransaction(rr, as(ops, req), "tx-1")

		assert.Equal(t, http.StatusConflict, rr.Code)
		svc.AssertExpectations(t)
	})
}

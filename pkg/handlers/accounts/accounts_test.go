package accounts_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chris/remittance-ledger/pkg/api"
	"github.com/chris/remittance-ledger/pkg/handlers/accounts"
	"github.com/chris/remittance-ledger/pkg/handlers/accounts/mocks"
	"github.com/chris/remittance-ledger/pkg/middleware"
	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/money"
	"github.com/chris/remittance-ledger/pkg/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func as(id middleware.Identity, req *http.Request) *http.Request {
	return req.WithContext(middleware.WithIdentity(req.Context(), id))
}

func account(id string) *models.Account {
	return &models.Account{
		Id:        id,
		Name:      "Ada Obi",
		Country:   "NG",
		Currency:  money.NGN,
		Balance:   money.MustParse("1500.5"),
		Limits:    models.DefaultLimits(),
		Status:    models.ACTIVE,
		CreatedAt: time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC),
	}
}

func TestCreateAccount(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		svc := new(mocks.Service)
		svc.On("OpenAccount", mock.Anything, mock.MatchedBy(func(req transfer.OpenAccountRequest) bool {
			return req.AccountId == "user-c" && req.Country == "NG" && req.PhoneVerified && req.KYCStatus == models.KYCVerified
		})).Return(account("user-c"), nil)
		h := accounts.NewAccountsHandler(svc)
		req := httptest.NewRequest(http.MethodPost, "/accounts", strings.NewReader(`{"name":"Ada Obi","country":"NG"}`))
		rr := httptest.NewRecorder()

		// Act
		h.CreateAccount(rr, as(middleware.Identity{AccountId: "user-c", PhoneVerified: true, KYCStatus: models.KYCVerified}, req))

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)
		var out api.Account
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
		assert.Equal(t, "user-c", out.Id)
		assert.Equal(t, "1500.50", out.Balance)
		assert.Equal(t, "100000.00", out.Limits.Single)
		svc.AssertExpectations(t)
	})

	t.Run("Invalid Body", func(t *testing.T) {
		svc := new(mocks.Service)
		h := accounts.NewAccountsHandler(svc)
		req := httptest.NewRequest(http.MethodPost, "/accounts", strings.NewReader(`{"name":`))
		rr := httptest.NewRecorder()

		h.CreateAccount(rr, as(middleware.Identity{AccountId: "user-c"}, req))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		svc.AssertNotCalled(t, "OpenAccount", mock.Anything, mock.Anything)
	})
}

func TestGetMyAccount(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(mocks.Service)
		svc.On("GetAccount", mock.Anything, "user-a").Return(account("user-a"), nil)
		h := accounts.NewAccountsHandler(svc)
		rr := httptest.NewRecorder()

		h.GetMyAccount(rr, as(middleware.Identity{AccountId: "user-a"}, httptest.NewRequest(http.MethodGet, "/accounts/me", nil)))

		assert.Equal(t, http.StatusOK, rr.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		svc := new(mocks.Service)
		svc.On("GetAccount", mock.Anything, "user-a").Return(nil, transfer.ErrNotFound)
		h := accounts.NewAccountsHandler(svc)
		rr := httptest.NewRecorder()

		h.GetMyAccount(rr, as(middleware.Identity{AccountId: "user-a"}, httptest.NewRequest(http.MethodGet, "/accounts/me", nil)))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		svc.AssertExpectations(t)
	})
}

func TestListAccounts(t *testing.T) {
	svc := new(mocks.Service)
	admin := middleware.Identity{AccountId: "ops", Role: middleware.RoleAdmin}
	svc.On("ListAccounts", mock.Anything, admin.Actor()).Return([]models.Account{*account("user-a"), *account("user-b")}, nil)
	h := accounts.NewAccountsHandler(svc)
	rr := httptest.NewRecorder()

	h.ListAccounts(rr, as(admin, httptest.NewRequest(http.MethodGet, "/admin/accounts", nil)))

	assert.Equal(t, http.StatusOK, rr.Code)
	var out []api.Account
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Len(t, out, 2)
	svc.AssertExpectations(t)
}

func TestSetAccountStatus(t *testing.T) {
	admin := middleware.Identity{AccountId: "ops", Role: middleware.RoleAdmin}

	t.Run("Success", func(t *testing.T) {
		svc := new(mocks.Service)
		svc.On("SetAccountStatus", mock.Anything, admin.Actor(), "user-a", models.DISABLED).Return(nil)
		h := accounts.NewAccountsHandler(svc)
		req := httptest.NewRequest(http.MethodPut, "/admin/accounts/user-a/status", strings.NewReader(`{"status":"disabled"}`))
		rr := httptest.NewRecorder()

		h.SetAccountStatus(rr, as(admin, req), "user-a")

		assert.Equal(t, http.StatusNoContent, rr.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Forbidden", func(t *testing.T) {
		svc := new(mocks.Service)
		svc.On("SetAccountStatus", mock.Anything, mock.Anything, "user-a", models.DISABLED).Return(transfer.ErrForbidden)
		h := accounts.NewAccountsHandler(svc)
		req := httptest.NewRequest(http.MethodPut, "/admin/accounts/user-a/status", strings.NewReader(`{"status":"disabled"}`))
		rr := httptest.NewRecorder()

		h.SetAccountStatus(rr, as(middleware.Identity{AccountId: "user-b"}, req), "user-a")

		assert.Equal(t, http.StatusForbidden, rr.Code)
		svc.AssertExpectations(t)
	})
}

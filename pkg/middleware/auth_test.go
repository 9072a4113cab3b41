package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chris/remittance-ledger/pkg/middleware"
	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func echoIdentity(t *testing.T, seen *middleware.Identity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := middleware.IdentityFromContext(r.Context())
		if ok {
			*seen = id
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticator(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var seen middleware.Identity
		h := middleware.Authenticator(secret)(echoIdentity(t, &seen))
		token, err := middleware.IssueToken(secret, middleware.Identity{
			AccountId:     "alice",
			Role:          middleware.RoleUser,
			PhoneVerified: true,
			KYCStatus:     models.KYCVerified,
		}, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/accounts/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "alice", seen.AccountId)
		assert.True(t, seen.PhoneVerified)
		assert.Equal(t, models.KYCVerified, seen.KYCStatus)
		assert.False(t, seen.IsAdmin())
	})

	t.Run("Missing token", func(t *testing.T) {
		var seen middleware.Identity
		h := middleware.Authenticator(secret)(echoIdentity(t, &seen))

		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/accounts/me", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		var seen middleware.Identity
		h := middleware.Authenticator(secret)(echoIdentity(t, &seen))
		token, err := middleware.IssueToken([]byte("other"), middleware.Identity{AccountId: "alice"}, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/accounts/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Expired token", func(t *testing.T) {
		var seen middleware.Identity
		h := middleware.Authenticator(secret)(echoIdentity(t, &seen))
		token, err := middleware.IssueToken(secret, middleware.Identity{AccountId: "alice"}, -time.Minute)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/accounts/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Public path", func(t *testing.T) {
		var seen middleware.Identity
		h := middleware.Authenticator(secret, "/webhooks/")(echoIdentity(t, &seen))

		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/webhooks/provider", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, seen.AccountId)
	})
}

func TestRequireAdmin(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := middleware.RequireAdmin("/admin/")(ok)

	serve := func(path string, id *middleware.Identity) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if id != nil {
			req = req.WithContext(middleware.WithIdentity(req.Context(), *id))
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusForbidden, serve("/admin/ledger", &middleware.Identity{AccountId: "alice", Role: middleware.RoleUser}))
	assert.Equal(t, http.StatusForbidden, serve("/admin/ledger", nil))
	assert.Equal(t, http.StatusOK, serve("/admin/ledger", &middleware.Identity{AccountId: "ops", Role: middleware.RoleAdmin}))
	assert.Equal(t, http.StatusOK, serve("/transactions", &middleware.Identity{AccountId: "alice", Role: middleware.RoleUser}))
}

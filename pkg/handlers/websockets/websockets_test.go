package websockets_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/chris/remittance-ledger/pkg/handlers/websockets"
	"github.com/chris/remittance-ledger/pkg/middleware"
	"github.com/chris/remittance-ledger/pkg/notify"
	"github.com/chris/remittance-ledger/pkg/storage/mocks"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func token(t *testing.T, accountID string) string {
	t.Helper()
	tok, err := middleware.IssueToken(secret, middleware.Identity{AccountId: accountID, Role: middleware.RoleUser}, time.Hour)
	require.NoError(t, err)
	return tok
}

func connectRequest(connID, tok string) events.APIGatewayWebsocketProxyRequest {
	req := events.APIGatewayWebsocketProxyRequest{QueryStringParameters: map[string]string{"token": tok}}
	req.RequestContext.ConnectionID = connID
	return req
}

func TestHandleConnect(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		store := mocks.NewConnectionStore(t)
		h := websockets.NewHandler(store, secret)
		store.On("AddConnection", mock.Anything, "conn-1", "acct-1").Return(nil)

		// Act
		resp, err := h.HandleConnect(ctx, connectRequest("conn-1", token(t, "acct-1")))

		// Assert
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Invalid Token", func(t *testing.T) {
		store := mocks.NewConnectionStore(t)
		h := websockets.NewHandler(store, secret)

		resp, err := h.HandleConnect(ctx, connectRequest("conn-1", "not-a-token"))

		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		store.AssertNotCalled(t, "AddConnection", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Store Failure", func(t *testing.T) {
		store := mocks.NewConnectionStore(t)
		h := websockets.NewHandler(store, secret)
		store.On("AddConnection", mock.Anything, "conn-1", "acct-1").Return(errors.New("boom"))

		resp, err := h.HandleConnect(ctx, connectRequest("conn-1", token(t, "acct-1")))

		assert.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestHandleDisconnect(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		store := mocks.NewConnectionStore(t)
		h := websockets.NewHandler(store, secret)
		store.On("RemoveConnection", mock.Anything, "conn-1").Return(nil)

		resp, err := h.HandleDisconnect(context.Background(), connectRequest("conn-1", ""))

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestServeHTTP(t *testing.T) {
	hub := notify.NewLocalHub()
	srv := httptest.NewServer(websockets.NewLocalHandler(hub, secret))
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	t.Run("Success", func(t *testing.T) {
		client, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+token(t, "acct-9"), nil)
		require.NoError(t, err)

		require.Eventually(t, func() bool { return hub.Count("acct-9") == 1 }, time.Second, 10*time.Millisecond)

		require.NoError(t, client.Close())
		assert.Eventually(t, func() bool { return hub.Count("acct-9") == 0 }, time.Second, 10*time.Millisecond)
	})

	t.Run("Unauthorized", func(t *testing.T) {
		_, resp, err := websocket.DefaultDialer.Dial(wsURL+"?token=bad", nil)

		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

package notify_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chris/remittance-ledger/pkg/notify"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalHub(t *testing.T) {
	hub := notify.NewLocalHub()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Add(r.URL.Query().Get("account"), conn)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	t.Run("Success", func(t *testing.T) {
		// Arrange
		client, _, err := websocket.DefaultDialer.Dial(wsURL+"?account=acct-1", nil)
		require.NoError(t, err)
		defer client.Close()
		require.Eventually(t, func() bool { return hub.Count("acct-1") == 1 }, time.Second, 10*time.Millisecond)

		// Act
		err = hub.Publish(context.Background(), notify.Message{
			Type:      notify.MessageTypeTransactionUpdate,
			AccountId: "acct-1",
			Payload:   notify.TransactionUpdatePayload{TransactionId: "tx-1", Status: "completed"},
		})

		// Assert
		require.NoError(t, err)
		require.NoError(t, client.SetReadDeadline(time.Now().Add(time.Second)))
		_, data, err := client.ReadMessage()
		require.NoError(t, err)
		var got map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, "transactionUpdate", got["type"])
		assert.Equal(t, "tx-1", got["payload"].(map[string]interface{})["transaction_id"])
	})

	t.Run("Other Accounts Are Not Notified", func(t *testing.T) {
		assert.Equal(t, 0, hub.Count("acct-2"))
		assert.NoError(t, hub.Publish(context.Background(), notify.Message{Type: notify.MessageTypeWalletUpdate, AccountId: "acct-2"}))
	})

	t.Run("Requires Account", func(t *testing.T) {
		assert.Error(t, hub.Publish(context.Background(), notify.Message{Type: notify.MessageTypeWalletUpdate}))
	})
}

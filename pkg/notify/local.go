package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// LocalHub delivers messages to WebSocket connections held by this process.
// It stands in for API Gateway when running the local server.
type LocalHub struct {
	mu    sync.Mutex
	conns map[string]map[*websocket.Conn]struct{}
}

// NewLocalHub creates an empty hub.
func NewLocalHub() *LocalHub {
	return &LocalHub{conns: make(map[string]map[*websocket.Conn]struct{})}
}

// Add registers conn to receive the messages of accountID.
func (h *LocalHub) Add(accountID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[accountID] == nil {
		h.conns[accountID] = make(map[*websocket.Conn]struct{})
	}
	h.conns[accountID][conn] = struct{}{}
}

// Remove unregisters conn.
func (h *LocalHub) Remove(accountID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns[accountID], conn)
	if len(h.conns[accountID]) == 0 {
		delete(h.conns, accountID)
	}
}

// Count returns the number of live connections for accountID.
func (h *LocalHub) Count(accountID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns[accountID])
}

// Publish writes the message to every connection of its account. Connections
// that fail to accept the write are closed and dropped.
func (h *LocalHub) Publish(ctx context.Context, message Message) error {
	if message.AccountId == "" {
		return fmt.Errorf("message has no account")
	}
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	// Held for the writes too: a websocket.Conn allows one writer at a time.
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns[message.AccountId] {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			slog.Info("dropping local connection", "accountId", message.AccountId, "error", err)
			conn.Close()
			delete(h.conns[message.AccountId], conn)
		}
	}
	return nil
}

var _ Publisher = (*LocalHub)(nil)

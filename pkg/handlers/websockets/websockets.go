package websockets

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/chris/remittance-ledger/pkg/middleware"
	"github.com/chris/remittance-ledger/pkg/notify"
	"github.com/chris/remittance-ledger/pkg/storage"
	"github.com/gorilla/websocket"
)

// Handler handles WebSocket connections. Clients authenticate with the same
// bearer token as the REST API, passed as the "token" query parameter.
type Handler struct {
	store  storage.ConnectionStore
	secret []byte
	hub    *notify.LocalHub
}

// NewHandler creates a new Handler for API Gateway WebSocket routes.
func NewHandler(store storage.ConnectionStore, secret []byte) *Handler {
	return &Handler{store: store, secret: secret}
}

// NewLocalHandler creates a Handler that serves WebSocket upgrades directly and
// registers connections with hub.
func NewLocalHandler(hub *notify.LocalHub, secret []byte) *Handler {
	return &Handler{hub: hub, secret: secret}
}

// HandleConnect handles new client connections.
func (h *Handler) HandleConnect(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	connID := request.RequestContext.ConnectionID
	id, err := middleware.ParseToken(h.secret, request.QueryStringParameters["token"])
	if err != nil {
		slog.Warn("Rejected websocket connection", "connectionId", connID, "error", err)
		return events.APIGatewayProxyResponse{StatusCode: http.StatusUnauthorized}, nil
	}

	slog.Info("Client connected", "connectionId", connID, "accountId", id.AccountId)
	if err := h.store.AddConnection(ctx, connID, id.AccountId); err != nil {
		slog.Error("failed to save connection ID", "error", err)
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, err
	}

	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK}, nil
}

// HandleDisconnect handles client disconnections.
func (h *Handler) HandleDisconnect(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	slog.Info("Client disconnected", "connectionId", request.RequestContext.ConnectionID)

	if err := h.store.RemoveConnection(ctx, request.RequestContext.ConnectionID); err != nil {
		slog.Error("failed to delete connection ID", "error", err)
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, err
	}

	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK}, nil
}

// HandleDefault handles messages sent from a client. Clients are not expected to send any.
func (h *Handler) HandleDefault(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	slog.Info("Received message", "connectionId", request.RequestContext.ConnectionID, "body", request.Body)
	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK}, nil
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ServeHTTP handles WebSocket requests for the local development server.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}
	id, err := middleware.ParseToken(h.secret, token)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	slog.Info("Client connected locally", "accountId", id.AccountId)
	h.hub.Add(id.AccountId, conn)
	defer func() {
		slog.Info("Client disconnected locally", "accountId", id.AccountId)
		h.hub.Remove(id.AccountId, conn)
	}()

	// Reading is the only way to notice the client going away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("unexpected close error", "error", err)
			}
			break
		}
	}
}

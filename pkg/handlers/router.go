package handlers

import (
	"log/slog"
	"net/http"

	"github.com/chris/remittance-ledger/pkg/api"
	"github.com/chris/remittance-ledger/pkg/handlers/respond"
	"github.com/chris/remittance-ledger/pkg/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Route prefixes with special authentication rules.
const (
	WebhookPrefix = "/webhooks/"
	AdminPrefix   = "/admin/"
	// WebsocketPath authenticates with a token query parameter during the upgrade.
	WebsocketPath = "/ws"
)

// NewRouter mounts si on a chi router behind request ids, structured logging
// and bearer-token authentication. Webhook routes are authenticated by their
// signature instead; admin routes additionally require the admin role.
func NewRouter(si api.ServerInterface, secret []byte, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.NewStructuredLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Authenticator(secret, WebhookPrefix, WebsocketPath))
	r.Use(middleware.RequireAdmin(AdminPrefix))

	api.HandlerWithOptions(si, api.ChiServerOptions{
		BaseRouter:       r,
		ErrorHandlerFunc: respond.ParamError,
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusNotFound, api.Error{Code: "not_found", Message: "route not found"})
	})
	return r
}

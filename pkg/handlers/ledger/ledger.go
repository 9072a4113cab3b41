package ledger

import (
	"net/http"

	"github.com/chris/remittance-ledger/pkg/api"
	"github.com/chris/remittance-ledger/pkg/handlers/respond"
	"github.com/chris/remittance-ledger/pkg/mapping"
	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/storage"
)

const (
	defaultLimit = int32(20)
	maxLimit     = int32(500)
)

// LedgerHandler holds the dependencies for ledger-related handlers.
type LedgerHandler struct {
	Store storage.LedgerReader
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(store storage.LedgerReader) *LedgerHandler {
	return &LedgerHandler{Store: store}
}

// ListLedgerEntries returns the most recent ledger entries across all accounts.
func (h *LedgerHandler) ListLedgerEntries(w http.ResponseWriter, r *http.Request, params api.ListLedgerEntriesParams) {
	limit := defaultLimit
	if params.Limit != nil && *params.Limit > 0 {
		limit = min(*params.Limit, maxLimit)
	}

	domainEntries, err := h.Store.ListLedgerEntries(r.Context(), limit)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, toApiEntries(domainEntries))
}

// ListTransactionLedgerEntries returns the balance mutations written for one transaction.
func (h *LedgerHandler) ListTransactionLedgerEntries(w http.ResponseWriter, r *http.Request, transactionId string) {
	domainEntries, err := h.Store.ListLedgerEntriesByTransaction(r.Context(), transactionId)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, toApiEntries(domainEntries))
}

func toApiEntries(entries []models.LedgerEntry) []*api.LedgerEntry {
	apiEntries := make([]*api.LedgerEntry, len(entries))
	for i := range entries {
		apiEntries[i] = mapping.ToApiLedgerEntry(&entries[i])
	}
	return apiEntries
}

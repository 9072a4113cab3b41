package handlers

import (
	"github.com/chris/remittance-ledger/pkg/api"
	"github.com/chris/remittance-ledger/pkg/banks"
	"github.com/chris/remittance-ledger/pkg/handlers/accounts"
	"github.com/chris/remittance-ledger/pkg/handlers/ledger"
	"github.com/chris/remittance-ledger/pkg/handlers/reference"
	"github.com/chris/remittance-ledger/pkg/handlers/transactions"
	"github.com/chris/remittance-ledger/pkg/handlers/transfers"
	"github.com/chris/remittance-ledger/pkg/handlers/webhooks"
	"github.com/chris/remittance-ledger/pkg/rates"
	"github.com/chris/remittance-ledger/pkg/reconcile"
	"github.com/chris/remittance-ledger/pkg/scheduler"
	"github.com/chris/remittance-ledger/pkg/storage"
	"github.com/chris/remittance-ledger/pkg/transfer"
)

// ApiHandler implements the generated server interface by composing the
// per-resource handlers.
type ApiHandler struct {
	*accounts.AccountsHandler
	*transfers.TransferHandler
	*transactions.TransactionHandler
	*ledger.LedgerHandler
	*reference.ReferenceHandler
	*webhooks.WebhookHandler
}

// Dependencies are the services the API is served from. Scheduler is optional;
// without it webhooks are applied inline.
type Dependencies struct {
	Service    *transfer.Service
	Store      storage.LedgerReader
	Reconciler *reconcile.Reconciler
	Scheduler  scheduler.Scheduler
	Directory  *banks.Directory
	Rates      rates.Provider
}

// NewApiHandler wires every resource handler to deps.
func NewApiHandler(deps Dependencies) *ApiHandler {
	return &ApiHandler{
		AccountsHandler:    accounts.NewAccountsHandler(deps.Service),
		TransferHandler:    transfers.NewTransferHandler(deps.Service),
		TransactionHandler: transactions.NewTransactionHandler(deps.Service),
		LedgerHandler:      ledger.NewLedgerHandler(deps.Store),
		ReferenceHandler:   reference.NewReferenceHandler(deps.Directory, deps.Rates),
		WebhookHandler:     webhooks.NewWebhookHandler(deps.Reconciler, deps.Scheduler),
	}
}

// Make sure we conform to the interface
var _ api.ServerInterface = (*ApiHandler)(nil)

package accounts

import (
	"context"
	"net/http"

	"github.com/chris/remittance-ledger/pkg/api"
	"github.com/chris/remittance-ledger/pkg/handlers/respond"
	"github.com/chris/remittance-ledger/pkg/mapping"
	"github.com/chris/remittance-ledger/pkg/middleware"
	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/transfer"
)

// Service is the account part of the transfer service.
type Service interface {
	OpenAccount(ctx context.Context, req transfer.OpenAccountRequest) (*models.Account, error)
	GetAccount(ctx context.Context, accountID string) (*models.Account, error)
	ListAccounts(ctx context.Context, actor transfer.Actor) ([]models.Account, error)
	SetAccountStatus(ctx context.Context, actor transfer.Actor, accountID string, status models.AccountStatus) error
}

// AccountsHandler holds the dependencies for account-related handlers.
type AccountsHandler struct {
	Service Service
}

// NewAccountsHandler creates a new AccountsHandler.
func NewAccountsHandler(service Service) *AccountsHandler {
	return &AccountsHandler{Service: service}
}

// CreateAccount opens the wallet of the authenticated caller. Verification
// flags come from the token, never from the body.
func (h *AccountsHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.CallerIdentity(w, r)
	if !ok {
		return
	}
	var body api.NewAccount
	if err := respond.Decode(r, &body); err != nil {
		respond.Error(w, r, err)
		return
	}

	account, err := h.Service.OpenAccount(r.Context(), mapping.ToDomainOpenAccount(id.AccountId, id.PhoneVerified, id.KYCStatus, &body))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, mapping.ToApiAccount(account))
}

// GetMyAccount returns the caller's wallet and balance.
func (h *AccountsHandler) GetMyAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.CallerIdentity(w, r)
	if !ok {
		return
	}

	account, err := h.Service.GetAccount(r.Context(), id.AccountId)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiAccount(account))
}

// ListAccounts returns every account.
func (h *AccountsHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.CallerIdentity(w, r)
	if !ok {
		return
	}

	domainAccounts, err := h.Service.ListAccounts(r.Context(), id.Actor())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	apiAccounts := make([]*api.Account, len(domainAccounts))
	for i := range domainAccounts {
		apiAccounts[i] = mapping.ToApiAccount(&domainAccounts[i])
	}
	respond.JSON(w, http.StatusOK, apiAccounts)
}

// SetAccountStatus enables or disables an account.
func (h *AccountsHandler) SetAccountStatus(w http.ResponseWriter, r *http.Request, accountId string) {
	id, ok := middleware.CallerIdentity(w, r)
	if !ok {
		return
	}
	var body api.AccountStatusUpdate
	if err := respond.Decode(r, &body); err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.Service.SetAccountStatus(r.Context(), id.Actor(), accountId, models.AccountStatus(body.Status)); err != nil {
		respond.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

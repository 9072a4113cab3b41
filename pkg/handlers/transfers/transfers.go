package transfers

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

// Service is the part of the transfer service that creates transactions.
type Service interface {
	InternalTransfer(ctx context.Context, req transfer.InternalRequest) (*models.Transaction, error)
	BankTransfer(ctx context.Context, req transfer.BankRequest) (*models.Transaction, error)
	MobileMoneyTransfer(ctx context.Context, req transfer.MobileMoneyRequest) (*models.Transaction, error)
	Withdraw(ctx context.Context, req transfer.WithdrawRequest) (*models.Transaction, error)
	Deposit(ctx context.Context, req transfer.DepositRequest) (*models.Transaction, error)
	Quote(ctx context.Context, req transfer.QuoteRequest) (transfer.Quote, error)
}

// TransferHandler holds the dependencies for money-movement handlers.
type TransferHandler struct {
	Service Service
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(service Service) *TransferHandler {
	return &TransferHandler{Service: service}
}

// CreateInternalTransfer moves money to another wallet.
func (h *TransferHandler) CreateInternalTransfer(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.CallerIdentity(w, r)
	if !ok {
		return
	}
	var body api.InternalTransferRequest
	if err := respond.Decode(r, &body); err != nil {
		respond.Error(w, r, err)
		return
	}
	req, err := mapping.ToDomainInternalRequest(id.AccountId, &body)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	tx, err := h.Service.InternalTransfer(r.Context(), req)
	created(w, r, tx, err)
}

// CreateBankTransfer pays out to a bank account.
func (h *TransferHandler) CreateBankTransfer(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.CallerIdentity(w, r)
	if !ok {
		return
	}
	var body api.BankTransferRequest
	if err := respond.Decode(r, &body); err != nil {
		respond.Error(w, r, err)
		return
	}
	req, err := mapping.ToDomainBankRequest(id.AccountId, &body)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	tx, err := h.Service.BankTransfer(r.Context(), req)
	created(w, r, tx, err)
}

// CreateMobileMoneyTransfer pays out to a mobile-money wallet.
func (h *TransferHandler) CreateMobileMoneyTransfer(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.CallerIdentity(w, r)
	if !ok {
		return
	}
	var body api.MobileMoneyTransferRequest
	if err := respond.Decode(r, &body); err != nil {
		respond.Error(w, r, err)
		return
	}
	req, err := mapping.ToDomainMobileMoneyRequest(id.AccountId, &body)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	tx, err := h.Service.MobileMoneyTransfer(r.Context(), req)
	created(w, r, tx, err)
}

// CreateWithdrawal pays the caller out to their own bank account.
func (h *TransferHandler) CreateWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.CallerIdentity(w, r)
	if !ok {
		return
	}
	var body api.WithdrawalRequest
	if err := respond.Decode(r, &body); err != nil {
		respond.Error(w, r, err)
		return
	}
	req, err := mapping.ToDomainWithdrawRequest(id.AccountId, &body)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	tx, err := h.Service.Withdraw(r.Context(), req)
	created(w, r, tx, err)
}

// CreateDeposit issues a payment instrument for funding the caller's wallet.
func (h *TransferHandler) CreateDeposit(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.CallerIdentity(w, r)
	if !ok {
		return
	}
	var body api.DepositRequest
	if err := respond.Decode(r, &body); err != nil {
		respond.Error(w, r, err)
		return
	}
	req, err := mapping.ToDomainDepositRequest(id.AccountId, &body)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	tx, err := h.Service.Deposit(r.Context(), req)
	created(w, r, tx, err)
}

// CreateQuote prices a transaction without creating it.
func (h *TransferHandler) CreateQuote(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.CallerIdentity(w, r)
	if !ok {
		return
	}
	var body api.QuoteRequest
	if err := respond.Decode(r, &body); err != nil {
		respond.Error(w, r, err)
		return
	}
	req, err := mapping.ToDomainQuoteRequest(id.AccountId, &body)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	q, err := h.Service.Quote(r.Context(), req)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiQuote(q))
}

// created writes the new transaction, or the error together with the id of the
// failed record when one was persisted.
func created(w http.ResponseWriter, r *http.Request, tx *models.Transaction, err error) {
	if err != nil {
		respond.TransactionError(w, r, tx, err)
		return
	}
	respond.JSON(w, http.StatusCreated, mapping.ToApiTransaction(tx))
}

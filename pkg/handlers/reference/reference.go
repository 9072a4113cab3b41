package reference

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/chris/remittance-ledger/pkg/api"
	"github.com/chris/remittance-ledger/pkg/banks"
	"github.com/chris/remittance-ledger/pkg/handlers/respond"
	"github.com/chris/remittance-ledger/pkg/mapping"
	"github.com/chris/remittance-ledger/pkg/money"
	"github.com/chris/remittance-ledger/pkg/rates"
	"github.com/chris/remittance-ledger/pkg/transfer"
)

// ReferenceHandler serves the bank directory and exchange rates.
type ReferenceHandler struct {
	Directory *banks.Directory
	Rates     rates.Provider
}

// NewReferenceHandler creates a new ReferenceHandler.
func NewReferenceHandler(directory *banks.Directory, rateProvider rates.Provider) *ReferenceHandler {
	return &ReferenceHandler{Directory: directory, Rates: rateProvider}
}

// ListBanks returns the banks and mobile-money operators of a country.
func (h *ReferenceHandler) ListBanks(w http.ResponseWriter, r *http.Request, country string) {
	code := strings.ToUpper(country)
	currency, err := h.Directory.Currency(code)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	bankList, err := h.Directory.ListBanks(code)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	mobile, err := h.Directory.MobileMoneyProviders(code)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiBankDirectory(code, currency, bankList, mobile))
}

// GetRate returns the current rate for a currency pair.
func (h *ReferenceHandler) GetRate(w http.ResponseWriter, r *http.Request, params api.GetRateParams) {
	from, ok := money.ParseCurrency(params.From)
	if !ok {
		respond.Error(w, r, fmt.Errorf("%w: unsupported currency %q", transfer.ErrValidation, params.From))
		return
	}
	to, ok := money.ParseCurrency(params.To)
	if !ok {
		respond.Error(w, r, fmt.Errorf("%w: unsupported currency %q", transfer.ErrValidation, params.To))
		return
	}

	rate, err := h.Rates.GetRate(r.Context(), from, to)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiRate(rate))
}

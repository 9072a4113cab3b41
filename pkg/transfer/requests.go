package transfer

import (
	"sort"
	"strings"

	"github.com/chris/remittance-ledger/pkg/fees"
	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/money"
)

// InternalRequest moves money between two wallets of the same currency.
type InternalRequest struct {
	AccountId          string
	RecipientAccountId string
	Amount             money.Amount
	Narration          string
}

// BankRequest pays out to a bank account in Country.
type BankRequest struct {
	AccountId     string
	Country       string
	BankCode      string
	AccountNumber string
	AccountName   string
	Amount        money.Amount
	Narration     string
}

// MobileMoneyRequest pays out to a mobile-money wallet in Country.
type MobileMoneyRequest struct {
	AccountId     string
	Country       string
	Provider      string
	PhoneNumber   string
	RecipientName string
	Amount        money.Amount
	Narration     string
}

// WithdrawRequest pays the account holder out to their own bank account.
type WithdrawRequest struct {
	AccountId     string
	BankCode      string
	AccountNumber string
	Amount        money.Amount
}

// DepositRequest funds a wallet through the provider.
type DepositRequest struct {
	AccountId string
	Amount    money.Amount
	Method    fees.DepositMethod
}

// QuoteRequest prices a transaction without creating it. Country selects the
// destination currency for bank and mobile-money payouts.
type QuoteRequest struct {
	AccountId string
	Type      models.TransactionType
	Amount    money.Amount
	Country   string
	Method    fees.DepositMethod
}

// Quote is the price of a transaction as it would be frozen at creation.
type Quote struct {
	Type              models.TransactionType
	Amount            money.Amount
	Currency          money.Currency
	Fees              models.Fees
	TotalAmount       money.Amount
	ExchangeRate      *models.RateSnapshot
	RecipientAmount   *money.Amount
	RecipientCurrency money.Currency
}

// OpenAccountRequest creates the wallet of an authenticated identity.
type OpenAccountRequest struct {
	AccountId     string
	Name          string
	Email         string
	Phone         string
	Country       string
	Currency      money.Currency
	PhoneVerified bool
	KYCStatus     models.KYCStatus
}

func validateAmount(a money.Amount) error {
	if !a.IsPositive() {
		return validationf("amount must be greater than zero")
	}
	if !a.Round2().Equal(a) {
		return validationf("amount has more than two decimal places")
	}
	return nil
}

func required(fields map[string]string) error {
	var missing []string
	for name, v := range fields {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return validationf("missing %s", strings.Join(missing, ", "))
	}
	return nil
}

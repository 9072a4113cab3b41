package mapping

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chris/remittance-ledger/pkg/api"
	"github.com/chris/remittance-ledger/pkg/banks"
	"github.com/chris/remittance-ledger/pkg/fees"
	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/money"
	"github.com/chris/remittance-ledger/pkg/rates"
	"github.com/chris/remittance-ledger/pkg/transfer"
)

// ToApiTransaction converts a domain Transaction model to an API Transaction model.
func ToApiTransaction(tx *models.Transaction) *api.Transaction {
	out := &api.Transaction{
		Id:                tx.Id,
		Reference:         tx.Reference,
		Type:              api.TransactionType(tx.Type),
		Status:            api.TransactionStatus(tx.Status),
		Amount:            tx.Amount.String(),
		Currency:          tx.Currency.String(),
		Fees:              toApiFees(tx.Fees),
		TotalAmount:       tx.TotalAmount.String(),
		ExchangeRate:      toApiRateSnapshot(tx.ExchangeRate),
		RecipientAmount:   amountPtr(tx.RecipientAmount),
		RecipientCurrency: optional(tx.RecipientCurrency.String()),
		Sender:            toApiParty(tx.Sender),
		Recipient:         toApiParty(tx.Recipient),
		Provider:          toApiProvider(tx.Provider),
		Narration:         optional(tx.Narration),
		Timeline:          make([]api.TimelineEntry, len(tx.Timeline)),
		NeedsReview:       tx.NeedsReview,
		RetryOf:           optional(tx.RetryOf),
		RetriedBy:         optional(tx.RetriedBy),
		RefundOf:          optional(tx.RefundOf),
		RefundedBy:        optional(tx.RefundedBy),
		ExpiresAt:         tx.ExpiresAt,
		CompletedAt:       tx.CompletedAt,
		FailedAt:          tx.FailedAt,
		CreatedAt:         tx.CreatedAt,
		UpdatedAt:         tx.UpdatedAt,
	}
	for i, e := range tx.Timeline {
		out.Timeline[i] = api.TimelineEntry{
			Kind:      string(e.Kind),
			Status:    api.TransactionStatus(e.Status),
			Timestamp: e.Timestamp,
			Message:   e.Message,
			Detail:    toApiDetail(e.Detail),
		}
	}
	return out
}

// ToApiTransactions converts a list of transactions.
func ToApiTransactions(txs []models.Transaction) []*api.Transaction {
	out := make([]*api.Transaction, len(txs))
	for i := range txs {
		out[i] = ToApiTransaction(&txs[i])
	}
	return out
}

// ToApiAccount converts a domain Account model to an API Account model.
func ToApiAccount(account *models.Account) *api.Account {
	return &api.Account{
		Id:       account.Id,
		Name:     account.Name,
		Email:    optional(account.Email),
		Phone:    optional(account.Phone),
		Country:  account.Country,
		Currency: account.Currency.String(),
		Balance:  account.Balance.String(),
		Limits: api.AccountLimits{
			Daily:   account.Limits.Daily.String(),
			Monthly: account.Limits.Monthly.String(),
			Single:  account.Limits.Single.String(),
		},
		PhoneVerified: account.Verification.PhoneVerified,
		KycStatus:     string(account.Verification.KYCStatus),
		Status:        api.AccountStatus(account.Status),
		CreatedAt:     account.CreatedAt,
	}
}

// ToApiLedgerEntry converts a domain LedgerEntry model to an API LedgerEntry model.
// Only the side of the entry that moved money is set.
func ToApiLedgerEntry(entry *models.LedgerEntry) *api.LedgerEntry {
	out := &api.LedgerEntry{
		EntryId:       entry.EntryID,
		TransactionId: entry.TransactionID,
		AccountId:     entry.AccountID,
		Kind:          string(entry.Kind),
		Currency:      entry.Currency.String(),
		Description:   entry.Description,
		Timestamp:     entry.Timestamp,
	}
	if !entry.Debit.IsZero() {
		d := entry.Debit.String()
		out.Debit = &d
	}
	if !entry.Credit.IsZero() {
		c := entry.Credit.String()
		out.Credit = &c
	}
	return out
}

// ToApiQuote converts a priced quote.
func ToApiQuote(q transfer.Quote) *api.Quote {
	return &api.Quote{
		Type:              api.TransactionType(q.Type),
		Amount:            q.Amount.String(),
		Currency:          q.Currency.String(),
		Fees:              toApiFees(q.Fees),
		TotalAmount:       q.TotalAmount.String(),
		ExchangeRate:      toApiRateSnapshot(q.ExchangeRate),
		RecipientAmount:   amountPtr(q.RecipientAmount),
		RecipientCurrency: optional(q.RecipientCurrency.String()),
	}
}

// ToApiRate converts a rate lookup result.
func ToApiRate(r rates.Rate) *api.ExchangeRate {
	stale := r.Stale
	return &api.ExchangeRate{
		From:       r.From.String(),
		To:         r.To.String(),
		Rate:       r.Value.String(),
		ObservedAt: r.ObservedAt,
		Stale:      &stale,
	}
}

// ToApiBankDirectory converts the directory listing of one country.
func ToApiBankDirectory(country string, currency money.Currency, bankList, mobile []banks.Bank) *api.BankDirectory {
	return &api.BankDirectory{
		Country:              country,
		Currency:             currency.String(),
		Banks:                toApiBanks(bankList),
		MobileMoneyProviders: toApiBanks(mobile),
	}
}

// ToDomainOpenAccount converts an API NewAccount into a request for the authenticated identity.
func ToDomainOpenAccount(accountID string, phoneVerified bool, kyc models.KYCStatus, in *api.NewAccount) transfer.OpenAccountRequest {
	return transfer.OpenAccountRequest{
		AccountId:     accountID,
		Name:          in.Name,
		Email:         deref(in.Email),
		Phone:         deref(in.Phone),
		Country:       in.Country,
		Currency:      money.Currency(strings.ToUpper(deref(in.Currency))),
		PhoneVerified: phoneVerified,
		KYCStatus:     kyc,
	}
}

// ToDomainInternalRequest converts an API InternalTransferRequest.
func ToDomainInternalRequest(accountID string, in *api.InternalTransferRequest) (transfer.InternalRequest, error) {
	amount, err := parseAmount(in.Amount)
	if err != nil {
		return transfer.InternalRequest{}, err
	}
	return transfer.InternalRequest{
		AccountId:          accountID,
		RecipientAccountId: in.RecipientAccountId,
		Amount:             amount,
		Narration:          deref(in.Narration),
	}, nil
}

// ToDomainBankRequest converts an API BankTransferRequest.
func ToDomainBankRequest(accountID string, in *api.BankTransferRequest) (transfer.BankRequest, error) {
	amount, err := parseAmount(in.Amount)
	if err != nil {
		return transfer.BankRequest{}, err
	}
	return transfer.BankRequest{
		AccountId:     accountID,
		Country:       in.Country,
		BankCode:      in.BankCode,
		AccountNumber: in.AccountNumber,
		AccountName:   in.AccountName,
		Amount:        amount,
		Narration:     deref(in.Narration),
	}, nil
}

// ToDomainMobileMoneyRequest converts an API MobileMoneyTransferRequest.
func ToDomainMobileMoneyRequest(accountID string, in *api.MobileMoneyTransferRequest) (transfer.MobileMoneyRequest, error) {
	amount, err := parseAmount(in.Amount)
	if err != nil {
		return transfer.MobileMoneyRequest{}, err
	}
	return transfer.MobileMoneyRequest{
		AccountId:     accountID,
		Country:       in.Country,
		Provider:      in.Provider,
		PhoneNumber:   in.PhoneNumber,
		RecipientName: deref(in.RecipientName),
		Amount:        amount,
		Narration:     deref(in.Narration),
	}, nil
}

// ToDomainDepositRequest converts an API DepositRequest.
func ToDomainDepositRequest(accountID string, in *api.DepositRequest) (transfer.DepositRequest, error) {
	amount, err := parseAmount(in.Amount)
	if err != nil {
		return transfer.DepositRequest{}, err
	}
	return transfer.DepositRequest{
		AccountId: accountID,
		Amount:    amount,
		Method:    fees.DepositMethod(in.Method),
	}, nil
}

// ToDomainWithdrawRequest converts an API WithdrawalRequest.
func ToDomainWithdrawRequest(accountID string, in *api.WithdrawalRequest) (transfer.WithdrawRequest, error) {
	amount, err := parseAmount(in.Amount)
	if err != nil {
		return transfer.WithdrawRequest{}, err
	}
	return transfer.WithdrawRequest{
		AccountId:     accountID,
		BankCode:      in.BankCode,
		AccountNumber: in.AccountNumber,
		Amount:        amount,
	}, nil
}

// ToDomainQuoteRequest converts an API QuoteRequest.
func ToDomainQuoteRequest(accountID string, in *api.QuoteRequest) (transfer.QuoteRequest, error) {
	amount, err := parseAmount(in.Amount)
	if err != nil {
		return transfer.QuoteRequest{}, err
	}
	req := transfer.QuoteRequest{
		AccountId: accountID,
		Type:      models.TransactionType(in.Type),
		Amount:    amount,
		Country:   deref(in.Country),
	}
	if in.Method != nil {
		req.Method = fees.DepositMethod(*in.Method)
	}
	return req, nil
}

func parseAmount(s string) (money.Amount, error) {
	a, err := money.New(s)
	if err != nil {
		return money.Zero, fmt.Errorf("%w: %v", transfer.ErrValidation, err)
	}
	return a, nil
}

func toApiFees(f models.Fees) api.FeeBreakdown {
	return api.FeeBreakdown{
		TransactionFee: f.TransactionFee.String(),
		ExchangeFee:    f.ExchangeFee.String(),
		ProcessingFee:  f.ProcessingFee.String(),
		TotalFees:      f.TotalFees.String(),
	}
}

func toApiRateSnapshot(r *models.RateSnapshot) *api.ExchangeRate {
	if r == nil {
		return nil
	}
	return &api.ExchangeRate{
		From:       r.From.String(),
		To:         r.To.String(),
		Rate:       r.Rate.String(),
		ObservedAt: r.ObservedAt,
	}
}

func toApiParty(p models.Party) api.Party {
	out := api.Party{
		AccountId: optional(p.AccountId),
		Name:      optional(p.Name),
		Country:   optional(p.Country),
	}
	if p.Bank != nil {
		out.Bank = &api.BankDetails{
			BankCode:      p.Bank.BankCode,
			BankName:      optional(p.Bank.BankName),
			AccountNumber: p.Bank.AccountNumber,
			AccountName:   optional(p.Bank.AccountName),
		}
	}
	if p.MobileMoney != nil {
		out.MobileMoney = &api.MobileMoneyDetails{
			Provider:    p.MobileMoney.Provider,
			PhoneNumber: p.MobileMoney.PhoneNumber,
		}
	}
	return out
}

// toApiProvider leaves out the raw provider response.
func toApiProvider(p *models.ProviderInfo) *api.ProviderInfo {
	if p == nil {
		return nil
	}
	out := &api.ProviderInfo{
		Name:                  p.Name,
		ExternalTransactionId: optional(p.ExternalId),
	}
	if in := p.Instrument; in != nil {
		out.Instrument = &api.PaymentInstrument{
			Kind:          string(in.Kind),
			Link:          optional(in.Link),
			AccountNumber: optional(in.AccountNumber),
			BankName:      optional(in.BankName),
			ExpiresAt:     in.ExpiresAt,
		}
	}
	return out
}

// toApiDetail flattens the tagged detail union into a JSON object.
func toApiDetail(d *models.Detail) *map[string]interface{} {
	if d == nil {
		return nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil
	}
	return &m
}

func toApiBanks(list []banks.Bank) []api.Bank {
	out := make([]api.Bank, len(list))
	for i, b := range list {
		out[i] = api.Bank{Code: b.Code, Name: b.Name}
	}
	return out
}

func amountPtr(a *money.Amount) *string {
	if a == nil {
		return nil
	}
	s := a.String()
	return &s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

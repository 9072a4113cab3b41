package transfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chris/remittance-ledger/pkg/banks"
	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/money"
	"github.com/chris/remittance-ledger/pkg/provider"
	"github.com/chris/remittance-ledger/pkg/storage"
)

// InternalTransfer moves money between two wallets synchronously. It never
// touches the provider.
func (s *Service) InternalTransfer(ctx context.Context, req InternalRequest) (*models.Transaction, error) {
	// 1. Validate the request and both accounts.
	if err := required(map[string]string{"recipient_account_id": req.RecipientAccountId}); err != nil {
		return nil, err
	}
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}
	if req.AccountId == req.RecipientAccountId {
		return nil, validationf("cannot transfer to the same account")
	}
	sender, err := s.activeAccount(ctx, req.AccountId)
	if err != nil {
		return nil, err
	}
	recipient, err := s.store.GetAccount(ctx, req.RecipientAccountId)
	if err != nil {
		return nil, err
	}
	if !recipient.IsActive() {
		return nil, fmt.Errorf("%w: recipient %s", ErrAccountDisabled, recipient.Id)
	}
	if recipient.Currency != sender.Currency {
		return nil, fmt.Errorf("%w: recipient wallet holds %s, sender wallet holds %s", ErrCurrencyMismatch, recipient.Currency, sender.Currency)
	}

	// 2. Business limits, then price.
	if err := checkVerification(sender, models.TypeInternalTransfer); err != nil {
		return nil, err
	}
	if err := s.checkLimits(ctx, sender, req.Amount, true); err != nil {
		return nil, err
	}
	p, err := s.price(ctx, models.TypeInternalTransfer, req.Amount, sender.Currency, "")
	if err != nil {
		return nil, err
	}

	tx := models.NewTransaction(models.NewTransactionParams{
		Type:         models.TypeInternalTransfer,
		AccountId:    sender.Id,
		Counterparty: recipient.Id,
		Sender:       sender.Snapshot(),
		Recipient:    recipient.Snapshot(),
		Amount:       req.Amount,
		Currency:     sender.Currency,
		Fees:         p.fees,
		Narration:    req.Narration,
		Expiry:       s.opts.Expiry,
		Now:          s.now(),
	})

	// 3. Reserve and persist.
	if err := s.reserve(ctx, tx); err != nil {
		return tx, err
	}

	// 4. Credit the recipient and complete.
	return s.completeInternal(ctx, tx)
}

func (s *Service) completeInternal(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	credit := storage.LedgerMutation{
		AccountId:     tx.CounterpartyAccountId,
		TransactionId: tx.Id,
		Kind:          models.EntryCredit,
		Amount:        tx.Amount,
		Currency:      tx.Currency,
		Description:   fmt.Sprintf("internal transfer %s from %s", tx.Reference, tx.AccountId),
	}
	now := s.now()
	out, applied, err := s.update(ctx, tx, func(t *models.Transaction) error {
		return t.Transition(models.COMPLETED, "Transfer completed", nil, now)
	}, credit)
	if err != nil {
		slog.Error("Failed to credit internal transfer recipient", "transaction_id", tx.Id, "error", err)
		failed, ferr := s.fail(ctx, tx, "Recipient could not be credited", nil, false)
		if ferr != nil {
			return failed, ferr
		}
		return failed, fmt.Errorf("failed to complete transfer %s: %w", tx.Reference, err)
	}
	if !applied {
		return out, nil
	}

	slog.Info("Internal transfer completed", "transaction_id", out.Id, "reference", out.Reference, "amount", out.Amount.String())
	s.publishWallet(ctx, out, out.AccountId, out.TotalAmount.Neg())
	s.publishWallet(ctx, out, out.CounterpartyAccountId, out.Amount)
	s.publishTransaction(ctx, out)
	return out, nil
}

// BankTransfer pays out to a bank account through the provider.
func (s *Service) BankTransfer(ctx context.Context, req BankRequest) (*models.Transaction, error) {
	if err := required(map[string]string{
		"country":        req.Country,
		"bank_code":      req.BankCode,
		"account_number": req.AccountNumber,
		"account_name":   req.AccountName,
	}); err != nil {
		return nil, err
	}
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}
	country := strings.ToUpper(req.Country)
	bank, err := s.banks.FindBank(country, req.BankCode)
	if err != nil {
		return nil, s.directoryError(err)
	}
	if err := s.banks.ValidateAccountNumber(country, req.AccountNumber); err != nil {
		return nil, s.directoryError(err)
	}

	recipient := models.Party{
		Name:    req.AccountName,
		Country: country,
		Bank: &models.BankDetails{
			BankCode:      bank.Code,
			BankName:      bank.Name,
			AccountNumber: req.AccountNumber,
			AccountName:   req.AccountName,
		},
	}
	return s.payout(ctx, models.TypeBankTransfer, req.AccountId, country, recipient, req.Amount, req.Narration)
}

// MobileMoneyTransfer pays out to a mobile-money wallet through the provider.
func (s *Service) MobileMoneyTransfer(ctx context.Context, req MobileMoneyRequest) (*models.Transaction, error) {
	if err := required(map[string]string{
		"country":      req.Country,
		"provider":     req.Provider,
		"phone_number": req.PhoneNumber,
	}); err != nil {
		return nil, err
	}
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}
	country := strings.ToUpper(req.Country)
	network, err := s.banks.FindMobileMoneyProvider(country, req.Provider)
	if err != nil {
		return nil, s.directoryError(err)
	}

	recipient := models.Party{
		Name:    req.RecipientName,
		Phone:   req.PhoneNumber,
		Country: country,
		MobileMoney: &models.MobileMoneyDetails{
			Provider:    network.Code,
			PhoneNumber: req.PhoneNumber,
		},
	}
	return s.payout(ctx, models.TypeMobileMoney, req.AccountId, country, recipient, req.Amount, req.Narration)
}

// Withdraw pays the account holder out to their own bank account in their country.
func (s *Service) Withdraw(ctx context.Context, req WithdrawRequest) (*models.Transaction, error) {
	if err := required(map[string]string{
		"bank_code":      req.BankCode,
		"account_number": req.AccountNumber,
	}); err != nil {
		return nil, err
	}
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}
	account, err := s.activeAccount(ctx, req.AccountId)
	if err != nil {
		return nil, err
	}
	bank, err := s.banks.FindBank(account.Country, req.BankCode)
	if err != nil {
		return nil, s.directoryError(err)
	}
	if err := s.banks.ValidateAccountNumber(account.Country, req.AccountNumber); err != nil {
		return nil, s.directoryError(err)
	}

	recipient := account.Snapshot()
	recipient.Bank = &models.BankDetails{
		BankCode:      bank.Code,
		BankName:      bank.Name,
		AccountNumber: req.AccountNumber,
		AccountName:   account.Name,
	}
	return s.payout(ctx, models.TypeWalletWithdrawal, account.Id, account.Country, recipient, req.Amount, "Wallet withdrawal")
}

// payout runs the common outbound sequence for provider rails.
func (s *Service) payout(ctx context.Context, t models.TransactionType, accountID, country string, recipient models.Party, amount money.Amount, narration string) (*models.Transaction, error) {
	// 1. Business preconditions against the sender's account.
	account, err := s.activeAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if err := checkVerification(account, t); err != nil {
		return nil, err
	}
	if err := s.checkLimits(ctx, account, amount, true); err != nil {
		return nil, err
	}

	// 2. Price and build the transaction.
	to := account.Currency
	if t != models.TypeWalletWithdrawal {
		if to, err = s.destinationCurrency(country); err != nil {
			return nil, err
		}
	}
	p, err := s.price(ctx, t, amount, account.Currency, to)
	if err != nil {
		return nil, err
	}
	tx := models.NewTransaction(models.NewTransactionParams{
		Type:              t,
		AccountId:         account.Id,
		Sender:            account.Snapshot(),
		Recipient:         recipient,
		Amount:            amount,
		Currency:          account.Currency,
		Fees:              p.fees,
		ExchangeRate:      p.rate,
		RecipientAmount:   p.recipientAmount,
		RecipientCurrency: p.recipientCurrency,
		Narration:         narration,
		Expiry:            s.opts.Expiry,
		Now:               s.now(),
	})

	// 3. Reserve and persist.
	if err := s.reserve(ctx, tx); err != nil {
		return tx, err
	}

	// 4. Hand over to the provider.
	return s.dispatch(ctx, tx)
}

// reserve persists tx together with the debit of its total amount. A failed
// reservation is still persisted, as a failed transaction.
func (s *Service) reserve(ctx context.Context, tx *models.Transaction) error {
	tx.Reserved = true
	err := s.store.CreateTransaction(ctx, tx, reservation(tx))
	if err == nil {
		s.publishWallet(ctx, tx, tx.AccountId, tx.TotalAmount.Neg())
		return nil
	}
	tx.Reserved = false

	var detail *models.Detail
	switch {
	case errors.Is(err, storage.ErrInsufficientFunds):
		detail = models.InsufficientFunds(tx.TotalAmount, "balance does not cover amount plus fees")
	case errors.Is(err, storage.ErrAccountDisabled), errors.Is(err, storage.ErrCurrencyMismatch), errors.Is(err, storage.ErrNotFound):
	default:
		return fmt.Errorf("failed to reserve funds: %w", err)
	}

	if terr := tx.Transition(models.FAILED, "Funds could not be reserved", detail, s.now()); terr != nil {
		return terr
	}
	if perr := s.store.CreateTransaction(ctx, tx); perr != nil {
		slog.Error("Failed to persist rejected transaction", "transaction_id", tx.Id, "error", perr)
	}
	slog.Info("Reservation rejected", "transaction_id", tx.Id, "account_id", tx.AccountId, "amount", tx.TotalAmount.String(), "error", err)
	return err
}

// dispatch marks tx as engaged, calls the provider within the configured
// timeout and records the outcome.
func (s *Service) dispatch(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	req, err := transferRequest(tx)
	if err != nil {
		return s.failWith(ctx, tx, "Transfer could not be built", models.ProviderError(s.provider.Name(), "", err.Error()), false, fmt.Errorf("%w: %v", ErrValidation, err))
	}

	// Once engaged, the transaction can no longer be cancelled or lazily expired.
	engaged, applied, err := s.update(ctx, tx, func(t *models.Transaction) error {
		t.Provider = &models.ProviderInfo{Name: s.provider.Name()}
		return nil
	})
	if err != nil {
		return tx, fmt.Errorf("failed to record provider engagement: %w", err)
	}
	if !applied {
		return engaged, nil
	}
	tx = engaged

	pctx, cancel := context.WithTimeout(ctx, s.opts.ProviderTimeout)
	result, callErr := s.provider.Transfer(pctx, req)
	cancel()

	now := s.now()
	switch {
	case callErr == nil && result.Status == provider.StatusCompleted:
		return s.settle(ctx, tx, result, now)

	case callErr == nil && result.Status == provider.StatusAccepted:
		out, applied, err := s.update(ctx, tx, func(t *models.Transaction) error {
			t.Provider.ExternalId = result.ExternalId
			t.Provider.RawResponse = result.Raw
			return t.Transition(models.PROCESSING, "Transfer submitted to provider", models.ProviderAccepted(s.provider.Name(), result.ExternalId), now)
		})
		if err != nil {
			return tx, fmt.Errorf("failed to record provider acceptance: %w", err)
		}
		if !applied && overridden(out.Status) {
			return s.conflict(ctx, out, result.Status, fmt.Sprintf("provider accepted %s transfer", out.Status))
		}
		if applied {
			slog.Info("Transfer accepted by provider", "transaction_id", out.Id, "external_id", result.ExternalId)
			s.publishTransaction(ctx, out)
		}
		return out, nil

	case callErr == nil:
		return s.failWith(ctx, tx, "Transfer failed",
			models.ProviderError(s.provider.Name(), string(result.Status), result.Message), false,
			fmt.Errorf("%w: provider returned %s", ErrProvider, result.Status))

	case errors.Is(callErr, provider.ErrRejected):
		code, msg := "", callErr.Error()
		var apiErr *provider.APIError
		if errors.As(callErr, &apiErr) {
			code, msg = apiErr.Code, apiErr.Message
		}
		return s.failWith(ctx, tx, "Transfer failed", models.ProviderError(s.provider.Name(), code, msg), false,
			fmt.Errorf("%w: %v", ErrProvider, callErr))

	default:
		slog.Warn("Provider outcome unknown", "transaction_id", tx.Id, "reference", tx.Reference, "error", callErr)
		return s.failWith(ctx, tx, "Ambiguous provider outcome, pending manual reconciliation",
			models.AmbiguousOutcome(s.provider.Name(), callErr.Error(), s.opts.ProviderTimeout), true,
			fmt.Errorf("%w: %v", ErrAmbiguousOutcome, callErr))
	}
}

// settle completes a transfer the provider paid out synchronously.
func (s *Service) settle(ctx context.Context, tx *models.Transaction, result provider.TransferResult, now time.Time) (*models.Transaction, error) {
	out, applied, err := s.update(ctx, tx, func(t *models.Transaction) error {
		t.Provider.ExternalId = result.ExternalId
		t.Provider.RawResponse = result.Raw
		return t.Transition(models.COMPLETED, "Transfer completed", models.ProviderAccepted(s.provider.Name(), result.ExternalId), now)
	})
	if err != nil {
		return tx, fmt.Errorf("failed to record completion: %w", err)
	}
	if !applied && overridden(out.Status) {
		return s.conflict(ctx, out, result.Status, fmt.Sprintf("provider completed %s transfer", out.Status))
	}
	if applied {
		slog.Info("Transfer completed", "transaction_id", out.Id, "reference", out.Reference, "external_id", result.ExternalId)
		s.publishTransaction(ctx, out)
	}
	return out, nil
}

// failWith fails tx and returns cause, unless a concurrent writer already moved
// the transaction, in which case its outcome stands.
func (s *Service) failWith(ctx context.Context, tx *models.Transaction, message string, detail *models.Detail, needsReview bool, cause error) (*models.Transaction, error) {
	out, err := s.fail(ctx, tx, message, detail, needsReview)
	if err != nil {
		return out, err
	}
	if out.Status == models.COMPLETED && !needsReview {
		return s.conflict(ctx, out, provider.StatusFailed, "provider rejected completed transfer")
	}
	if out.Status != models.FAILED {
		return out, nil
	}
	return out, cause
}

// overridden reports whether a concurrent writer settled the transaction
// against a provider that went on to pay it out.
func overridden(status models.TransactionStatus) bool {
	switch status {
	case models.FAILED, models.EXPIRED, models.CANCELLED:
		return true
	}
	return false
}

// conflict flags tx for review when the provider's synchronous answer disagrees
// with the outcome already stored, and reports the disagreement to the caller.
func (s *Service) conflict(ctx context.Context, tx *models.Transaction, providerStatus provider.TransferStatus, reason string) (*models.Transaction, error) {
	slog.Error("Provider disagrees with stored outcome", "transaction_id", tx.Id, "status", tx.Status, "provider_status", providerStatus, "reason", reason)
	now := s.now()
	out, applied, err := s.update(ctx, tx, func(t *models.Transaction) error {
		t.NeedsReview = true
		t.AppendNote("Provider disagrees with local state", models.Conflict(t.Status, string(providerStatus), reason), now)
		return nil
	})
	switch {
	case err != nil:
		slog.Error("Failed to flag transaction for review", "transaction_id", tx.Id, "error", err)
		out = tx
	case applied:
		s.publishTransaction(ctx, out)
	}
	return out, fmt.Errorf("%w: transaction %s: %s", ErrReconciliationConflict, tx.Id, reason)
}

// transferRequest derives the provider request from the recipient snapshot.
func transferRequest(tx *models.Transaction) (provider.TransferRequest, error) {
	req := provider.TransferRequest{
		Reference:       tx.Reference,
		BeneficiaryName: tx.Recipient.Name,
		Amount:          tx.Amount,
		Currency:        tx.Currency,
		DebitCurrency:   tx.Currency,
		Narration:       tx.Narration,
	}
	if tx.RecipientAmount != nil && tx.RecipientCurrency != "" {
		req.Amount = *tx.RecipientAmount
		req.Currency = tx.RecipientCurrency
	}
	switch {
	case tx.Recipient.Bank != nil:
		req.AccountBank = tx.Recipient.Bank.BankCode
		req.AccountNumber = tx.Recipient.Bank.AccountNumber
	case tx.Recipient.MobileMoney != nil:
		req.AccountBank = tx.Recipient.MobileMoney.Provider
		req.AccountNumber = tx.Recipient.MobileMoney.PhoneNumber
	default:
		return provider.TransferRequest{}, fmt.Errorf("recipient of %s has no payout destination", tx.Id)
	}
	return req, nil
}

func (s *Service) directoryError(err error) error {
	switch {
	case errors.Is(err, banks.ErrBankNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, banks.ErrUnsupportedCountry), errors.Is(err, banks.ErrInvalidAccountNumber):
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return err
}

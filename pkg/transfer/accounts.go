package transfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/money"
	"github.com/chris/remittance-ledger/pkg/storage"
)

// OpenAccount creates the wallet of an authenticated identity with a zero
// balance and default limits. The currency defaults to the country's currency.
func (s *Service) OpenAccount(ctx context.Context, req OpenAccountRequest) (*models.Account, error) {
	if err := required(map[string]string{
		"account_id": req.AccountId,
		"name":       req.Name,
		"country":    req.Country,
	}); err != nil {
		return nil, err
	}
	country := strings.ToUpper(req.Country)
	currency := req.Currency
	if currency == "" {
		c, err := s.destinationCurrency(country)
		if err != nil {
			return nil, err
		}
		currency = c
	}
	if !currency.Valid() {
		return nil, validationf("unsupported currency %q", currency)
	}
	kyc := req.KYCStatus
	if kyc == "" {
		kyc = models.KYCPending
	}

	now := s.now()
	account, err := s.store.CreateAccount(ctx, &models.Account{
		Id:       req.AccountId,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Country:  country,
		Currency: currency,
		Balance:  money.Zero,
		Limits:   models.DefaultLimits(),
		Verification: models.Verification{
			PhoneVerified: req.PhoneVerified,
			KYCStatus:     kyc,
		},
		Status:    models.ACTIVE,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: account %s already exists", ErrValidation, req.AccountId)
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	slog.Info("Account opened", "account_id", account.Id, "currency", account.Currency)
	return account, nil
}

// GetAccount returns the account with its current balance.
func (s *Service) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	return s.store.GetAccount(ctx, accountID)
}

// SetAccountStatus enables or disables an account. Disabled accounts cannot
// reserve funds but still receive credits and compensations.
func (s *Service) SetAccountStatus(ctx context.Context, actor Actor, accountID string, status models.AccountStatus) error {
	if !actor.Admin {
		return ErrForbidden
	}
	switch status {
	case models.ACTIVE, models.DISABLED:
	default:
		return validationf("unsupported account status %q", status)
	}
	if err := s.store.SetAccountStatus(ctx, accountID, status); err != nil {
		return err
	}
	slog.Info("Account status changed", "account_id", accountID, "status", status)
	return nil
}

// ListAccounts returns every account. Admin only.
func (s *Service) ListAccounts(ctx context.Context, actor Actor) ([]models.Account, error) {
	if !actor.Admin {
		return nil, ErrForbidden
	}
	return s.store.ListAccounts(ctx)
}

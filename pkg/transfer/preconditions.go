package transfer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chris/remittance-ledger/pkg/banks"
	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/money"
)

const (
	dailyWindow   = 24 * time.Hour
	monthlyWindow = 30 * 24 * time.Hour
)

// activeAccount loads the account and rejects disabled ones.
func (s *Service) activeAccount(ctx context.Context, accountID string) (*models.Account, error) {
	if accountID == "" {
		return nil, validationf("missing account")
	}
	account, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive() {
		return nil, fmt.Errorf("%w: %s", ErrAccountDisabled, account.Id)
	}
	return account, nil
}

// checkVerification enforces the checks each rail requires. Internal transfers
// need none; payouts and deposits need a verified phone; withdrawals also need KYC.
func checkVerification(account *models.Account, t models.TransactionType) error {
	switch t {
	case models.TypeBankTransfer, models.TypeMobileMoney, models.TypeWalletDeposit:
		if !account.Verification.PhoneVerified {
			return fmt.Errorf("%w: phone number not verified", ErrVerificationRequired)
		}
	case models.TypeWalletWithdrawal:
		if !account.Verification.PhoneVerified {
			return fmt.Errorf("%w: phone number not verified", ErrVerificationRequired)
		}
		if account.Verification.KYCStatus != models.KYCVerified {
			return fmt.Errorf("%w: identity verification is %s", ErrVerificationRequired, account.Verification.KYCStatus)
		}
	}
	return nil
}

// checkLimits compares amount against the single limit and the rolling daily and
// monthly totals of outbound transactions that have not failed. A zero limit is
// not enforced.
func (s *Service) checkLimits(ctx context.Context, account *models.Account, amount money.Amount, outbound bool) error {
	limits := account.Limits
	if limits.Single.IsPositive() && amount.GreaterThan(limits.Single) {
		return fmt.Errorf("%w: %s exceeds the single transaction limit of %s", ErrLimitExceeded, amount, limits.Single)
	}
	if !outbound {
		return nil
	}

	now := s.now()
	history, err := s.store.ListTransactionsByAccount(ctx, account.Id, now.Add(-monthlyWindow))
	if err != nil {
		return fmt.Errorf("failed to load transaction history: %w", err)
	}

	var daily, monthly money.Amount
	for i := range history {
		tx := &history[i]
		if tx.AccountId != account.Id || !tx.Type.IsOutbound() {
			continue
		}
		switch tx.EffectiveStatus(now) {
		case models.FAILED, models.CANCELLED, models.EXPIRED:
			continue
		}
		monthly = monthly.Add(tx.Amount)
		if tx.CreatedAt.After(now.Add(-dailyWindow)) {
			daily = daily.Add(tx.Amount)
		}
	}

	if limits.Daily.IsPositive() && daily.Add(amount).GreaterThan(limits.Daily) {
		return fmt.Errorf("%w: daily limit of %s reached (%s used)", ErrLimitExceeded, limits.Daily, daily)
	}
	if limits.Monthly.IsPositive() && monthly.Add(amount).GreaterThan(limits.Monthly) {
		return fmt.Errorf("%w: monthly limit of %s reached (%s used)", ErrLimitExceeded, limits.Monthly, monthly)
	}
	return nil
}

// pricing is the frozen price of a new transaction.
type pricing struct {
	fees              models.Fees
	rate              *models.RateSnapshot
	recipientAmount   *money.Amount
	recipientCurrency money.Currency
}

// price computes fees and, when the destination currency differs from the
// wallet currency, the exchange rate snapshot and the amount the recipient gets.
func (s *Service) price(ctx context.Context, t models.TransactionType, amount money.Amount, from, to money.Currency) (pricing, error) {
	if to == "" || to == from {
		return pricing{fees: s.fees.Compute(t, amount, false)}, nil
	}

	r, err := s.rates.GetRate(ctx, from, to)
	if err != nil {
		return pricing{}, fmt.Errorf("failed to get exchange rate %s/%s: %w", from, to, err)
	}
	converted := r.Value.Convert(amount)
	return pricing{
		fees: s.fees.Compute(t, amount, true),
		rate: &models.RateSnapshot{
			From:       from,
			To:         to,
			Rate:       r.Value,
			ObservedAt: r.ObservedAt,
		},
		recipientAmount:   &converted,
		recipientCurrency: to,
	}, nil
}

// destinationCurrency resolves the payout currency of a country.
func (s *Service) destinationCurrency(country string) (money.Currency, error) {
	c, err := s.banks.Currency(country)
	if err != nil {
		if errors.Is(err, banks.ErrUnsupportedCountry) {
			return "", validationf("unsupported country %q", country)
		}
		return "", err
	}
	return c, nil
}

// Quote prices a transaction with the same computation used at creation.
func (s *Service) Quote(ctx context.Context, req QuoteRequest) (Quote, error) {
	if err := validateAmount(req.Amount); err != nil {
		return Quote{}, err
	}
	account, err := s.activeAccount(ctx, req.AccountId)
	if err != nil {
		return Quote{}, err
	}

	q := Quote{Type: req.Type, Amount: req.Amount, Currency: account.Currency}
	switch req.Type {
	case models.TypeWalletDeposit:
		f, err := s.fees.ComputeDeposit(req.Amount, req.Method)
		if err != nil {
			return Quote{}, validationf("%v", err)
		}
		q.Fees = f
	case models.TypeInternalTransfer, models.TypeWalletWithdrawal:
		q.Fees = s.fees.Compute(req.Type, req.Amount, false)
	case models.TypeBankTransfer, models.TypeMobileMoney:
		to := account.Currency
		if req.Country != "" {
			if to, err = s.destinationCurrency(req.Country); err != nil {
				return Quote{}, err
			}
		}
		p, err := s.price(ctx, req.Type, req.Amount, account.Currency, to)
		if err != nil {
			return Quote{}, err
		}
		q.Fees = p.fees
		q.ExchangeRate = p.rate
		q.RecipientAmount = p.recipientAmount
		q.RecipientCurrency = p.recipientCurrency
	default:
		return Quote{}, validationf("unsupported transaction type %q", req.Type)
	}
	q.TotalAmount = req.Amount.Add(q.Fees.TotalFees)
	return q, nil
}

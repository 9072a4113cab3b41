package transfer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chris/remittance-ledger/pkg/fees"
	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/provider"
)

// Deposit opens a pending wallet deposit and asks the provider for a payment
// instrument. The wallet is credited later, when the provider confirms payment.
func (s *Service) Deposit(ctx context.Context, req DepositRequest) (*models.Transaction, error) {
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}
	kind, err := instrumentKind(req.Method)
	if err != nil {
		return nil, err
	}
	account, err := s.activeAccount(ctx, req.AccountId)
	if err != nil {
		return nil, err
	}
	if err := checkVerification(account, models.TypeWalletDeposit); err != nil {
		return nil, err
	}
	if err := s.checkLimits(ctx, account, req.Amount, false); err != nil {
		return nil, err
	}
	charges, err := s.fees.ComputeDeposit(req.Amount, req.Method)
	if err != nil {
		return nil, validationf("%v", err)
	}

	tx := models.NewTransaction(models.NewTransactionParams{
		Type:      models.TypeWalletDeposit,
		AccountId: account.Id,
		Sender:    models.Party{Name: account.Name, Email: account.Email, Phone: account.Phone},
		Recipient: account.Snapshot(),
		Amount:    req.Amount,
		Currency:  account.Currency,
		Fees:      charges,
		Narration: fmt.Sprintf("Wallet deposit by %s", req.Method),
		Expiry:    s.opts.Expiry,
		Now:       s.now(),
	})
	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to create deposit: %w", err)
	}

	pctx, cancel := context.WithTimeout(ctx, s.opts.ProviderTimeout)
	instrument, err := s.provider.InitiateCollection(pctx, provider.CollectionRequest{
		Reference: tx.Reference,
		Kind:      kind,
		Amount:    tx.TotalAmount,
		Currency:  tx.Currency,
		Email:     account.Email,
		Name:      account.Name,
		Phone:     account.Phone,
	})
	cancel()
	if err != nil {
		slog.Warn("Failed to initiate collection", "transaction_id", tx.Id, "error", err)
		return s.failWith(ctx, tx, "Deposit could not be initiated",
			models.ProviderError(s.provider.Name(), "", err.Error()), false,
			fmt.Errorf("%w: %v", ErrProvider, err))
	}

	now := s.now()
	out, _, err := s.update(ctx, tx, func(t *models.Transaction) error {
		t.Provider = &models.ProviderInfo{Name: s.provider.Name(), Instrument: &instrument}
		t.AppendNote("Payment instrument issued", nil, now)
		return nil
	})
	if err != nil {
		return tx, fmt.Errorf("failed to record payment instrument: %w", err)
	}
	slog.Info("Deposit initiated", "transaction_id", out.Id, "reference", out.Reference, "instrument", instrument.Kind)
	s.publishTransaction(ctx, out)
	return out, nil
}

func instrumentKind(m fees.DepositMethod) (models.InstrumentKind, error) {
	switch m {
	case fees.MethodCard:
		return models.InstrumentPaymentLink, nil
	case fees.MethodBankTransfer:
		return models.InstrumentVirtualAccount, nil
	}
	return "", validationf("unsupported deposit method %q", m)
}

package storage

import (
	"context"

	"github.com/chris/remittance-ledger/pkg/models"
)

// AccountStore defines the interface for managing accounts. Balances are only
// changed through Ledger.
type AccountStore interface {
	CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error)
	GetAccount(ctx context.Context, accountID string) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)
	SetAccountStatus(ctx context.Context, accountID string, status models.AccountStatus) error
}

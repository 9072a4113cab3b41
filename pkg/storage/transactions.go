package storage

import (
	"context"
	"time"

	"github.com/chris/remittance-ledger/pkg/models"
)

// TransactionReader defines the interface for reading transaction data.
type TransactionReader interface {
	// GetTransaction retrieves a transaction by its ID.
	GetTransaction(ctx context.Context, txID string) (*models.Transaction, error)

	// GetTransactionByReference retrieves a transaction by its external reference.
	GetTransactionByReference(ctx context.Context, reference string) (*models.Transaction, error)

	// ListTransactionsByAccount retrieves transactions touching an account created at or after since, newest first.
	ListTransactionsByAccount(ctx context.Context, accountID string, since time.Time) ([]models.Transaction, error)

	// ListTransactionsByStatus retrieves transactions in status created before olderThan.
	ListTransactionsByStatus(ctx context.Context, status models.TransactionStatus, olderThan time.Time) ([]models.Transaction, error)
}

// TransactionManager writes transactions. Every write is atomic with the ledger
// mutations passed alongside it: either the record and all mutations are stored,
// or nothing is.
type TransactionManager interface {
	// CreateTransaction stores a new transaction and applies effects.
	CreateTransaction(ctx context.Context, tx *models.Transaction, effects ...LedgerMutation) error

	// UpdateTransaction replaces tx if its stored status is still expected and its
	// version is unchanged, then applies effects. On success tx.Version is incremented.
	UpdateTransaction(ctx context.Context, tx *models.Transaction, expected models.TransactionStatus, effects ...LedgerMutation) error

	// CreateRelatedTransaction stores created and updates parent, guarded by parent's
	// expected status, then applies effects. Used for retry attempts and refunds.
	CreateRelatedTransaction(ctx context.Context, created, parent *models.Transaction, parentExpected models.TransactionStatus, effects ...LedgerMutation) error
}

// TransactionStore combines the reader and manager interfaces.
type TransactionStore interface {
	TransactionReader
	TransactionManager
}

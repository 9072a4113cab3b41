package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/money"
)

// LedgerMutation is one balance change, always attributed to a transaction.
type LedgerMutation struct {
	AccountId     string
	TransactionId string
	Kind          models.LedgerEntryKind
	Amount        money.Amount
	Currency      money.Currency
	Description   string
}

// Validate rejects mutations that cannot be traced or that carry a non-positive amount.
func (m LedgerMutation) Validate() error {
	switch {
	case m.AccountId == "":
		return fmt.Errorf("ledger mutation: missing account")
	case m.TransactionId == "":
		return fmt.Errorf("ledger mutation: missing transaction reference")
	case m.Kind == "":
		return fmt.Errorf("ledger mutation: missing kind")
	case !m.Amount.IsPositive():
		return fmt.Errorf("ledger mutation: amount must be positive, got %s", m.Amount)
	}
	return nil
}

// Entry renders the audit entry written with the mutation.
func (m LedgerMutation) Entry(at time.Time) models.LedgerEntry {
	var e models.LedgerEntry
	e.Timestamp = at
	e.EntryID = models.LedgerEntryID(m.TransactionId, m.Kind)
	e.TransactionID = m.TransactionId
	e.AccountID = m.AccountId
	e.Kind = m.Kind
	e.Currency = m.Currency
	e.Description = m.Description
	e.GSI1PK = models.LedgerPartition
	if m.Kind.IsDebit() {
		e.Debit = m.Amount
	} else {
		e.Credit = m.Amount
	}
	return e
}

// Ledger is the account balance primitive. Reserve is an atomic
// check-and-decrement; Credit is an atomic increment. Both are idempotent per
// (transaction, kind).
type Ledger interface {
	Reserve(ctx context.Context, m LedgerMutation) error
	Credit(ctx context.Context, m LedgerMutation) error
}

// LedgerReader defines the interface for reading ledger data.
type LedgerReader interface {
	// ListLedgerEntries retrieves the most recent ledger entries.
	ListLedgerEntries(ctx context.Context, limit int32) ([]models.LedgerEntry, error)

	// ListLedgerEntriesByTransaction retrieves the entries written for one transaction.
	ListLedgerEntriesByTransaction(ctx context.Context, txID string) ([]models.LedgerEntry, error)
}

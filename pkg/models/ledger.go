package models

import (
	"time"

	"github.com/chris/remittance-ledger/pkg/money"
)

// LedgerEntryKind names the reason for a balance mutation.
type LedgerEntryKind string

const (
	// EntryReserve debits the sender before an outbound transfer.
	EntryReserve LedgerEntryKind = "reserve"
	// EntryCredit credits a recipient or a depositing account.
	EntryCredit LedgerEntryKind = "credit"
	// EntryCompensate reverses a reservation after a failure, cancellation or expiry.
	EntryCompensate LedgerEntryKind = "compensate"
	// EntryRefund credits the original sender of a refunded transaction.
	EntryRefund LedgerEntryKind = "refund"
)

// IsDebit reports whether the entry decreases the balance.
func (k LedgerEntryKind) IsDebit() bool {
	return k == EntryReserve
}

// LedgerEntryID is deterministic so that one transaction can apply each kind of
// mutation at most once.
func LedgerEntryID(txID string, kind LedgerEntryKind) string {
	return txID + "#" + string(kind)
}

// LedgerEntry is the audit record written alongside every balance mutation.
type LedgerEntry struct {
	EntryID       string          `json:"entry_id" dynamodbav:"entry_id"`
	TransactionID string          `json:"transaction_id" dynamodbav:"transaction_id"`
	AccountID     string          `json:"account_id" dynamodbav:"account_id"`
	Kind          LedgerEntryKind `json:"kind" dynamodbav:"kind"`
	Debit         money.Amount    `json:"debit" dynamodbav:"debit"`
	Credit        money.Amount    `json:"credit" dynamodbav:"credit"`
	Currency      money.Currency  `json:"currency" dynamodbav:"currency"`
	Description   string          `json:"description" dynamodbav:"description"`
	Timestamp     time.Time       `json:"timestamp" dynamodbav:"timestamp"`
	GSI1PK        string          `json:"-" dynamodbav:"gsi1pk"`
}

// LedgerPartition is the shared partition key of the ledger timestamp index.
const LedgerPartition = "LEDGER_ENTRIES"

package models

import (
	"errors"
	"fmt"
)

// TransactionStatus defines the possible states of a transaction.
type TransactionStatus string

const (
	PENDING    TransactionStatus = "pending"
	PROCESSING TransactionStatus = "processing"
	COMPLETED  TransactionStatus = "completed"
	FAILED     TransactionStatus = "failed"
	CANCELLED  TransactionStatus = "cancelled"
	REFUNDED   TransactionStatus = "refunded"
	EXPIRED    TransactionStatus = "expired"
)

var (
	// ErrInvalidTransition is returned when a status change is not allowed by the state machine.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrReconciliationConflict is returned when the provider disagrees with a
	// terminal local state. The transaction is flagged for review.
	ErrReconciliationConflict = errors.New("reconciliation conflict")
)

var transitions = map[TransactionStatus][]TransactionStatus{
	PENDING:    {PROCESSING, COMPLETED, FAILED, CANCELLED, EXPIRED},
	PROCESSING: {COMPLETED, FAILED},
	COMPLETED:  {REFUNDED},
}

// CanTransition reports whether a transaction may move from one status to another.
// completed -> refunded is only taken by an explicit refund.
func CanTransition(from, to TransactionStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no automated transition leaves s.
func (s TransactionStatus) IsTerminal() bool {
	switch s {
	case COMPLETED, FAILED, CANCELLED, REFUNDED, EXPIRED:
		return true
	}
	return false
}

func checkTransition(from, to TransactionStatus) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// TransactionType identifies the rail a transaction moves money on.
type TransactionType string

const (
	TypeInternalTransfer TransactionType = "internal_transfer"
	TypeBankTransfer     TransactionType = "bank_transfer"
	TypeMobileMoney      TransactionType = "mobile_money"
	TypeWalletDeposit    TransactionType = "wallet_deposit"
	TypeWalletWithdrawal TransactionType = "wallet_withdrawal"
	TypeRefund           TransactionType = "refund"
)

// ParseTransactionType validates a type name.
func ParseTransactionType(s string) (TransactionType, bool) {
	t := TransactionType(s)
	switch t {
	case TypeInternalTransfer, TypeBankTransfer, TypeMobileMoney, TypeWalletDeposit, TypeWalletWithdrawal, TypeRefund:
		return t, true
	}
	return "", false
}

// IsOutbound reports whether the type debits the sender's balance up front.
func (t TransactionType) IsOutbound() bool {
	switch t {
	case TypeInternalTransfer, TypeBankTransfer, TypeMobileMoney, TypeWalletWithdrawal:
		return true
	}
	return false
}

// UsesProvider reports whether the type is settled by the external payment provider.
func (t TransactionType) UsesProvider() bool {
	switch t {
	case TypeBankTransfer, TypeMobileMoney, TypeWalletWithdrawal, TypeWalletDeposit:
		return true
	}
	return false
}

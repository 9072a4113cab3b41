package storage

import "errors"

var (
	// ErrNotFound is returned when an account, transaction or connection does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientFunds is returned when a reservation would take a balance below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrCurrencyMismatch is returned when a mutation's currency differs from the account's.
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// ErrAccountDisabled is returned when a reservation targets a disabled account.
	ErrAccountDisabled = errors.New("account disabled")

	// ErrAlreadyApplied is returned when a transaction has already applied a mutation of the same kind.
	ErrAlreadyApplied = errors.New("ledger mutation already applied")

	// ErrStatusConflict is returned when a transaction changed since it was read.
	ErrStatusConflict = errors.New("transaction status conflict")

	// ErrAlreadyExists is returned when creating a record whose key is taken.
	ErrAlreadyExists = errors.New("already exists")
)

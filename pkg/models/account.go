package models

import (
	"time"

	"github.com/chris/remittance-ledger/pkg/money"
)

// AccountStatus is the lifecycle state of an account. Accounts are never deleted.
type AccountStatus string

const (
	ACTIVE   AccountStatus = "active"
	DISABLED AccountStatus = "disabled"
)

// KYCStatus tracks identity verification.
type KYCStatus string

const (
	KYCPending  KYCStatus = "pending"
	KYCVerified KYCStatus = "verified"
	KYCRejected KYCStatus = "rejected"
)

// Limits are the per-account upper bounds enforced before any reservation.
type Limits struct {
	Daily   money.Amount `json:"daily" dynamodbav:"daily"`
	Monthly money.Amount `json:"monthly" dynamodbav:"monthly"`
	Single  money.Amount `json:"single" dynamodbav:"single"`
}

// DefaultLimits are applied to new accounts that do not specify their own.
func DefaultLimits() Limits {
	return Limits{
		Daily:   money.FromInt(50000),
		Monthly: money.FromInt(500000),
		Single:  money.FromInt(100000),
	}
}

// Verification holds the checks an account has passed.
type Verification struct {
	PhoneVerified bool      `json:"phone_verified" dynamodbav:"phone_verified"`
	KYCStatus     KYCStatus `json:"kyc_status" dynamodbav:"kyc_status"`
}

// Account is a user's custodial wallet: one non-negative balance in one currency.
type Account struct {
	Id           string         `json:"id" dynamodbav:"account_id"`
	Name         string         `json:"name" dynamodbav:"name"`
	Email        string         `json:"email" dynamodbav:"email"`
	Phone        string         `json:"phone" dynamodbav:"phone"`
	Country      string         `json:"country" dynamodbav:"country"`
	Currency     money.Currency `json:"currency" dynamodbav:"currency"`
	Balance      money.Amount   `json:"balance" dynamodbav:"balance"`
	Limits       Limits         `json:"limits" dynamodbav:"limits"`
	Verification Verification   `json:"verification" dynamodbav:"verification"`
	Status       AccountStatus  `json:"status" dynamodbav:"status"`
	Version      int64          `json:"version" dynamodbav:"version"`
	CreatedAt    time.Time      `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" dynamodbav:"updated_at"`
}

// IsActive reports whether the account may move money.
func (a *Account) IsActive() bool {
	return a.Status == ACTIVE
}

// Snapshot copies the identity fields of the account into a Party value.
func (a *Account) Snapshot() Party {
	return Party{
		AccountId: a.Id,
		Name:      a.Name,
		Email:     a.Email,
		Phone:     a.Phone,
		Country:   a.Country,
	}
}

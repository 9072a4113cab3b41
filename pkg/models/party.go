package models

// BankDetails identifies a destination bank account.
type BankDetails struct {
	BankCode      string `json:"bank_code" dynamodbav:"bank_code"`
	BankName      string `json:"bank_name" dynamodbav:"bank_name"`
	AccountNumber string `json:"account_number" dynamodbav:"account_number"`
	AccountName   string `json:"account_name,omitempty" dynamodbav:"account_name,omitempty"`
}

// MobileMoneyDetails identifies a destination mobile-money wallet.
type MobileMoneyDetails struct {
	Provider    string `json:"provider" dynamodbav:"provider"`
	PhoneNumber string `json:"phone_number" dynamodbav:"phone_number"`
}

// Party is a snapshot of a counterparty taken when the transaction is created.
// It is copied by value and never refreshed from the live account.
type Party struct {
	AccountId   string              `json:"account_id,omitempty" dynamodbav:"account_id,omitempty"`
	Name        string              `json:"name,omitempty" dynamodbav:"name,omitempty"`
	Email       string              `json:"email,omitempty" dynamodbav:"email,omitempty"`
	Phone       string              `json:"phone,omitempty" dynamodbav:"phone,omitempty"`
	Country     string              `json:"country,omitempty" dynamodbav:"country,omitempty"`
	Bank        *BankDetails        `json:"bank,omitempty" dynamodbav:"bank,omitempty"`
	MobileMoney *MobileMoneyDetails `json:"mobile_money,omitempty" dynamodbav:"mobile_money,omitempty"`
}

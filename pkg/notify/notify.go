// Package notify pushes balance and transaction updates to connected clients.
package notify

import (
	"context"
	"time"

	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/money"
)

// MessageType defines the type of a WebSocket message.
type MessageType string

const (
	// MessageTypeWalletUpdate is for messages that update wallet balances.
	MessageTypeWalletUpdate MessageType = "walletUpdate"
	// MessageTypeTransactionUpdate is sent when a transaction changes status.
	MessageTypeTransactionUpdate MessageType = "transactionUpdate"
)

// Message is delivered to every connection of AccountId.
type Message struct {
	Type      MessageType `json:"type"`
	AccountId string      `json:"-"`
	Payload   interface{} `json:"payload"`
	// Transaction is the record behind a transactionUpdate, for publishers
	// that address people outside the socket connections.
	Transaction *models.Transaction `json:"-"`
}

// WalletUpdatePayload is the payload for a walletUpdate message.
type WalletUpdatePayload struct {
	AccountId     string         `json:"account_id"`
	TransactionId string         `json:"transaction_id"`
	Change        money.Amount   `json:"change"`
	Currency      money.Currency `json:"currency"`
}

// TransactionUpdatePayload is the payload for a transactionUpdate message.
type TransactionUpdatePayload struct {
	TransactionId string    `json:"transaction_id"`
	Reference     string    `json:"reference"`
	Status        string    `json:"status"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// WalletUpdate builds the message announcing a balance change of accountID caused by tx.
func WalletUpdate(tx *models.Transaction, accountID string, change money.Amount) Message {
	return Message{
		Type:      MessageTypeWalletUpdate,
		AccountId: accountID,
		Payload: WalletUpdatePayload{
			AccountId:     accountID,
			TransactionId: tx.Id,
			Change:        change,
			Currency:      tx.Currency,
		},
	}
}

// TransactionUpdate builds the message sent to the owner of tx when its status changes.
func TransactionUpdate(tx *models.Transaction) Message {
	return Message{
		Type:      MessageTypeTransactionUpdate,
		AccountId: tx.AccountId,
		Payload: TransactionUpdatePayload{
			TransactionId: tx.Id,
			Reference:     tx.Reference,
			Status:        string(tx.Status),
			UpdatedAt:     tx.UpdatedAt,
		},
		Transaction: tx,
	}
}

// Publisher defines the interface for publishing messages to WebSocket clients.
type Publisher interface {
	Publish(ctx context.Context, message Message) error
}

// NoOpPublisher is a publisher that does nothing.
type NoOpPublisher struct{}

// Publish does nothing.
func (p *NoOpPublisher) Publish(ctx context.Context, message Message) error {
	return nil
}

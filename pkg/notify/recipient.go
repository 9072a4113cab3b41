package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/chris/remittance-ledger/pkg/models"
)

// Sender delivers one notification on an outbound channel. Email senders are
// addressed by email, SMS senders by phone number.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogSender records notifications in the log instead of delivering them.
type LogSender struct {
	Channel string
}

func (s LogSender) Send(ctx context.Context, to, subject, body string) error {
	slog.Info("Notification sent", "channel", s.Channel, "to", to, "subject", subject)
	return nil
}

// RecipientNotifier tells the recipient of a completed outbound transfer by
// email and SMS. Either sender may be nil.
type RecipientNotifier struct {
	Email Sender
	SMS   Sender
}

const receivedSubject = "Money Transfer Notification"

// Publish ignores everything except transaction updates for completed transfers.
func (n *RecipientNotifier) Publish(ctx context.Context, message Message) error {
	tx := message.Transaction
	if message.Type != MessageTypeTransactionUpdate || tx == nil {
		return nil
	}
	if tx.Status != models.COMPLETED || !tx.Type.IsOutbound() {
		return nil
	}

	body := receivedText(tx)
	var errs []error
	if n.Email != nil && tx.Recipient.Email != "" {
		if err := n.Email.Send(ctx, tx.Recipient.Email, receivedSubject, body); err != nil {
			errs = append(errs, fmt.Errorf("failed to email recipient of %s: %w", tx.Id, err))
		}
	}
	if phone := recipientPhone(tx.Recipient); n.SMS != nil && phone != "" {
		if err := n.SMS.Send(ctx, phone, "", body); err != nil {
			errs = append(errs, fmt.Errorf("failed to text recipient of %s: %w", tx.Id, err))
		}
	}
	return errors.Join(errs...)
}

func recipientPhone(p models.Party) string {
	if p.MobileMoney != nil && p.MobileMoney.PhoneNumber != "" {
		return p.MobileMoney.PhoneNumber
	}
	return p.Phone
}

func receivedText(tx *models.Transaction) string {
	amount, currency := tx.Amount, tx.Currency
	if tx.RecipientAmount != nil && tx.RecipientCurrency != "" {
		amount, currency = *tx.RecipientAmount, tx.RecipientCurrency
	}
	via := ""
	switch {
	case tx.Recipient.Bank != nil:
		via = fmt.Sprintf(" to your %s account", tx.Recipient.Bank.BankName)
	case tx.Recipient.MobileMoney != nil:
		via = fmt.Sprintf(" via %s", tx.Recipient.MobileMoney.Provider)
	}
	return fmt.Sprintf("You have received %s %s from %s%s. Transaction ID: %s", amount, currency, tx.Sender.Name, via, tx.Id)
}

// Publishers fans a message out to every publisher. All of them are tried.
type Publishers []Publisher

func (ps Publishers) Publish(ctx context.Context, message Message) error {
	var errs []error
	for _, p := range ps {
		if err := p.Publish(ctx, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var (
	_ Publisher = (*RecipientNotifier)(nil)
	_ Publisher = Publishers(nil)
)

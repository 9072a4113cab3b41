package notify_test

import (
	"context"
	"errors"
	"testing"

	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/money"
	"github.com/chris/remittance-ledger/pkg/notify"
	"github.com/chris/remittance-ledger/pkg/notify/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func completedTransfer(recipient models.Party) *models.Transaction {
	tx := models.NewTransaction(models.NewTransactionParams{
		Type:      models.TypeBankTransfer,
		AccountId: "acct-1",
		Sender:    models.Party{AccountId: "acct-1", Name: "Ada Obi"},
		Recipient: recipient,
		Amount:    money.FromInt(5000),
		Currency:  money.NGN,
	})
	tx.Status = models.COMPLETED
	return tx
}

func TestRecipientNotifier(t *testing.T) {
	ctx := context.Background()
	bankRecipient := models.Party{
		Name:  "Bola Ade",
		Email: "bola@example.com",
		Phone: "+2348011111111",
		Bank:  &models.BankDetails{BankCode: "058", BankName: "Guaranty Trust Bank", AccountNumber: "0123456789"},
	}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		email := mocks.NewSender(t)
		sms := mocks.NewSender(t)
		tx := completedTransfer(bankRecipient)
		body := "You have received 5000.00 NGN from Ada Obi to your Guaranty Trust Bank account. Transaction ID: " + tx.Id
		email.On("Send", mock.Anything, "bola@example.com", "Money Transfer Notification", body).Return(nil)
		sms.On("Send", mock.Anything, "+2348011111111", "", body).Return(nil)
		n := &notify.RecipientNotifier{Email: email, SMS: sms}

		// Act
		err := n.Publish(ctx, notify.TransactionUpdate(tx))

		// Assert
		assert.NoError(t, err)
	})

	t.Run("Mobile Money Texts The Wallet Number", func(t *testing.T) {
		sms := mocks.NewSender(t)
		tx := completedTransfer(models.Party{
			Name:        "Wanjiru",
			MobileMoney: &models.MobileMoneyDetails{Provider: "MPESA", PhoneNumber: "+254700000000"},
		})
		tx.Type = models.TypeMobileMoney
		sms.On("Send", mock.Anything, "+254700000000", "", mock.MatchedBy(func(body string) bool {
			return assert.Contains(t, body, "via MPESA")
		})).Return(nil)
		n := &notify.RecipientNotifier{SMS: sms}

		err := n.Publish(ctx, notify.TransactionUpdate(tx))

		assert.NoError(t, err)
	})

	t.Run("Ignores Other Updates", func(t *testing.T) {
		email := mocks.NewSender(t)
		sms := mocks.NewSender(t)
		n := &notify.RecipientNotifier{Email: email, SMS: sms}

		pending := completedTransfer(bankRecipient)
		pending.Status = models.PROCESSING
		deposit := completedTransfer(bankRecipient)
		deposit.Type = models.TypeWalletDeposit

		assert.NoError(t, n.Publish(ctx, notify.TransactionUpdate(pending)))
		assert.NoError(t, n.Publish(ctx, notify.TransactionUpdate(deposit)))
		assert.NoError(t, n.Publish(ctx, notify.WalletUpdate(completedTransfer(bankRecipient), "acct-1", money.FromInt(-5000))))
		email.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		sms.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Sender Failure Is Reported", func(t *testing.T) {
		email := mocks.NewSender(t)
		sms := mocks.NewSender(t)
		email.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("mailbox unavailable"))
		sms.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		n := &notify.RecipientNotifier{Email: email, SMS: sms}

		err := n.Publish(ctx, notify.TransactionUpdate(completedTransfer(bankRecipient)))

		assert.ErrorContains(t, err, "mailbox unavailable")
	})
}

func TestPublishers(t *testing.T) {
	t.Run("Every Publisher Is Tried", func(t *testing.T) {
		failing := mocks.NewPublisher(t)
		ok := mocks.NewPublisher(t)
		message := notify.Message{Type: notify.MessageTypeWalletUpdate, AccountId: "acct-1"}
		failing.On("Publish", mock.Anything, message).Return(errors.New("gone"))
		ok.On("Publish", mock.Anything, message).Return(nil)

		err := notify.Publishers{failing, ok}.Publish(context.Background(), message)

		assert.ErrorContains(t, err, "gone")
	})
}

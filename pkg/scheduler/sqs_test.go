package scheduler_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/remittance-ledger/pkg/scheduler"
	"github.com/chris/remittance-ledger/pkg/scheduler/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestEnqueueWebhook(t *testing.T) {
	env := scheduler.WebhookEnvelope{
		Payload:    `{"event":"charge.completed","data":{"tx_ref":"TXN-1"}}`,
		Signature:  "abc123",
		ReceivedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	t.Run("Success", func(t *testing.T) {
		client := mocks.NewSQSAPI(t)
		var sent string
		client.On("SendMessage", mock.Anything, mock.MatchedBy(func(in *sqs.SendMessageInput) bool {
			sent = *in.MessageBody
			return *in.QueueUrl == "https://sqs.local/queue"
		})).Return(&sqs.SendMessageOutput{}, nil)

		err := scheduler.NewSQSScheduler(client, "https://sqs.local/queue").EnqueueWebhook(context.Background(), env)
		require.NoError(t, err)

		decoded, err := scheduler.DecodeEnvelope(sent)
		require.NoError(t, err)
		assert.Equal(t, env.Payload, decoded.Payload)
		assert.Equal(t, env.Signature, decoded.Signature)
	})

	t.Run("Send Fails", func(t *testing.T) {
		client := mocks.NewSQSAPI(t)
		client.On("SendMessage", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

		err := scheduler.NewSQSScheduler(client, "q").EnqueueWebhook(context.Background(), env)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to send message to SQS")
	})
}

func TestDecodeEnvelope(t *testing.T) {
	_, err := scheduler.DecodeEnvelope(`{"signature":"x"}`)
	assert.Error(t, err)

	_, err = scheduler.DecodeEnvelope(`garbage`)
	assert.Error(t, err)
}

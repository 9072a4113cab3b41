package scheduler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// SQSAPI is the subset of the SQS client the scheduler uses.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSScheduler implements the Scheduler interface using AWS SQS.
type SQSScheduler struct {
	Client   SQSAPI
	QueueURL string
}

// NewSQSScheduler creates a new SQSScheduler.
func NewSQSScheduler(client SQSAPI, queueURL string) *SQSScheduler {
	return &SQSScheduler{
		Client:   client,
		QueueURL: queueURL,
	}
}

// Make sure we conform to the interface
var _ Scheduler = (*SQSScheduler)(nil)
var _ SQSAPI = (*sqs.Client)(nil)

// EnqueueWebhook sends the webhook to an SQS queue for later processing.
func (s *SQSScheduler) EnqueueWebhook(ctx context.Context, env WebhookEnvelope) error {
	// Marshal the envelope to JSON.
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook for SQS: %w", err)
	}

	// Send the message to SQS.
	_, err = s.Client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.QueueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]sqstypes.MessageAttributeValue{
			"kind": {DataType: aws.String("String"), StringValue: aws.String("provider_webhook")},
		},
	})

	if err != nil {
		return fmt.Errorf("failed to send message to SQS: %w", err)
	}

	return nil
}

// DecodeEnvelope reads a message body written by EnqueueWebhook.
func DecodeEnvelope(body string) (WebhookEnvelope, error) {
	var env WebhookEnvelope
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		return WebhookEnvelope{}, fmt.Errorf("failed to unmarshal webhook envelope: %w", err)
	}
	if env.Payload == "" {
		return WebhookEnvelope{}, fmt.Errorf("webhook envelope has no payload")
	}
	return env, nil
}

package main

import (
	"context"
	"errors"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/chris/remittance-ledger/pkg/bootstrap"
	"github.com/chris/remittance-ledger/pkg/config"
	"github.com/chris/remittance-ledger/pkg/handlers/webhooks"
	"github.com/chris/remittance-ledger/pkg/provider"
	"github.com/chris/remittance-ledger/pkg/reconcile"
	"github.com/chris/remittance-ledger/pkg/scheduler"
)

var reconciler webhooks.Reconciler

func setup() {
	// Load environment variables from .env file (useful for local testing).
	config.LoadEnv()
	cfg := config.Load()

	if !cfg.UseDynamoDB() {
		log.Fatal("One or more DynamoDB table name environment variables are not set")
	}

	c, err := bootstrap.Build(context.Background(), cfg)
	if err != nil {
		log.Fatalf("unable to build services, %v", err)
	}
	reconciler = c.Reconciler
}

// HandleRequest applies queued provider webhooks. Messages that failed for a
// transient reason are reported back so SQS redelivers only those.
func HandleRequest(ctx context.Context, sqsEvent events.SQSEvent) (events.SQSEventResponse, error) {
	return process(ctx, reconciler, sqsEvent), nil
}

func process(ctx context.Context, rec webhooks.Reconciler, sqsEvent events.SQSEvent) events.SQSEventResponse {
	var resp events.SQSEventResponse
	for _, message := range sqsEvent.Records {
		log.Printf("Processing message %s", message.MessageId)

		env, err := scheduler.DecodeEnvelope(message.Body)
		if err != nil {
			log.Printf("ERROR: dropping malformed message %s: %v", message.MessageId, err)
			continue
		}
		if err := rec.Verify([]byte(env.Payload), env.Signature); err != nil {
			log.Printf("ERROR: dropping message %s: %v", message.MessageId, err)
			continue
		}

		res, err := rec.ApplyPayload(ctx, []byte(env.Payload))
		switch {
		case err == nil:
			log.Printf("Webhook %s: %s %s -> %s", message.MessageId, res.Outcome, res.TransactionId, res.Status)
		case errors.Is(err, reconcile.ErrReconciliationConflict):
			log.Printf("WARN: webhook %s flagged transaction %s for review: %v", message.MessageId, res.TransactionId, err)
		case errors.Is(err, provider.ErrInvalidPayload):
			log.Printf("ERROR: dropping unreadable payload in message %s: %v", message.MessageId, err)
		default:
			log.Printf("ERROR: failed to apply webhook %s: %v", message.MessageId, err)
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: message.MessageId})
		}
	}
	return resp
}

func main() {
	setup()
	lambda.Start(HandleRequest)
}

package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/chris/remittance-ledger/pkg/bootstrap"
	"github.com/chris/remittance-ledger/pkg/config"
	"github.com/chris/remittance-ledger/pkg/reconcile"
)

var reconciler *reconcile.Reconciler

func init() {
	// Load environment variables for local testing.
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

// HandleRequest is triggered by an EventBridge Schedule. It expires abandoned
// pending transactions and polls the provider for payouts stuck in processing.
func HandleRequest(ctx context.Context) (reconcile.SweepReport, error) {
	log.Println("Starting reconciliation sweep...")

	report, err := reconciler.Sweep(ctx)
	if err != nil {
		log.Printf("ERROR: sweep aborted: %v", err)
		return report, err
	}

	log.Printf("Reconciliation finished: expired=%d polled=%d resolved=%d stuck=%d errors=%d",
		report.Expired, report.Polled, report.Resolved, report.Stuck, report.Errors)
	return report, nil
}

func main() {
	lambda.Start(HandleRequest)
}

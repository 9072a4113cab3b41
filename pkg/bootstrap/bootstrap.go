// Package bootstrap builds the service graph shared by the HTTP server and the lambdas.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/remittance-ledger/pkg/banks"
	"github.com/chris/remittance-ledger/pkg/config"
	"github.com/chris/remittance-ledger/pkg/fees"
	"github.com/chris/remittance-ledger/pkg/notify"
	"github.com/chris/remittance-ledger/pkg/provider"
	"github.com/chris/remittance-ledger/pkg/rates"
	"github.com/chris/remittance-ledger/pkg/reconcile"
	"github.com/chris/remittance-ledger/pkg/scheduler"
	"github.com/chris/remittance-ledger/pkg/storage"
	"github.com/chris/remittance-ledger/pkg/storage/dynamodb"
	"github.com/chris/remittance-ledger/pkg/storage/memory"
	"github.com/chris/remittance-ledger/pkg/transfer"
)

// Components are the wired services.
type Components struct {
	Store      storage.Storage
	Provider   provider.Client
	Rates      rates.Provider
	Directory  *banks.Directory
	Publisher  notify.Publisher
	Notifier   *notify.RecipientNotifier
	Scheduler  scheduler.Scheduler
	Service    *transfer.Service
	Reconciler *reconcile.Reconciler
}

// Option adjusts how Build wires components.
type Option func(*Components)

// WithPublisher overrides the publisher chosen from the configuration.
func WithPublisher(p notify.Publisher) Option {
	return func(c *Components) { c.Publisher = p }
}

// Build wires every component from cfg. AWS clients are only created for the
// services cfg names; everything else falls back to in-process implementations.
func Build(ctx context.Context, cfg config.Config, opts ...Option) (*Components, error) {
	var awsCfg *aws.Config
	loadAWS := func() (aws.Config, error) {
		if awsCfg != nil {
			return *awsCfg, nil
		}
		c, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return aws.Config{}, fmt.Errorf("failed to load aws config: %w", err)
		}
		awsCfg = &c
		return c, nil
	}

	c := &Components{Directory: banks.Default()}

	if cfg.UseDynamoDB() {
		ac, err := loadAWS()
		if err != nil {
			return nil, err
		}
		c.Store = dynamodb.New(awsdynamodb.NewFromConfig(ac), dynamodb.Tables{
			Transactions: cfg.TransactionsTable,
			Accounts:     cfg.AccountsTable,
			Ledger:       cfg.LedgerTable,
			Connections:  cfg.ConnectionsTable,
		})
	} else {
		slog.Warn("DynamoDB tables not configured, using in-memory store")
		c.Store = memory.New()
	}

	if cfg.ProviderMode == config.ProviderLive {
		c.Provider = provider.NewHTTPClient(cfg.ProviderBaseURL, cfg.ProviderSecretKey, cfg.WebhookSecret, &http.Client{Timeout: cfg.ProviderTimeout})
	} else {
		c.Provider = provider.NewSimulator(cfg.WebhookSecret)
	}

	var upstream rates.Provider = rates.NewStaticProvider()
	if cfg.RatesBaseURL != "" {
		upstream = rates.NewHTTPProvider(cfg.RatesBaseURL, cfg.RatesAPIKey, &http.Client{Timeout: cfg.ProviderTimeout})
	}
	var cache rates.Cache = rates.NewMemoryCache()
	if cfg.RedisAddr != "" {
		cache = rates.NewRedisCache(rates.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB))
	}
	c.Rates = rates.NewCachedProvider(upstream, cache, cfg.RatesCacheTTL)

	if cfg.WebsocketAPIEndpoint != "" {
		p, err := notify.NewAPIGatewayPublisher(ctx, c.Store, cfg.WebsocketAPIEndpoint)
		if err != nil {
			return nil, err
		}
		c.Publisher = p
	}

	if cfg.QueueURL != "" {
		ac, err := loadAWS()
		if err != nil {
			return nil, err
		}
		c.Scheduler = scheduler.NewSQSScheduler(sqs.NewFromConfig(ac), cfg.QueueURL)
	}

	for _, opt := range opts {
		opt(c)
	}
	if c.Publisher == nil {
		c.Publisher = &notify.NoOpPublisher{}
	}
	c.Notifier = &notify.RecipientNotifier{
		Email: notify.LogSender{Channel: "email"},
		SMS:   notify.LogSender{Channel: "sms"},
	}
	publisher := notify.Publishers{c.Publisher, c.Notifier}

	c.Service = transfer.NewService(c.Store, c.Provider, c.Rates, c.Directory, fees.Default(), publisher, transfer.Options{
		ProviderTimeout: cfg.ProviderTimeout,
		Expiry:          cfg.TransactionExpiry,
	})
	c.Reconciler = reconcile.New(c.Store, c.Provider, publisher, reconcile.Options{
		ProcessingAge: cfg.SweepProcessingAge,
	})
	c.Service.SetPoller(c.Reconciler)
	return c, nil
}

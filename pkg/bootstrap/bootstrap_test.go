package bootstrap_test

import (
	"context"
	"testing"
	"time"

	"github.com/chris/remittance-ledger/pkg/bootstrap"
	"github.com/chris/remittance-ledger/pkg/config"
	"github.com/chris/remittance-ledger/pkg/notify"
	"github.com/chris/remittance-ledger/pkg/provider"
	"github.com/chris/remittance-ledger/pkg/rates"
	"github.com/chris/remittance-ledger/pkg/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	cfg := config.Config{
		WebhookSecret:      "whsec",
		ProviderMode:       config.ProviderSimulator,
		ProviderTimeout:    time.Second,
		TransactionExpiry:  time.Hour,
		SweepProcessingAge: time.Minute,
	}

	t.Run("Local Defaults", func(t *testing.T) {
		c, err := bootstrap.Build(context.Background(), cfg)

		require.NoError(t, err)
		assert.IsType(t, &memory.Store{}, c.Store)
		assert.IsType(t, &provider.Simulator{}, c.Provider)
		assert.IsType(t, &rates.CachedProvider{}, c.Rates)
		assert.IsType(t, &notify.NoOpPublisher{}, c.Publisher)
		assert.IsType(t, notify.LogSender{}, c.Notifier.Email)
		assert.Nil(t, c.Scheduler)
		assert.NotNil(t, c.Service)
		assert.NotNil(t, c.Reconciler)
	})

	t.Run("Live Provider With Cached Rates", func(t *testing.T) {
		live := cfg
		live.ProviderMode = config.ProviderLive
		live.ProviderSecretKey = "sk"
		live.RatesBaseURL = "http://rates.invalid"
		live.RedisAddr = "127.0.0.1:6379"

		c, err := bootstrap.Build(context.Background(), live)

		require.NoError(t, err)
		assert.IsType(t, &provider.HTTPClient{}, c.Provider)
		assert.IsType(t, &rates.CachedProvider{}, c.Rates)
	})

	t.Run("HTTP Rates Without Redis Keep A Fallback", func(t *testing.T) {
		upstream := cfg
		upstream.RatesBaseURL = "http://rates.invalid"

		c, err := bootstrap.Build(context.Background(), upstream)

		require.NoError(t, err)
		assert.IsType(t, &rates.CachedProvider{}, c.Rates)
	})

	t.Run("Publisher Override", func(t *testing.T) {
		hub := notify.NewLocalHub()

		c, err := bootstrap.Build(context.Background(), cfg, bootstrap.WithPublisher(hub))

		require.NoError(t, err)
		assert.Same(t, hub, c.Publisher)
	})
}

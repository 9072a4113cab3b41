package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/chris/remittance-ledger/pkg/config"
	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "")
		t.Setenv("LOG_LEVEL", "")
		t.Setenv("PROVIDER_MODE", "")
		t.Setenv("PROVIDER_TIMEOUT", "")
		t.Setenv("DYNAMODB_TRANSACTIONS_TABLE_NAME", "")

		cfg := config.Load()

		assert.Equal(t, "8080", cfg.HTTPPort)
		assert.Equal(t, config.ProviderSimulator, cfg.ProviderMode)
		assert.Equal(t, 30*time.Second, cfg.ProviderTimeout)
		assert.Equal(t, 24*time.Hour, cfg.TransactionExpiry)
		assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
		assert.False(t, cfg.UseDynamoDB())
	})

	t.Run("Overrides", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "9090")
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("PROVIDER_MODE", "LIVE")
		t.Setenv("RATES_CACHE_TTL", "90s")
		t.Setenv("REDIS_DB", "3")
		t.Setenv("DYNAMODB_TRANSACTIONS_TABLE_NAME", "tx")
		t.Setenv("DYNAMODB_ACCOUNTS_TABLE_NAME", "accounts")
		t.Setenv("DYNAMODB_LEDGER_TABLE_NAME", "ledger")
		t.Setenv("DYNAMODB_CONNECTIONS_TABLE_NAME", "connections")

		cfg := config.Load()

		assert.Equal(t, "9090", cfg.HTTPPort)
		assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
		assert.Equal(t, config.ProviderLive, cfg.ProviderMode)
		assert.Equal(t, 90*time.Second, cfg.RatesCacheTTL)
		assert.Equal(t, 3, cfg.RedisDB)
		assert.True(t, cfg.UseDynamoDB())
	})

	t.Run("Invalid Values Fall Back", func(t *testing.T) {
		t.Setenv("REDIS_DB", "three")
		t.Setenv("SWEEP_PROCESSING_AGE", "soon")
		t.Setenv("LOG_LEVEL", "chatty")

		cfg := config.Load()

		assert.Equal(t, 0, cfg.RedisDB)
		assert.Equal(t, 20*time.Minute, cfg.SweepProcessingAge)
		assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	})
}

func TestValidate(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		cfg := config.Config{JWTSecret: "j", WebhookSecret: "w", ProviderMode: config.ProviderSimulator}

		assert.NoError(t, cfg.Validate())
	})

	t.Run("Live Mode Requires Key", func(t *testing.T) {
		cfg := config.Config{JWTSecret: "j", WebhookSecret: "w", ProviderMode: config.ProviderLive}

		err := cfg.Validate()

		assert.ErrorContains(t, err, "PROVIDER_SECRET_KEY")
	})

	t.Run("Missing Secrets", func(t *testing.T) {
		err := config.Config{ProviderMode: "mock"}.Validate()

		assert.ErrorContains(t, err, "JWT_SECRET")
		assert.ErrorContains(t, err, "WEBHOOK_SECRET")
		assert.ErrorContains(t, err, "PROVIDER_MODE")
	})
}

// Package config reads process configuration from the environment.
package config

import (
	"errors"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Provider modes.
const (
	ProviderLive      = "live"
	ProviderSimulator = "simulator"
)

// Config is everything the binaries read from the environment.
type Config struct {
	TransactionsTable string
	AccountsTable     string
	LedgerTable       string
	ConnectionsTable  string
	QueueURL          string

	HTTPPort string
	LogLevel slog.Level

	JWTSecret     string
	WebhookSecret string

	ProviderMode      string
	ProviderBaseURL   string
	ProviderSecretKey string
	ProviderTimeout   time.Duration

	RatesBaseURL  string
	RatesAPIKey   string
	RatesCacheTTL time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	WebsocketAPIEndpoint string

	TransactionExpiry  time.Duration
	SweepProcessingAge time.Duration
}

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
}

// Load reads the configuration, applying defaults for unset values.
func Load() Config {
	return Config{
		TransactionsTable: GetEnv("DYNAMODB_TRANSACTIONS_TABLE_NAME", ""),
		AccountsTable:     GetEnv("DYNAMODB_ACCOUNTS_TABLE_NAME", ""),
		LedgerTable:       GetEnv("DYNAMODB_LEDGER_TABLE_NAME", ""),
		ConnectionsTable:  GetEnv("DYNAMODB_CONNECTIONS_TABLE_NAME", ""),
		QueueURL:          GetEnv("SQS_QUEUE_URL", ""),

		HTTPPort: GetEnv("HTTP_PORT", "8080"),
		LogLevel: parseLevel(GetEnv("LOG_LEVEL", "info")),

		JWTSecret:     GetEnv("JWT_SECRET", ""),
		WebhookSecret: GetEnv("WEBHOOK_SECRET", ""),

		ProviderMode:      strings.ToLower(GetEnv("PROVIDER_MODE", ProviderSimulator)),
		ProviderBaseURL:   GetEnv("PROVIDER_BASE_URL", "https://api.flutterwave.com/v3"),
		ProviderSecretKey: GetEnv("PROVIDER_SECRET_KEY", ""),
		ProviderTimeout:   GetDurationEnv("PROVIDER_TIMEOUT", 30*time.Second),

		RatesBaseURL:  GetEnv("RATES_BASE_URL", ""),
		RatesAPIKey:   GetEnv("RATES_API_KEY", ""),
		RatesCacheTTL: GetDurationEnv("RATES_CACHE_TTL", 5*time.Minute),
		RedisAddr:     GetEnv("REDIS_ADDR", ""),
		RedisPassword: GetEnv("REDIS_PASSWORD", ""),
		RedisDB:       GetIntEnv("REDIS_DB", 0),

		WebsocketAPIEndpoint: GetEnv("WEBSOCKET_API_ENDPOINT", ""),

		TransactionExpiry:  GetDurationEnv("TRANSACTION_EXPIRY", 24*time.Hour),
		SweepProcessingAge: GetDurationEnv("SWEEP_PROCESSING_AGE", 20*time.Minute),
	}
}

// UseDynamoDB reports whether every table name is set. Without them the
// binaries fall back to the in-memory store.
func (c Config) UseDynamoDB() bool {
	return c.TransactionsTable != "" && c.AccountsTable != "" && c.LedgerTable != "" && c.ConnectionsTable != ""
}

// Validate checks the settings every deployment needs.
func (c Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is not set"))
	}
	if c.WebhookSecret == "" {
		errs = append(errs, errors.New("WEBHOOK_SECRET is not set"))
	}
	switch c.ProviderMode {
	case ProviderSimulator:
	case ProviderLive:
		if c.ProviderSecretKey == "" {
			errs = append(errs, errors.New("PROVIDER_SECRET_KEY is required in live mode"))
		}
	default:
		errs = append(errs, errors.New("PROVIDER_MODE must be live or simulator"))
	}
	return errors.Join(errs...)
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// GetDurationEnv returns a duration environment variable ("90s", "5m") or a default value.
func GetDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil && d > 0 {
			return d
		}
	}
	return defaultVal
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

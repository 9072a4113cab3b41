// Package rates looks up exchange rates, caching them and falling back to the
// last known rate when the upstream source is unavailable.
package rates

import (
	"context"
	"errors"
	"time"

	"github.com/chris/remittance-ledger/pkg/money"
)

var (
	// ErrUnavailable means no rate could be obtained, fresh or stale.
	ErrUnavailable = errors.New("exchange rate unavailable")
	// ErrUnsupportedPair is returned for currencies the source does not quote.
	ErrUnsupportedPair = errors.New("unsupported currency pair")
)

// Rate is a quote of one unit of From in To.
type Rate struct {
	From       money.Currency `json:"from"`
	To         money.Currency `json:"to"`
	Value      money.Rate     `json:"rate"`
	ObservedAt time.Time      `json:"observed_at"`
	// Stale marks a last-known rate served because the upstream call failed.
	Stale bool `json:"stale"`
}

// Provider returns the current rate for a pair.
type Provider interface {
	GetRate(ctx context.Context, from, to money.Currency) (Rate, error)
}

// Identity is the rate for a same-currency pair.
func Identity(c money.Currency, at time.Time) Rate {
	return Rate{From: c, To: c, Value: money.One, ObservedAt: at}
}

package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chris/remittance-ledger/pkg/money"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a fetched rate is served without asking upstream.
const DefaultTTL = 5 * time.Minute

// CachedProvider serves rates from a cache, refreshes them from upstream and
// falls back to the last known rate when upstream fails.
type CachedProvider struct {
	upstream Provider
	cache    Cache
	ttl      time.Duration
	group    singleflight.Group
	now      func() time.Time
}

// NewCachedProvider wraps upstream. A non-positive ttl selects DefaultTTL.
func NewCachedProvider(upstream Provider, cache Cache, ttl time.Duration) *CachedProvider {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachedProvider{
		upstream: upstream,
		cache:    cache,
		ttl:      ttl,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func freshKey(from, to money.Currency) string { return fmt.Sprintf("rate:%s:%s", from, to) }
func lastKey(from, to money.Currency) string  { return fmt.Sprintf("rate:last:%s:%s", from, to) }

// GetRate returns a cached rate, or fetches one. Concurrent misses for the same
// pair share one upstream call.
func (p *CachedProvider) GetRate(ctx context.Context, from, to money.Currency) (Rate, error) {
	if from == to {
		return Identity(from, p.now()), nil
	}

	if r, ok := p.read(ctx, freshKey(from, to)); ok {
		return r, nil
	}

	v, err, _ := p.group.Do(freshKey(from, to), func() (interface{}, error) {
		return p.refresh(ctx, from, to)
	})
	if err != nil {
		return Rate{}, err
	}
	return v.(Rate), nil
}

func (p *CachedProvider) refresh(ctx context.Context, from, to money.Currency) (Rate, error) {
	r, err := p.upstream.GetRate(ctx, from, to)
	if err != nil {
		if errors.Is(err, ErrUnsupportedPair) {
			return Rate{}, err
		}
		last, ok := p.read(ctx, lastKey(from, to))
		if !ok {
			return Rate{}, fmt.Errorf("%w: %s/%s: %v", ErrUnavailable, from, to, err)
		}
		slog.Warn("Serving last known exchange rate", "from", from, "to", to, "observed_at", last.ObservedAt, "error", err)
		last.Stale = true
		return last, nil
	}

	p.write(ctx, freshKey(from, to), r, p.ttl)
	p.write(ctx, lastKey(from, to), r, 0)
	return r, nil
}

// read treats cache errors as misses; the cache is never the source of truth.
func (p *CachedProvider) read(ctx context.Context, key string) (Rate, bool) {
	raw, err := p.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			slog.Warn("Rate cache read failed", "key", key, "error", err)
		}
		return Rate{}, false
	}
	var r Rate
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		slog.Warn("Discarding unreadable cached rate", "key", key, "error", err)
		return Rate{}, false
	}
	return r, true
}

func (p *CachedProvider) write(ctx context.Context, key string, r Rate, ttl time.Duration) {
	b, err := json.Marshal(r)
	if err != nil {
		return
	}
	if err := p.cache.Set(ctx, key, string(b), ttl); err != nil {
		slog.Warn("Rate cache write failed", "key", key, "error", err)
	}
}

var _ Provider = (*CachedProvider)(nil)

package rates

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chris/remittance-ledger/pkg/money"
)

// StaticProvider serves fixed rates. Inverse pairs are derived.
type StaticProvider struct {
	mu    sync.RWMutex
	rates map[[2]money.Currency]money.Rate
	err   error
}

func NewStaticProvider() *StaticProvider {
	return &StaticProvider{rates: make(map[[2]money.Currency]money.Rate)}
}

// Set registers the rate for from -> to.
func (p *StaticProvider) Set(from, to money.Currency, r money.Rate) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rates[[2]money.Currency{from, to}] = r
}

// Fail makes every lookup return err until it is called with nil.
func (p *StaticProvider) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

func (p *StaticProvider) GetRate(ctx context.Context, from, to money.Currency) (Rate, error) {
	now := time.Now().UTC()
	if from == to {
		return Identity(from, now), nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.err != nil {
		return Rate{}, p.err
	}
	if r, ok := p.rates[[2]money.Currency{from, to}]; ok {
		return Rate{From: from, To: to, Value: r, ObservedAt: now}, nil
	}
	if r, ok := p.rates[[2]money.Currency{to, from}]; ok {
		inv, err := money.NewRate(money.One.Decimal().DivRound(r.Decimal(), 8).String())
		if err != nil {
			return Rate{}, err
		}
		return Rate{From: from, To: to, Value: inv, ObservedAt: now}, nil
	}
	return Rate{}, fmt.Errorf("%w: %s/%s", ErrUnsupportedPair, from, to)
}

var _ Provider = (*StaticProvider)(nil)

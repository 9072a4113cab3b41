// Package memory is an in-process implementation of storage.Storage with the
// same atomicity guarantees as the DynamoDB store. It backs tests and local runs.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/money"
	"github.com/chris/remittance-ledger/pkg/storage"
)

// Store keeps every record behind one mutex, which serializes all ledger mutations.
type Store struct {
	mu          sync.Mutex
	accounts    map[string]models.Account
	txs         map[string]*models.Transaction
	refs        map[string]string
	entries     map[string]models.LedgerEntry
	entryOrder  []string
	connections map[string]string
	now         func() time.Time
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		accounts:    make(map[string]models.Account),
		txs:         make(map[string]*models.Transaction),
		refs:        make(map[string]string),
		entries:     make(map[string]models.LedgerEntry),
		connections: make(map[string]string),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

func (s *Store) CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[account.Id]; ok {
		return nil, fmt.Errorf("%w: account %s", storage.ErrAlreadyExists, account.Id)
	}
	s.accounts[account.Id] = *account
	out := *account
	return &out, nil
}

func (s *Store) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", storage.ErrNotFound, accountID)
	}
	return &a, nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out, nil
}

func (s *Store) SetAccountStatus(ctx context.Context, accountID string, status models.AccountStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return fmt.Errorf("%w: account %s", storage.ErrNotFound, accountID)
	}
	a.Status = status
	a.Version++
	a.UpdatedAt = s.now()
	s.accounts[accountID] = a
	return nil
}

// Reserve debits the account if its balance covers the amount.
func (s *Store) Reserve(ctx context.Context, m storage.LedgerMutation) error {
	if !m.Kind.IsDebit() {
		return fmt.Errorf("reserve called with credit kind %q", m.Kind)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyEffects([]storage.LedgerMutation{m})
}

// Credit increments the account balance.
func (s *Store) Credit(ctx context.Context, m storage.LedgerMutation) error {
	if m.Kind.IsDebit() {
		return fmt.Errorf("credit called with debit kind %q", m.Kind)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyEffects([]storage.LedgerMutation{m})
}

// applyEffects checks every mutation before applying any. Callers hold s.mu.
func (s *Store) applyEffects(effects []storage.LedgerMutation) error {
	staged := make(map[string]money.Amount)
	for _, m := range effects {
		if err := m.Validate(); err != nil {
			return err
		}
		a, ok := s.accounts[m.AccountId]
		if !ok {
			return fmt.Errorf("%w: account %s", storage.ErrNotFound, m.AccountId)
		}
		if m.Currency != "" && m.Currency != a.Currency {
			return fmt.Errorf("%w: account %s holds %s, mutation is %s", storage.ErrCurrencyMismatch, a.Id, a.Currency, m.Currency)
		}
		if _, ok := s.entries[models.LedgerEntryID(m.TransactionId, m.Kind)]; ok {
			return fmt.Errorf("%w: %s", storage.ErrAlreadyApplied, models.LedgerEntryID(m.TransactionId, m.Kind))
		}
		bal, ok := staged[a.Id]
		if !ok {
			bal = a.Balance
		}
		if m.Kind.IsDebit() {
			if !a.IsActive() {
				return fmt.Errorf("%w: %s", storage.ErrAccountDisabled, a.Id)
			}
			if bal.LessThan(m.Amount) {
				return fmt.Errorf("%w: account %s", storage.ErrInsufficientFunds, a.Id)
			}
			bal = bal.Sub(m.Amount)
		} else {
			bal = bal.Add(m.Amount)
		}
		staged[a.Id] = bal
	}

	now := s.now()
	for _, m := range effects {
		a := s.accounts[m.AccountId]
		if m.Kind.IsDebit() {
			a.Balance = a.Balance.Sub(m.Amount)
		} else {
			a.Balance = a.Balance.Add(m.Amount)
		}
		a.Version++
		a.UpdatedAt = now
		s.accounts[m.AccountId] = a

		e := m.Entry(now)
		s.entries[e.EntryID] = e
		s.entryOrder = append(s.entryOrder, e.EntryID)
	}
	return nil
}

func (s *Store) ListLedgerEntries(ctx context.Context, limit int32) ([]models.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.LedgerEntry
	for i := len(s.entryOrder) - 1; i >= 0 && (limit <= 0 || int32(len(out)) < limit); i-- {
		out = append(out, s.entries[s.entryOrder[i]])
	}
	return out, nil
}

func (s *Store) ListLedgerEntriesByTransaction(ctx context.Context, txID string) ([]models.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.LedgerEntry
	for _, id := range s.entryOrder {
		if e := s.entries[id]; e.TransactionID == txID {
			out = append(out, e)
		}
	}
	return out, nil
}

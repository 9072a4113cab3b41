package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/storage"
)

func (s *Store) CreateTransaction(ctx context.Context, tx *models.Transaction, effects ...storage.LedgerMutation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkNew(tx); err != nil {
		return err
	}
	if err := s.applyEffects(effects); err != nil {
		return err
	}
	s.put(tx)
	return nil
}

func (s *Store) UpdateTransaction(ctx context.Context, tx *models.Transaction, expected models.TransactionStatus, effects ...storage.LedgerMutation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkCurrent(tx, expected); err != nil {
		return err
	}
	if err := s.applyEffects(effects); err != nil {
		return err
	}
	tx.Version++
	s.put(tx)
	return nil
}

func (s *Store) CreateRelatedTransaction(ctx context.Context, created, parent *models.Transaction, parentExpected models.TransactionStatus, effects ...storage.LedgerMutation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkCurrent(parent, parentExpected); err != nil {
		return err
	}
	if err := s.checkNew(created); err != nil {
		return err
	}
	if err := s.applyEffects(effects); err != nil {
		return err
	}
	parent.Version++
	s.put(parent)
	s.put(created)
	return nil
}

func (s *Store) checkNew(tx *models.Transaction) error {
	if _, ok := s.txs[tx.Id]; ok {
		return fmt.Errorf("%w: transaction %s", storage.ErrAlreadyExists, tx.Id)
	}
	if _, ok := s.refs[tx.Reference]; ok {
		return fmt.Errorf("%w: reference %s", storage.ErrAlreadyExists, tx.Reference)
	}
	return nil
}

func (s *Store) checkCurrent(tx *models.Transaction, expected models.TransactionStatus) error {
	cur, ok := s.txs[tx.Id]
	if !ok {
		return fmt.Errorf("%w: transaction %s", storage.ErrNotFound, tx.Id)
	}
	if cur.Status != expected || cur.Version != tx.Version {
		return fmt.Errorf("%w: %s is %s v%d, expected %s v%d", storage.ErrStatusConflict, tx.Id, cur.Status, cur.Version, expected, tx.Version)
	}
	return nil
}

func (s *Store) put(tx *models.Transaction) {
	s.txs[tx.Id] = tx.Clone()
	s.refs[tx.Reference] = tx.Id
}

func (s *Store) GetTransaction(ctx context.Context, txID string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.txs[txID]
	if !ok {
		return nil, fmt.Errorf("%w: transaction %s", storage.ErrNotFound, txID)
	}
	return tx.Clone(), nil
}

func (s *Store) GetTransactionByReference(ctx context.Context, reference string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.refs[reference]
	if !ok {
		return nil, fmt.Errorf("%w: reference %s", storage.ErrNotFound, reference)
	}
	return s.txs[id].Clone(), nil
}

func (s *Store) ListTransactionsByAccount(ctx context.Context, accountID string, since time.Time) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Transaction
	for _, tx := range s.txs {
		if tx.AccountId != accountID && tx.CounterpartyAccountId != accountID {
			continue
		}
		if tx.CreatedAt.Before(since) {
			continue
		}
		out = append(out, *tx.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) ListTransactionsByStatus(ctx context.Context, status models.TransactionStatus, olderThan time.Time) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Transaction
	for _, tx := range s.txs {
		if tx.Status == status && tx.CreatedAt.Before(olderThan) {
			out = append(out, *tx.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

package memory

import (
	"context"
	"sort"
)

func (s *Store) AddConnection(ctx context.Context, connectionID, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connections[connectionID] = accountID
	return nil
}

func (s *Store) RemoveConnection(ctx context.Context, connectionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.connections, connectionID)
	return nil
}

func (s *Store) GetConnectionsForAccount(ctx context.Context, accountID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for conn, acct := range s.connections {
		if acct == accountID {
			out = append(out, conn)
		}
	}
	sort.Strings(out)
	return out, nil
}

package storage

import "context"

// ConnectionStore stores the realtime connections opened by account holders.
type ConnectionStore interface {
	AddConnection(ctx context.Context, connectionID, accountID string) error
	RemoveConnection(ctx context.Context, connectionID string) error
	GetConnectionsForAccount(ctx context.Context, accountID string) ([]string, error)
}

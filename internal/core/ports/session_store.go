package ports

import (
	"context"
	"time"
)

// SessionStore tracks issued login sessions so they can be revoked.
type SessionStore interface {
	Create(ctx context.Context, accountID string, ttl time.Duration) (string, error)
	Exists(ctx context.Context, sessionID string) (bool, error)
	Revoke(ctx context.Context, sessionID string) error
}

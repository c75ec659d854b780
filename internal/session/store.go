package session

import (
	"context"

	"github.com/google/uuid"
)

// Store defines the persistence interface for session records.
// Implementations must be safe for concurrent use.
type Store interface {
	GetByToken(ctx context.Context, token string) (*Session, error)
	Save(ctx context.Context, sess *Session) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteExpired removes expired sessions and reports how many were
	// deleted. Stores with native TTL support may make this a no-op.
	DeleteExpired(ctx context.Context) (int64, error)
}

package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicate is returned when a create collides with an existing
	// identity (same email, or same provider/subject pair).
	ErrDuplicate = errors.New("user already exists")
)

// Store defines the persistence interface for users. Implementations must
// enforce uniqueness of email (for local users) and of the
// provider/subject pair (for federated users), surfacing collisions as
// ErrDuplicate so callers can run find-or-create without races.
type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByFederatedID(ctx context.Context, provider, subjectID string) (*User, error)
	Create(ctx context.Context, u *User) error
	UpdateSecret(ctx context.Context, id uuid.UUID, secret string) error
	// ListWithSecrets returns every user that has submitted a secret.
	ListWithSecrets(ctx context.Context) ([]User, error)
}

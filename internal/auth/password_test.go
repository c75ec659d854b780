package auth_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secretwall/secretwall/internal/auth"
	"github.com/secretwall/secretwall/internal/user"
)

// memoryUsers is an in-memory user.Store enforcing the same uniqueness
// rules as the MongoDB implementation.
type memoryUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]user.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: make(map[uuid.UUID]user.User)}
}

func (s *memoryUsers) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return &u, nil
	}
	return nil, user.ErrNotFound
}

func (s *memoryUsers) GetByEmail(_ context.Context, email string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (s *memoryUsers) GetByFederatedID(_ context.Context, provider, subjectID string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.IsFederated() && u.Credential.Provider == provider && u.Credential.SubjectID == subjectID {
			return &u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (s *memoryUsers) Create(_ context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if u.IsLocal() && existing.IsLocal() && existing.Email == u.Email {
			return user.ErrDuplicate
		}
		if u.IsFederated() && existing.IsFederated() &&
			existing.Credential.Provider == u.Credential.Provider &&
			existing.Credential.SubjectID == u.Credential.SubjectID {
			return user.ErrDuplicate
		}
	}
	s.users[u.ID] = *u
	return nil
}

func (s *memoryUsers) UpdateSecret(_ context.Context, id uuid.UUID, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return user.ErrNotFound
	}
	u.Secret = &secret
	s.users[id] = u
	return nil
}

func (s *memoryUsers) ListWithSecrets(_ context.Context) ([]user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []user.User
	for _, u := range s.users {
		if u.HasSecret() {
			out = append(out, u)
		}
	}
	return out, nil
}

func TestPassword_RegisterThenLogin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := auth.NewPassword(newMemoryUsers())

	registered, err := p.Register(ctx, "alice@example.com", "pw1")
	require.NoError(t, err)
	assert.True(t, registered.IsLocal())
	assert.NotEmpty(t, registered.Credential.PasswordHash)
	assert.NotContains(t, string(registered.Credential.PasswordHash), "pw1")

	loggedIn, err := p.Login(ctx, "alice@example.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, loggedIn.ID)
}

func TestPassword_Register_DuplicateEmail(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := auth.NewPassword(newMemoryUsers())

	first, err := p.Register(ctx, "alice@example.com", "pw1")
	require.NoError(t, err)

	_, err = p.Register(ctx, "alice@example.com", "other")
	assert.ErrorIs(t, err, auth.ErrEmailTaken)

	// The original credential survives.
	u, err := p.Login(ctx, "alice@example.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, u.ID)
}

func TestPassword_Register_PasswordTooLong(t *testing.T) {
	t.Parallel()

	p := auth.NewPassword(newMemoryUsers())
	_, err := p.Register(context.Background(), "alice@example.com", strings.Repeat("x", 73))
	assert.ErrorIs(t, err, auth.ErrPasswordTooLong)
}

func TestPassword_Login_Failures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newMemoryUsers()
	p := auth.NewPassword(store)

	_, err := p.Register(ctx, "alice@example.com", "pw1")
	require.NoError(t, err)

	federated := user.NewFederated("google", "subject-1", "bob@example.com")
	require.NoError(t, store.Create(ctx, &federated))

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()
		_, err := p.Login(ctx, "alice@example.com", "wrongpw")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		t.Parallel()
		_, err := p.Login(ctx, "nobody@example.com", "pw1")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("federated account has no password", func(t *testing.T) {
		t.Parallel()
		_, err := p.Login(ctx, "bob@example.com", "anything")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

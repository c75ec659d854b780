// Package auth implements the two sign-in paths: local email/password
// credentials hashed with bcrypt, and Google OAuth with find-or-create
// account resolution.
package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/secretwall/secretwall/internal/user"
)

// DefaultBcryptCost is the bcrypt work factor for new password hashes.
const DefaultBcryptCost = 12

// dummyHash is a valid bcrypt hash of an unguessable value. Login compares
// against it when the email is unknown so response timing does not leak
// account existence.
var dummyHash = []byte("$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW")

// Password authenticates and registers local email/password users.
type Password struct {
	users user.Store
	cost  int
}

// NewPassword creates a password authenticator over the user store.
func NewPassword(users user.Store) *Password {
	return &Password{users: users, cost: DefaultBcryptCost}
}

// Register creates a local account. Registering an email that already has
// an account fails with ErrEmailTaken, whether detected by lookup or by
// the store's unique constraint.
func (p *Password) Register(ctx context.Context, email, password string) (user.User, error) {
	if len(password) > 72 {
		return user.User{}, ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	u := user.NewLocal(email, hash)
	if err := p.users.Create(ctx, &u); err != nil {
		if errors.Is(err, user.ErrDuplicate) {
			return user.User{}, ErrEmailTaken
		}
		return user.User{}, fmt.Errorf("create user: %w", err)
	}

	return u, nil
}

// Login verifies an email/password pair. Unknown emails, federated-only
// accounts, and wrong passwords all yield ErrInvalidCredentials, and all
// three paths run a bcrypt comparison so they cost the same.
func (p *Password) Login(ctx context.Context, email, password string) (user.User, error) {
	u, err := p.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return user.User{}, ErrInvalidCredentials
		}
		return user.User{}, fmt.Errorf("lookup user: %w", err)
	}

	hash := u.Credential.PasswordHash
	if !u.IsLocal() || len(hash) == 0 {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return user.User{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return user.User{}, ErrInvalidCredentials
	}

	return *u, nil
}

package user_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/secretwall/secretwall/internal/user"
)

func TestNewLocal(t *testing.T) {
	t.Parallel()

	u := user.NewLocal("alice@example.com", []byte("hash"))

	assert.NotEqual(t, uuid.Nil, u.ID)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.True(t, u.IsLocal())
	assert.False(t, u.IsFederated())
	assert.Equal(t, []byte("hash"), u.Credential.PasswordHash)
	assert.Empty(t, u.Credential.Provider)
	assert.False(t, u.HasSecret())
}

func TestNewFederated(t *testing.T) {
	t.Parallel()

	u := user.NewFederated("google", "subject-1", "")

	assert.NotEqual(t, uuid.Nil, u.ID)
	assert.True(t, u.IsFederated())
	assert.False(t, u.IsLocal())
	assert.Equal(t, "google", u.Credential.Provider)
	assert.Equal(t, "subject-1", u.Credential.SubjectID)
	assert.Empty(t, u.Credential.PasswordHash)
}

func TestUser_HasSecret(t *testing.T) {
	t.Parallel()

	u := user.NewLocal("alice@example.com", []byte("hash"))
	assert.False(t, u.HasSecret())

	empty := ""
	u.Secret = &empty
	assert.False(t, u.HasSecret(), "empty string does not count as a secret")

	secret := "hello"
	u.Secret = &secret
	assert.True(t, u.HasSecret())
}

// Package session implements server-side browser sessions: an opaque token
// held by the client resolves to a stored record that may reference an
// authenticated user. Sessions carry a fixed time-to-live from issuance;
// authenticating rotates the token and restarts the window. There is no
// sliding expiration.
package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Session associates a browser client with an optional user identity.
// A session with UserID == uuid.Nil is anonymous.
type Session struct {
	// ID is the stable unique session identifier.
	ID uuid.UUID

	// Token is the cryptographically secure session token (32 bytes,
	// base64url) used as the cookie value. Rotated on authentication.
	Token string

	// UserID identifies the authenticated user (uuid.Nil for anonymous
	// sessions).
	UserID uuid.UUID

	CreatedAt time.Time
	UpdatedAt time.Time
	ExpiresAt time.Time
	DeletedAt time.Time

	// modified tracks whether the session needs saving.
	modified bool
}

// New creates an anonymous session with a generated token, expiring ttl
// from now. The session is marked modified and ready to be saved.
func New(ttl time.Duration) (Session, error) {
	token, err := generateToken()
	if err != nil {
		return Session{}, errors.Join(ErrTokenGeneration, err)
	}

	now := time.Now()
	return Session{
		ID:        uuid.New(),
		Token:     token,
		UserID:    uuid.Nil,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
		modified:  true,
	}, nil
}

// Authenticate attaches userID to the session, rotates the token, and
// restarts the expiry window at ttl from now.
func (s *Session) Authenticate(userID uuid.UUID, ttl time.Duration) error {
	token, err := generateToken()
	if err != nil {
		return errors.Join(ErrTokenGeneration, err)
	}

	now := time.Now()
	s.Token = token
	s.UserID = userID
	s.UpdatedAt = now
	s.ExpiresAt = now.Add(ttl)
	s.modified = true
	return nil
}

// Logout marks the session for deletion.
func (s *Session) Logout() {
	s.DeletedAt = time.Now()
	s.modified = true
}

// IsAuthenticated returns true if the session references a user.
func (s Session) IsAuthenticated() bool {
	return s.UserID != uuid.Nil && s.Token != ""
}

// IsDeleted returns true if the session is marked for deletion.
func (s Session) IsDeleted() bool {
	return !s.DeletedAt.IsZero()
}

// IsExpired returns true if the session's lifetime has elapsed.
func (s Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// IsModified returns true if the session has unsaved changes.
func (s Session) IsModified() bool {
	return s.modified
}

// generateToken creates a cryptographically secure random token: 32 bytes
// (256 bits) encoded as base64 URL-safe without padding.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

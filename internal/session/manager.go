package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is the session lifetime used when no TTL is configured.
const DefaultTTL = 24 * time.Hour

// Manager handles session lifecycle: creation, retrieval with lazy expiry,
// authentication, logout, and persistence.
type Manager struct {
	store Store
	ttl   time.Duration
}

// NewManager creates a session manager with the given store and
// time-to-live. A non-positive ttl falls back to DefaultTTL.
func NewManager(store Store, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{store: store, ttl: ttl}
}

// New creates a fresh anonymous session. It is persisted when the request
// completes (the session is born modified).
func (m *Manager) New(ctx context.Context) (Session, error) {
	return New(m.ttl)
}

// GetByToken retrieves a session by token, enforcing expiry lazily: an
// expired record yields ErrExpired and is removed from the store.
func (m *Manager) GetByToken(ctx context.Context, token string) (Session, error) {
	sess, err := m.store.GetByToken(ctx, token)
	if err != nil {
		return Session{}, err
	}

	if sess.IsExpired() {
		if err := m.store.Delete(ctx, sess.ID); err != nil && !errors.Is(err, ErrNotFound) {
			return Session{}, errors.Join(ErrDeleteSession, err)
		}
		return Session{}, ErrExpired
	}

	return *sess, nil
}

// Authenticate transitions the session to the authenticated state for
// userID and persists it immediately, so a login survives even if the
// request aborts afterwards.
func (m *Manager) Authenticate(ctx context.Context, sess Session, userID uuid.UUID) (Session, error) {
	if err := sess.Authenticate(userID, m.ttl); err != nil {
		return Session{}, err
	}
	if err := m.store.Save(ctx, &sess); err != nil {
		return Session{}, errors.Join(ErrSaveSession, err)
	}
	sess.modified = false
	return sess, nil
}

// Logout deletes the session record and returns a fresh anonymous session
// to hand back to the client.
func (m *Manager) Logout(ctx context.Context, sess Session) (Session, error) {
	if err := m.store.Delete(ctx, sess.ID); err != nil && !errors.Is(err, ErrNotFound) {
		return Session{}, errors.Join(ErrDeleteSession, err)
	}
	return m.New(ctx)
}

// Store persists the session according to its state: deleted sessions are
// removed, modified sessions are saved, untouched sessions are left alone.
func (m *Manager) Store(ctx context.Context, sess Session) error {
	if sess.IsDeleted() {
		if err := m.store.Delete(ctx, sess.ID); err != nil && !errors.Is(err, ErrNotFound) {
			return errors.Join(ErrDeleteSession, err)
		}
		return nil
	}

	if sess.IsModified() {
		if err := m.store.Save(ctx, &sess); err != nil {
			return errors.Join(ErrSaveSession, err)
		}
	}

	return nil
}

// CleanupExpired removes expired sessions from the store.
func (m *Manager) CleanupExpired(ctx context.Context) (int64, error) {
	return m.store.DeleteExpired(ctx)
}

// TTL returns the session time-to-live.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

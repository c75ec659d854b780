package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/secretwall/secretwall/internal/session"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetByToken(ctx context.Context, token string) (*session.Session, error) {
	args := m.Called(ctx, token)
	if sess := args.Get(0); sess != nil {
		return sess.(*session.Session), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) Save(ctx context.Context, sess *session.Session) error {
	return m.Called(ctx, sess).Error(0)
}

func (m *mockStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockStore) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func TestManager_GetByToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("valid session", func(t *testing.T) {
		t.Parallel()

		store := new(mockStore)
		mgr := session.NewManager(store, time.Hour)

		stored, err := session.New(time.Hour)
		require.NoError(t, err)
		store.On("GetByToken", ctx, stored.Token).Return(&stored, nil)

		got, err := mgr.GetByToken(ctx, stored.Token)
		require.NoError(t, err)
		assert.Equal(t, stored.ID, got.ID)
		store.AssertExpectations(t)
	})

	t.Run("unknown token", func(t *testing.T) {
		t.Parallel()

		store := new(mockStore)
		mgr := session.NewManager(store, time.Hour)
		store.On("GetByToken", ctx, "missing").Return(nil, session.ErrNotFound)

		_, err := mgr.GetByToken(ctx, "missing")
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("expired session is deleted", func(t *testing.T) {
		t.Parallel()

		store := new(mockStore)
		mgr := session.NewManager(store, time.Hour)

		expired, err := session.New(-time.Minute)
		require.NoError(t, err)
		store.On("GetByToken", ctx, expired.Token).Return(&expired, nil)
		store.On("Delete", ctx, expired.ID).Return(nil)

		_, err = mgr.GetByToken(ctx, expired.Token)
		assert.ErrorIs(t, err, session.ErrExpired)
		store.AssertExpectations(t)
	})
}

func TestManager_Authenticate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := new(mockStore)
	mgr := session.NewManager(store, time.Hour)

	sess, err := session.New(time.Hour)
	require.NoError(t, err)
	userID := uuid.New()

	store.On("Save", ctx, mock.MatchedBy(func(s *session.Session) bool {
		return s.UserID == userID && s.Token != sess.Token
	})).Return(nil)

	got, err := mgr.Authenticate(ctx, sess, userID)
	require.NoError(t, err)
	assert.True(t, got.IsAuthenticated())
	assert.False(t, got.IsModified(), "authenticated session is already persisted")
	store.AssertExpectations(t)
}

func TestManager_Authenticate_SaveError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := new(mockStore)
	mgr := session.NewManager(store, time.Hour)

	sess, err := session.New(time.Hour)
	require.NoError(t, err)

	storeErr := errors.New("write failed")
	store.On("Save", ctx, mock.Anything).Return(storeErr)

	_, err = mgr.Authenticate(ctx, sess, uuid.New())
	assert.ErrorIs(t, err, session.ErrSaveSession)
	assert.ErrorIs(t, err, storeErr)
}

func TestManager_Logout(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := new(mockStore)
	mgr := session.NewManager(store, time.Hour)

	sess, err := session.New(time.Hour)
	require.NoError(t, err)
	require.NoError(t, sess.Authenticate(uuid.New(), time.Hour))

	store.On("Delete", ctx, sess.ID).Return(nil)

	anon, err := mgr.Logout(ctx, sess)
	require.NoError(t, err)
	assert.False(t, anon.IsAuthenticated())
	assert.NotEqual(t, sess.Token, anon.Token)
	store.AssertExpectations(t)
}

func TestManager_Store(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("saves modified session", func(t *testing.T) {
		t.Parallel()

		store := new(mockStore)
		mgr := session.NewManager(store, time.Hour)

		sess, err := session.New(time.Hour)
		require.NoError(t, err)
		store.On("Save", ctx, mock.Anything).Return(nil)

		require.NoError(t, mgr.Store(ctx, sess))
		store.AssertExpectations(t)
	})

	t.Run("deletes session marked for deletion", func(t *testing.T) {
		t.Parallel()

		store := new(mockStore)
		mgr := session.NewManager(store, time.Hour)

		sess, err := session.New(time.Hour)
		require.NoError(t, err)
		sess.Logout()
		store.On("Delete", ctx, sess.ID).Return(nil)

		require.NoError(t, mgr.Store(ctx, sess))
		store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("skips unmodified session", func(t *testing.T) {
		t.Parallel()

		store := new(mockStore)
		mgr := session.NewManager(store, time.Hour)

		require.NoError(t, mgr.Store(ctx, session.Session{ID: uuid.New()}))
		store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestManager_DefaultTTL(t *testing.T) {
	t.Parallel()

	mgr := session.NewManager(new(mockStore), 0)
	assert.Equal(t, session.DefaultTTL, mgr.TTL())
}

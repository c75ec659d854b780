package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/secretwall/secretwall/internal/session"
)

const sessionsCollection = "sessions"

type sessionDoc struct {
	ID        string    `bson:"_id"`
	Token     string    `bson:"token"`
	UserID    string    `bson:"user_id,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// SessionStore implements session.Store on a MongoDB collection.
type SessionStore struct {
	coll *mongo.Collection
}

// NewSessionStore creates a session store over db's sessions collection.
func NewSessionStore(db *mongo.Database) *SessionStore {
	return &SessionStore{coll: db.Collection(sessionsCollection)}
}

// EnsureIndexes creates the token lookup index and a TTL index so MongoDB
// reaps expired sessions on its own. Lazy expiry in the session manager
// still guards the window before the TTL monitor runs.
func (s *SessionStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	})
	if err != nil {
		return fmt.Errorf("create session indexes: %w", err)
	}
	return nil
}

// GetByToken retrieves a session by its token.
func (s *SessionStore) GetByToken(ctx context.Context, token string) (*session.Session, error) {
	var doc sessionDoc
	if err := s.coll.FindOne(ctx, bson.D{{Key: "token", Value: token}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, session.ErrNotFound
		}
		return nil, fmt.Errorf("find session: %w", err)
	}

	sess := session.Session{
		ID:        uuid.Nil,
		Token:     doc.Token,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
		ExpiresAt: doc.ExpiresAt,
	}
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("parse session id %q: %w", doc.ID, err)
	}
	sess.ID = id

	if doc.UserID != "" {
		userID, err := uuid.Parse(doc.UserID)
		if err != nil {
			return nil, fmt.Errorf("parse session user id %q: %w", doc.UserID, err)
		}
		sess.UserID = userID
	}

	return &sess, nil
}

// Save upserts the session record.
func (s *SessionStore) Save(ctx context.Context, sess *session.Session) error {
	doc := sessionDoc{
		ID:        sess.ID.String(),
		Token:     sess.Token,
		CreatedAt: sess.CreatedAt,
		UpdatedAt: sess.UpdatedAt,
		ExpiresAt: sess.ExpiresAt,
	}
	if sess.UserID != uuid.Nil {
		doc.UserID = sess.UserID.String()
	}

	_, err := s.coll.ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: doc.ID}},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Delete removes a session by ID.
func (s *SessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id.String()}})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if res.DeletedCount == 0 {
		return session.ErrNotFound
	}
	return nil
}

// DeleteExpired removes sessions past their deadline. The TTL index does
// this in the background too; this makes cleanup deterministic for tests
// and maintenance tasks.
func (s *SessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, bson.D{
		{Key: "expires_at", Value: bson.D{{Key: "$lte", Value: time.Now()}}},
	})
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return res.DeletedCount, nil
}

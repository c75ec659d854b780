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

	"github.com/secretwall/secretwall/internal/user"
)

const usersCollection = "users"

// userDoc is the MongoDB representation of user.User. The credential union
// is flattened: kind selects which of the optional fields are set.
type userDoc struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email,omitempty"`
	Kind         string    `bson:"credential_kind"`
	PasswordHash []byte    `bson:"password_hash,omitempty"`
	Provider     string    `bson:"provider,omitempty"`
	SubjectID    string    `bson:"subject_id,omitempty"`
	Secret       *string   `bson:"secret,omitempty"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func toUserDoc(u *user.User) userDoc {
	return userDoc{
		ID:           u.ID.String(),
		Email:        u.Email,
		Kind:         string(u.Credential.Kind),
		PasswordHash: u.Credential.PasswordHash,
		Provider:     u.Credential.Provider,
		SubjectID:    u.Credential.SubjectID,
		Secret:       u.Secret,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (d userDoc) toUser() (user.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return user.User{}, fmt.Errorf("parse user id %q: %w", d.ID, err)
	}
	return user.User{
		ID:    id,
		Email: d.Email,
		Credential: user.Credential{
			Kind:         user.CredentialKind(d.Kind),
			PasswordHash: d.PasswordHash,
			Provider:     d.Provider,
			SubjectID:    d.SubjectID,
		},
		Secret:    d.Secret,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

// UserStore implements user.Store on a MongoDB collection.
type UserStore struct {
	coll *mongo.Collection
}

// NewUserStore creates a user store over db's users collection.
func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{coll: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique constraints the auth flows rely on:
// one account per email among local users, and one account per
// provider/subject pair among federated users. Partial filters keep the
// two credential kinds from colliding on each other's unset fields.
func (s *UserStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.D{
					{Key: "credential_kind", Value: string(user.CredentialLocal)},
				}),
		},
		{
			Keys: bson.D{
				{Key: "provider", Value: 1},
				{Key: "subject_id", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.D{
					{Key: "credential_kind", Value: string(user.CredentialFederated)},
				}),
		},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return s.findOne(ctx, bson.D{{Key: "_id", Value: id.String()}})
}

// GetByEmail retrieves a user by email.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return s.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

// GetByFederatedID retrieves a user by provider and subject ID.
func (s *UserStore) GetByFederatedID(ctx context.Context, provider, subjectID string) (*user.User, error) {
	return s.findOne(ctx, bson.D{
		{Key: "provider", Value: provider},
		{Key: "subject_id", Value: subjectID},
	})
}

// Create inserts a new user. A unique index violation maps to
// user.ErrDuplicate.
func (s *UserStore) Create(ctx context.Context, u *user.User) error {
	if _, err := s.coll.InsertOne(ctx, toUserDoc(u)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return user.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// UpdateSecret sets the user's secret.
func (s *UserStore) UpdateSecret(ctx context.Context, id uuid.UUID, secret string) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id.String()}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "secret", Value: secret},
			{Key: "updated_at", Value: time.Now()},
		}}},
	)
	if err != nil {
		return fmt.Errorf("update secret: %w", err)
	}
	if res.MatchedCount == 0 {
		return user.ErrNotFound
	}
	return nil
}

// ListWithSecrets returns every user that has submitted a secret.
func (s *UserStore) ListWithSecrets(ctx context.Context) ([]user.User, error) {
	cur, err := s.coll.Find(ctx, bson.D{
		{Key: "secret", Value: bson.D{
			{Key: "$exists", Value: true},
			{Key: "$nin", Value: bson.A{nil, ""}},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("find users with secrets: %w", err)
	}
	defer cur.Close(ctx)

	var users []user.User
	for cur.Next(ctx) {
		var doc userDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		u, err := doc.toUser()
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func (s *UserStore) findOne(ctx context.Context, filter bson.D) (*user.User, error) {
	var doc userDoc
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	u, err := doc.toUser()
	if err != nil {
		return nil, err
	}
	return &u, nil
}

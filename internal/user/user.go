// Package user defines the user domain model and its persistence contract.
// Users authenticate either with a local email/password credential or a
// federated identity (an OAuth provider plus the provider's subject ID);
// each user may hold one submitted secret.
package user

import (
	"time"

	"github.com/google/uuid"
)

// CredentialKind discriminates how a user authenticates.
type CredentialKind string

const (
	// CredentialLocal marks an email/password user.
	CredentialLocal CredentialKind = "local"
	// CredentialFederated marks a user authenticated by an external
	// identity provider.
	CredentialFederated CredentialKind = "federated"
)

// Credential is a tagged union over the two authentication methods. Kind
// selects which fields are meaningful: PasswordHash for local credentials,
// Provider and SubjectID for federated ones.
type Credential struct {
	Kind CredentialKind

	// PasswordHash is the bcrypt hash of the password (local only).
	PasswordHash []byte

	// Provider names the identity provider, e.g. "google" (federated only).
	Provider string
	// SubjectID is the provider's stable user identifier (federated only).
	SubjectID string
}

// User is an account that can sign in and submit a secret.
type User struct {
	ID    uuid.UUID
	Email string

	Credential Credential

	// Secret is the user's submitted secret; nil until one is posted.
	Secret *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewLocal creates a user with an email/password credential. The password
// must already be hashed.
func NewLocal(email string, passwordHash []byte) User {
	now := time.Now()
	return User{
		ID:    uuid.New(),
		Email: email,
		Credential: Credential{
			Kind:         CredentialLocal,
			PasswordHash: passwordHash,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewFederated creates a user backed by an external identity provider.
// Email may be empty when the provider does not disclose it.
func NewFederated(provider, subjectID, email string) User {
	now := time.Now()
	return User{
		ID:    uuid.New(),
		Email: email,
		Credential: Credential{
			Kind:      CredentialFederated,
			Provider:  provider,
			SubjectID: subjectID,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsLocal reports whether the user authenticates with a password.
func (u User) IsLocal() bool {
	return u.Credential.Kind == CredentialLocal
}

// IsFederated reports whether the user authenticates via a provider.
func (u User) IsFederated() bool {
	return u.Credential.Kind == CredentialFederated
}

// HasSecret reports whether the user has submitted a secret.
func (u User) HasSecret() bool {
	return u.Secret != nil && *u.Secret != ""
}

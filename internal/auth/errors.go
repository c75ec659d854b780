package auth

import "errors"

var (
	// ErrInvalidCredentials is returned on a failed login. It deliberately
	// does not distinguish unknown email from wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken is returned when registering with an email that
	// already has an account.
	ErrEmailTaken = errors.New("email is already registered")
	// ErrPasswordTooLong is returned when the password exceeds bcrypt's
	// 72-byte input limit.
	ErrPasswordTooLong = errors.New("password is too long")
	// ErrStateMismatch is returned when the OAuth callback state does not
	// match the value issued at the start of the flow.
	ErrStateMismatch = errors.New("oauth state mismatch")
	// ErrExchangeFailed is returned when the authorization code cannot be
	// exchanged for a token.
	ErrExchangeFailed = errors.New("oauth code exchange failed")
	// ErrProfileFetch is returned when the provider's profile endpoint
	// cannot be read.
	ErrProfileFetch = errors.New("failed to fetch oauth profile")
)

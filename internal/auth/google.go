package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/secretwall/secretwall/internal/user"
)

// GoogleProvider is the provider tag stored on federated credentials.
const GoogleProvider = "google"

const googleUserinfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// GoogleConfig holds Google OAuth settings sourced from the environment.
type GoogleConfig struct {
	ClientID     string `env:"GOOGLE_CLIENT_ID,required"`
	ClientSecret string `env:"GOOGLE_CLIENT_SECRET,required"`
	RedirectURL  string `env:"GOOGLE_REDIRECT_URL,required"`
}

// googleProfile is the subset of the OpenID userinfo response we use.
type googleProfile struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
}

// Google runs the OAuth authorization-code flow against Google and resolves
// the returned identity to a local account, creating one on first sign-in.
type Google struct {
	oauth       *oauth2.Config
	users       user.Store
	userinfoURL string
}

// NewGoogle creates a Google authenticator.
func NewGoogle(cfg GoogleConfig, users user.Store) *Google {
	return &Google{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     google.Endpoint,
		},
		users:       users,
		userinfoURL: googleUserinfoURL,
	}
}

// AuthCodeURL returns the Google consent page URL carrying state for CSRF
// protection.
func (g *Google) AuthCodeURL(state string) string {
	return g.oauth.AuthCodeURL(state)
}

// SignIn exchanges the authorization code, fetches the user's profile, and
// returns the matching account, creating it on first sign-in. Concurrent
// first sign-ins are resolved by the store's unique constraint: a duplicate
// insert falls back to re-reading the winner's record.
func (g *Google) SignIn(ctx context.Context, code string) (user.User, error) {
	token, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return user.User{}, errors.Join(ErrExchangeFailed, err)
	}

	profile, err := g.fetchProfile(ctx, token)
	if err != nil {
		return user.User{}, err
	}

	u, err := g.users.GetByFederatedID(ctx, GoogleProvider, profile.Subject)
	if err == nil {
		return *u, nil
	}
	if !errors.Is(err, user.ErrNotFound) {
		return user.User{}, fmt.Errorf("lookup federated user: %w", err)
	}

	created := user.NewFederated(GoogleProvider, profile.Subject, profile.Email)
	err = g.users.Create(ctx, &created)
	if err == nil {
		return created, nil
	}
	if !errors.Is(err, user.ErrDuplicate) {
		return user.User{}, fmt.Errorf("create federated user: %w", err)
	}

	// Another request created the account between lookup and insert.
	u, err = g.users.GetByFederatedID(ctx, GoogleProvider, profile.Subject)
	if err != nil {
		return user.User{}, fmt.Errorf("re-lookup federated user: %w", err)
	}
	return *u, nil
}

func (g *Google) fetchProfile(ctx context.Context, token *oauth2.Token) (googleProfile, error) {
	resp, err := g.oauth.Client(ctx, token).Get(g.userinfoURL)
	if err != nil {
		return googleProfile{}, errors.Join(ErrProfileFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return googleProfile{}, fmt.Errorf("%w: status %d", ErrProfileFetch, resp.StatusCode)
	}

	var profile googleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return googleProfile{}, errors.Join(ErrProfileFetch, err)
	}
	if profile.Subject == "" {
		return googleProfile{}, fmt.Errorf("%w: empty subject", ErrProfileFetch)
	}

	return profile, nil
}

// NewState generates a random state value for the OAuth flow.
func NewState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate oauth state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

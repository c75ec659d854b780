// Package sessiontransport moves sessions between the session manager and
// the HTTP layer. The Cookie transport stores the session token in an
// HMAC-signed cookie; a missing or invalid cookie yields a fresh anonymous
// session rather than an error.
package sessiontransport

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/secretwall/secretwall/internal/cookie"
	"github.com/secretwall/secretwall/internal/handler"
	"github.com/secretwall/secretwall/internal/session"
)

// DefaultCookieName is the session cookie name used when none is configured.
const DefaultCookieName = "session_token"

// Cookie is a session transport backed by a signed HTTP cookie.
type Cookie struct {
	manager    *session.Manager
	cookies    *cookie.Manager
	cookieName string
}

// NewCookie creates a cookie-based session transport. cookieName may be
// empty to use DefaultCookieName.
func NewCookie(manager *session.Manager, cookies *cookie.Manager, cookieName string) *Cookie {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return &Cookie{
		manager:    manager,
		cookies:    cookies,
		cookieName: cookieName,
	}
}

// Load resolves the request's session. A missing, tampered, unknown, or
// expired token degrades to a new anonymous session; only token generation
// or store failures surface as errors.
func (c *Cookie) Load(ctx handler.Context) (session.Session, error) {
	token, err := c.cookies.GetSigned(ctx.Request(), c.cookieName)
	if err != nil {
		return c.manager.New(ctx)
	}

	sess, err := c.manager.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) || errors.Is(err, session.ErrExpired) {
			return c.manager.New(ctx)
		}
		return session.Session{}, err
	}

	return sess, nil
}

// Authenticate binds the session to userID, persists it, and writes the
// rotated token to the cookie.
func (c *Cookie) Authenticate(ctx handler.Context, sess session.Session, userID uuid.UUID) (session.Session, error) {
	sess, err := c.manager.Authenticate(ctx, sess, userID)
	if err != nil {
		return session.Session{}, err
	}

	if err := c.writeCookie(ctx, sess); err != nil {
		return session.Session{}, err
	}

	return sess, nil
}

// Logout deletes the session record and replaces the cookie with a fresh
// anonymous session's token.
func (c *Cookie) Logout(ctx handler.Context) (session.Session, error) {
	sess, err := c.Load(ctx)
	if err != nil {
		return session.Session{}, err
	}

	anon, err := c.manager.Logout(ctx, sess)
	if err != nil {
		return session.Session{}, err
	}

	if err := c.writeCookie(ctx, anon); err != nil {
		return session.Session{}, err
	}

	return anon, nil
}

// Store persists session state at the end of a request: deleted sessions
// are removed and their cookie cleared, modified sessions are saved and the
// cookie refreshed.
func (c *Cookie) Store(ctx handler.Context, sess session.Session) error {
	if sess.IsDeleted() {
		if err := c.manager.Store(ctx, sess); err != nil {
			return err
		}
		c.cookies.Delete(ctx.ResponseWriter(), c.cookieName)
		return nil
	}

	if !sess.IsModified() {
		return nil
	}

	if err := c.manager.Store(ctx, sess); err != nil {
		return err
	}
	return c.writeCookie(ctx, sess)
}

func (c *Cookie) writeCookie(ctx handler.Context, sess session.Session) error {
	maxAge := int(time.Until(sess.ExpiresAt).Seconds())
	if maxAge <= 0 {
		maxAge = -1
	}
	return c.cookies.SetSigned(ctx.ResponseWriter(), c.cookieName, sess.Token,
		cookie.WithMaxAge(maxAge))
}

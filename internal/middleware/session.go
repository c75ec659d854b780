package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/secretwall/secretwall/internal/handler"
	"github.com/secretwall/secretwall/internal/logger"
	"github.com/secretwall/secretwall/internal/response"
	"github.com/secretwall/secretwall/internal/session"
)

// SessionTransport moves sessions between requests and storage. Load must
// degrade to a fresh anonymous session on missing or invalid tokens; Store
// persists end-of-request state and must run before the response body is
// written so cookie headers still make it out.
type SessionTransport interface {
	Load(ctx handler.Context) (session.Session, error)
	Logout(ctx handler.Context) (session.Session, error)
	Store(ctx handler.Context, sess session.Session) error
}

// SessionErrorHandler converts a session guard failure into a response.
// The error is one of response.ErrUnauthorized, response.ErrForbidden, or
// response.ErrInternalServerError.
type SessionErrorHandler[C handler.Context] func(ctx C, err error) handler.Response

// SessionConfig configures the Session middleware.
type SessionConfig[C handler.Context] struct {
	// Transport loads and stores sessions. Required.
	Transport SessionTransport

	// ResolveUser reports whether the user behind an authenticated session
	// still exists. When it returns false the session is discarded and the
	// request proceeds anonymously. Optional.
	ResolveUser func(ctx context.Context, userID uuid.UUID) (bool, error)

	// RequireAuth rejects unauthenticated requests with ErrUnauthorized.
	RequireAuth bool

	// RequireGuest rejects authenticated requests with ErrForbidden.
	RequireGuest bool

	// ErrorHandler renders guard failures. Defaults to response.Error.
	ErrorHandler SessionErrorHandler[C]

	// Logger for session lifecycle events. Defaults to a no-op logger.
	Logger *slog.Logger
}

// Session resolves the request's session, enforces auth guards, exposes the
// session to handlers via the request context, and persists any changes
// before the response renders.
func Session[C handler.Context](cfg SessionConfig[C]) handler.Middleware[C] {
	if cfg.Transport == nil {
		panic("middleware: session transport is required")
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(ctx C, err error) handler.Response {
			return response.Error(err)
		}
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Noop()
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			sess, err := cfg.Transport.Load(ctx)
			if err != nil {
				log.ErrorContext(ctx, "failed to load session", logger.Error(err))
				return cfg.ErrorHandler(ctx, response.ErrInternalServerError)
			}

			if sess.IsAuthenticated() && cfg.ResolveUser != nil {
				exists, err := cfg.ResolveUser(ctx, sess.UserID)
				if err != nil {
					log.ErrorContext(ctx, "failed to resolve session user",
						logger.Error(err), logger.UserID(sess.UserID.String()))
					return cfg.ErrorHandler(ctx, response.ErrInternalServerError)
				}
				if !exists {
					log.WarnContext(ctx, "session references missing user, degrading to anonymous",
						logger.UserID(sess.UserID.String()))
					sess, err = cfg.Transport.Logout(ctx)
					if err != nil {
						log.ErrorContext(ctx, "failed to discard orphaned session", logger.Error(err))
						return cfg.ErrorHandler(ctx, response.ErrInternalServerError)
					}
				}
			}

			if cfg.RequireAuth && !sess.IsAuthenticated() {
				return cfg.ErrorHandler(ctx, response.ErrUnauthorized)
			}
			if cfg.RequireGuest && sess.IsAuthenticated() {
				return cfg.ErrorHandler(ctx, response.ErrForbidden)
			}

			SetSession(ctx, sess)

			resp := next(ctx)

			// Persist before rendering so Set-Cookie headers precede the body.
			return func(w http.ResponseWriter, r *http.Request) error {
				if current, ok := GetSession(ctx); ok {
					if err := cfg.Transport.Store(ctx, current); err != nil {
						log.ErrorContext(ctx, "failed to store session", logger.Error(err))
					}
				}
				if resp == nil {
					return nil
				}
				return resp(w, r)
			}
		}
	}
}

type sessionCtxKey struct{}

// SetSession attaches the session to the request context. Handlers that
// change the session (login, logout) must call this so the middleware
// persists the new state.
func SetSession(ctx handler.Context, sess session.Session) {
	ctx.SetValue(sessionCtxKey{}, sess)
}

// GetSession retrieves the session from the context.
func GetSession(ctx context.Context) (session.Session, bool) {
	sess, ok := ctx.Value(sessionCtxKey{}).(session.Session)
	return sess, ok
}

// MustGetSession retrieves the session from the context, panicking if the
// Session middleware did not run.
func MustGetSession(ctx context.Context) session.Session {
	sess, ok := GetSession(ctx)
	if !ok {
		panic("middleware: session not found in context")
	}
	return sess
}

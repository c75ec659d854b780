package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/secretwall/secretwall/internal/auth"
	"github.com/secretwall/secretwall/internal/cookie"
	"github.com/secretwall/secretwall/internal/handler"
	"github.com/secretwall/secretwall/internal/logger"
	"github.com/secretwall/secretwall/internal/middleware"
	"github.com/secretwall/secretwall/internal/response"
	"github.com/secretwall/secretwall/internal/router"
	"github.com/secretwall/secretwall/internal/sessiontransport"
	"github.com/secretwall/secretwall/internal/user"
)

// Deps carries everything the HTTP surface needs. Built once at startup
// and torn down at shutdown; handlers never reach for globals.
type Deps struct {
	Logger    *slog.Logger
	Users     user.Store
	Password  *auth.Password
	Google    *auth.Google
	Transport *sessiontransport.Cookie
	Cookies   *cookie.Manager

	// Ready reports backend health for the readiness probe. Optional.
	Ready func(ctx context.Context) error
}

// NewRouter assembles the full route table: public pages and auth flows
// carry the session middleware without guards, the submit pages require an
// authenticated session and redirect anonymous visitors to /login.
func NewRouter(deps Deps) http.Handler {
	log := deps.Logger
	if log == nil {
		log = logger.Noop()
	}

	h := &handlers{
		password:  deps.Password,
		google:    deps.Google,
		transport: deps.Transport,
		users:     deps.Users,
		cookies:   deps.Cookies,
		tmpl:      parseTemplates(),
		ready:     deps.Ready,
		log:       log,
	}

	r := router.New[*Context](
		router.WithContextFactory(NewContext),
		router.WithErrorHandler(ErrorHandler(log, h.tmpl)),
		router.WithLogger[*Context](log),
		router.WithMiddleware(
			middleware.RequestID[*Context](),
			middleware.Logging[*Context](log),
		),
	)

	resolveUser := func(ctx context.Context, id uuid.UUID) (bool, error) {
		if _, err := deps.Users.GetByID(ctx, id); err != nil {
			if errors.Is(err, user.ErrNotFound) {
				return false, nil
			}
			return false, err
		}
		return true, nil
	}

	public := middleware.Session(middleware.SessionConfig[*Context]{
		Transport:   deps.Transport,
		ResolveUser: resolveUser,
		Logger:      log,
	})

	// Login and registration pages make no sense for a signed-in browser;
	// send it to the listing instead.
	guest := middleware.Session(middleware.SessionConfig[*Context]{
		Transport:    deps.Transport,
		ResolveUser:  resolveUser,
		RequireGuest: true,
		Logger:       log,
		ErrorHandler: func(ctx *Context, err error) handler.Response {
			if errors.Is(err, response.ErrForbidden) {
				return response.Redirect("/secrets")
			}
			return response.Error(err)
		},
	})

	protected := middleware.Session(middleware.SessionConfig[*Context]{
		Transport:   deps.Transport,
		ResolveUser: resolveUser,
		RequireAuth: true,
		Logger:      log,
		ErrorHandler: func(ctx *Context, err error) handler.Response {
			if errors.Is(err, response.ErrUnauthorized) {
				return response.Redirect("/login")
			}
			return response.Error(err)
		},
	})

	// Probes skip the session stack.
	r.Get("/live", h.Live)
	r.Get("/ready", h.Ready)

	r.Group(func(r router.Router[*Context]) {
		r.Use(public)

		r.Get("/", h.Home)
		r.Get("/logout", h.Logout)
		r.Get("/secrets", h.Secrets)
		r.Get("/auth/google", h.GoogleStart)
		r.Get("/auth/google/secrets", h.GoogleCallback)
	})

	r.Group(func(r router.Router[*Context]) {
		r.Use(guest)

		r.Get("/login", h.LoginPage)
		r.Post("/login", h.Login)
		r.Get("/register", h.RegisterPage)
		r.Post("/register", h.Register)
	})

	r.Group(func(r router.Router[*Context]) {
		r.Use(protected)

		r.Get("/submit", h.SubmitPage)
		r.Post("/submit", h.Submit)
	})

	return r
}

package web

import (
	"context"
	"errors"
	"html/template"
	"log/slog"

	"github.com/secretwall/secretwall/internal/auth"
	"github.com/secretwall/secretwall/internal/cookie"
	"github.com/secretwall/secretwall/internal/handler"
	"github.com/secretwall/secretwall/internal/logger"
	"github.com/secretwall/secretwall/internal/middleware"
	"github.com/secretwall/secretwall/internal/response"
	"github.com/secretwall/secretwall/internal/sessiontransport"
	"github.com/secretwall/secretwall/internal/user"
)

const oauthStateCookie = "oauth_state"

// handlers holds the page handlers and their collaborators.
type handlers struct {
	password  *auth.Password
	google    *auth.Google
	transport *sessiontransport.Cookie
	users     user.Store
	cookies   *cookie.Manager
	tmpl      *template.Template
	ready     func(ctx context.Context) error
	log       *slog.Logger
}

type loginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

type secretForm struct {
	Secret string `form:"secret"`
}

// pageData feeds the page templates.
type pageData struct {
	Authenticated bool
	Error         string
	Secrets       []string
}

func (h *handlers) page(name string, data pageData, status int) handler.Response {
	return response.TemplateWithStatus(h.tmpl.Lookup(name), data, status)
}

// Home renders the landing page.
func (h *handlers) Home(ctx *Context) handler.Response {
	return h.page("home.html", pageData{Authenticated: ctx.IsAuthenticated()}, 0)
}

// LoginPage renders the login form.
func (h *handlers) LoginPage(ctx *Context) handler.Response {
	return h.page("login.html", pageData{Authenticated: ctx.IsAuthenticated()}, 0)
}

// Login verifies an email/password pair and, on success, binds the session
// to the user and redirects to the secrets listing. Bad credentials render
// the form again with 401.
func (h *handlers) Login(ctx *Context) handler.Response {
	var form loginForm
	if err := ctx.Bind(&form); err != nil || form.Email == "" || form.Password == "" {
		return h.page("login.html", pageData{Error: "Email and password are required."}, 400)
	}

	u, err := h.password.Login(ctx, form.Email, form.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return h.page("login.html", pageData{Error: "Invalid email or password."}, 401)
		}
		return response.Error(err)
	}

	return h.signIn(ctx, u)
}

// RegisterPage renders the registration form.
func (h *handlers) RegisterPage(ctx *Context) handler.Response {
	return h.page("register.html", pageData{Authenticated: ctx.IsAuthenticated()}, 0)
}

// Register creates a local account and logs it in. A taken email renders
// the form again with 409 rather than a server error.
func (h *handlers) Register(ctx *Context) handler.Response {
	var form loginForm
	if err := ctx.Bind(&form); err != nil || form.Email == "" || form.Password == "" {
		return h.page("register.html", pageData{Error: "Email and password are required."}, 400)
	}

	u, err := h.password.Register(ctx, form.Email, form.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			return h.page("register.html", pageData{Error: "That email is already registered."}, 409)
		case errors.Is(err, auth.ErrPasswordTooLong):
			return h.page("register.html", pageData{Error: "Password is too long."}, 400)
		default:
			return response.Error(err)
		}
	}

	return h.signIn(ctx, u)
}

// Logout destroys the session and redirects to the landing page.
func (h *handlers) Logout(ctx *Context) handler.Response {
	sess, err := h.transport.Logout(ctx)
	if err != nil {
		return response.Error(err)
	}
	middleware.SetSession(ctx, sess)
	return response.Redirect("/")
}

// Secrets lists every submitted secret. The listing is public; names are
// never shown.
func (h *handlers) Secrets(ctx *Context) handler.Response {
	users, err := h.users.ListWithSecrets(ctx)
	if err != nil {
		return response.Error(err)
	}

	secrets := make([]string, 0, len(users))
	for _, u := range users {
		if u.Secret != nil {
			secrets = append(secrets, *u.Secret)
		}
	}

	return h.page("secrets.html", pageData{
		Authenticated: ctx.IsAuthenticated(),
		Secrets:       secrets,
	}, 0)
}

// SubmitPage renders the secret submission form. Auth is enforced by the
// route guard.
func (h *handlers) SubmitPage(ctx *Context) handler.Response {
	return h.page("submit.html", pageData{Authenticated: true}, 0)
}

// Submit stores the current user's secret (overwriting any previous one)
// and redirects to the listing.
func (h *handlers) Submit(ctx *Context) handler.Response {
	var form secretForm
	if err := ctx.Bind(&form); err != nil || form.Secret == "" {
		return h.page("submit.html", pageData{Authenticated: true, Error: "Secret must not be empty."}, 400)
	}

	sess := ctx.Session()
	if err := h.users.UpdateSecret(ctx, sess.UserID, form.Secret); err != nil {
		return response.Error(err)
	}

	return response.RedirectSeeOther("/secrets")
}

// GoogleStart begins the OAuth flow: issue a state value, pin it in a
// signed short-lived cookie, and send the client to Google's consent page.
func (h *handlers) GoogleStart(ctx *Context) handler.Response {
	state, err := auth.NewState()
	if err != nil {
		return response.Error(err)
	}

	if err := h.cookies.SetSigned(ctx.ResponseWriter(), oauthStateCookie, state,
		cookie.WithMaxAge(600)); err != nil {
		return response.Error(err)
	}

	return response.Redirect(h.google.AuthCodeURL(state))
}

// GoogleCallback completes the OAuth flow. Any failure (denied consent,
// state mismatch, exchange error) lands back on the login page; success
// signs the user in and redirects to the secrets listing.
func (h *handlers) GoogleCallback(ctx *Context) handler.Response {
	r := ctx.Request()
	defer h.cookies.Delete(ctx.ResponseWriter(), oauthStateCookie)

	if errCode := r.URL.Query().Get("error"); errCode != "" {
		h.log.InfoContext(ctx, "oauth flow denied", logger.Event(errCode))
		return response.Redirect("/login")
	}

	state, err := h.cookies.GetSigned(r, oauthStateCookie)
	if err != nil || state == "" || state != r.URL.Query().Get("state") {
		h.log.WarnContext(ctx, "oauth state mismatch", logger.Error(auth.ErrStateMismatch))
		return response.Redirect("/login")
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		return response.Redirect("/login")
	}

	u, err := h.google.SignIn(ctx, code)
	if err != nil {
		h.log.ErrorContext(ctx, "google sign-in failed", logger.Error(err))
		return response.Redirect("/login")
	}

	return h.signIn(ctx, u)
}

// Live is the liveness probe.
func (h *handlers) Live(ctx *Context) handler.Response {
	return response.String("ok")
}

// Ready is the readiness probe; it fails with 503 while the database is
// unreachable.
func (h *handlers) Ready(ctx *Context) handler.Response {
	if h.ready != nil {
		if err := h.ready(ctx); err != nil {
			h.log.ErrorContext(ctx, "readiness check failed", logger.Error(err))
			return response.Error(response.ErrServiceUnavailable)
		}
	}
	return response.String("ok")
}

// signIn attaches the user to the session and redirects to the secrets
// listing. Shared by login, registration, and the OAuth callback.
func (h *handlers) signIn(ctx *Context, u user.User) handler.Response {
	sess, ok := middleware.GetSession(ctx)
	if !ok {
		return response.Error(response.ErrInternalServerError)
	}

	sess, err := h.transport.Authenticate(ctx, sess, u.ID)
	if err != nil {
		return response.Error(err)
	}
	middleware.SetSession(ctx, sess)

	h.log.InfoContext(ctx, "user signed in", logger.UserID(u.ID.String()))
	return response.RedirectSeeOther("/secrets")
}

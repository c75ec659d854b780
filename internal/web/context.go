// Package web wires the HTTP surface: the application request context,
// page handlers, templates, and route assembly.
package web

import (
	"net/http"

	"github.com/secretwall/secretwall/internal/binder"
	"github.com/secretwall/secretwall/internal/middleware"
	"github.com/secretwall/secretwall/internal/router"
	"github.com/secretwall/secretwall/internal/session"
)

// Context is the application request context: the default router context
// plus form binding and session access.
type Context struct {
	*router.Context
	bind binder.Binder
}

// NewContext is the context factory handed to the router.
func NewContext(w http.ResponseWriter, r *http.Request) *Context {
	return &Context{
		Context: router.NewContext(w, r),
		bind:    binder.Form(),
	}
}

// Bind maps the request's form body onto v.
func (c *Context) Bind(v any) error {
	return c.bind(c.Request(), v)
}

// Session returns the request's session. Panics when called outside the
// session middleware.
func (c *Context) Session() session.Session {
	return middleware.MustGetSession(c)
}

// IsAuthenticated reports whether the request carries an authenticated
// session. Safe to call on routes without the session middleware.
func (c *Context) IsAuthenticated() bool {
	sess, ok := middleware.GetSession(c)
	return ok && sess.IsAuthenticated()
}

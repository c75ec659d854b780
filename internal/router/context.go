package router

import (
	"context"
	"net/http"
	"time"
)

// Context is the default request context implementation. It delegates
// cancellation and values to the request's context, so values set via
// SetValue are visible to anything holding the request.
type Context struct {
	w http.ResponseWriter
	r *http.Request
}

// NewContext creates a default Context for the given request pair.
func NewContext(w http.ResponseWriter, r *http.Request) *Context {
	return &Context{w: w, r: r}
}

// Deadline reports the request context deadline.
func (c *Context) Deadline() (deadline time.Time, ok bool) {
	return c.r.Context().Deadline()
}

// Done returns the request context's done channel.
func (c *Context) Done() <-chan struct{} {
	return c.r.Context().Done()
}

// Err returns the request context's error, if any.
func (c *Context) Err() error {
	return c.r.Context().Err()
}

// Value returns the value associated with key in the request context.
func (c *Context) Value(key any) any {
	return c.r.Context().Value(key)
}

// SetValue stores a value in the request's context.
func (c *Context) SetValue(key, val any) {
	ctx := context.WithValue(c.r.Context(), key, val)
	c.r = c.r.WithContext(ctx)
}

// Request returns the HTTP request associated with this context.
func (c *Context) Request() *http.Request {
	return c.r
}

// ResponseWriter returns the HTTP response writer associated with this
// context.
func (c *Context) ResponseWriter() http.ResponseWriter {
	return c.w
}

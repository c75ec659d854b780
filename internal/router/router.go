// Package router provides a type-safe HTTP mux with middleware chaining,
// route grouping, custom request contexts, and centralized error handling.
// Routes are method + static path; the application has no parameterized
// paths.
package router

import (
	"net/http"

	"github.com/secretwall/secretwall/internal/handler"
)

// Router is the routing interface for handling HTTP requests.
type Router[C handler.Context] interface {
	http.Handler

	// HTTP method handlers
	Get(pattern string, h handler.HandlerFunc[C])
	Post(pattern string, h handler.HandlerFunc[C])

	// Method registers a handler for one or more specific HTTP methods.
	Method(pattern string, h handler.HandlerFunc[C], methods ...string)

	// Middleware
	Use(middlewares ...handler.Middleware[C])
	With(middlewares ...handler.Middleware[C]) Router[C]

	// Group creates an inline router for scoping middleware to a set of
	// routes.
	Group(fn func(r Router[C])) Router[C]
}

// New creates a new router with the given options.
func New[C handler.Context](opts ...Option[C]) Router[C] {
	return newMux[C](opts...)
}

package handler

import (
	"context"
	"net/http"
)

// Context defines the contract for request contexts passed to handlers.
// Implementations carry the request/response pair and allow request-scoped
// values to be attached by middleware.
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter
	SetValue(key, val any)
}

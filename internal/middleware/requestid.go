package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/secretwall/secretwall/internal/handler"
)

// RequestIDHeader is the header checked for an inbound request ID and set
// on every response.
const RequestIDHeader = "X-Request-ID"

type requestIDCtxKey struct{}

// RequestID ensures every request carries a unique identifier: an inbound
// X-Request-ID header is trusted if present, otherwise a UUID is generated.
// The ID is stored in the request context and echoed on the response.
func RequestID[C handler.Context]() handler.Middleware[C] {
	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			id := ctx.Request().Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}

			ctx.SetValue(requestIDCtxKey{}, id)
			ctx.ResponseWriter().Header().Set(RequestIDHeader, id)

			return next(ctx)
		}
	}
}

// GetRequestID retrieves the request ID from the context, or "" if the
// RequestID middleware did not run.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDCtxKey{}).(string)
	return id
}

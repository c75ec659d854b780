// Package binder maps HTTP request data onto tagged Go structs.
package binder

import "net/http"

// Binder represents a function that binds HTTP request data to a Go value.
type Binder func(r *http.Request, v any) error

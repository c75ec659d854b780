package binder

import "errors"

var (
	// ErrUnsupportedMediaType indicates the Content-Type header specifies a
	// media type the binder doesn't handle.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrFailedToParseForm indicates form data parsing failed due to
	// malformed URL-encoded data or an unbindable field.
	ErrFailedToParseForm = errors.New("failed to parse form data")

	// ErrMissingContentType indicates the request lacks a Content-Type
	// header when one is required for parsing.
	ErrMissingContentType = errors.New("missing content type")

	// ErrInvalidTarget indicates the bind target is not a non-nil struct
	// pointer.
	ErrInvalidTarget = errors.New("bind target must be a non-nil struct pointer")
)

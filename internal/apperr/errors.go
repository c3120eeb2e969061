// Package apperr defines the sentinel errors shared across the service and
// API layers. Handlers map them to HTTP statuses with errors.Is.
package apperr

import "errors"

var (
	// ErrNotFound means the requested document does not exist under the root.
	ErrNotFound = errors.New("not found")
	// ErrInvalidPath means the path was rejected before any filesystem
	// access, e.g. a non-markdown extension.
	ErrInvalidPath = errors.New("invalid path")
	// ErrForbidden means the resolved path escapes the documents root.
	ErrForbidden = errors.New("forbidden")
)

// Package apperr defines the sentinel errors shared across the application.
package apperr

import "errors"

var (
	// ErrNotFound indicates a log entry or template does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument indicates bad caller input, such as a non-positive
	// sentence count or an inverted date range.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrSchemaInvalid indicates a template definition failed validation.
	ErrSchemaInvalid = errors.New("schema invalid")
	// ErrMissingRequiredField indicates a required field resolved to nothing
	// and carries no default; the render is aborted wholesale.
	ErrMissingRequiredField = errors.New("missing required field")
	// ErrWriteFailure indicates a persistence I/O problem.
	ErrWriteFailure = errors.New("write failure")
)

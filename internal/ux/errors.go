package ux

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/ganttline/internal/errors"
)

// ErrorWithSuggestion wraps an error with helpful recovery suggestions
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
}

// Error implements the error interface
func (e *ErrorWithSuggestion) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%v\n\n💡 Suggestion: %s", e.Err, e.Suggestion)
	}
	return e.Err.Error()
}

// Unwrap provides access to the underlying error
func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// NewErrorWithSuggestion creates a new error with a suggestion
func NewErrorWithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
	}
}

// EnhanceError adds a recovery hint to errors that do not carry their own.
// Coded errors already render their suggestions and are returned as is.
func EnhanceError(err error) error {
	if err == nil {
		return nil
	}
	var coded *errors.SchedulerError
	if stderrors.As(err, &coded) {
		return err
	}

	errMsg := err.Error()
	switch {
	case strings.Contains(errMsg, "permission denied"):
		return NewErrorWithSuggestion(err,
			"Check permissions on the storage path, or point storage.path somewhere writable with 'ganttline config set storage.path <dir>'")
	case strings.Contains(errMsg, "database is locked"):
		return NewErrorWithSuggestion(err,
			"Another ganttline process holds the database; raise storage.busy_timeout or retry")
	case strings.Contains(errMsg, "parse date"):
		return NewErrorWithSuggestion(err,
			"Dates use the YYYY-MM-DD format, e.g. 2024-03-01")
	}
	return err
}

// FormatError provides consistent error formatting with context
func FormatError(err error, context string) error {
	if err == nil {
		return nil
	}

	enhanced := EnhanceError(err)
	if context != "" {
		return fmt.Errorf("%s: %w", context, enhanced)
	}
	return enhanced
}

package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Scheduling errors (SCHED-001 to SCHED-099)
	ErrCodeDependencyViolation ErrorCode = "SCHED-001"
	ErrCodeDependencyCycle     ErrorCode = "SCHED-002"
	ErrCodeTaskInvalid         ErrorCode = "SCHED-003"
	ErrCodeTaskNotFound        ErrorCode = "SCHED-004"
	ErrCodeParentNotFound      ErrorCode = "SCHED-005"
	ErrCodeParentCycle         ErrorCode = "SCHED-006"

	// Storage errors (STORE-001 to STORE-099)
	ErrCodeStoreUnknownDriver ErrorCode = "STORE-001"
	ErrCodeStoreIO            ErrorCode = "STORE-002"
	ErrCodeStoreEncode        ErrorCode = "STORE-003"
	ErrCodeStoreDecode        ErrorCode = "STORE-004"

	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigRead    ErrorCode = "CONFIG-001"
	ErrCodeConfigParse   ErrorCode = "CONFIG-002"
	ErrCodeConfigInvalid ErrorCode = "CONFIG-003"
)

// SchedulerError is an error carrying a stable code and optional hints for
// the person at the keyboard.
type SchedulerError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	Cause       error
}

// Error implements the error interface
func (e *SchedulerError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *SchedulerError) Unwrap() error {
	return e.Cause
}

// Is matches any SchedulerError with the same code, so callers can test
// errors.Is(err, errors.New(ErrCodeTaskNotFound, "")).
func (e *SchedulerError) Is(target error) bool {
	t, ok := target.(*SchedulerError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// New creates a new SchedulerError
func New(code ErrorCode, message string) *SchedulerError {
	return &SchedulerError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new SchedulerError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *SchedulerError {
	return &SchedulerError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *SchedulerError) WithSuggestion(suggestion string) *SchedulerError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *SchedulerError) WithSuggestions(suggestions ...string) *SchedulerError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// CodeOf returns the code of the first SchedulerError in err's chain, or an
// empty code when there is none.
func CodeOf(err error) ErrorCode {
	var se *SchedulerError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code ErrorCode) bool {
	return errors.Is(err, &SchedulerError{Code: code})
}

// Common error constructors for frequently used errors

// NewTaskNotFoundError creates a task lookup failure
func NewTaskNotFoundError(id string) *SchedulerError {
	return New(ErrCodeTaskNotFound, fmt.Sprintf("task not found: %s", id)).
		WithSuggestion("Run 'ganttline task list' to see existing task IDs")
}

// NewParentNotFoundError creates an unknown parent error
func NewParentNotFoundError(parentID string) *SchedulerError {
	return New(ErrCodeParentNotFound, fmt.Sprintf("parent task not found: %s", parentID)).
		WithSuggestion("Create the parent task first or omit --parent")
}

// NewTaskInvalidError creates a field validation error
func NewTaskInvalidError(cause error) *SchedulerError {
	return Wrap(ErrCodeTaskInvalid, "invalid task", cause)
}

// NewDependencyCycleError creates a dependency cycle error
func NewDependencyCycleError(path []string) *SchedulerError {
	return New(ErrCodeDependencyCycle, fmt.Sprintf("circular dependency detected: %s", strings.Join(path, " -> "))).
		WithSuggestion("Remove one of the dependencies in the cycle")
}

// NewParentCycleError creates an error for a task placed under its own descendant
func NewParentCycleError(taskID, parentID string) *SchedulerError {
	return New(ErrCodeParentCycle, fmt.Sprintf("task %s cannot be nested under its own descendant %s", taskID, parentID)).
		WithSuggestion("Choose a parent outside the task's subtree")
}

// NewDependencyViolationError wraps a dependency check failure
func NewDependencyViolationError(taskID string, cause error) *SchedulerError {
	return Wrap(ErrCodeDependencyViolation, fmt.Sprintf("task %s starts before its dependencies finish", taskID), cause).
		WithSuggestion("Move the task to start after its latest dependency ends").
		WithSuggestion("Or remove the blocking dependency")
}

// NewUnknownDriverError creates an unknown storage driver error
func NewUnknownDriverError(driver string) *SchedulerError {
	return New(ErrCodeStoreUnknownDriver, fmt.Sprintf("unknown storage driver: %s", driver)).
		WithSuggestion("Use one of: memory, file, sqlite")
}

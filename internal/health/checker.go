// Package health runs diagnostic checks against the configured storage and
// the stored plan.
//
//	m := health.NewManager()
//	m.AddChecker(health.NewStorageChecker(backend, key))
//	m.AddChecker(health.NewPlanChecker(tasks))
//	report := m.Run(ctx)
package health

import (
	"context"
	"time"
)

// Checker is one diagnostic.
type Checker interface {
	// Name is a short lowercase identifier such as "storage".
	Name() string

	// Check runs the diagnostic. It should honour ctx's deadline.
	Check(ctx context.Context) *Result
}

// Status is the outcome of a check.
type Status string

const (
	// StatusHealthy means nothing needs attention.
	StatusHealthy Status = "healthy"

	// StatusDegraded means the plan is usable but something deserves a look.
	StatusDegraded Status = "degraded"

	// StatusUnhealthy means the plan cannot be trusted or loaded.
	StatusUnhealthy Status = "unhealthy"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// worse reports whether s ranks below other.
func (s Status) worse(other Status) bool {
	return rank(s) > rank(other)
}

func rank(s Status) int {
	switch s {
	case StatusDegraded:
		return 1
	case StatusUnhealthy:
		return 2
	}
	return 0
}

// Result is the outcome of a single check.
type Result struct {
	Name    string         `json:"name" yaml:"name"`
	Status  Status         `json:"status" yaml:"status"`
	Message string         `json:"message" yaml:"message"`
	Details map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
	Latency time.Duration  `json:"latency" yaml:"latency"`
}

// NewResult creates a result with the given status and message.
func NewResult(status Status, message string) *Result {
	return &Result{Status: status, Message: message, Details: map[string]any{}}
}

// WithDetail adds a detail and returns the result for chaining.
func (r *Result) WithDetail(key string, value any) *Result {
	r.Details[key] = value
	return r
}

// Healthy creates a healthy result.
func Healthy(message string) *Result {
	return NewResult(StatusHealthy, message)
}

// Degraded creates a degraded result.
func Degraded(message string) *Result {
	return NewResult(StatusDegraded, message)
}

// Unhealthy creates an unhealthy result.
func Unhealthy(message string) *Result {
	return NewResult(StatusUnhealthy, message)
}

// CheckFunc adapts a function to the Checker interface.
type CheckFunc struct {
	name string
	fn   func(ctx context.Context) *Result
}

// NewCheckFunc names fn as a checker.
func NewCheckFunc(name string, fn func(ctx context.Context) *Result) CheckFunc {
	return CheckFunc{name: name, fn: fn}
}

// Name returns the checker name.
func (c CheckFunc) Name() string { return c.name }

// Check calls the wrapped function.
func (c CheckFunc) Check(ctx context.Context) *Result { return c.fn(ctx) }

package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeTaskNotFound, "test error message")

	if err.Code != ErrCodeTaskNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeTaskNotFound, err.Code)
	}

	if err.Message != "test error message" {
		t.Errorf("expected message 'test error message', got '%s'", err.Message)
	}

	if err.Cause != nil {
		t.Errorf("expected nil cause, got %v", err.Cause)
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("underlying error")
	err := Wrap(ErrCodeStoreIO, "failed to write", cause)

	if err.Code != ErrCodeStoreIO {
		t.Errorf("expected code %s, got %s", ErrCodeStoreIO, err.Code)
	}

	if !errors.Is(err, cause) {
		t.Errorf("Wrap should support errors.Is")
	}
}

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name     string
		err      *SchedulerError
		wantCode string
		wantMsg  string
	}{
		{
			name:     "simple error",
			err:      New(ErrCodeTaskInvalid, "invalid task"),
			wantCode: "SCHED-003",
			wantMsg:  "invalid task",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeStoreIO, "write failed", fmt.Errorf("permission denied")),
			wantCode: "STORE-002",
			wantMsg:  "permission denied",
		},
		{
			name:     "error with suggestions",
			err:      NewTaskNotFoundError("abc"),
			wantCode: "SCHED-004",
			wantMsg:  "ganttline task list",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errStr := tt.err.Error()

			if !strings.Contains(errStr, tt.wantCode) {
				t.Errorf("error string should contain code %s, got: %s", tt.wantCode, errStr)
			}

			if !strings.Contains(errStr, tt.wantMsg) {
				t.Errorf("error string should contain message '%s', got: %s", tt.wantMsg, errStr)
			}
		})
	}
}

func TestCodeOf_ThroughWrapping(t *testing.T) {
	inner := NewParentNotFoundError("p1")
	wrapped := fmt.Errorf("add task: %w", inner)

	if got := CodeOf(wrapped); got != ErrCodeParentNotFound {
		t.Errorf("CodeOf() = %s, want %s", got, ErrCodeParentNotFound)
	}
	if !HasCode(wrapped, ErrCodeParentNotFound) {
		t.Error("HasCode should find the wrapped code")
	}
	if HasCode(wrapped, ErrCodeTaskNotFound) {
		t.Error("HasCode should not match a different code")
	}
	if got := CodeOf(fmt.Errorf("plain")); got != "" {
		t.Errorf("CodeOf(plain) = %q, want empty", got)
	}
}

func TestNewDependencyCycleError_ShowsPath(t *testing.T) {
	err := NewDependencyCycleError([]string{"a", "b", "a"})
	if !strings.Contains(err.Error(), "a -> b -> a") {
		t.Errorf("cycle path missing from %q", err.Error())
	}
}

package ux

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/felixgeelhaar/ganttline/internal/errors"
)

func TestNewErrorWithSuggestion(t *testing.T) {
	assert.Nil(t, NewErrorWithSuggestion(nil, "anything"))

	err := NewErrorWithSuggestion(errors.New("test error"), "do this")
	assert.Equal(t, "test error\n\n💡 Suggestion: do this", err.Error())

	bare := NewErrorWithSuggestion(errors.New("test error"), "")
	assert.Equal(t, "test error", bare.Error())
}

func TestErrorWithSuggestion_Unwrap(t *testing.T) {
	base := errors.New("base")
	err := NewErrorWithSuggestion(base, "hint")
	assert.ErrorIs(t, err, base)
}

func TestEnhanceError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantHint string
	}{
		{"permission denied", errors.New("open /data/x.json: permission denied"), "storage.path"},
		{"locked database", errors.New("database is locked"), "busy_timeout"},
		{"bad date", fmt.Errorf("start: %w", errors.New(`parse date "03/01": bad`)), "YYYY-MM-DD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enhanced := EnhanceError(tt.err)
			var ews *ErrorWithSuggestion
			require.ErrorAs(t, enhanced, &ews)
			assert.Contains(t, ews.Suggestion, tt.wantHint)
			assert.ErrorIs(t, enhanced, tt.err)
		})
	}
}

func TestEnhanceError_LeavesOthersAlone(t *testing.T) {
	assert.Nil(t, EnhanceError(nil))

	plain := errors.New("something else")
	assert.Same(t, plain, EnhanceError(plain))

	coded := gerrors.NewTaskNotFoundError("t1")
	wrapped := fmt.Errorf("move: %w", gerrors.Wrap(gerrors.ErrCodeStoreIO, "write", errors.New("permission denied")))
	assert.Equal(t, error(coded), EnhanceError(coded))
	assert.Equal(t, wrapped, EnhanceError(wrapped))
}

func TestFormatError(t *testing.T) {
	assert.Nil(t, FormatError(nil, "ctx"))

	err := FormatError(errors.New("database is locked"), "load tasks")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load tasks: database is locked")
	assert.Contains(t, err.Error(), "Suggestion")

	assert.Equal(t, "boom", FormatError(errors.New("boom"), "").Error())
}

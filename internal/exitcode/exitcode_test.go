package exitcode

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/felixgeelhaar/ganttline/internal/errors"
)

func TestDetermineExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error returns success", nil, Success},
		{"dependency violation", errors.NewDependencyViolationError("a", fmt.Errorf("too early")), ScheduleConflict},
		{"dependency cycle", errors.NewDependencyCycleError([]string{"a", "b", "a"}), ScheduleConflict},
		{"task not found", errors.NewTaskNotFoundError("a"), NotFound},
		{"parent not found", errors.NewParentNotFoundError("p"), NotFound},
		{"wrapped not found", fmt.Errorf("move: %w", errors.NewTaskNotFoundError("a")), NotFound},
		{"unknown driver", errors.NewUnknownDriverError("redis"), StorageError},
		{"config parse", errors.New(errors.ErrCodeConfigParse, "bad yaml"), ConfigError},
		{"unknown flag", fmt.Errorf("unknown flag: --colour"), UsageError},
		{"wrong arg count", fmt.Errorf("accepts 1 arg(s), received 0"), UsageError},
		{"required flag", fmt.Errorf(`required flag(s) "start" not set`), UsageError},
		{"anything else", fmt.Errorf("boom"), GeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetermineExitCode(tt.err))
		})
	}
}

func TestGetExitCodeDescription(t *testing.T) {
	for code := Success; code <= ConfigError; code++ {
		assert.NotEqual(t, "Unknown error", GetExitCodeDescription(code), "code %d", code)
	}
	assert.Equal(t, "Unknown error", GetExitCodeDescription(99))
}

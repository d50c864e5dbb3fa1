package exitcode

import (
	"os"
	"strings"

	"github.com/felixgeelhaar/ganttline/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// ScheduleConflict indicates a change refused by the scheduling rules
	// (dependency violation, cycle, invalid task)
	ScheduleConflict = 3

	// NotFound indicates a referenced task does not exist
	NotFound = 4

	// StorageError indicates the task store could not be opened, read or written
	StorageError = 5

	// ConfigError indicates an unreadable or invalid configuration
	ConfigError = 6

	// Interrupted indicates the user cancelled with Ctrl+C or SIGTERM
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}

	Exit(DetermineExitCode(err))
}

// DetermineExitCode maps an error to an exit code, using its error code
// when it carries one.
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	code := string(errors.CodeOf(err))
	switch {
	case code == string(errors.ErrCodeTaskNotFound), code == string(errors.ErrCodeParentNotFound):
		return NotFound
	case strings.HasPrefix(code, "SCHED-"):
		return ScheduleConflict
	case strings.HasPrefix(code, "STORE-"):
		return StorageError
	case strings.HasPrefix(code, "CONFIG-"):
		return ConfigError
	}

	// cobra reports usage problems as plain errors
	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "invalid flag") || strings.Contains(errMsg, "unknown command") ||
		strings.Contains(errMsg, "unknown flag") || strings.Contains(errMsg, "unknown shorthand flag") {
		return UsageError
	}
	if strings.Contains(errMsg, "required flag") || strings.Contains(errMsg, "accepts") && strings.Contains(errMsg, "arg(s)") {
		return UsageError
	}

	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case ScheduleConflict:
		return "Schedule conflict"
	case NotFound:
		return "Task not found"
	case StorageError:
		return "Storage error"
	case ConfigError:
		return "Configuration error"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}

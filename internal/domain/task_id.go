package domain

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

// TaskID is the opaque identifier of a scheduled task. Generated ids are
// UUIDv4 strings; ids read from storage only need to match taskIDPattern.
type TaskID string

var (
	taskIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:-]*$`)

	maxTaskIDLength = 100
)

// NewTaskID generates a fresh identifier.
func NewTaskID() TaskID {
	return TaskID(uuid.NewString())
}

// ParseTaskID validates an identifier coming from outside the process.
func ParseTaskID(value string) (TaskID, error) {
	id := TaskID(value)
	if err := id.Validate(); err != nil {
		return "", err
	}
	return id, nil
}

// Validate checks if the task ID is valid
func (t TaskID) Validate() error {
	s := string(t)

	if s == "" {
		return fmt.Errorf("task ID cannot be empty")
	}

	if len(s) > maxTaskIDLength {
		return fmt.Errorf("task ID %q exceeds maximum length of %d characters", s, maxTaskIDLength)
	}

	if !taskIDPattern.MatchString(s) {
		return fmt.Errorf("task ID %q must start with a letter or digit and contain no spaces", s)
	}

	return nil
}

// String returns the string representation
func (t TaskID) String() string {
	return string(t)
}

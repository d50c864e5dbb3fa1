// Package persist stores the task collection as a versioned JSON document
// under a fixed key in a pluggable key/value backend.
package persist

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/ganttline/internal/calendar"
	"github.com/felixgeelhaar/ganttline/internal/domain"
	"github.com/felixgeelhaar/ganttline/internal/errors"
	"github.com/felixgeelhaar/ganttline/internal/schedule"
)

// SchemaVersion is the version written into every container. Stored data
// with any other version is discarded on load.
const SchemaVersion = 1

// DefaultKey is the fixed name the collection is stored under.
const DefaultKey = "ganttline-tasks"

type container struct {
	Version int          `json:"version"`
	Tasks   []taskRecord `json:"tasks"`
}

type taskRecord struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	Priority       string   `json:"priority"`
	Color          string   `json:"color,omitempty"`
	StartDate      string   `json:"startDate"`
	EndDate        string   `json:"endDate"`
	EstimatedHours *float64 `json:"estimatedHours,omitempty"`
	ParentID       string   `json:"parentId,omitempty"`
	Dependencies   []string `json:"dependencies,omitempty"`
	Collapsed      bool     `json:"collapsed,omitempty"`
	CreatedAt      string   `json:"createdAt,omitempty"`
}

// SchemaMismatchError reports a stored container written by another schema
// version.
type SchemaMismatchError struct {
	Found int
}

// Error implements the error interface
func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("stored schema version %d does not match %d", e.Found, SchemaVersion)
}

// Encode serializes tasks into a versioned container.
func Encode(tasks []schedule.Task) ([]byte, error) {
	c := container{Version: SchemaVersion, Tasks: make([]taskRecord, 0, len(tasks))}
	for _, t := range tasks {
		r := taskRecord{
			ID:             t.ID,
			Name:           t.Name,
			Description:    t.Description,
			Priority:       string(t.Priority),
			Color:          string(t.Color),
			StartDate:      calendar.Format(t.StartDate),
			EndDate:        calendar.Format(t.EndDate),
			EstimatedHours: t.EstimatedHours,
			ParentID:       t.ParentID,
			Dependencies:   t.Dependencies,
			Collapsed:      t.Collapsed,
		}
		if !t.CreatedAt.IsZero() {
			r.CreatedAt = t.CreatedAt.UTC().Format(time.RFC3339)
		}
		c.Tasks = append(c.Tasks, r)
	}

	data, err := json.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreEncode, "encode task collection", err)
	}
	return data, nil
}

// Decode parses a container. A container with another schema version
// decodes to an empty collection together with a *SchemaMismatchError.
func Decode(data []byte) ([]schedule.Task, error) {
	var c container
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreDecode, "decode task collection", err)
	}
	if c.Version != SchemaVersion {
		return []schedule.Task{}, &SchemaMismatchError{Found: c.Version}
	}

	tasks := make([]schedule.Task, 0, len(c.Tasks))
	for i, r := range c.Tasks {
		t, err := r.task()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreDecode, fmt.Sprintf("decode task %d", i), err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (r taskRecord) task() (schedule.Task, error) {
	start, err := calendar.Parse(r.StartDate)
	if err != nil {
		return schedule.Task{}, fmt.Errorf("start date: %w", err)
	}
	end, err := calendar.Parse(r.EndDate)
	if err != nil {
		return schedule.Task{}, fmt.Errorf("end date: %w", err)
	}
	t := schedule.Task{
		ID:             r.ID,
		Name:           r.Name,
		Description:    r.Description,
		Priority:       domain.Priority(r.Priority),
		Color:          domain.Color(r.Color),
		StartDate:      start,
		EndDate:        end,
		EstimatedHours: r.EstimatedHours,
		ParentID:       r.ParentID,
		Collapsed:      r.Collapsed,
	}
	if len(r.Dependencies) > 0 {
		t.Dependencies = r.Dependencies
	}
	if r.CreatedAt != "" {
		created, err := time.Parse(time.RFC3339, r.CreatedAt)
		if err != nil {
			return schedule.Task{}, fmt.Errorf("created at: %w", err)
		}
		t.CreatedAt = created.UTC()
	}
	return t, nil
}

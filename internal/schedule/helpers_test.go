package schedule

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/ganttline/internal/calendar"
	"github.com/felixgeelhaar/ganttline/internal/domain"
)

func d(s string) time.Time {
	return calendar.MustParse(s)
}

func leaf(id, start, end string, deps ...string) Task {
	return Task{
		ID:           id,
		Name:         "Task " + id,
		Priority:     domain.PriorityMedium,
		StartDate:    d(start),
		EndDate:      d(end),
		Dependencies: deps,
	}
}

func child(parent string, t Task) Task {
	t.ParentID = parent
	return t
}

// parentTask returns a task whose dates are placeholders until aggregation.
func parentTask(id string) Task {
	return leaf(id, "2000-01-01", "2000-01-01")
}

type recordingPersister struct {
	saves [][]Task
	err   error
}

func (p *recordingPersister) Save(_ context.Context, tasks []Task) error {
	p.saves = append(p.saves, tasks)
	return p.err
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("t%d", n)
	}
}

func newTestStore(tasks ...Task) *Store {
	return NewStore(
		WithTasks(tasks),
		WithIDGenerator(sequentialIDs()),
		WithClock(func() time.Time { return time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC) }),
	)
}

func mustGet(t *testing.T, s *Store, id string) Task {
	t.Helper()
	task, ok := s.GetTaskByID(id)
	require.True(t, ok, "task %s not found", id)
	return task
}

func assertRange(t *testing.T, s *Store, id, start, end string) {
	t.Helper()
	task := mustGet(t, s, id)
	require.Equal(t, start, calendar.Format(task.StartDate), "start of %s", id)
	require.Equal(t, end, calendar.Format(task.EndDate), "end of %s", id)
}

package schedule

import (
	"context"
	"time"

	"github.com/felixgeelhaar/ganttline/internal/calendar"
	"github.com/felixgeelhaar/ganttline/internal/domain"
	"github.com/felixgeelhaar/ganttline/internal/log"
	"github.com/felixgeelhaar/ganttline/internal/metrics"
)

// Persister receives the full collection after every accepted mutation.
type Persister interface {
	Save(ctx context.Context, tasks []Task) error
}

// Store owns the task collection and keeps it consistent across mutations.
//
// Tasks live in an arena slice indexed by id; children are derived from
// parent pointers. Every accessor returns copies, so callers can never
// mutate the collection directly. A Store is not safe for concurrent use:
// each operation runs to completion before the next one is accepted.
type Store struct {
	tasks []Task
	index map[string]int

	persister    Persister
	log          *log.Logger
	metrics      *metrics.Metrics
	now          func() time.Time
	newID        func() string
	rejectCycles bool
}

// Option configures a Store.
type Option func(*Store)

// WithTasks seeds the store, typically from persistence. Dates are
// normalized and every parent is re-aggregated.
func WithTasks(tasks []Task) Option {
	return func(s *Store) {
		s.tasks = cloneAll(tasks)
	}
}

// WithPersister sets where the collection is written after each mutation.
func WithPersister(p Persister) Option {
	return func(s *Store) {
		s.persister = p
	}
}

// WithLogger sets the store logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// WithClock overrides the clock used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator overrides id assignment for new tasks.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		s.newID = gen
	}
}

// WithCyclePolicy controls whether dependency cycles are rejected on add
// and update. It defaults to true.
func WithCyclePolicy(reject bool) Option {
	return func(s *Store) {
		s.rejectCycles = reject
	}
}

// NewStore creates a Store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		log:          log.DefaultLogger(),
		now:          time.Now,
		newID:        func() string { return domain.NewTaskID().String() },
		rejectCycles: true,
	}
	for _, opt := range opts {
		opt(s)
	}

	for i := range s.tasks {
		s.tasks[i].StartDate = calendar.Day(s.tasks[i].StartDate)
		s.tasks[i].EndDate = calendar.Day(s.tasks[i].EndDate)
	}
	s.replace(AggregateAll(s.tasks))
	s.metrics.SetTaskCount(len(s.tasks))
	return s
}

// replace swaps in a new collection and rebuilds the id index.
func (s *Store) replace(tasks []Task) {
	s.tasks = tasks
	s.index = indexOf(tasks)
}

// lookup returns the position of id.
func (s *Store) lookup(id string) (int, bool) {
	i, ok := s.index[id]
	return i, ok
}

func (s *Store) hasChildren(id string) bool {
	for _, t := range s.tasks {
		if t.ParentID == id && t.ID != id {
			return true
		}
	}
	return false
}

// persist hands the collection to the persister. Failures are logged and
// counted; the in-memory state stays authoritative.
func (s *Store) persist(ctx context.Context) {
	s.metrics.SetTaskCount(len(s.tasks))
	if s.persister == nil {
		return
	}
	if err := s.persister.Save(ctx, s.Tasks()); err != nil {
		s.metrics.RecordPersistFailure()
		s.log.LogError("persist task collection", err)
	}
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Tasks returns a snapshot of the whole collection in insertion order.
func (s *Store) Tasks() []Task {
	return cloneAll(s.tasks)
}

// GetTaskByID returns the task with the given id.
func (s *Store) GetTaskByID(id string) (Task, bool) {
	i, ok := s.lookup(id)
	if !ok {
		return Task{}, false
	}
	return s.tasks[i].Clone(), true
}

// GetChildTasks returns the direct children of id.
func (s *Store) GetChildTasks(id string) []Task {
	var out []Task
	for _, t := range s.tasks {
		if t.ParentID == id && t.ID != id {
			out = append(out, t.Clone())
		}
	}
	return out
}

// GetRootTasks returns tasks without a resolvable parent.
func (s *Store) GetRootTasks() []Task {
	var out []Task
	for _, t := range s.tasks {
		if s.isRoot(t) {
			out = append(out, t.Clone())
		}
	}
	return out
}

func (s *Store) isRoot(t Task) bool {
	if t.ParentID == "" {
		return true
	}
	_, ok := s.index[t.ParentID]
	return !ok
}

// GetVisibleTasks returns root tasks and the descendants of expanded tasks,
// depth-first in insertion order. Children of a collapsed task are hidden.
func (s *Store) GetVisibleTasks() []Task {
	children := childrenOf(s.tasks)
	seen := make(map[string]bool, len(s.tasks))
	var out []Task

	var walk func(id string)
	walk = func(id string) {
		if seen[id] {
			return
		}
		seen[id] = true
		t := s.tasks[s.index[id]]
		out = append(out, t.Clone())
		if t.Collapsed {
			return
		}
		for _, c := range children[id] {
			walk(c)
		}
	}

	for _, t := range s.tasks {
		if s.isRoot(t) {
			walk(t.ID)
		}
	}
	return out
}

// Depth is the number of ancestors above id; roots have depth 0.
func (s *Store) Depth(id string) int {
	depth := 0
	seen := make(map[string]bool)
	cur := id
	for {
		i, ok := s.lookup(cur)
		if !ok {
			return depth
		}
		parent := s.tasks[i].ParentID
		if _, ok := s.lookup(parent); parent == "" || !ok || seen[parent] {
			return depth
		}
		seen[parent] = true
		depth++
		cur = parent
	}
}

// EffectiveColor resolves a task's display color: its own color, else the
// nearest ancestor's, else the default for its priority.
func (s *Store) EffectiveColor(id string) domain.Color {
	i, ok := s.lookup(id)
	if !ok {
		return domain.ColorNone
	}
	own := s.tasks[i]

	seen := make(map[string]bool)
	cur := own
	for {
		if cur.Color.IsSet() {
			return cur.Color
		}
		if cur.ParentID == "" || seen[cur.ParentID] {
			break
		}
		seen[cur.ParentID] = true
		pi, ok := s.lookup(cur.ParentID)
		if !ok {
			break
		}
		cur = s.tasks[pi]
	}
	return own.Priority.DefaultColor()
}

// Dependents returns the tasks that directly depend on id.
func (s *Store) Dependents(id string) []Task {
	return cloneAll(directDependents(id, s.tasks))
}

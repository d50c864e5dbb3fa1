// Package schedule implements the project task scheduler behind the Gantt
// chart: the task contract, the dependency validator, parent date
// aggregation, the cascade planner and the Store that orchestrates them.
//
// Dates are day-granular and inclusive. A task with children never has
// independently editable dates: its range is always the envelope of its
// children. A task never starts before the day after the latest end among
// the tasks it depends on, unless a user explicitly overrode that through
// Store.MoveTaskWithConfirmation.
package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/ganttline/internal/calendar"
	"github.com/felixgeelhaar/ganttline/internal/domain"
)

// Task is the schedulable unit. It is a leaf (authored dates) or a parent
// (derived dates).
type Task struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Priority       domain.Priority `json:"priority"`
	Color          domain.Color    `json:"color,omitempty"`
	StartDate      time.Time       `json:"start_date"`
	EndDate        time.Time       `json:"end_date"`
	EstimatedHours *float64        `json:"estimated_hours,omitempty"`
	ParentID       string          `json:"parent_id,omitempty"`
	Dependencies   []string        `json:"dependencies,omitempty"`
	Collapsed      bool            `json:"collapsed,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Validate checks the fields of a single task in isolation.
func (t Task) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if err := t.Priority.Validate(); err != nil {
		return err
	}
	if err := t.Color.Validate(); err != nil {
		return err
	}
	if t.StartDate.IsZero() || t.EndDate.IsZero() {
		return fmt.Errorf("start and end dates are required")
	}
	if calendar.Day(t.EndDate).Before(calendar.Day(t.StartDate)) {
		return fmt.Errorf("end date %s is before start date %s", calendar.Format(t.EndDate), calendar.Format(t.StartDate))
	}
	if t.EstimatedHours != nil && *t.EstimatedHours < 0 {
		return fmt.Errorf("estimated hours cannot be negative")
	}
	if t.ParentID != "" && t.ParentID == t.ID {
		return fmt.Errorf("task cannot be its own parent")
	}

	seen := make(map[string]bool, len(t.Dependencies))
	for _, dep := range t.Dependencies {
		if dep == "" {
			return fmt.Errorf("dependency id cannot be empty")
		}
		if dep == t.ID {
			return fmt.Errorf("task cannot depend on itself")
		}
		if seen[dep] {
			return fmt.Errorf("duplicate dependency %q", dep)
		}
		seen[dep] = true
	}
	return nil
}

// Range returns the task's inclusive date range.
func (t Task) Range() calendar.Range {
	return calendar.NewRange(t.StartDate, t.EndDate)
}

// Duration is the inclusive length of the task in days.
func (t Task) Duration() int {
	return calendar.DurationDays(t.StartDate, t.EndDate)
}

// DependsOn reports whether id is among the task's dependencies.
func (t Task) DependsOn(id string) bool {
	for _, dep := range t.Dependencies {
		if dep == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (t Task) Clone() Task {
	c := t
	if t.Dependencies != nil {
		c.Dependencies = append([]string(nil), t.Dependencies...)
	}
	if t.EstimatedHours != nil {
		h := *t.EstimatedHours
		c.EstimatedHours = &h
	}
	return c
}

// shift moves both dates by n days, preserving duration.
func (t Task) shift(n int) Task {
	t.StartDate = calendar.AddDays(t.StartDate, n)
	t.EndDate = calendar.AddDays(t.EndDate, n)
	return t
}

// NewTask carries the caller-supplied fields of a task to create.
// An empty Priority defaults to medium.
type NewTask struct {
	Name           string
	Description    string
	Priority       domain.Priority
	Color          domain.Color
	StartDate      time.Time
	EndDate        time.Time
	EstimatedHours *float64
	ParentID       string
	Dependencies   []string
}

// TaskPatch describes a partial update. Nil fields are left untouched.
// ParentID set to "" moves the task to the root. StartDate and EndDate are
// ignored for tasks with children.
type TaskPatch struct {
	Name           *string
	Description    *string
	Priority       *domain.Priority
	Color          *domain.Color
	StartDate      *time.Time
	EndDate        *time.Time
	EstimatedHours *float64
	ClearEstimate  bool
	ParentID       *string
	Dependencies   *[]string
}

// touchesDates reports whether the patch carries date fields.
func (p TaskPatch) touchesDates() bool {
	return p.StartDate != nil || p.EndDate != nil
}

// apply returns t with the patch applied. Date fields are only honoured
// when withDates is set.
func (p TaskPatch) apply(t Task, withDates bool) Task {
	t = t.Clone()
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Color != nil {
		t.Color = *p.Color
	}
	if withDates {
		if p.StartDate != nil {
			t.StartDate = calendar.Day(*p.StartDate)
		}
		if p.EndDate != nil {
			t.EndDate = calendar.Day(*p.EndDate)
		}
	}
	if p.ClearEstimate {
		t.EstimatedHours = nil
	} else if p.EstimatedHours != nil {
		h := *p.EstimatedHours
		t.EstimatedHours = &h
	}
	if p.ParentID != nil {
		t.ParentID = *p.ParentID
	}
	if p.Dependencies != nil {
		t.Dependencies = append([]string(nil), (*p.Dependencies)...)
	}
	return t
}

// indexOf maps task ids to their position in all.
func indexOf(all []Task) map[string]int {
	idx := make(map[string]int, len(all))
	for i, t := range all {
		idx[t.ID] = i
	}
	return idx
}

// childrenOf returns the ids of the direct children of each task, in
// collection order. Children are derived from parent pointers.
func childrenOf(all []Task) map[string][]string {
	children := make(map[string][]string)
	for _, t := range all {
		if t.ParentID != "" {
			children[t.ParentID] = append(children[t.ParentID], t.ID)
		}
	}
	return children
}

// subtree returns id followed by all its transitive descendants, depth-first.
func subtree(id string, children map[string][]string) []string {
	var out []string
	seen := make(map[string]bool)
	var walk func(string)
	walk = func(cur string) {
		if seen[cur] {
			return
		}
		seen[cur] = true
		out = append(out, cur)
		for _, c := range children[cur] {
			walk(c)
		}
	}
	walk(id)
	return out
}

// isAncestor reports whether ancestor appears on id's parent chain.
func isAncestor(ancestor, id string, all []Task) bool {
	idx := indexOf(all)
	seen := make(map[string]bool)
	cur := id
	for {
		i, ok := idx[cur]
		if !ok {
			return false
		}
		parent := all[i].ParentID
		if parent == "" || seen[parent] {
			return false
		}
		if parent == ancestor {
			return true
		}
		seen[parent] = true
		cur = parent
	}
}

// ancestorsOf returns id's ancestors, nearest first.
func ancestorsOf(id string, all []Task) []string {
	idx := indexOf(all)
	seen := map[string]bool{id: true}
	var out []string
	cur := id
	for {
		i, ok := idx[cur]
		if !ok {
			return out
		}
		parent := all[i].ParentID
		if parent == "" || seen[parent] {
			return out
		}
		if _, ok := idx[parent]; !ok {
			return out
		}
		seen[parent] = true
		out = append(out, parent)
		cur = parent
	}
}

func cloneAll(all []Task) []Task {
	out := make([]Task, len(all))
	for i, t := range all {
		out[i] = t.Clone()
	}
	return out
}

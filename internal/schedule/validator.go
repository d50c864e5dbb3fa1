package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/ganttline/internal/calendar"
)

// Validation is the outcome of checking a start date against a task's
// dependencies.
type Validation struct {
	Valid bool
	// MinAllowedStart is the day after the latest dependency end. It is zero
	// when none of the task's dependencies resolve.
	MinAllowedStart time.Time
	// ViolatingDeps lists every resolvable dependency when Valid is false,
	// not only the one that ends last.
	ViolatingDeps []Task
}

// ValidateMove checks whether task may start on candidateStart given the
// current dates of the tasks it depends on. Dependency ids that do not
// resolve in all are ignored.
func ValidateMove(task Task, candidateStart time.Time, all []Task) Validation {
	if len(task.Dependencies) == 0 {
		return Validation{Valid: true}
	}

	idx := indexOf(all)
	var (
		deps   []Task
		maxEnd time.Time
	)
	for _, id := range task.Dependencies {
		if id == task.ID {
			continue
		}
		i, ok := idx[id]
		if !ok {
			continue
		}
		dep := all[i]
		if len(deps) == 0 || dep.EndDate.After(maxEnd) {
			maxEnd = dep.EndDate
		}
		deps = append(deps, dep.Clone())
	}
	if len(deps) == 0 {
		return Validation{Valid: true}
	}

	minStart := calendar.AddDays(maxEnd, 1)
	if !calendar.Day(candidateStart).Before(minStart) {
		return Validation{Valid: true, MinAllowedStart: minStart}
	}
	return Validation{Valid: false, MinAllowedStart: minStart, ViolatingDeps: deps}
}

// ValidateTask checks a task's current start date against its declared
// dependencies. It is used on create and update.
func ValidateTask(task Task, all []Task) Validation {
	return ValidateMove(task, task.StartDate, all)
}

// validateSubtree validates id and each of its descendants in world. It
// returns the first failing validation together with the id that failed,
// checking id itself before its descendants.
func validateSubtree(id string, world []Task) (Validation, string) {
	idx := indexOf(world)
	for _, cur := range subtree(id, childrenOf(world)) {
		i, ok := idx[cur]
		if !ok {
			continue
		}
		if v := ValidateTask(world[i], world); !v.Valid {
			return v, cur
		}
	}
	return Validation{Valid: true}, ""
}

// validateAncestors checks the ancestors of ids whose derived range differs
// between before and after. An ancestor whose start moved earlier must still
// satisfy its own dependencies, and when its end moved later every task
// depending on it must still start after it. Tasks in skip are checked by
// the caller.
func validateAncestors(ids []string, before, after []Task, skip map[string]bool) *DependencyViolation {
	bidx, aidx := indexOf(before), indexOf(after)
	checked := make(map[string]bool)
	for _, id := range ids {
		for _, anc := range ancestorsOf(id, after) {
			if checked[anc] {
				continue
			}
			checked[anc] = true

			now := after[aidx[anc]]
			bi, existed := bidx[anc]
			if !existed {
				continue
			}
			was := before[bi]

			if now.StartDate.Before(was.StartDate) && !skip[anc] {
				if v := ValidateTask(now, after); !v.Valid {
					return newDependencyViolation(anc, v)
				}
			}
			if !now.EndDate.After(was.EndDate) {
				continue
			}
			for _, dep := range directDependents(anc, after) {
				if skip[dep.ID] {
					continue
				}
				if v := ValidateTask(dep, after); !v.Valid {
					return newDependencyViolation(dep.ID, v)
				}
			}
		}
	}
	return nil
}

// DependencyViolation explains why a task cannot start where requested.
type DependencyViolation struct {
	TaskID          string
	MinAllowedStart time.Time
	ViolatingDeps   []Task
}

func newDependencyViolation(taskID string, v Validation) *DependencyViolation {
	return &DependencyViolation{
		TaskID:          taskID,
		MinAllowedStart: v.MinAllowedStart,
		ViolatingDeps:   v.ViolatingDeps,
	}
}

// Error implements the error interface
func (v *DependencyViolation) Error() string {
	names := make([]string, 0, len(v.ViolatingDeps))
	for _, d := range v.ViolatingDeps {
		names = append(names, fmt.Sprintf("%s (ends %s)", d.Name, calendar.Format(d.EndDate)))
	}
	return fmt.Sprintf("earliest allowed start is %s; depends on %s",
		calendar.Format(v.MinAllowedStart), strings.Join(names, ", "))
}

// DependencyIDs returns the ids of the violating dependencies.
func (v *DependencyViolation) DependencyIDs() []string {
	ids := make([]string, 0, len(v.ViolatingDeps))
	for _, d := range v.ViolatingDeps {
		ids = append(ids, d.ID)
	}
	return ids
}

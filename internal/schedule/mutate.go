package schedule

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/ganttline/internal/calendar"
	"github.com/felixgeelhaar/ganttline/internal/domain"
	"github.com/felixgeelhaar/ganttline/internal/errors"
)

// AddTask validates and inserts a new task. Nothing is inserted when any
// check fails, including a parent whose widened range would break its own
// dependencies or those of tasks depending on it. A dependency violation is reported as a SCHED-001 error
// wrapping a *DependencyViolation.
func (s *Store) AddTask(ctx context.Context, in NewTask) (Task, error) {
	t := Task{
		ID:             s.newID(),
		Name:           in.Name,
		Description:    in.Description,
		Priority:       in.Priority,
		Color:          in.Color,
		StartDate:      calendar.Day(in.StartDate),
		EndDate:        calendar.Day(in.EndDate),
		EstimatedHours: in.EstimatedHours,
		ParentID:       in.ParentID,
		Dependencies:   append([]string(nil), in.Dependencies...),
		CreatedAt:      s.now(),
	}
	if t.Priority == "" {
		t.Priority = domain.PriorityMedium
	}
	t = t.Clone()

	if _, exists := s.lookup(t.ID); exists {
		return Task{}, s.reject("add", errors.NewTaskInvalidError(fmt.Errorf("duplicate task id %q", t.ID)))
	}

	world := append(append([]Task(nil), s.tasks...), t)
	if err := s.checkTask(t, world); err != nil {
		return Task{}, s.reject("add", err)
	}

	world = PropagateUpward(t.ID, world)
	if v := validateAncestors([]string{t.ID}, s.tasks, world, nil); v != nil {
		return Task{}, s.reject("add", errors.NewDependencyViolationError(v.TaskID, v))
	}

	s.replace(world)
	s.metrics.RecordMutation("add", "applied")
	s.log.Debug("task added", "task_id", t.ID, "parent_id", t.ParentID)
	s.persist(ctx)

	added, _ := s.GetTaskByID(t.ID)
	return added, nil
}

// UpdateTask applies a patch. For a leaf every field, dates included, is
// applied and re-validated, as are the parents whose dates follow it. For a task with children the dates-excluded
// variant UpdateTaskFields is used instead, since its dates are derived.
func (s *Store) UpdateTask(ctx context.Context, id string, patch TaskPatch) (Task, error) {
	if _, ok := s.lookup(id); !ok {
		return Task{}, s.notFound("update", id)
	}
	if s.hasChildren(id) {
		return s.UpdateTaskFields(ctx, id, patch)
	}
	return s.update(ctx, "update", id, patch, true)
}

// UpdateTaskFields applies every non-date field of patch. When a parent's
// color changes, its direct leaf children take the new color.
func (s *Store) UpdateTaskFields(ctx context.Context, id string, patch TaskPatch) (Task, error) {
	return s.update(ctx, "update_fields", id, patch, false)
}

func (s *Store) update(ctx context.Context, op, id string, patch TaskPatch, withDates bool) (Task, error) {
	i, ok := s.lookup(id)
	if !ok {
		return Task{}, s.notFound(op, id)
	}
	old := s.tasks[i]
	next := patch.apply(old, withDates)

	world := append([]Task(nil), s.tasks...)
	world[i] = next

	revalidate := patch.Dependencies != nil || (withDates && patch.touchesDates())
	if err := s.checkStructure(next, world); err != nil {
		return Task{}, s.reject(op, err)
	}
	if revalidate {
		if err := s.checkDependencies(next, world); err != nil {
			return Task{}, s.reject(op, err)
		}
	}

	if next.Color != old.Color && s.hasChildren(id) {
		for j := range world {
			if world[j].ParentID == id && !s.hasChildren(world[j].ID) {
				world[j].Color = next.Color
			}
		}
	}

	world = PropagateUpward(id, world)
	if old.ParentID != next.ParentID && old.ParentID != "" {
		// An old parent left without children keeps its last derived
		// dates as authored ones.
		world = refreshChain(old.ParentID, world)
	}
	if v := validateAncestors([]string{id}, s.tasks, world, nil); v != nil {
		return Task{}, s.reject(op, errors.NewDependencyViolationError(v.TaskID, v))
	}

	s.replace(world)
	s.metrics.RecordMutation(op, "applied")
	s.log.Debug("task updated", "task_id", id, "with_dates", withDates)
	s.persist(ctx)

	updated, _ := s.GetTaskByID(id)
	return updated, nil
}

// DeleteTask removes id and all its descendants, strips them from every
// remaining task's dependencies and re-aggregates the remaining parents.
// It returns the removed ids.
func (s *Store) DeleteTask(ctx context.Context, id string) ([]string, error) {
	if _, ok := s.lookup(id); !ok {
		return nil, s.notFound("delete", id)
	}

	removed := make(map[string]bool)
	for _, r := range subtree(id, childrenOf(s.tasks)) {
		removed[r] = true
	}

	kept := make([]Task, 0, len(s.tasks)-len(removed))
	var removedIDs []string
	for _, t := range s.tasks {
		if removed[t.ID] {
			removedIDs = append(removedIDs, t.ID)
			continue
		}
		if len(t.Dependencies) > 0 {
			deps := make([]string, 0, len(t.Dependencies))
			for _, d := range t.Dependencies {
				if !removed[d] {
					deps = append(deps, d)
				}
			}
			t.Dependencies = deps
		}
		if removed[t.ParentID] {
			t.ParentID = ""
		}
		kept = append(kept, t)
	}

	s.replace(AggregateAll(kept))
	s.metrics.RecordMutation("delete", "applied")
	s.log.Debug("task deleted", "task_id", id, "removed", len(removedIDs))
	s.persist(ctx)
	return removedIDs, nil
}

// ToggleTaskCollapse flips the collapsed flag of id and returns the new
// value. Collapsing also collapses every descendant.
func (s *Store) ToggleTaskCollapse(ctx context.Context, id string) (bool, error) {
	i, ok := s.lookup(id)
	if !ok {
		return false, s.notFound("toggle_collapse", id)
	}

	world := append([]Task(nil), s.tasks...)
	collapsed := !world[i].Collapsed
	world[i].Collapsed = collapsed
	if collapsed {
		for _, d := range subtree(id, childrenOf(world))[1:] {
			world[s.index[d]].Collapsed = true
		}
	}

	s.replace(world)
	s.metrics.RecordMutation("toggle_collapse", "applied")
	s.persist(ctx)
	return collapsed, nil
}

// checkTask runs every create-time check against world, which already
// contains t.
func (s *Store) checkTask(t Task, world []Task) error {
	if err := s.checkStructure(t, world); err != nil {
		return err
	}
	return s.checkDependencies(t, world)
}

// checkStructure validates fields, the parent reference and the shape of
// the dependency graph around t.
func (s *Store) checkStructure(t Task, world []Task) error {
	if err := t.Validate(); err != nil {
		return errors.NewTaskInvalidError(err)
	}
	if t.ParentID != "" {
		if _, ok := s.lookup(t.ParentID); !ok {
			return errors.NewParentNotFoundError(t.ParentID)
		}
		if isAncestor(t.ID, t.ParentID, world) {
			return errors.NewParentCycleError(t.ID, t.ParentID)
		}
	}
	if dep, ok := hierarchyConflict(t, world); ok {
		return errors.NewTaskInvalidError(fmt.Errorf("task cannot depend on its own ancestor or descendant %q", dep))
	}
	if s.rejectCycles {
		if cycle := findDependencyCycle(t.ID, world); cycle != nil {
			return errors.NewDependencyCycleError(cycle)
		}
	}
	return nil
}

// checkDependencies validates t's start date against its dependencies.
func (s *Store) checkDependencies(t Task, world []Task) error {
	if v := ValidateTask(t, world); !v.Valid {
		return errors.NewDependencyViolationError(t.ID, newDependencyViolation(t.ID, v))
	}
	return nil
}

func (s *Store) reject(op string, err error) error {
	s.metrics.RecordMutation(op, "rejected")
	s.log.WithError(err).Info("task mutation rejected", "op", op)
	return err
}

func (s *Store) notFound(op, id string) error {
	s.metrics.RecordMutation(op, "not_found")
	return errors.NewTaskNotFoundError(id)
}

package schedule

import (
	"context"
	"sort"
	"time"

	"github.com/felixgeelhaar/ganttline/internal/calendar"
)

// MoveOutcome is the result of a move request.
type MoveOutcome string

// Move outcomes
const (
	// OutcomeApplied means the move (and any cascade) was written.
	OutcomeApplied MoveOutcome = "applied"
	// OutcomeRejected means the moved task itself would break a dependency
	// constraint; nothing was written.
	OutcomeRejected MoveOutcome = "rejected"
	// OutcomeNeedsCascade means the task has dependents and the caller must
	// decide how they follow; nothing was written.
	OutcomeNeedsCascade MoveOutcome = "needs_cascade"
)

// MoveResult reports what a move request did or would do.
type MoveResult struct {
	Outcome   MoveOutcome
	TaskID    string
	DaysDelta int
	// NewStart and NewEnd are the anchor's range after the move. The
	// duration always equals the original duration.
	NewStart time.Time
	NewEnd   time.Time

	// Violation is set when Outcome is OutcomeRejected.
	Violation *DependencyViolation
	// Plan classifies the anchor's direct dependents.
	Plan CascadePlan

	// Shifted lists dependents that moved along with the anchor.
	Shifted []string
	// Overridden lists shifted dependents that now violate their own
	// dependency constraint because the user confirmed them.
	Overridden []string
	// Skipped lists dependents left in place.
	Skipped []string
}

// Applied reports whether anything was written.
func (r MoveResult) Applied() bool {
	return r.Outcome == OutcomeApplied
}

// MoveTask proposes moving id so that it starts on newStart. The task keeps
// its duration: newEnd is not consulted and the end is shifted by the same
// number of days as the start. A task with children moves rigidly with its
// whole subtree.
//
// The move is rejected when the task (or a descendant) would start before
// its dependencies end. It is applied when no other task depends on id.
// Otherwise nothing is written and the result carries the cascade plan;
// the caller completes the move with MoveTaskWithDelta when the plan has no
// conflicts, or MoveTaskWithConfirmation when it does.
func (s *Store) MoveTask(ctx context.Context, id string, newStart, newEnd time.Time) (MoveResult, error) {
	i, ok := s.lookup(id)
	if !ok {
		return MoveResult{}, s.notFound("move", id)
	}
	task := s.tasks[i]
	delta := calendar.DaysBetween(task.StartDate, newStart)
	res := s.newMoveResult(task, delta)

	if delta == 0 {
		res.Outcome = OutcomeApplied
		return s.finishMove(res), nil
	}

	if violation := s.validateAnchor(id, delta); violation != nil {
		res.Outcome = OutcomeRejected
		res.Violation = violation
		return s.finishMove(res), nil
	}

	res.Plan = planCascade(id, delta, delta, s.tasks)
	s.metrics.RecordCascade(len(res.Plan.Clean), len(res.Plan.Conflicting))
	if !res.Plan.Empty() {
		res.Outcome = OutcomeNeedsCascade
		return s.finishMove(res), nil
	}

	s.replace(shiftTasks(s.tasks, map[string]int{id: delta}))
	res.Outcome = OutcomeApplied
	s.persist(ctx)
	return s.finishMove(res), nil
}

// MoveTaskWithDelta moves id to newStart (keeping its duration) and shifts
// every direct dependent by daysDelta. It is meant for plans without
// conflicts; if re-planning finds conflicts, nothing is written and the
// result is OutcomeNeedsCascade.
func (s *Store) MoveTaskWithDelta(ctx context.Context, id string, newStart, newEnd time.Time, daysDelta int) (MoveResult, error) {
	i, ok := s.lookup(id)
	if !ok {
		return MoveResult{}, s.notFound("move_with_delta", id)
	}
	task := s.tasks[i]
	anchorDelta := calendar.DaysBetween(task.StartDate, newStart)
	res := s.newMoveResult(task, anchorDelta)

	if violation := s.validateAnchor(id, anchorDelta); violation != nil {
		res.Outcome = OutcomeRejected
		res.Violation = violation
		return s.finishMove(res), nil
	}

	res.Plan = planCascade(id, anchorDelta, daysDelta, s.tasks)
	if res.Plan.HasConflicts() {
		res.Outcome = OutcomeNeedsCascade
		return s.finishMove(res), nil
	}

	deltas := map[string]int{id: anchorDelta}
	for _, d := range res.Plan.Clean {
		deltas[d.ID] = daysDelta
		res.Shifted = append(res.Shifted, d.ID)
	}
	world := shiftTasks(s.tasks, deltas)
	if violation := validateAncestors(keys(deltas), s.tasks, world, inSet(deltas)); violation != nil {
		res.Outcome = OutcomeRejected
		res.Violation = violation
		res.Shifted = nil
		return s.finishMove(res), nil
	}

	s.replace(world)
	res.Outcome = OutcomeApplied
	s.persist(ctx)
	return s.finishMove(res), nil
}

// MoveTaskWithConfirmation moves id to newStart unconditionally and then
// handles each direct dependent (see PlanCascade). Dependents listed in confirmedIDs shift by
// the same delta even when that breaks their own constraint. Every other
// dependent shifts only if it still validates after shifting; otherwise it
// stays where it is.
func (s *Store) MoveTaskWithConfirmation(ctx context.Context, id string, newStart, newEnd time.Time, confirmedIDs []string) (MoveResult, error) {
	i, ok := s.lookup(id)
	if !ok {
		return MoveResult{}, s.notFound("move_with_confirmation", id)
	}
	task := s.tasks[i]
	delta := calendar.DaysBetween(task.StartDate, newStart)
	res := s.newMoveResult(task, delta)
	res.Plan = planCascade(id, delta, delta, s.tasks)

	confirmed := make(map[string]bool, len(confirmedIDs))
	for _, c := range confirmedIDs {
		confirmed[c] = true
	}

	dependents := moveDependents(id, s.tasks)
	deltas := map[string]int{id: delta}
	for _, d := range dependents {
		if confirmed[d.ID] {
			deltas[d.ID] = delta
		}
	}
	world := shiftTasks(s.tasks, deltas)

	for _, d := range dependents {
		if confirmed[d.ID] {
			res.Shifted = append(res.Shifted, d.ID)
			continue
		}
		trial := make(map[string]int, len(deltas)+1)
		for k, v := range deltas {
			trial[k] = v
		}
		trial[d.ID] = delta
		candidate := shiftTasks(s.tasks, trial)
		if v, _ := validateSubtree(d.ID, candidate); v.Valid &&
			validateAncestors([]string{d.ID}, s.tasks, candidate, inSet(trial)) == nil {
			deltas, world = trial, candidate
			res.Shifted = append(res.Shifted, d.ID)
			continue
		}
		res.Skipped = append(res.Skipped, d.ID)
	}

	for _, d := range dependents {
		if !confirmed[d.ID] {
			continue
		}
		if v, _ := validateSubtree(d.ID, world); !v.Valid ||
			validateAncestors([]string{d.ID}, s.tasks, world, inSet(deltas)) != nil {
			res.Overridden = append(res.Overridden, d.ID)
		}
	}

	s.replace(world)
	res.Outcome = OutcomeApplied
	s.metrics.RecordOverrides(len(res.Overridden))
	if len(res.Overridden) > 0 {
		s.log.Info("dependency constraint overridden", "task_id", id, "overridden", res.Overridden)
	}
	s.persist(ctx)
	return s.finishMove(res), nil
}

// CommitMove completes a proposal returned by MoveTask. Proposals that were
// already applied or rejected are returned unchanged.
func (s *Store) CommitMove(ctx context.Context, proposal MoveResult, confirmedIDs []string) (MoveResult, error) {
	if proposal.Outcome != OutcomeNeedsCascade {
		return proposal, nil
	}
	if !proposal.Plan.HasConflicts() {
		return s.MoveTaskWithDelta(ctx, proposal.TaskID, proposal.NewStart, proposal.NewEnd, proposal.DaysDelta)
	}
	return s.MoveTaskWithConfirmation(ctx, proposal.TaskID, proposal.NewStart, proposal.NewEnd, confirmedIDs)
}

// validateAnchor checks id and its subtree after shifting them by delta,
// then the ancestors whose range follows them. Tasks depending on id's
// subtree are left to the cascade plan.
func (s *Store) validateAnchor(id string, delta int) *DependencyViolation {
	world := shiftTasks(s.tasks, map[string]int{id: delta})
	if v, failed := validateSubtree(id, world); !v.Valid {
		return newDependencyViolation(failed, v)
	}
	skip := make(map[string]bool)
	for _, d := range moveDependents(id, s.tasks) {
		skip[d.ID] = true
	}
	return validateAncestors([]string{id}, s.tasks, world, skip)
}

func (s *Store) newMoveResult(task Task, delta int) MoveResult {
	return MoveResult{
		TaskID:    task.ID,
		DaysDelta: delta,
		NewStart:  calendar.AddDays(task.StartDate, delta),
		NewEnd:    calendar.AddDays(task.EndDate, delta),
	}
}

func (s *Store) finishMove(res MoveResult) MoveResult {
	s.metrics.RecordMoveOutcome(string(res.Outcome))
	switch res.Outcome {
	case OutcomeRejected:
		s.log.Info("move rejected",
			"task_id", res.TaskID,
			"min_allowed_start", calendar.Format(res.Violation.MinAllowedStart),
			"violating_deps", res.Violation.DependencyIDs())
	case OutcomeNeedsCascade:
		s.log.Debug("move needs cascade decision",
			"task_id", res.TaskID,
			"clean", res.Plan.CleanIDs(),
			"conflicting", res.Plan.ConflictingIDs())
	default:
		s.log.Debug("move applied", "task_id", res.TaskID, "delta", res.DaysDelta, "shifted", res.Shifted)
	}
	return res
}

func keys(deltas map[string]int) []string {
	out := make([]string, 0, len(deltas))
	for id := range deltas {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func inSet(deltas map[string]int) map[string]bool {
	set := make(map[string]bool, len(deltas))
	for id := range deltas {
		set[id] = true
	}
	return set
}

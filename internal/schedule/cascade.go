package schedule

// CascadePlan partitions the direct dependents of a moved task into those
// that can follow the move without breaking their own constraints and those
// that cannot.
type CascadePlan struct {
	Clean       []Task
	Conflicting []Task
	// Violations explains each conflicting dependent, keyed by its id.
	Violations map[string]Validation
}

// Empty reports whether the moved task has no dependents at all.
func (p CascadePlan) Empty() bool {
	return len(p.Clean) == 0 && len(p.Conflicting) == 0
}

// HasConflicts reports whether some dependent needs an explicit decision.
func (p CascadePlan) HasConflicts() bool {
	return len(p.Conflicting) > 0
}

// CleanIDs returns the ids of the clean dependents.
func (p CascadePlan) CleanIDs() []string {
	return taskIDs(p.Clean)
}

// ConflictingIDs returns the ids of the conflicting dependents.
func (p CascadePlan) ConflictingIDs() []string {
	return taskIDs(p.Conflicting)
}

// PlanCascade determines which direct dependents of moved could be shifted
// by daysDelta along with it. Each dependent is validated in a simulated
// collection where moved and every dependent already hold their shifted
// dates. A dependent also conflicts when its shift drags a parent before
// the parent's own dependencies or past the start of a task depending on
// that parent. Dependents of dependents are not examined. all is not
// modified.
//
// When moved has children the whole subtree moves, so tasks depending on
// any descendant count as direct dependents too.
func PlanCascade(moved Task, daysDelta int, all []Task) CascadePlan {
	return planCascade(moved.ID, daysDelta, daysDelta, all)
}

func planCascade(movedID string, anchorDelta, daysDelta int, all []Task) CascadePlan {
	dependents := moveDependents(movedID, all)
	if len(dependents) == 0 {
		return CascadePlan{}
	}

	deltas := map[string]int{movedID: anchorDelta}
	for _, d := range dependents {
		if _, ok := deltas[d.ID]; !ok {
			deltas[d.ID] = daysDelta
		}
	}
	world := shiftTasks(all, deltas)

	plan := CascadePlan{Violations: make(map[string]Validation)}
	skip := inSet(deltas)
	for _, d := range dependents {
		v, _ := validateSubtree(d.ID, world)
		if v.Valid {
			if dv := validateAncestors([]string{d.ID}, all, world, skip); dv != nil {
				v = Validation{MinAllowedStart: dv.MinAllowedStart, ViolatingDeps: dv.ViolatingDeps}
			}
		}
		if !v.Valid {
			plan.Conflicting = append(plan.Conflicting, d.Clone())
			plan.Violations[d.ID] = v
			continue
		}
		plan.Clean = append(plan.Clean, d.Clone())
	}
	return plan
}

// directDependents returns every task listing id among its dependencies,
// in collection order.
func directDependents(id string, all []Task) []Task {
	var out []Task
	for _, t := range all {
		if t.ID != id && t.DependsOn(id) {
			out = append(out, t)
		}
	}
	return out
}

// moveDependents returns the tasks outside id's subtree that depend on id or
// on one of its descendants.
func moveDependents(id string, all []Task) []Task {
	inside := make(map[string]bool)
	for _, m := range subtree(id, childrenOf(all)) {
		inside[m] = true
	}
	var out []Task
	for _, t := range all {
		if inside[t.ID] {
			continue
		}
		for _, dep := range t.Dependencies {
			if inside[dep] {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

// shiftTasks returns a copy of all in which every task keyed in deltas is
// shifted by its delta together with its whole subtree, so parents move
// rigidly with their children. A task inside several shifted subtrees moves
// once, by the delta of its nearest keyed ancestor (itself first). Ancestors
// of shifted tasks are re-aggregated afterwards.
func shiftTasks(all []Task, deltas map[string]int) []Task {
	out := append([]Task(nil), all...)
	if len(deltas) == 0 {
		return out
	}
	idx := indexOf(out)

	for i := range out {
		if n, ok := nearestDelta(out[i].ID, out, idx, deltas); ok && n != 0 {
			out[i] = out[i].shift(n)
		}
	}
	for id := range deltas {
		out = PropagateUpward(id, out)
	}
	return out
}

func nearestDelta(id string, all []Task, idx map[string]int, deltas map[string]int) (int, bool) {
	seen := make(map[string]bool)
	cur := id
	for cur != "" && !seen[cur] {
		if n, ok := deltas[cur]; ok {
			return n, true
		}
		seen[cur] = true
		i, ok := idx[cur]
		if !ok {
			break
		}
		cur = all[i].ParentID
	}
	return 0, false
}

func taskIDs(tasks []Task) []string {
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	return ids
}

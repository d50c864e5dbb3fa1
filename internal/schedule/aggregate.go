package schedule

import (
	"github.com/felixgeelhaar/ganttline/internal/calendar"
)

// Aggregate returns the envelope of task's direct children. The boolean is
// false when task is a leaf, whose authored dates stand.
func Aggregate(task Task, all []Task) (calendar.Range, bool) {
	var (
		env   calendar.Range
		found bool
	)
	for _, c := range all {
		if c.ParentID != task.ID || c.ID == task.ID {
			continue
		}
		if !found {
			env = calendar.NewRange(c.StartDate, c.EndDate)
			found = true
			continue
		}
		env.Start = calendar.Min(env.Start, c.StartDate)
		env.End = calendar.Max(env.End, c.EndDate)
	}
	return env, found
}

// PropagateUpward recomputes the envelope of taskID's parent, then of that
// parent's parent, and so on up to the root. The walk always reaches the
// root; recomputation is idempotent. A parent id that does not resolve ends
// the walk. all is not modified.
func PropagateUpward(taskID string, all []Task) []Task {
	out := append([]Task(nil), all...)
	idx := indexOf(out)

	seen := map[string]bool{taskID: true}
	cur := taskID
	for {
		i, ok := idx[cur]
		if !ok {
			break
		}
		parent := out[i].ParentID
		if parent == "" || seen[parent] {
			break
		}
		pi, ok := idx[parent]
		if !ok {
			break
		}
		seen[parent] = true

		if env, ok := Aggregate(out[pi], out); ok {
			out[pi].StartDate = env.Start
			out[pi].EndDate = env.End
		}
		cur = parent
	}
	return out
}

// refreshChain recomputes id itself (when it still has children) and then
// every ancestor above it. A task left without children keeps its current
// dates, which become its authored dates.
func refreshChain(id string, all []Task) []Task {
	out := append([]Task(nil), all...)
	idx := indexOf(out)
	i, ok := idx[id]
	if !ok {
		return out
	}
	if env, ok := Aggregate(out[i], out); ok {
		out[i].StartDate = env.Start
		out[i].EndDate = env.End
	}
	return PropagateUpward(id, out)
}

// AggregateAll recomputes every parent reachable from a root, bottom-up.
// Tasks whose parent does not resolve count as roots.
func AggregateAll(all []Task) []Task {
	out := append([]Task(nil), all...)
	idx := indexOf(out)
	children := childrenOf(out)
	seen := make(map[string]bool, len(out))

	var visit func(id string) calendar.Range
	visit = func(id string) calendar.Range {
		i := idx[id]
		if seen[id] {
			return out[i].Range()
		}
		seen[id] = true

		var (
			env   calendar.Range
			found bool
		)
		for _, c := range children[id] {
			r := visit(c)
			if !found {
				env, found = r, true
				continue
			}
			env.Start = calendar.Min(env.Start, r.Start)
			env.End = calendar.Max(env.End, r.End)
		}
		if found {
			out[i].StartDate = env.Start
			out[i].EndDate = env.End
		}
		return out[i].Range()
	}

	for _, t := range out {
		if _, ok := idx[t.ParentID]; t.ParentID == "" || !ok {
			visit(t.ID)
		}
	}
	return out
}

package health

import (
	"context"
	"fmt"
	"sort"

	"github.com/felixgeelhaar/ganttline/internal/calendar"
	"github.com/felixgeelhaar/ganttline/internal/schedule"
)

// PlanChecker audits a loaded task collection for broken structure and for
// dependencies that were overridden by a confirmed cascade.
type PlanChecker struct {
	tasks []schedule.Task
}

// NewPlanChecker checks tasks.
func NewPlanChecker(tasks []schedule.Task) *PlanChecker {
	return &PlanChecker{tasks: tasks}
}

// Name returns "plan".
func (c *PlanChecker) Name() string {
	return "plan"
}

// Check reports invalid tasks, unknown parents and stale parent ranges as
// unhealthy, and unknown or overridden dependencies as degraded.
func (c *PlanChecker) Check(ctx context.Context) *Result {
	ids := make(map[string]bool, len(c.tasks))
	for _, t := range c.tasks {
		ids[t.ID] = true
	}

	var invalid, orphans, stale, dangling, overridden []string
	for _, t := range c.tasks {
		if err := ctx.Err(); err != nil {
			return Unhealthy("plan check interrupted").WithDetail("error", err.Error())
		}
		if err := t.Validate(); err != nil {
			invalid = append(invalid, t.ID)
		}
		if t.ParentID != "" && !ids[t.ParentID] {
			orphans = append(orphans, t.ID)
		}
		if env, ok := schedule.Aggregate(t, c.tasks); ok && !env.Equal(calendar.NewRange(t.StartDate, t.EndDate)) {
			stale = append(stale, t.ID)
		}
		for _, dep := range t.Dependencies {
			if !ids[dep] {
				dangling = append(dangling, t.ID)
				break
			}
		}
		if v := schedule.ValidateTask(t, c.tasks); !v.Valid {
			overridden = append(overridden, t.ID)
		}
	}

	res := Healthy(fmt.Sprintf("%d task(s) consistent", len(c.tasks)))
	if len(dangling) > 0 || len(overridden) > 0 {
		res = Degraded(fmt.Sprintf("%d task(s) start before a dependency ends, %d reference unknown dependencies",
			len(overridden), len(dangling)))
	}
	if len(invalid) > 0 || len(orphans) > 0 || len(stale) > 0 {
		res = Unhealthy(fmt.Sprintf("%d invalid task(s), %d with an unknown parent, %d parent(s) not spanning their subtasks",
			len(invalid), len(orphans), len(stale)))
	}

	for key, list := range map[string][]string{
		"invalid":    invalid,
		"orphans":    orphans,
		"stale":      stale,
		"dangling":   dangling,
		"overridden": overridden,
	} {
		if len(list) > 0 {
			sort.Strings(list)
			res.WithDetail(key, list)
		}
	}
	return res.WithDetail("tasks", len(c.tasks))
}

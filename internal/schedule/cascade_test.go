package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanCascade_NoDependents(t *testing.T) {
	a := leaf("a", "2024-01-01", "2024-01-05")

	plan := PlanCascade(a, 3, []Task{a})

	assert.True(t, plan.Empty())
	assert.False(t, plan.HasConflicts())
}

func TestPlanCascade_Partition(t *testing.T) {
	a := leaf("a", "2024-02-01", "2024-02-10")
	dTask := leaf("d", "2024-02-20", "2024-03-01")
	tight := leaf("b", "2024-03-02", "2024-03-05", "a", "d")
	loose := leaf("e", "2024-03-20", "2024-03-22", "a")
	all := []Task{a, dTask, tight, loose}

	plan := PlanCascade(a, -5, all)

	assert.Equal(t, []string{"e"}, plan.CleanIDs())
	assert.Equal(t, []string{"b"}, plan.ConflictingIDs())
	assert.Equal(t, d("2024-03-02"), plan.Violations["b"].MinAllowedStart)
	assert.Equal(t, d("2024-03-02"), all[2].StartDate, "planning must not mutate")
}

func TestPlanCascade_DirectDependentsOnly(t *testing.T) {
	a := leaf("a", "2024-01-01", "2024-01-05")
	b := leaf("b", "2024-01-06", "2024-01-08", "a")
	c := leaf("c", "2024-01-09", "2024-01-10", "b")

	plan := PlanCascade(a, 2, []Task{a, b, c})

	assert.Equal(t, []string{"b"}, plan.CleanIDs())
	assert.Empty(t, plan.Conflicting)
}

func TestShiftTasks_SubtreeMovesOnce(t *testing.T) {
	all := AggregateAll([]Task{
		parentTask("p"),
		child("p", leaf("c1", "2024-01-01", "2024-01-03")),
		child("p", leaf("c2", "2024-01-04", "2024-01-06")),
	})

	out := shiftTasks(all, map[string]int{"p": 2, "c1": 5})

	assert.Equal(t, d("2024-01-06"), out[1].StartDate)
	assert.Equal(t, d("2024-01-06"), out[2].StartDate)
	assert.Equal(t, d("2024-01-06"), out[0].StartDate)
	assert.Equal(t, d("2024-01-08"), out[0].EndDate)
}

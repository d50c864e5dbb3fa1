package ux

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/felixgeelhaar/ganttline/internal/calendar"
	"github.com/felixgeelhaar/ganttline/internal/schedule"
)

func TestMoveReport_Rejected(t *testing.T) {
	res := schedule.MoveResult{
		Outcome:  schedule.OutcomeRejected,
		TaskID:   "c",
		NewStart: calendar.MustParse("2024-03-05"),
		NewEnd:   calendar.MustParse("2024-03-08"),
		Violation: &schedule.DependencyViolation{
			MinAllowedStart: calendar.MustParse("2024-03-07"),
			ViolatingDeps:   []schedule.Task{task("b", "", "2024-03-04", "2024-03-06")},
		},
	}

	r := NewMoveReport(res, true)
	assert.Equal(t, "2024-03-07", r.MinAllowedStart)
	assert.Equal(t, []DependencyRef{{ID: "b", Name: "Task b", EndDate: "2024-03-06"}}, r.ViolatingDeps)

	out := r.String()
	assert.Contains(t, out, "Move rejected")
	assert.Contains(t, out, "cannot start before 2024-03-07")
	assert.Contains(t, out, "Task b (b) ends 2024-03-06")
}

func TestMoveReport_NeedsCascade(t *testing.T) {
	res := schedule.MoveResult{
		Outcome:   schedule.OutcomeNeedsCascade,
		TaskID:    "a",
		DaysDelta: 2,
		NewStart:  calendar.MustParse("2024-03-03"),
		NewEnd:    calendar.MustParse("2024-03-05"),
		Plan: schedule.CascadePlan{
			Clean:       []schedule.Task{task("b", "", "2024-03-04", "2024-03-06")},
			Conflicting: []schedule.Task{task("c", "", "2024-03-07", "2024-03-10")},
		},
	}

	out := NewMoveReport(res, true).String()
	assert.Contains(t, out, "needs a cascade decision")
	assert.Contains(t, out, "+2 days")
	assert.Contains(t, out, "can follow:\n    • Task b (b)")
	assert.Contains(t, out, "break their own dependencies:\n    • Task c (c)")
	assert.Contains(t, out, "--confirm")
}

func TestMoveReport_Applied(t *testing.T) {
	res := schedule.MoveResult{
		Outcome:    schedule.OutcomeApplied,
		TaskID:     "a",
		DaysDelta:  1,
		NewStart:   calendar.MustParse("2024-03-02"),
		NewEnd:     calendar.MustParse("2024-03-04"),
		Shifted:    []string{"a", "b"},
		Overridden: []string{"c"},
	}

	r := NewMoveReport(res, true)
	assert.Empty(t, r.Clean)
	assert.Empty(t, r.MinAllowedStart)

	out := r.String()
	assert.Contains(t, out, "Move applied")
	assert.Contains(t, out, "a now runs 2024-03-02 → 2024-03-04")
	assert.Contains(t, out, "shifted:    a, b")
	assert.Contains(t, out, "overridden: c")
	assert.NotContains(t, out, "left as is")
}

package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/ganttline/internal/calendar"
	"github.com/felixgeelhaar/ganttline/internal/schedule"
)

func clearCI(t *testing.T) {
	t.Helper()
	for _, v := range ciEnvVars {
		t.Setenv(v, "")
	}
}

func TestInCI(t *testing.T) {
	clearCI(t)
	assert.False(t, InCI())

	for _, v := range []string{"GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CI"} {
		t.Run(v, func(t *testing.T) {
			clearCI(t)
			t.Setenv(v, "true")
			assert.True(t, InCI())
			assert.False(t, ShouldPrompt(), "prompts are disabled in CI")
		})
	}
}

func TestIsInteractive(t *testing.T) {
	// Depends on how tests are run; it must not panic.
	_ = IsInteractive()
}

func conflictProposal() schedule.MoveResult {
	mk := func(id string) schedule.Task {
		return schedule.Task{ID: id, Name: "Task " + id, StartDate: calendar.MustParse("2024-03-01"), EndDate: calendar.MustParse("2024-03-02")}
	}
	return schedule.MoveResult{
		Outcome:   schedule.OutcomeNeedsCascade,
		TaskID:    "a",
		DaysDelta: 3,
		Plan: schedule.CascadePlan{
			Clean:       []schedule.Task{mk("b")},
			Conflicting: []schedule.Task{mk("c"), mk("e")},
		},
	}
}

func TestCascadeOptions(t *testing.T) {
	opts := cascadeOptions(conflictProposal())

	require.Len(t, opts, 2)
	assert.Equal(t, "Task c (c)", opts[0].Key)
	assert.Equal(t, "c", opts[0].Value)
	assert.Equal(t, "e", opts[1].Value)
}

func TestCascadeForm_DefaultsToApply(t *testing.T) {
	var d CascadeDecision
	form := cascadeForm(conflictProposal(), &d)

	require.NotNil(t, form)
	assert.True(t, d.Apply)
	assert.Empty(t, d.Confirmed)
}

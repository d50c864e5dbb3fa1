package ux

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/ganttline/internal/calendar"
	"github.com/felixgeelhaar/ganttline/internal/schedule"
)

// DependencyRef names a task involved in a move.
type DependencyRef struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	EndDate string `json:"end_date,omitempty" yaml:"end_date,omitempty"`
}

// MoveReport is the display form of a schedule.MoveResult.
type MoveReport struct {
	Outcome         string          `json:"outcome" yaml:"outcome"`
	TaskID          string          `json:"task_id" yaml:"task_id"`
	DaysDelta       int             `json:"days_delta" yaml:"days_delta"`
	NewStart        string          `json:"new_start" yaml:"new_start"`
	NewEnd          string          `json:"new_end" yaml:"new_end"`
	MinAllowedStart string          `json:"min_allowed_start,omitempty" yaml:"min_allowed_start,omitempty"`
	ViolatingDeps   []DependencyRef `json:"violating_deps,omitempty" yaml:"violating_deps,omitempty"`
	Clean           []DependencyRef `json:"clean,omitempty" yaml:"clean,omitempty"`
	Conflicting     []DependencyRef `json:"conflicting,omitempty" yaml:"conflicting,omitempty"`
	Shifted         []string        `json:"shifted,omitempty" yaml:"shifted,omitempty"`
	Overridden      []string        `json:"overridden,omitempty" yaml:"overridden,omitempty"`
	Skipped         []string        `json:"skipped,omitempty" yaml:"skipped,omitempty"`

	noColor bool
}

// NewMoveReport converts a move result for output.
func NewMoveReport(res schedule.MoveResult, noColor bool) MoveReport {
	r := MoveReport{
		Outcome:     string(res.Outcome),
		TaskID:      res.TaskID,
		DaysDelta:   res.DaysDelta,
		NewStart:    calendar.Format(res.NewStart),
		NewEnd:      calendar.Format(res.NewEnd),
		Clean:       refs(res.Plan.Clean),
		Conflicting: refs(res.Plan.Conflicting),
		Shifted:     res.Shifted,
		Overridden:  res.Overridden,
		Skipped:     res.Skipped,
		noColor:     noColor,
	}
	if res.Violation != nil {
		r.MinAllowedStart = calendar.Format(res.Violation.MinAllowedStart)
		r.ViolatingDeps = refs(res.Violation.ViolatingDeps)
	}
	return r
}

func refs(tasks []schedule.Task) []DependencyRef {
	if len(tasks) == 0 {
		return nil
	}
	out := make([]DependencyRef, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, DependencyRef{ID: t.ID, Name: t.Name, EndDate: calendar.Format(t.EndDate)})
	}
	return out
}

func (r MoveReport) style(color string) lipgloss.Style {
	if r.noColor {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color))
}

// String renders the report as text.
func (r MoveReport) String() string {
	var b strings.Builder
	switch schedule.MoveOutcome(r.Outcome) {
	case schedule.OutcomeRejected:
		b.WriteString(r.style("196").Render("✗ Move rejected"))
		fmt.Fprintf(&b, "\n  %s cannot start before %s. It depends on:\n", r.TaskID, r.MinAllowedStart)
		for _, d := range r.ViolatingDeps {
			fmt.Fprintf(&b, "    • %s (%s) ends %s\n", d.Name, d.ID, d.EndDate)
		}
	case schedule.OutcomeNeedsCascade:
		b.WriteString(r.style("226").Render("⚠ Move needs a cascade decision"))
		fmt.Fprintf(&b, "\n  %s would move %+d days to %s → %s\n", r.TaskID, r.DaysDelta, r.NewStart, r.NewEnd)
		if len(r.Clean) > 0 {
			b.WriteString("  Dependents that can follow:\n")
			for _, d := range r.Clean {
				fmt.Fprintf(&b, "    • %s (%s)\n", d.Name, d.ID)
			}
		}
		if len(r.Conflicting) > 0 {
			b.WriteString("  Dependents that would break their own dependencies:\n")
			for _, d := range r.Conflicting {
				fmt.Fprintf(&b, "    • %s (%s)\n", d.Name, d.ID)
			}
		}
		b.WriteString("  Re-run with --yes to apply, or --confirm <ids> to override conflicts.\n")
	default:
		b.WriteString(r.style("46").Render("✓ Move applied"))
		fmt.Fprintf(&b, "\n  %s now runs %s → %s\n", r.TaskID, r.NewStart, r.NewEnd)
		if len(r.Shifted) > 0 {
			fmt.Fprintf(&b, "  shifted:    %s\n", strings.Join(r.Shifted, ", "))
		}
		if len(r.Overridden) > 0 {
			fmt.Fprintf(&b, "  overridden: %s\n", strings.Join(r.Overridden, ", "))
		}
		if len(r.Skipped) > 0 {
			fmt.Fprintf(&b, "  left as is: %s\n", strings.Join(r.Skipped, ", "))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

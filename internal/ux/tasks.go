package ux

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/ganttline/internal/calendar"
	"github.com/felixgeelhaar/ganttline/internal/domain"
	"github.com/felixgeelhaar/ganttline/internal/schedule"
)

// TaskRow is the display form of one task.
type TaskRow struct {
	ID             string   `json:"id" yaml:"id"`
	Name           string   `json:"name" yaml:"name"`
	Depth          int      `json:"depth" yaml:"depth"`
	Priority       string   `json:"priority" yaml:"priority"`
	Color          string   `json:"color" yaml:"color"`
	Start          string   `json:"start" yaml:"start"`
	End            string   `json:"end" yaml:"end"`
	Days           int      `json:"days" yaml:"days"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty" yaml:"estimated_hours,omitempty"`
	ParentID       string   `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
	Dependencies   []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	Parent         bool     `json:"parent" yaml:"parent"`
	Collapsed      bool     `json:"collapsed" yaml:"collapsed"`

	span calendar.Range
}

// NewTaskRow builds the row for one stored task.
func NewTaskRow(s *schedule.Store, t schedule.Task) TaskRow {
	return TaskRow{
		ID:             t.ID,
		Name:           t.Name,
		Depth:          s.Depth(t.ID),
		Priority:       t.Priority.String(),
		Color:          s.EffectiveColor(t.ID).String(),
		Start:          calendar.Format(t.StartDate),
		End:            calendar.Format(t.EndDate),
		Days:           t.Duration(),
		EstimatedHours: t.EstimatedHours,
		ParentID:       t.ParentID,
		Dependencies:   t.Dependencies,
		Parent:         len(s.GetChildTasks(t.ID)) > 0,
		Collapsed:      t.Collapsed,
		span:           t.Range(),
	}
}

// Range returns the row's date range.
func (r TaskRow) Range() calendar.Range {
	return r.span
}

// TaskTable is a task listing with a timeline column.
type TaskTable struct {
	Tasks []TaskRow `json:"tasks" yaml:"tasks"`

	noColor bool
	width   int
}

// NewTaskTable lists the visible tasks of s, or every task when all is set.
// width is the number of timeline columns.
func NewTaskTable(s *schedule.Store, all bool, width int, noColor bool) TaskTable {
	tasks := s.GetVisibleTasks()
	if all {
		tasks = s.Tasks()
	}
	rows := make([]TaskRow, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, NewTaskRow(s, t))
	}
	return TaskTable{Tasks: rows, noColor: noColor, width: width}
}

// String renders the table as text.
func (tt TaskTable) String() string {
	if len(tt.Tasks) == 0 {
		return "No tasks yet. Add one with 'ganttline task add'."
	}

	ranges := make([]calendar.Range, 0, len(tt.Tasks))
	nameWidth := len("TASK")
	for _, r := range tt.Tasks {
		ranges = append(ranges, r.span)
		if w := len(r.label()); w > nameWidth {
			nameWidth = w
		}
	}
	tl := NewTimeline(ranges, tt.width)

	header := lipgloss.NewStyle().Bold(true)
	if tt.noColor {
		header = lipgloss.NewStyle()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-10s  %-*s  %-10s  %-10s  %s\n", "ID", nameWidth, "TASK", "START", "END", tl.Axis())
	b.WriteString(header.Render(strings.Repeat("─", 10+2+nameWidth+2+10+2+10+2+tt.width)))
	b.WriteString("\n")
	for _, r := range tt.Tasks {
		fmt.Fprintf(&b, "%-10s  %-*s  %-10s  %-10s  %s\n",
			shortID(r.ID), nameWidth, r.label(), r.Start, r.End,
			tl.Render(r.span, domain.Color(r.Color), r.Parent, tt.noColor))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r TaskRow) label() string {
	marker := "  "
	if r.Parent {
		marker = "▾ "
		if r.Collapsed {
			marker = "▸ "
		}
	}
	return strings.Repeat("  ", r.Depth) + marker + r.Name
}

// String renders a single task in detail.
func (r TaskRow) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", r.Name)
	fmt.Fprintf(&b, "  id:        %s\n", r.ID)
	fmt.Fprintf(&b, "  dates:     %s → %s (%d days)\n", r.Start, r.End, r.Days)
	fmt.Fprintf(&b, "  priority:  %s\n", r.Priority)
	fmt.Fprintf(&b, "  color:     %s\n", r.Color)
	if r.EstimatedHours != nil {
		fmt.Fprintf(&b, "  estimate:  %gh\n", *r.EstimatedHours)
	}
	if r.ParentID != "" {
		fmt.Fprintf(&b, "  parent:    %s\n", r.ParentID)
	}
	if len(r.Dependencies) > 0 {
		fmt.Fprintf(&b, "  depends:   %s\n", strings.Join(r.Dependencies, ", "))
	}
	if r.Parent {
		fmt.Fprintf(&b, "  collapsed: %t\n", r.Collapsed)
	}
	return strings.TrimRight(b.String(), "\n")
}

// shortID trims generated UUIDs for tables; explicit short ids pass through.
func shortID(id string) string {
	if len(id) > 8 && strings.Count(id, "-") == 4 {
		return id[:8]
	}
	return id
}

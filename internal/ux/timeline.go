package ux

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/ganttline/internal/calendar"
	"github.com/felixgeelhaar/ganttline/internal/domain"
)

// Timeline maps calendar days onto a fixed number of character columns.
type Timeline struct {
	Span  calendar.Range
	Width int
}

// NewTimeline builds a timeline covering every range, padded by one day on
// each side.
func NewTimeline(ranges []calendar.Range, width int) Timeline {
	if width < 1 {
		width = 1
	}
	if len(ranges) == 0 {
		today := calendar.Day(time.Now())
		return Timeline{Span: calendar.NewRange(today, today), Width: width}
	}
	span := ranges[0]
	for _, r := range ranges[1:] {
		span.Start = calendar.Min(span.Start, r.Start)
		span.End = calendar.Max(span.End, r.End)
	}
	return Timeline{
		Span:  calendar.NewRange(calendar.AddDays(span.Start, -1), calendar.AddDays(span.End, 1)),
		Width: width,
	}
}

// column returns the first column of day t.
func (tl Timeline) column(t time.Time) int {
	days := tl.Span.Days()
	idx := calendar.DaysBetween(tl.Span.Start, t)
	if idx < 0 {
		idx = 0
	}
	if idx > days {
		idx = days
	}
	return idx * tl.Width / days
}

// Bar returns the column offset and length of r. Every visible range is at
// least one column wide. A range outside the span has length 0.
func (tl Timeline) Bar(r calendar.Range) (offset, length int) {
	if !calendar.Overlaps(r, tl.Span) {
		return 0, 0
	}
	from := tl.column(r.Start)
	to := tl.column(calendar.AddDays(r.End, 1))
	if from >= tl.Width {
		from = tl.Width - 1
	}
	if to <= from {
		to = from + 1
	}
	if to > tl.Width {
		to = tl.Width
	}
	return from, to - from
}

// Marker returns the column of a single day, e.g. today.
func (tl Timeline) Marker(t time.Time) int {
	return int(calendar.PositionInRange(t, tl.Span.Start, tl.Span.End) * float64(tl.Width-1))
}

// Render draws r as a bar in the given color. Parent tasks use a lighter
// fill so their derived ranges read as summaries.
func (tl Timeline) Render(r calendar.Range, color domain.Color, parent, noColor bool) string {
	offset, length := tl.Bar(r)
	fill := "█"
	if parent {
		fill = "▬"
	}
	bar := strings.Repeat(fill, length)
	if !noColor && color.IsSet() {
		bar = lipgloss.NewStyle().Foreground(lipgloss.Color(color.Hex())).Render(bar)
	}
	return strings.Repeat(" ", offset) + bar + strings.Repeat(" ", tl.Width-offset-length)
}

// Axis renders the first and last day of the span at both ends of the
// timeline.
func (tl Timeline) Axis() string {
	left := calendar.Format(tl.Span.Start)
	right := calendar.Format(tl.Span.End)
	gap := tl.Width - len(left) - len(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

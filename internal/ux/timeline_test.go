package ux

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/felixgeelhaar/ganttline/internal/calendar"
	"github.com/felixgeelhaar/ganttline/internal/domain"
)

func rng(start, end string) calendar.Range {
	return calendar.NewRange(calendar.MustParse(start), calendar.MustParse(end))
}

func TestNewTimeline_PadsSpan(t *testing.T) {
	tl := NewTimeline([]calendar.Range{rng("2024-03-05", "2024-03-10"), rng("2024-03-01", "2024-03-03")}, 12)

	assert.Equal(t, "2024-02-29", calendar.Format(tl.Span.Start))
	assert.Equal(t, "2024-03-11", calendar.Format(tl.Span.End))
	assert.Equal(t, 12, tl.Span.Days())
}

func TestTimeline_Bar(t *testing.T) {
	tl := NewTimeline([]calendar.Range{rng("2024-03-01", "2024-03-10")}, 12)

	tests := []struct {
		name       string
		r          calendar.Range
		wantOffset int
		wantLength int
	}{
		{"whole range", rng("2024-03-01", "2024-03-10"), 1, 10},
		{"single day", rng("2024-03-04", "2024-03-04"), 4, 1},
		{"last padded day", rng("2024-03-11", "2024-03-11"), 11, 1},
		{"outside", rng("2024-04-01", "2024-04-02"), 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, length := tl.Bar(tt.r)
			assert.Equal(t, tt.wantOffset, offset)
			assert.Equal(t, tt.wantLength, length)
		})
	}
}

func TestTimeline_BarNeverVanishesWhenNarrow(t *testing.T) {
	tl := NewTimeline([]calendar.Range{rng("2024-01-01", "2024-12-31")}, 10)

	_, length := tl.Bar(rng("2024-06-01", "2024-06-01"))
	assert.Equal(t, 1, length)
}

func TestTimeline_Render(t *testing.T) {
	tl := NewTimeline([]calendar.Range{rng("2024-03-01", "2024-03-10")}, 12)

	leaf := tl.Render(rng("2024-03-01", "2024-03-03"), domain.ColorBlue, false, true)
	assert.Equal(t, " ███        ", leaf)

	parent := tl.Render(rng("2024-03-01", "2024-03-03"), domain.ColorNone, true, true)
	assert.Equal(t, " ▬▬▬        ", parent)

	colored := tl.Render(rng("2024-03-01", "2024-03-03"), domain.ColorBlue, false, false)
	assert.Contains(t, colored, "███")
	assert.GreaterOrEqual(t, utf8.RuneCountInString(colored), 12)
}

func TestTimeline_Marker(t *testing.T) {
	tl := NewTimeline([]calendar.Range{rng("2024-03-01", "2024-03-10")}, 12)

	assert.Equal(t, 0, tl.Marker(calendar.MustParse("2024-01-01")))
	assert.Equal(t, 11, tl.Marker(calendar.MustParse("2025-01-01")))
}

func TestTimeline_Axis(t *testing.T) {
	tl := NewTimeline([]calendar.Range{rng("2024-03-01", "2024-03-10")}, 30)

	axis := tl.Axis()
	assert.Len(t, axis, 30)
	assert.True(t, strings.HasPrefix(axis, "2024-02-29"))
	assert.True(t, strings.HasSuffix(axis, "2024-03-11"))

	narrow := NewTimeline([]calendar.Range{rng("2024-03-01", "2024-03-10")}, 8)
	assert.Equal(t, "2024-02-29", narrow.Axis())
}

package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDay_DropsTimeOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	in := time.Date(2024, time.January, 5, 23, 59, 0, 0, loc)

	got := Day(in)

	assert.Equal(t, time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC), got)
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{"same day", Date(2024, 1, 1), Date(2024, 1, 1), 0},
		{"forward", Date(2024, 1, 1), Date(2024, 1, 8), 7},
		{"backward", Date(2024, 1, 8), Date(2024, 1, 1), -7},
		{"leap day", Date(2024, 2, 28), Date(2024, 3, 1), 2},
		{"mixed time of day", time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC), time.Date(2024, 1, 2, 1, 0, 0, 0, time.UTC), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBetween(tt.a, tt.b))
		})
	}
}

func TestAddDays_AcrossMonthAndYear(t *testing.T) {
	assert.Equal(t, Date(2024, 2, 2), AddDays(Date(2024, 1, 31), 2))
	assert.Equal(t, Date(2023, 12, 31), AddDays(Date(2024, 1, 1), -1))
}

func TestDurationDays_IsInclusive(t *testing.T) {
	assert.Equal(t, 1, DurationDays(Date(2024, 1, 1), Date(2024, 1, 1)))
	assert.Equal(t, 5, DurationDays(Date(2024, 1, 1), Date(2024, 1, 5)))
}

func TestOverlaps(t *testing.T) {
	jan := NewRange(Date(2024, 1, 1), Date(2024, 1, 31))

	tests := []struct {
		name  string
		other Range
		want  bool
	}{
		{"touching at end", NewRange(Date(2024, 1, 31), Date(2024, 2, 5)), true},
		{"touching at start", NewRange(Date(2023, 12, 1), Date(2024, 1, 1)), true},
		{"inside", NewRange(Date(2024, 1, 10), Date(2024, 1, 11)), true},
		{"after", NewRange(Date(2024, 2, 1), Date(2024, 2, 5)), false},
		{"before", NewRange(Date(2023, 12, 1), Date(2023, 12, 31)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(jan, tt.other))
			assert.Equal(t, tt.want, Overlaps(tt.other, jan))
		})
	}
}

func TestPositionInRange(t *testing.T) {
	start, end := Date(2024, 1, 1), Date(2024, 1, 11)

	assert.InDelta(t, 0.0, PositionInRange(start, start, end), 1e-9)
	assert.InDelta(t, 0.5, PositionInRange(Date(2024, 1, 6), start, end), 1e-9)
	assert.InDelta(t, 1.0, PositionInRange(end, start, end), 1e-9)
	assert.InDelta(t, 0.0, PositionInRange(Date(2023, 12, 1), start, end), 1e-9)
	assert.InDelta(t, 1.0, PositionInRange(Date(2024, 3, 1), start, end), 1e-9)
	assert.InDelta(t, 0.0, PositionInRange(start, start, start), 1e-9)
}

func TestRange_ContainsAndShift(t *testing.T) {
	r := NewRange(Date(2024, 1, 1), Date(2024, 1, 5))

	assert.True(t, r.Contains(Date(2024, 1, 5)))
	assert.False(t, r.Contains(Date(2024, 1, 6)))

	shifted := r.Shift(7)
	assert.Equal(t, Date(2024, 1, 8), shifted.Start)
	assert.Equal(t, Date(2024, 1, 12), shifted.End)
	assert.Equal(t, r.Days(), shifted.Days())
	assert.True(t, shifted.Shift(-7).Equal(r))
	assert.False(t, shifted.Equal(r))
}

func TestParseFormat(t *testing.T) {
	d, err := Parse("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, Date(2024, 2, 29), d)
	assert.Equal(t, "2024-02-29", Format(d))

	_, err = Parse("2024-02-30")
	assert.Error(t, err)
	_, err = Parse("29/02/2024")
	assert.Error(t, err)
}

func TestAddDays_InverseOfDaysBetween(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := Date(2000, 1, 1).AddDate(0, 0, rapid.IntRange(0, 20000).Draw(t, "base"))
		n := rapid.IntRange(-5000, 5000).Draw(t, "n")

		if got := DaysBetween(base, AddDays(base, n)); got != n {
			t.Fatalf("DaysBetween(base, AddDays(base, %d)) = %d", n, got)
		}
	})
}

// Package calendar provides day-granular date arithmetic.
//
// Every value returned by this package is normalized to midnight UTC of its
// calendar day, so comparisons never see a time-of-day component.
package calendar

import (
	"fmt"
	"time"
)

// Layout is the ISO-8601 calendar date layout used for storage and input.
const Layout = "2006-01-02"

const day = 24 * time.Hour

// Day drops the time-of-day from t. The calendar date is taken in t's own
// location and returned at 00:00 UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Date builds a normalized date from its parts.
func Date(year int, month time.Month, dayOfMonth int) time.Time {
	return time.Date(year, month, dayOfMonth, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole days from a to b.
// The result is negative when b precedes a.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)) / day)
}

// AddDays shifts t by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return Day(t).AddDate(0, 0, n)
}

// DurationDays is the inclusive length of the range [start, end] in days.
func DurationDays(start, end time.Time) int {
	return DaysBetween(start, end) + 1
}

// Range is an inclusive span of calendar days.
type Range struct {
	Start time.Time
	End   time.Time
}

// NewRange returns a normalized range.
func NewRange(start, end time.Time) Range {
	return Range{Start: Day(start), End: Day(end)}
}

// Days is the inclusive length of the range.
func (r Range) Days() int {
	return DurationDays(r.Start, r.End)
}

// Contains reports whether t falls inside the range, ends included.
func (r Range) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(Day(r.Start)) && !d.After(Day(r.End))
}

// Equal reports whether both ranges cover the same days.
func (r Range) Equal(o Range) bool {
	return Day(r.Start).Equal(Day(o.Start)) && Day(r.End).Equal(Day(o.End))
}

// Shift moves both ends of the range by n days.
func (r Range) Shift(n int) Range {
	return Range{Start: AddDays(r.Start, n), End: AddDays(r.End, n)}
}

// String renders the range as "start → end".
func (r Range) String() string {
	return fmt.Sprintf("%s → %s", Format(r.Start), Format(r.End))
}

// Overlaps reports whether two ranges share at least one day.
func Overlaps(a, b Range) bool {
	return !Day(a.Start).After(Day(b.End)) && !Day(b.Start).After(Day(a.End))
}

// PositionInRange returns how far date lies along [start, end] as a fraction
// in [0, 1]. Dates outside the range are clamped. A single-day range puts its
// only day at 0.
func PositionInRange(date, start, end time.Time) float64 {
	total := DaysBetween(start, end)
	if total <= 0 {
		return 0
	}
	pos := float64(DaysBetween(start, date)) / float64(total)
	switch {
	case pos < 0:
		return 0
	case pos > 1:
		return 1
	default:
		return pos
	}
}

// Min returns the earlier of two dates.
func Min(a, b time.Time) time.Time {
	if Day(b).Before(Day(a)) {
		return Day(b)
	}
	return Day(a)
}

// Max returns the later of two dates.
func Max(a, b time.Time) time.Time {
	if Day(b).After(Day(a)) {
		return Day(b)
	}
	return Day(a)
}

// Parse reads an ISO-8601 calendar date.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Day(t), nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) time.Time {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Format renders t as an ISO-8601 calendar date.
func Format(t time.Time) string {
	return Day(t).Format(Layout)
}

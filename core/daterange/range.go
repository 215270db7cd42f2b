package daterange

import "time"

// Range is an inclusive interval of calendar dates.
// Both ends are midnight UTC; only the date part is meaningful.
type Range struct {
	Start time.Time
	End   time.Time
}

// IsZero reports whether the range is unset.
func (r Range) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Format renders both ends with the given layout joined by " - ".
func (r Range) Format(layout string) string {
	return r.Start.Format(layout) + " - " + r.End.Format(layout)
}

// String implements fmt.Stringer using ISO dates.
func (r Range) String() string {
	return r.Format(time.DateOnly)
}

// Date returns the calendar date y-m-d as midnight UTC.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// dateOf strips the clock part of t, keeping its calendar date in t's location.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// daysIn returns the number of days in the given month, honoring leap years.
func daysIn(year int, month time.Month) int {
	return Date(year, month+1, 0).Day()
}

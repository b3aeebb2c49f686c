package domain

import "time"

// TimeWindow is the half-open interval [Start, End) of one local calendar
// day. End is always Start plus exactly 24 hours; DST shifts are not
// compensated.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// Today returns the window covering the current calendar day in loc.
func Today(now time.Time, loc *time.Location) TimeWindow {
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return TimeWindow{Start: start, End: start.Add(24 * time.Hour)}
}

// Overlaps reports whether the event interval [start, end) intersects the
// window. An event ending exactly at Start, or starting exactly at End, is
// outside.
func (w TimeWindow) Overlaps(start, end time.Time) bool {
	return end.After(w.Start) && start.Before(w.End)
}

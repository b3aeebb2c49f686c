package domain

import (
	"fmt"
	"time"
)

// RawEvent is a calendar event exactly as a source produced it. Sources
// parse timestamps that carry no zone or offset as UTC, so every non-zero
// time here is an absolute instant; a zero time means the field was absent
// upstream.
type RawEvent struct {
	Begin    time.Time
	End      time.Time
	Name     string
	AllDay   bool
	Location string
}

// Event is a normalized calendar event with both endpoints converted to
// the display timezone.
type Event struct {
	Start    time.Time
	End      time.Time
	Name     string
	AllDay   bool
	Location string
}

// Normalize converts a raw event into the display timezone. Events without
// a begin time are dropped (ok is false). A missing end time is substituted
// with the begin time, which renders as a zero-minute event.
func Normalize(raw RawEvent, loc *time.Location) (Event, bool) {
	if raw.Begin.IsZero() {
		return Event{}, false
	}

	end := raw.End
	if end.IsZero() {
		end = raw.Begin
	}

	return Event{
		Start:    raw.Begin.In(loc),
		End:      end.In(loc),
		Name:     raw.Name,
		AllDay:   raw.AllDay,
		Location: raw.Location,
	}, true
}

// FormatTime returns the start time for display
func (e Event) FormatTime() string {
	return e.Start.Format("15:04")
}

// DurationLabel returns the event length as "2h 15m", or just "45m" for
// events shorter than an hour. Minutes are truncated, not rounded.
func (e Event) DurationLabel() string {
	mins := int(e.End.Sub(e.Start) / time.Minute)
	hh, mm := mins/60, mins%60
	if hh > 0 {
		return fmt.Sprintf("%dh %dm", hh, mm)
	}
	return fmt.Sprintf("%dm", mm)
}

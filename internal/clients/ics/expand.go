package ics

import (
	"time"

	"github.com/emersion/go-ical"
	"github.com/teambition/rrule-go"

	"github.com/dgel92/Notificacion-Temperatura/internal/domain"
)

// ExpandCalendars returns the occurrences in [from, to) of the events in
// already decoded calendars. Sources that receive calendar data outside
// the feed client, like CalDAV, share the pipeline through here.
func ExpandCalendars(cals []*ical.Calendar, from, to time.Time) []domain.RawEvent {
	return expandEvents(collectEvents(cals), from, to)
}

// expandEvents turns parsed events into concrete occurrences relevant to
// [from, to). Non-recurring events and overrides pass through unchanged;
// recurring events are expanded from their RRULE minus EXDATEs, skipping
// instances replaced by a RECURRENCE-ID override. Exclusion and override
// matching compares instants, so zoned and UTC timestamps mix freely.
func expandEvents(events []parsedEvent, from, to time.Time) []domain.RawEvent {
	overrides := make(map[string][]parsedEvent)
	for _, ev := range events {
		if ev.recurrenceID != nil && ev.uid != "" {
			overrides[ev.uid] = append(overrides[ev.uid], ev)
		}
	}

	var out []domain.RawEvent
	for _, ev := range events {
		if ev.recurrenceID != nil || ev.rrule == "" {
			out = append(out, ev.event)
			continue
		}
		out = append(out, expandRecurring(ev, overrides[ev.uid], from, to)...)
	}
	return out
}

func expandRecurring(ev parsedEvent, overrides []parsedEvent, from, to time.Time) []domain.RawEvent {
	r, err := rrule.StrToRRule(ev.rrule)
	if err != nil {
		// A rule we cannot read still describes a real first occurrence.
		return []domain.RawEvent{ev.event}
	}
	r.DTStart(ev.event.Begin)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.exDates {
		set.ExDate(ex)
	}

	dur := ev.event.End.Sub(ev.event.Begin)
	if dur < 0 {
		dur = 0
	}

	// An occurrence that started up to dur before the window can still
	// reach into it.
	starts := set.Between(from.Add(-dur), to, true)

	var out []domain.RawEvent
	for _, start := range starts {
		if isOverridden(overrides, start) {
			continue
		}
		occ := ev.event
		occ.Begin = start
		occ.End = start.Add(dur)
		out = append(out, occ)
	}
	return out
}

func isOverridden(overrides []parsedEvent, start time.Time) bool {
	for _, ov := range overrides {
		if ov.recurrenceID != nil && ov.recurrenceID.Equal(start) {
			return true
		}
	}
	return false
}

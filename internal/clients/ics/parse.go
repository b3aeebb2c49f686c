package ics

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/dgel92/Notificacion-Temperatura/internal/domain"
)

// parsedEvent is one VEVENT with the recurrence properties still attached.
// recurrenceID being non-nil marks the event as an override for a single
// instance of a recurring series.
type parsedEvent struct {
	event        domain.RawEvent
	uid          string
	rrule        string
	exDates      []time.Time
	recurrenceID *time.Time
}

// parseFeed decodes every VCALENDAR in the payload and collects its events.
func parseFeed(body []byte) ([]parsedEvent, error) {
	dec := ical.NewDecoder(bytes.NewReader(body))

	var cals []*ical.Calendar
	for {
		cal, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode calendar: %w", err)
		}
		cals = append(cals, cal)
	}

	return collectEvents(cals), nil
}

// collectEvents gathers the VEVENTs of decoded calendars. Events that
// cannot be parsed are skipped.
func collectEvents(cals []*ical.Calendar) []parsedEvent {
	var events []parsedEvent
	for _, cal := range cals {
		for _, comp := range cal.Children {
			if comp.Name != ical.CompEvent {
				continue
			}
			ev, ok := parseEvent(comp)
			if !ok {
				continue
			}
			events = append(events, ev)
		}
	}
	return events
}

func parseEvent(comp *ical.Component) (parsedEvent, bool) {
	var out parsedEvent

	if prop := comp.Props.Get(ical.PropUID); prop != nil {
		out.uid = prop.Value
	}
	if prop := comp.Props.Get(ical.PropSummary); prop != nil {
		out.event.Name = prop.Value
	}
	if prop := comp.Props.Get(ical.PropLocation); prop != nil {
		out.event.Location = prop.Value
	}

	// An event without a usable start cannot be placed in any window.
	start := comp.Props.Get(ical.PropDateTimeStart)
	if start == nil {
		return out, false
	}
	t, err := propTime(start)
	if err != nil {
		return out, false
	}
	out.event.Begin = t

	// All-day events carry VALUE=DATE, though some feeds only signal it
	// through the bare YYYYMMDD value shape.
	if start.Params.Get(ical.ParamValue) == string(ical.ValueDate) || !strings.Contains(start.Value, "T") {
		out.event.AllDay = true
	}

	if prop := comp.Props.Get(ical.PropDateTimeEnd); prop != nil {
		if t, err := propTime(prop); err == nil {
			out.event.End = t
		}
	}
	if out.event.AllDay && out.event.End.IsZero() {
		out.event.End = out.event.Begin.Add(24 * time.Hour)
	}

	if prop := comp.Props.Get(ical.PropRecurrenceRule); prop != nil {
		out.rrule = prop.Value
	}

	// One EXDATE line may carry several comma separated values; they all
	// share the line's TZID parameter.
	for _, prop := range comp.Props[ical.PropExceptionDates] {
		out.exDates = append(out.exDates, exDateTimes(prop)...)
	}

	if prop := comp.Props.Get(ical.PropRecurrenceID); prop != nil {
		if t, err := propTime(prop); err == nil {
			out.recurrenceID = &t
		}
	}

	return out, true
}

// exDateTimes reads the values of one EXDATE property. Zone-less values are
// read in the property's TZID location when it names one, as UTC otherwise,
// so they land on the same instants as the series starts they exclude.
func exDateTimes(prop ical.Prop) []time.Time {
	loc := time.UTC
	if tzid := prop.Params.Get(ical.ParamTimezoneID); tzid != "" {
		if l, err := time.LoadLocation(tzid); err == nil {
			loc = l
		}
	}

	var out []time.Time
	for _, part := range strings.Split(prop.Value, ",") {
		if t, err := parseICSTimeIn(part, loc); err == nil {
			out = append(out, t)
		}
	}
	return out
}

// propTime reads a date or date-time property. Some feeds omit the
// VALUE=DATE parameter on date-only values, which the library then refuses
// to parse as a date-time; those fall through to the shape based parser.
func propTime(prop *ical.Prop) (time.Time, error) {
	if t, err := prop.DateTime(time.UTC); err == nil {
		return t, nil
	}
	return parseICSTime(prop.Value)
}

// parseICSTime parses the DATE and DATE-TIME shapes carried by property
// values. Values without zone information are read as UTC.
func parseICSTime(v string) (time.Time, error) {
	return parseICSTimeIn(v, time.UTC)
}

func parseICSTimeIn(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, errors.New("empty time value")
	}

	if strings.HasSuffix(v, "Z") {
		return time.Parse("20060102T150405Z", v)
	}
	if strings.Contains(v, "T") {
		return time.ParseInLocation("20060102T150405", v, loc)
	}
	return time.ParseInLocation("20060102", v, loc)
}

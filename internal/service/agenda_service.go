package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/dgel92/Notificacion-Temperatura/internal/domain"
)

// EventSource produces the raw events of one calendar that may intersect
// a time window.
type EventSource interface {
	Name() string
	Events(ctx context.Context, from, to time.Time) ([]domain.RawEvent, error)
}

// AgendaService collects today's events across all configured calendar
// sources and renders the agenda block of the briefing.
type AgendaService struct {
	sources  []EventSource
	timezone *time.Location
}

// NewAgendaService creates a new agenda service.
func NewAgendaService(sources []EventSource, tz *time.Location) *AgendaService {
	if tz == nil {
		tz = time.UTC
	}
	return &AgendaService{
		sources:  sources,
		timezone: tz,
	}
}

// CollectToday returns the events intersecting the current local day,
// sorted by start time. A failing source is logged and skipped so one bad
// calendar never empties the agenda of the others.
func (s *AgendaService) CollectToday(ctx context.Context, now time.Time) []domain.Event {
	window := domain.Today(now, s.timezone)

	var events []domain.Event
	for _, src := range s.sources {
		raw, err := src.Events(ctx, window.Start, window.End)
		if err != nil {
			log.Printf("Error reading calendar source %s: %v", src.Name(), err)
			continue
		}

		for _, r := range raw {
			ev, ok := domain.Normalize(r, s.timezone)
			if !ok {
				continue
			}
			if !window.Overlaps(ev.Start, ev.End) {
				continue
			}
			events = append(events, ev)
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})

	return events
}

// Format renders the agenda block.
func (s *AgendaService) Format(events []domain.Event) string {
	var sb strings.Builder
	sb.WriteString("🗓️ *Agenda de hoy*\n")

	if len(events) == 0 {
		sb.WriteString("(No hay eventos)\n")
		return sb.String()
	}

	for _, ev := range events {
		if ev.AllDay {
			sb.WriteString(fmt.Sprintf("• (Todo el día) — *%s*\n", ev.Name))
			continue
		}

		line := fmt.Sprintf("%s (%s) — *%s*", ev.FormatTime(), ev.DurationLabel(), ev.Name)
		if ev.Location != "" {
			line += fmt.Sprintf(" @ %s", ev.Location)
		}
		sb.WriteString(line + "\n")
	}

	return sb.String()
}

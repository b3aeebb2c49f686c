package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dgel92/Notificacion-Temperatura/internal/clients/openmeteo"
)

const (
	rainProbabilityThreshold = 50

	umbrellaBanner = "⚠️ *Probabilidad alta de lluvia (≥50%)*. Considerá llevar paraguas.\n\n"
)

// Sender delivers a formatted message to the notification channel.
type Sender interface {
	SendMessage(text string) error
}

// BriefingService assembles the daily briefing and hands it to the sender.
type BriefingService struct {
	weather *WeatherService
	agenda  *AgendaService
	sender  Sender
}

// NewBriefingService creates a new briefing service.
func NewBriefingService(weather *WeatherService, agenda *AgendaService, sender Sender) *BriefingService {
	return &BriefingService{
		weather: weather,
		agenda:  agenda,
		sender:  sender,
	}
}

// Compose builds the full briefing text. A weather failure aborts the
// briefing; the agenda degrades to its placeholder on its own and never
// fails the run.
func (s *BriefingService) Compose(ctx context.Context, now time.Time) (string, error) {
	daily, cityShown, err := s.weather.Forecast(ctx)
	if err != nil {
		return "", err
	}

	events := s.agenda.CollectToday(ctx, now)

	msg := s.weather.Format(cityShown, daily) + "\n\n" + s.agenda.Format(events)
	if umbrellaWarning(daily) {
		msg = umbrellaBanner + msg
	}
	return msg, nil
}

// Run composes and sends one briefing.
func (s *BriefingService) Run(ctx context.Context, now time.Time) error {
	msg, err := s.Compose(ctx, now)
	if err != nil {
		return err
	}

	if err := s.sender.SendMessage(msg); err != nil {
		return fmt.Errorf("send briefing: %w", err)
	}
	return nil
}

// umbrellaWarning reports whether today or tomorrow has a known rain
// probability at or above the threshold. Unknown values never trigger it.
func umbrellaWarning(daily openmeteo.Daily) bool {
	for i := 0; i < 2 && i < len(daily.PrecipProbMax); i++ {
		if pp := daily.PrecipProbMax[i]; pp != nil && *pp >= rainProbabilityThreshold {
			return true
		}
	}
	return false
}

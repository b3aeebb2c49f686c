package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Briefing runs one briefing cycle for the given trigger time.
type Briefing interface {
	Run(ctx context.Context, now time.Time) error
}

// ErrorReporter notifies the channel about a failed run.
type ErrorReporter interface {
	ReportError(err error)
}

type Scheduler struct {
	cron      *cron.Cron
	briefing  Briefing
	timezone  *time.Location
	dailyTime string
	reporter  ErrorReporter
}

func New(briefing Briefing, tz *time.Location, dailyTime string) *Scheduler {
	if tz == nil {
		tz = time.UTC
	}
	return &Scheduler{
		cron:      cron.New(cron.WithLocation(tz)),
		briefing:  briefing,
		timezone:  tz,
		dailyTime: dailyTime,
	}
}

func (s *Scheduler) SetReporter(r ErrorReporter) {
	s.reporter = r
}

// Start registers the daily job and blocks until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	spec, err := cronSpec(s.dailyTime)
	if err != nil {
		return err
	}

	if _, err := s.cron.AddFunc(spec, func() { s.runBriefing(ctx) }); err != nil {
		return fmt.Errorf("add daily briefing: %w", err)
	}

	s.cron.Start()
	log.Printf("Scheduler started (TZ: %s, daily: %s)", s.timezone, s.dailyTime)

	<-ctx.Done()
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Scheduler stopped")
}

func (s *Scheduler) runBriefing(ctx context.Context) {
	if err := s.briefing.Run(ctx, time.Now()); err != nil {
		log.Printf("Briefing run failed: %v", err)
		if s.reporter != nil {
			s.reporter.ReportError(err)
		}
	}
}

// cronSpec converts a wall clock "HH:MM" into a five field cron spec.
func cronSpec(dailyTime string) (string, error) {
	t, err := time.Parse("15:04", dailyTime)
	if err != nil {
		return "", fmt.Errorf("invalid daily time %q: %w", dailyTime, err)
	}
	return fmt.Sprintf("%d %d * * *", t.Minute(), t.Hour()), nil
}

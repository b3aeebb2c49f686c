package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dgel92/Notificacion-Temperatura/config"
	"github.com/dgel92/Notificacion-Temperatura/internal/bot"
	"github.com/dgel92/Notificacion-Temperatura/internal/clients/caldav"
	"github.com/dgel92/Notificacion-Temperatura/internal/clients/ics"
	"github.com/dgel92/Notificacion-Temperatura/internal/clients/openmeteo"
	"github.com/dgel92/Notificacion-Temperatura/internal/scheduler"
	"github.com/dgel92/Notificacion-Temperatura/internal/service"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	envFile := flag.String("env", ".env", "path to the env file")
	daemon := flag.Bool("daemon", false, "keep running and send the briefing on schedule")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Failed to load %s: %v", *envFile, err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	tgBot, err := bot.New(cfg.TelegramToken, cfg.ChatID)
	if err != nil {
		log.Fatalf("Failed to init bot: %v", err)
	}

	weatherSvc := service.NewWeatherService(openmeteo.NewClient("", ""), cfg.City, cfg.Latitude, cfg.Longitude, cfg.Timezone)
	agendaSvc := service.NewAgendaService(buildSources(cfg), cfg.Timezone)
	briefingSvc := service.NewBriefingService(weatherSvc, agendaSvc, tgBot)

	if !*daemon {
		if err := briefingSvc.Run(context.Background(), time.Now()); err != nil {
			tgBot.ReportError(err)
			log.Fatalf("Briefing failed: %v", err)
		}
		log.Println("Briefing sent")
		return
	}

	sched := scheduler.New(briefingSvc, cfg.Timezone, cfg.DailyTime)
	sched.SetReporter(tgBot)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := sched.Start(ctx); err != nil {
			log.Printf("Scheduler error: %v", err)
		}
	}()

	log.Println("climabot started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")

	cancel()
	sched.Stop()

	log.Println("climabot stopped")
}

func buildSources(cfg *config.Config) []service.EventSource {
	icsClient := ics.NewClient()
	var sources []service.EventSource
	for _, u := range cfg.CalendarURLs {
		sources = append(sources, ics.NewSource(icsClient, u))
	}
	if cfg.CalDAV.Enabled() {
		sources = append(sources, caldav.NewClient(cfg.CalDAV.URL, cfg.CalDAV.Username, cfg.CalDAV.Password, cfg.CalDAV.CalendarPath))
	}
	return sources
}

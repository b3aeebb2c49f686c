package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	TelegramToken string
	ChatID        int64
	City          string // kept empty when unset; the weather service decides the fallback
	Timezone      *time.Location
	CalendarURLs  []string
	Latitude      *float64
	Longitude     *float64
	CalDAV        CalDAVConfig
	DailyTime     string
}

// CalDAVConfig holds the optional CalDAV account. The account is used only
// when Enabled returns true. URL may stay empty (the client falls back to
// iCloud) and so may CalendarPath, in which case the client discovers the
// calendars of the account.
type CalDAVConfig struct {
	URL          string
	Username     string
	Password     string
	CalendarPath string
}

// Enabled reports whether the account has credentials.
func (c CalDAVConfig) Enabled() bool {
	return c.Username != "" && c.Password != ""
}

func Load() (*Config, error) {
	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}

	chatID, err := strconv.ParseInt(os.Getenv("CHAT_ID"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("CHAT_ID is required and must be a number")
	}

	tzName := os.Getenv("TZ_NAME")
	if tzName == "" {
		tzName = "America/Argentina/Cordoba"
	}
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid TZ_NAME: %w", err)
	}

	lat, lon, err := loadCoordinates()
	if err != nil {
		return nil, err
	}

	dailyTime := os.Getenv("DAILY_TIME")
	if dailyTime == "" {
		dailyTime = "07:30"
	}
	if _, err := time.Parse("15:04", dailyTime); err != nil {
		return nil, fmt.Errorf("invalid DAILY_TIME %q: must be HH:MM", dailyTime)
	}

	return &Config{
		TelegramToken: token,
		ChatID:        chatID,
		City:          os.Getenv("CITY"),
		Timezone:      tz,
		CalendarURLs:  SplitCalendarURLs(os.Getenv("ICAL_URLS")),
		Latitude:      lat,
		Longitude:     lon,
		CalDAV: CalDAVConfig{
			URL:          os.Getenv("CALDAV_URL"),
			Username:     os.Getenv("CALDAV_USERNAME"),
			Password:     os.Getenv("CALDAV_PASSWORD"),
			CalendarPath: os.Getenv("CALDAV_CALENDAR"),
		},
		DailyTime: dailyTime,
	}, nil
}

// loadCoordinates reads LAT and LON. Coordinates take effect only when both
// are present; a single one is ignored and the city is geocoded instead.
func loadCoordinates() (*float64, *float64, error) {
	latStr, lonStr := os.Getenv("LAT"), os.Getenv("LON")
	if latStr == "" || lonStr == "" {
		return nil, nil, nil
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid LAT: %w", err)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid LON: %w", err)
	}
	return &lat, &lon, nil
}

// SplitCalendarURLs parses a comma separated list of calendar feed URLs.
// Entries are trimmed of whitespace and surrounding quotes, empty entries
// are dropped.
func SplitCalendarURLs(raw string) []string {
	var urls []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		part = strings.Trim(part, `"'`)
		if part == "" {
			continue
		}
		urls = append(urls, part)
	}
	return urls
}

package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dgel92/Notificacion-Temperatura/internal/clients/openmeteo"
)

const defaultCity = "Agua de Oro, Cordoba, Argentina"

var dayLabels = []string{"Hoy", "Mañana"}

// WeatherService resolves the configured location and renders the two day
// forecast block of the briefing.
type WeatherService struct {
	client    *openmeteo.Client
	city      string
	latitude  *float64
	longitude *float64
	timezone  *time.Location
}

// NewWeatherService creates a new weather service. Explicit coordinates
// take priority over the city; with no coordinates the city is geocoded,
// falling back to the default city when none is configured.
func NewWeatherService(client *openmeteo.Client, city string, lat, lon *float64, tz *time.Location) *WeatherService {
	if tz == nil {
		tz = time.UTC
	}
	return &WeatherService{
		client:    client,
		city:      city,
		latitude:  lat,
		longitude: lon,
		timezone:  tz,
	}
}

// Forecast fetches the daily forecast for the configured location. The
// returned name is what the briefing header shows for the location.
func (s *WeatherService) Forecast(ctx context.Context) (openmeteo.Daily, string, error) {
	lat, lon, cityShown, err := s.resolveLocation(ctx)
	if err != nil {
		return openmeteo.Daily{}, "", err
	}

	daily, err := s.client.DailyForecast(ctx, lat, lon, s.timezone.String())
	if err != nil {
		return openmeteo.Daily{}, "", fmt.Errorf("fetch weather: %w", err)
	}

	return daily, cityShown, nil
}

func (s *WeatherService) resolveLocation(ctx context.Context) (float64, float64, string, error) {
	if s.latitude != nil && s.longitude != nil {
		cityShown := s.city
		if cityShown == "" {
			cityShown = fmt.Sprintf("%.4f,%.4f", *s.latitude, *s.longitude)
		}
		return *s.latitude, *s.longitude, cityShown, nil
	}

	city := s.city
	if city == "" {
		city = defaultCity
	}
	res, err := s.client.Geocode(ctx, city)
	if err != nil {
		return 0, 0, "", fmt.Errorf("geocode city: %w", err)
	}
	return res.Latitude, res.Longitude, res.Name, nil
}

// Format renders the weather block. Each day gets its own paragraph; a day
// with any value missing is left out entirely.
func (s *WeatherService) Format(cityShown string, daily openmeteo.Daily) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🌦️ *Clima — %s*", cityShown))

	for i, label := range dayLabels {
		day, ok := dayAt(daily, i)
		if !ok {
			continue
		}
		desc, emoji := describeWeatherCode(day.code)
		sb.WriteString(fmt.Sprintf("\n\n*%s* — %s %s\n", label, emoji, desc))
		sb.WriteString(fmt.Sprintf("Temp: %.1f°C – %.1f°C • Precip.: %s%%\n", day.tempMin, day.tempMax, formatProbability(day.precipProb)))
		sb.WriteString(fmt.Sprintf("Amanecer: %s  Atardecer: %s", day.sunrise, day.sunset))
	}

	return sb.String()
}

type weatherDay struct {
	tempMin    float64
	tempMax    float64
	precipProb float64
	sunrise    string
	sunset     string
	code       int
}

// dayAt pulls one day out of the parallel forecast arrays. ok is false
// when any field is absent for that day.
func dayAt(daily openmeteo.Daily, i int) (weatherDay, bool) {
	if i >= len(daily.TemperatureMin) || i >= len(daily.TemperatureMax) ||
		i >= len(daily.PrecipProbMax) || i >= len(daily.WeatherCode) ||
		i >= len(daily.Sunrise) || i >= len(daily.Sunset) {
		return weatherDay{}, false
	}

	tempMin, tempMax := daily.TemperatureMin[i], daily.TemperatureMax[i]
	precipProb, code := daily.PrecipProbMax[i], daily.WeatherCode[i]
	if tempMin == nil || tempMax == nil || precipProb == nil || code == nil {
		return weatherDay{}, false
	}
	if daily.Sunrise[i] == "" || daily.Sunset[i] == "" {
		return weatherDay{}, false
	}

	return weatherDay{
		tempMin:    *tempMin,
		tempMax:    *tempMax,
		precipProb: *precipProb,
		sunrise:    clockPart(daily.Sunrise[i]),
		sunset:     clockPart(daily.Sunset[i]),
		code:       *code,
	}, true
}

// clockPart extracts HH:MM from an ISO local timestamp like
// "2024-03-15T07:12".
func clockPart(s string) string {
	if len(s) <= 5 {
		return s
	}
	return s[len(s)-5:]
}

// formatProbability renders probabilities the way the API sends them,
// whole numbers without a decimal part.
func formatProbability(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// wmoDescriptions maps WMO weather interpretation codes to a Spanish
// description and icon.
var wmoDescriptions = map[int]struct{ desc, emoji string }{
	0:  {"Despejado", "☀️"},
	1:  {"Mayormente despejado", "🌤️"},
	2:  {"Parcialmente nublado", "⛅"},
	3:  {"Nublado", "☁️"},
	45: {"Niebla", "🌫️"},
	48: {"Niebla escarchada", "🌫️"},
	51: {"Llovizna ligera", "🌦️"},
	53: {"Llovizna", "🌦️"},
	55: {"Llovizna fuerte", "🌧️"},
	61: {"Lluvia ligera", "🌧️"},
	63: {"Lluvia", "🌧️"},
	65: {"Lluvia fuerte", "🌧️"},
	71: {"Nieve ligera", "🌨️"},
	73: {"Nieve", "🌨️"},
	75: {"Nieve fuerte", "❄️"},
	80: {"Chubascos", "🌧️"},
	81: {"Chubascos", "🌧️"},
	82: {"Chubascos fuertes", "⛈️"},
	95: {"Tormentas", "⛈️"},
	96: {"Tormentas con granizo", "⛈️"},
	99: {"Tormentas con granizo", "⛈️"},
}

// describeWeatherCode returns empty strings for codes outside the table,
// which render as a day without a description.
func describeWeatherCode(code int) (string, string) {
	d, ok := wmoDescriptions[code]
	if !ok {
		return "", ""
	}
	return d.desc, d.emoji
}

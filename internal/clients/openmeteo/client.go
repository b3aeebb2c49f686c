package openmeteo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	ForecastURL = "https://api.open-meteo.com/v1/forecast"
	GeocodeURL  = "https://geocoding-api.open-meteo.com/v1/search"
)

// Client is an Open-Meteo API client. Both the forecast and the geocoding
// endpoints are keyless.
type Client struct {
	forecastURL string
	geocodeURL  string
	httpClient  *http.Client
}

// NewClient creates a new Open-Meteo client. Empty URLs select the public
// endpoints.
func NewClient(forecastURL, geocodeURL string) *Client {
	if forecastURL == "" {
		forecastURL = ForecastURL
	}
	if geocodeURL == "" {
		geocodeURL = GeocodeURL
	}
	return &Client{
		forecastURL: forecastURL,
		geocodeURL:  geocodeURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Geocode resolves a city name to coordinates using the best search match.
// A result without a name falls back to the query string.
func (c *Client) Geocode(ctx context.Context, city string) (GeocodeResult, error) {
	q := url.Values{}
	q.Set("name", city)
	q.Set("count", "1")
	q.Set("language", "es")
	q.Set("format", "json")

	data, err := c.get(ctx, c.geocodeURL, q)
	if err != nil {
		return GeocodeResult{}, err
	}

	var resp geocodeResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return GeocodeResult{}, fmt.Errorf("unmarshal geocode response: %w", err)
	}

	if len(resp.Results) == 0 {
		return GeocodeResult{}, errors.New("No se encontraron coordenadas")
	}

	res := resp.Results[0]
	if res.Name == "" {
		res.Name = city
	}
	return res, nil
}

// DailyForecast fetches the daily forecast for today and tomorrow. Passing
// the IANA timezone makes the API return date and clock strings already in
// local time.
func (c *Client) DailyForecast(ctx context.Context, lat, lon float64, timezone string) (Daily, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("daily", "temperature_2m_max,temperature_2m_min,precipitation_probability_max,sunrise,sunset,weathercode")
	q.Set("timezone", timezone)
	q.Set("forecast_days", "2")

	data, err := c.get(ctx, c.forecastURL, q)
	if err != nil {
		return Daily{}, err
	}

	var resp forecastResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return Daily{}, fmt.Errorf("unmarshal forecast response: %w", err)
	}

	return resp.Daily, nil
}

func (c *Client) get(ctx context.Context, rawURL string, query url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

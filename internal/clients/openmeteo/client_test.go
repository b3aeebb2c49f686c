package openmeteo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "Agua de Oro", q.Get("name"))
		assert.Equal(t, "1", q.Get("count"))
		assert.Equal(t, "es", q.Get("language"))
		assert.Equal(t, "json", q.Get("format"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"latitude":-31.0664,"longitude":-64.2966,"name":"Agua de Oro"}]}`))
	}))
	defer srv.Close()

	c := NewClient("", srv.URL)
	res, err := c.Geocode(context.Background(), "Agua de Oro")
	require.NoError(t, err)

	assert.InDelta(t, -31.0664, res.Latitude, 1e-9)
	assert.InDelta(t, -64.2966, res.Longitude, 1e-9)
	assert.Equal(t, "Agua de Oro", res.Name)
}

func TestGeocodeNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	c := NewClient("", srv.URL)
	_, err := c.Geocode(context.Background(), "Nowhere")
	require.Error(t, err)
	assert.Equal(t, "No se encontraron coordenadas", err.Error())
}

func TestGeocodeNameFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"latitude":1.5,"longitude":2.5}]}`))
	}))
	defer srv.Close()

	c := NewClient("", srv.URL)
	res, err := c.Geocode(context.Background(), "Somewhere")
	require.NoError(t, err)
	assert.Equal(t, "Somewhere", res.Name)
}

func TestGeocodeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient("", srv.URL)
	_, err := c.Geocode(context.Background(), "Anywhere")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestDailyForecast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "-31.0664", q.Get("latitude"))
		assert.Equal(t, "-64.2966", q.Get("longitude"))
		assert.Equal(t, "temperature_2m_max,temperature_2m_min,precipitation_probability_max,sunrise,sunset,weathercode", q.Get("daily"))
		assert.Equal(t, "America/Argentina/Cordoba", q.Get("timezone"))
		assert.Equal(t, "2", q.Get("forecast_days"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"daily":{
			"time":["2024-03-15","2024-03-16"],
			"temperature_2m_max":[28.4,null],
			"temperature_2m_min":[15.1,14.0],
			"precipitation_probability_max":[61,null],
			"sunrise":["2024-03-15T07:12","2024-03-16T07:13"],
			"sunset":["2024-03-15T19:45","2024-03-16T19:44"],
			"weathercode":[95,null]
		}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	daily, err := c.DailyForecast(context.Background(), -31.0664, -64.2966, "America/Argentina/Cordoba")
	require.NoError(t, err)

	require.Len(t, daily.Time, 2)
	assert.Equal(t, "2024-03-15", daily.Time[0])

	require.Len(t, daily.TemperatureMax, 2)
	require.NotNil(t, daily.TemperatureMax[0])
	assert.InDelta(t, 28.4, *daily.TemperatureMax[0], 1e-9)
	assert.Nil(t, daily.TemperatureMax[1])

	require.Len(t, daily.PrecipProbMax, 2)
	require.NotNil(t, daily.PrecipProbMax[0])
	assert.InDelta(t, 61, *daily.PrecipProbMax[0], 1e-9)
	assert.Nil(t, daily.PrecipProbMax[1])

	require.Len(t, daily.WeatherCode, 2)
	require.NotNil(t, daily.WeatherCode[0])
	assert.Equal(t, 95, *daily.WeatherCode[0])
	assert.Nil(t, daily.WeatherCode[1])

	assert.Equal(t, "2024-03-15T07:12", daily.Sunrise[0])
	assert.Equal(t, "2024-03-15T19:45", daily.Sunset[0])
}

func TestDailyForecastServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.DailyForecast(context.Background(), 0, 0, "UTC")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

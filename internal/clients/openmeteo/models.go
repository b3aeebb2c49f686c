package openmeteo

// GeocodeResult is a single match from the geocoding search endpoint.
type GeocodeResult struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name"`
}

type geocodeResponse struct {
	Results []GeocodeResult `json:"results"`
}

// Daily holds the per-day forecast arrays. All arrays are indexed by day,
// index 0 being today. Numeric values are pointers because the API reports
// null for values it cannot compute, and null has to stay distinguishable
// from zero.
type Daily struct {
	Time           []string   `json:"time"`
	TemperatureMax []*float64 `json:"temperature_2m_max"`
	TemperatureMin []*float64 `json:"temperature_2m_min"`
	PrecipProbMax  []*float64 `json:"precipitation_probability_max"`
	Sunrise        []string   `json:"sunrise"`
	Sunset         []string   `json:"sunset"`
	WeatherCode    []*int     `json:"weathercode"`
}

type forecastResponse struct {
	Daily Daily `json:"daily"`
}

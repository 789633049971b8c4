package capabilities

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	geocodeURL = "http://api.openweathermap.org/geo/1.0/direct"
	onecallURL = "https://api.openweathermap.org/data/3.0/onecall"
)

// WeatherQuery is the instruction contract of the forecast capability.
type WeatherQuery struct {
	City string `json:"city_name"`
	// CountryCode is an ISO 3166 code, e.g. "FR".
	CountryCode string `json:"country_code"`
}

// Weather fetches daily forecasts from OpenWeatherMap, geocoding the
// city first.
type Weather struct {
	apiKey     string
	geocodeURL string
	onecallURL string
	client     *http.Client
}

// WeatherOption configures the Weather capability.
type WeatherOption func(*Weather)

// WithWeatherBaseURLs overrides both API endpoints, e.g. for tests.
func WithWeatherBaseURLs(geocode, onecall string) WeatherOption {
	return func(w *Weather) {
		w.geocodeURL = geocode
		w.onecallURL = onecall
	}
}

// WithWeatherHTTPClient overrides the transport.
func WithWeatherHTTPClient(client *http.Client) WeatherOption {
	return func(w *Weather) {
		if client != nil {
			w.client = client
		}
	}
}

// NewWeather creates the forecast capability.
func NewWeather(apiKey string, opts ...WeatherOption) *Weather {
	w := &Weather{
		apiKey:     apiKey,
		geocodeURL: geocodeURL,
		onecallURL: onecallURL,
		client:     &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Invoke implements ports.Capability.
func (w *Weather) Invoke(ctx context.Context, instruction string) (string, error) {
	if w.apiKey == "" {
		return "", capError("weather_forecast", fmt.Errorf("no OpenWeatherMap key configured"))
	}

	var q WeatherQuery
	if err := parseInstruction(instruction, &q); err != nil {
		return "", capError("weather_forecast", fmt.Errorf("invalid weather query: %w", err))
	}
	if q.City == "" {
		return "", capError("weather_forecast", fmt.Errorf("city_name is required"))
	}

	lat, lon, err := w.geocode(ctx, q)
	if err != nil {
		return "", capError("weather_forecast", err)
	}

	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%f", lat))
	params.Set("lon", fmt.Sprintf("%f", lon))
	params.Set("appid", w.apiKey)
	params.Set("units", "metric")
	params.Set("exclude", "minutely,hourly,current,alerts")

	var forecast struct {
		TimezoneOffset int `json:"timezone_offset"`
		Daily          []struct {
			Dt      int64 `json:"dt"`
			Weather []struct {
				Description string `json:"description"`
			} `json:"weather"`
			Temp struct {
				Day float64 `json:"day"`
				Min float64 `json:"min"`
				Max float64 `json:"max"`
			} `json:"temp"`
		} `json:"daily"`
	}
	if err := getJSON(ctx, w.client, w.onecallURL, params, &forecast); err != nil {
		return "", capError("weather_forecast", err)
	}
	if len(forecast.Daily) == 0 {
		return "", capError("weather_forecast", fmt.Errorf("no daily forecast returned for %s", q.City))
	}

	offset := time.Duration(forecast.TimezoneOffset) * time.Second
	var lines []string
	for _, day := range forecast.Daily {
		date := time.Unix(day.Dt, 0).UTC().Add(offset).Format("2006-01-02 Monday")
		desc := ""
		if len(day.Weather) > 0 {
			desc = day.Weather[0].Description
		}
		lines = append(lines, fmt.Sprintf("%s: %s, day=%.1f°C (min=%.1f°C, max=%.1f°C)",
			date, desc, day.Temp.Day, day.Temp.Min, day.Temp.Max))
	}
	return strings.Join(lines, "\n"), nil
}

func (w *Weather) geocode(ctx context.Context, q WeatherQuery) (float64, float64, error) {
	params := url.Values{}
	params.Set("q", fmt.Sprintf("%s,%s", q.City, q.CountryCode))
	params.Set("limit", "1")
	params.Set("appid", w.apiKey)

	var places []struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	}
	if err := getJSON(ctx, w.client, w.geocodeURL, params, &places); err != nil {
		return 0, 0, err
	}
	if len(places) == 0 {
		return 0, 0, fmt.Errorf("city %q not found", q.City)
	}
	return places[0].Lat, places[0].Lon, nil
}

package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Nithin4045/weather-now/internal/weather"
	"github.com/sony/gobreaker"
)

// DefaultForecastURL is the public Open-Meteo forecast endpoint.
const DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"

// Open-Meteo reports times as ISO 8601 without seconds or zone, in UTC unless
// a timezone parameter is sent.
const openMeteoTimeLayout = "2006-01-02T15:04"

// OpenMeteoProvider implements weather.ConditionsProvider for Open-Meteo.
type OpenMeteoProvider struct {
	name    string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewOpenMeteoProvider creates a forecast client. An empty baseURL selects
// DefaultForecastURL.
func NewOpenMeteoProvider(client *http.Client, baseURL string) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = DefaultForecastURL
	}
	return &OpenMeteoProvider{
		name: "openmeteo",
		httpCfg: HTTPClientConfig{
			Client:  client,
			BaseURL: baseURL,
		},
		circuit: newCircuitBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) Current(ctx context.Context, lat, lon float64) (weather.WeatherReading, error) {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", formatCoord(lat))
		values.Set("longitude", formatCoord(lon))
		values.Set("current_weather", "true")

		u := fmt.Sprintf("%s?%s", p.httpCfg.BaseURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.WeatherReading{}, fmt.Errorf("forecast: %w", err)
	}
	defer resp.Body.Close()

	var payload struct {
		CurrentWeather *struct {
			Temperature float64 `json:"temperature"`
			WindSpeed   float64 `json:"windspeed"`
			Time        string  `json:"time"`
		} `json:"current_weather"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.WeatherReading{}, fmt.Errorf("forecast: %w: %v", errMalformed, err)
	}
	if payload.CurrentWeather == nil {
		return weather.WeatherReading{}, fmt.Errorf("forecast: %w: missing current_weather", errMalformed)
	}

	ts, err := parseObservedAt(payload.CurrentWeather.Time)
	if err != nil {
		return weather.WeatherReading{}, fmt.Errorf("forecast: %w: %v", errMalformed, err)
	}

	return weather.WeatherReading{
		Temperature:  payload.CurrentWeather.Temperature,
		WindspeedKmh: payload.CurrentWeather.WindSpeed,
		ObservedAt:   ts,
	}, nil
}

func parseObservedAt(s string) (time.Time, error) {
	if ts, err := time.Parse(openMeteoTimeLayout, s); err == nil {
		return ts.UTC(), nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid observation time %q", s)
	}
	return ts.UTC(), nil
}

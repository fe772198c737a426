package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Nithin4045/weather-now/internal/weather"
	"github.com/sony/gobreaker"
)

// DefaultGeocodingURL is the public Open-Meteo geocoding endpoint.
const DefaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"

// GeocodingProvider implements weather.Geocoder for the Open-Meteo geocoding API.
type GeocodingProvider struct {
	name    string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewGeocodingProvider creates a geocoding client. An empty baseURL selects
// DefaultGeocodingURL.
func NewGeocodingProvider(client *http.Client, baseURL string) *GeocodingProvider {
	if baseURL == "" {
		baseURL = DefaultGeocodingURL
	}
	return &GeocodingProvider{
		name: "openmeteo-geocoding",
		httpCfg: HTTPClientConfig{
			Client:  client,
			BaseURL: baseURL,
		},
		circuit: newCircuitBreaker("openmeteo-geocoding"),
	}
}

func (p *GeocodingProvider) Name() string {
	return p.name
}

// Search returns matches in the order the API ranks them. The API omits
// "results" entirely when nothing matches.
func (p *GeocodingProvider) Search(ctx context.Context, q weather.LookupQuery) ([]weather.GeocodeMatch, error) {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("name", q.String())

		u := fmt.Sprintf("%s?%s", p.httpCfg.BaseURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, fmt.Errorf("geocoding: %w", err)
	}
	defer resp.Body.Close()

	var payload struct {
		Results []weather.GeocodeMatch `json:"results"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("geocoding: %w: %v", errMalformed, err)
	}

	return payload.Results, nil
}

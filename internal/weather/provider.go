package weather

import "context"

// Geocoder resolves a place name to candidate matches, best first.
// An empty slice with a nil error means nothing matched.
type Geocoder interface {
	Search(ctx context.Context, q LookupQuery) ([]GeocodeMatch, error)
}

// ConditionsProvider fetches current conditions for a coordinate pair.
type ConditionsProvider interface {
	Current(ctx context.Context, lat, lon float64) (WeatherReading, error)
}

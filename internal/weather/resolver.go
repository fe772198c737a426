package weather

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Resolver turns a free-text place name into current weather: geocode first,
// then fetch conditions for the first match. It holds no mutable state and may
// be shared between goroutines.
type Resolver struct {
	geocoder   Geocoder
	conditions ConditionsProvider
	log        zerolog.Logger
}

// NewResolver creates a new Resolver.
func NewResolver(geocoder Geocoder, conditions ConditionsProvider, log zerolog.Logger) *Resolver {
	return &Resolver{
		geocoder:   geocoder,
		conditions: conditions,
		log:        log,
	}
}

// Resolve runs one lookup. ok is false when raw is blank; in that case no
// request is made and the returned Outcome is meaningless.
func (r *Resolver) Resolve(ctx context.Context, raw string) (Outcome, bool) {
	q, err := ParseQuery(raw)
	if err != nil {
		return Outcome{}, false
	}
	return r.ResolveQuery(ctx, q), true
}

// ResolveQuery runs one lookup for an already validated query.
func (r *Resolver) ResolveQuery(ctx context.Context, q LookupQuery) Outcome {
	log := r.log.With().Str("resolution", uuid.NewString()).Str("query", q.String()).Logger()

	matches, err := r.geocoder.Search(ctx, q)
	if err != nil {
		log.Warn().Err(err).Msg("geocoding failed")
		return Failed(err)
	}
	if len(matches) == 0 {
		log.Debug().Msg("no geocoding match")
		return NotFound()
	}

	// Only the first match is used; ranking is left to the upstream API.
	match := matches[0]
	log.Debug().
		Str("name", match.Name).
		Float64("lat", match.Latitude).
		Float64("lon", match.Longitude).
		Int("candidates", len(matches)).
		Msg("geocoded")

	reading, err := r.conditions.Current(ctx, match.Latitude, match.Longitude)
	if err != nil {
		log.Warn().Err(err).Msg("weather fetch failed")
		return Failed(err)
	}

	log.Debug().Float64("temperature", reading.Temperature).Msg("resolved")
	return Succeeded(WeatherResult{
		City:           match.Name,
		Country:        match.Country,
		WeatherReading: reading,
	})
}

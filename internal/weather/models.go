package weather

import (
	"errors"
	"strings"
	"time"
)

// ErrEmptyQuery is returned by ParseQuery for blank input. Callers treat it as
// "nothing to do" rather than a failure to display.
var ErrEmptyQuery = errors.New("query is empty")

// LookupQuery is a trimmed, non-empty place name.
type LookupQuery struct {
	name string
}

// ParseQuery trims raw and rejects empty input.
func ParseQuery(raw string) (LookupQuery, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return LookupQuery{}, ErrEmptyQuery
	}
	return LookupQuery{name: name}, nil
}

func (q LookupQuery) String() string {
	return q.name
}

// GeocodeMatch is a single geocoding hit.
type GeocodeMatch struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name"`
	Country   string  `json:"country"`
}

// WeatherReading is a current-conditions snapshot.
type WeatherReading struct {
	Temperature  float64   `json:"temperature"` // °C
	WindspeedKmh float64   `json:"windspeedKmh"`
	ObservedAt   time.Time `json:"observedAt"` // always UTC
}

// WeatherResult combines the matched place with its current reading.
type WeatherResult struct {
	City    string `json:"city"`
	Country string `json:"country"`
	WeatherReading
}

// OutcomeKind enumerates the terminal states of a resolution.
type OutcomeKind string

const (
	OutcomeSuccess          OutcomeKind = "success"
	OutcomeNotFound         OutcomeKind = "not_found"
	OutcomeTransportFailure OutcomeKind = "transport_failure"
)

const (
	// NotFoundMessage is shown when geocoding yields no match.
	NotFoundMessage = "City not found"
	// FallbackFailureMessage is used when an error carries no description.
	FallbackFailureMessage = "Failed to fetch"
)

// Outcome is the result of one resolution. Result is set only for
// OutcomeSuccess, Message only for OutcomeTransportFailure.
type Outcome struct {
	Kind    OutcomeKind
	Result  WeatherResult
	Message string
}

// Succeeded wraps a result.
func Succeeded(r WeatherResult) Outcome {
	return Outcome{Kind: OutcomeSuccess, Result: r}
}

// NotFound reports that the query matched nothing.
func NotFound() Outcome {
	return Outcome{Kind: OutcomeNotFound}
}

// Failed turns err into a transport failure carrying its description.
func Failed(err error) Outcome {
	msg := FallbackFailureMessage
	if err != nil && strings.TrimSpace(err.Error()) != "" {
		msg = err.Error()
	}
	return Outcome{Kind: OutcomeTransportFailure, Message: msg}
}

func (o Outcome) IsSuccess() bool { return o.Kind == OutcomeSuccess }

package weather

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Search(ctx context.Context, q LookupQuery) ([]GeocodeMatch, error) {
	args := m.Called(ctx, q)
	matches, _ := args.Get(0).([]GeocodeMatch)
	return matches, args.Error(1)
}

type MockConditions struct {
	mock.Mock
}

func (m *MockConditions) Current(ctx context.Context, lat, lon float64) (WeatherReading, error) {
	args := m.Called(ctx, lat, lon)
	return args.Get(0).(WeatherReading), args.Error(1)
}

func mustQuery(t *testing.T, s string) LookupQuery {
	t.Helper()
	q, err := ParseQuery(s)
	require.NoError(t, err)
	return q
}

func TestParseQuery(t *testing.T) {
	q, err := ParseQuery("  Paris \t")
	require.NoError(t, err)
	assert.Equal(t, "Paris", q.String())

	for _, raw := range []string{"", "   ", "\n\t"} {
		_, err := ParseQuery(raw)
		assert.ErrorIs(t, err, ErrEmptyQuery, "input %q", raw)
	}
}

func TestResolver_Resolve(t *testing.T) {
	observed := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	paris := GeocodeMatch{Latitude: 48.85, Longitude: 2.35, Name: "Paris", Country: "France"}
	reading := WeatherReading{Temperature: 15.2, WindspeedKmh: 10.1, ObservedAt: observed}

	tests := []struct {
		name         string
		query        string
		matches      []GeocodeMatch
		geoErr       error
		expectFetch  bool
		weatherErr   error
		expectedKind OutcomeKind
		expected     Outcome
	}{
		{
			name:         "success uses first match",
			query:        "Paris",
			matches:      []GeocodeMatch{paris, {Latitude: 33.66, Longitude: -95.55, Name: "Paris", Country: "United States"}},
			expectFetch:  true,
			expectedKind: OutcomeSuccess,
			expected: Succeeded(WeatherResult{
				City:           "Paris",
				Country:        "France",
				WeatherReading: reading,
			}),
		},
		{
			name:         "empty results is not found",
			query:        "Zzzznotacity",
			matches:      []GeocodeMatch{},
			expectedKind: OutcomeNotFound,
			expected:     NotFound(),
		},
		{
			name:         "nil results is not found",
			query:        "Zzzznotacity",
			matches:      nil,
			expectedKind: OutcomeNotFound,
			expected:     NotFound(),
		},
		{
			name:         "geocoding error skips weather",
			query:        "Paris",
			geoErr:       errors.New("dial tcp: connection refused"),
			expectedKind: OutcomeTransportFailure,
			expected:     Outcome{Kind: OutcomeTransportFailure, Message: "dial tcp: connection refused"},
		},
		{
			name:         "weather error",
			query:        "Paris",
			matches:      []GeocodeMatch{paris},
			expectFetch:  true,
			weatherErr:   errors.New("forecast: unexpected status code: 503"),
			expectedKind: OutcomeTransportFailure,
			expected:     Outcome{Kind: OutcomeTransportFailure, Message: "forecast: unexpected status code: 503"},
		},
		{
			name:         "error without description falls back",
			query:        "Paris",
			geoErr:       errors.New(""),
			expectedKind: OutcomeTransportFailure,
			expected:     Outcome{Kind: OutcomeTransportFailure, Message: FallbackFailureMessage},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			geo := new(MockGeocoder)
			cond := new(MockConditions)
			r := NewResolver(geo, cond, zerolog.Nop())

			geo.On("Search", mock.Anything, mustQuery(t, tt.query)).Return(tt.matches, tt.geoErr).Once()
			if tt.expectFetch {
				cond.On("Current", mock.Anything, paris.Latitude, paris.Longitude).
					Return(reading, tt.weatherErr).Once()
			}

			outcome, ok := r.Resolve(context.Background(), tt.query)
			require.True(t, ok)
			assert.Equal(t, tt.expectedKind, outcome.Kind)
			assert.Equal(t, tt.expected, outcome)

			geo.AssertExpectations(t)
			cond.AssertExpectations(t)
			if !tt.expectFetch {
				cond.AssertNotCalled(t, "Current", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestResolver_BlankQueryIsNoop(t *testing.T) {
	geo := new(MockGeocoder)
	cond := new(MockConditions)
	r := NewResolver(geo, cond, zerolog.Nop())

	for _, raw := range []string{"", "   "} {
		outcome, ok := r.Resolve(context.Background(), raw)
		assert.False(t, ok)
		assert.Equal(t, Outcome{}, outcome)
	}

	geo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
	cond.AssertNotCalled(t, "Current", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolver_TrimsBeforeGeocoding(t *testing.T) {
	geo := new(MockGeocoder)
	cond := new(MockConditions)
	r := NewResolver(geo, cond, zerolog.Nop())

	geo.On("Search", mock.Anything, mustQuery(t, "Paris")).Return([]GeocodeMatch{}, nil).Once()

	outcome, ok := r.Resolve(context.Background(), "  Paris  ")
	require.True(t, ok)
	assert.Equal(t, OutcomeNotFound, outcome.Kind)
	geo.AssertExpectations(t)
}

func TestResolver_Idempotent(t *testing.T) {
	geo := new(MockGeocoder)
	cond := new(MockConditions)
	r := NewResolver(geo, cond, zerolog.Nop())

	match := GeocodeMatch{Latitude: 52.52, Longitude: 13.41, Name: "Berlin", Country: "Germany"}
	reading := WeatherReading{Temperature: 3.4, WindspeedKmh: 7, ObservedAt: time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)}
	geo.On("Search", mock.Anything, mustQuery(t, "Berlin")).Return([]GeocodeMatch{match}, nil)
	cond.On("Current", mock.Anything, match.Latitude, match.Longitude).Return(reading, nil)

	first, ok := r.Resolve(context.Background(), "Berlin")
	require.True(t, ok)
	second, ok := r.Resolve(context.Background(), "Berlin")
	require.True(t, ok)

	assert.Equal(t, first, second)
	assert.True(t, first.IsSuccess())
}

func TestFailed(t *testing.T) {
	assert.Equal(t, FallbackFailureMessage, Failed(nil).Message)
	assert.Equal(t, "boom", Failed(errors.New("boom")).Message)
	assert.Equal(t, OutcomeTransportFailure, Failed(nil).Kind)
}

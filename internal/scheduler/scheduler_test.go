package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nithin4045/weather-now/internal/view"
	"github.com/Nithin4045/weather-now/internal/weather"
)

type countingResolver struct {
	mu      sync.Mutex
	queries []string
	outcome weather.Outcome
}

func (r *countingResolver) Resolve(ctx context.Context, raw string) (weather.Outcome, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, raw)
	return r.outcome, true
}

func (r *countingResolver) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queries)
}

func TestWatcher_RunPublishesState(t *testing.T) {
	r := &countingResolver{outcome: weather.NotFound()}

	var got []view.State
	w := New(r, "Atlantis", time.Minute, func(st view.State) { got = append(got, st) }, zerolog.Nop())

	w.run()
	w.run()

	require.Len(t, got, 2)
	assert.Equal(t, view.PhaseNotFound, got[0].Phase)
	assert.Equal(t, view.PhaseNotFound, w.State().Phase)
	assert.Equal(t, []string{"Atlantis", "Atlantis"}, r.queries)
}

func TestWatcher_StartRunsImmediately(t *testing.T) {
	r := &countingResolver{outcome: weather.Succeeded(weather.WeatherResult{City: "Oslo", Country: "Norway"})}

	updates := make(chan view.State, 4)
	w := New(r, "Oslo", time.Hour, func(st view.State) { updates <- st }, zerolog.Nop())
	require.NoError(t, w.Start())
	defer w.Stop()

	select {
	case st := <-updates:
		assert.Equal(t, view.PhaseShowing, st.Phase)
		assert.Equal(t, "Oslo", st.Result.City)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not run on start")
	}
	assert.Equal(t, 1, r.calls())
}

func TestWatcher_StartRejectsBlankCity(t *testing.T) {
	w := New(&countingResolver{}, "   ", time.Minute, nil, zerolog.Nop())
	assert.ErrorIs(t, w.Start(), errEmptyCity)
}

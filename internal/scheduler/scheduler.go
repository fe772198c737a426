package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"github.com/Nithin4045/weather-now/internal/view"
	"github.com/Nithin4045/weather-now/internal/weather"
)

var errEmptyCity = errors.New("scheduler: city is empty")

// Watcher periodically re-resolves one city and publishes the render state.
// Every run is a fresh resolution; nothing is carried between runs except
// the slot's latest outcome.
type Watcher struct {
	scheduler *gocron.Scheduler
	resolver  view.Resolver
	slot      *view.Slot
	city      string
	interval  time.Duration
	timeout   time.Duration
	onUpdate  func(view.State)
	log       zerolog.Logger
}

// New creates a new Watcher. onUpdate is called after every completed run.
func New(resolver view.Resolver, city string, interval time.Duration, onUpdate func(view.State), log zerolog.Logger) *Watcher {
	return &Watcher{
		scheduler: gocron.NewScheduler(time.UTC),
		resolver:  resolver,
		slot:      &view.Slot{},
		city:      city,
		interval:  interval,
		timeout:   30 * time.Second,
		onUpdate:  onUpdate,
		log:       log,
	}
}

// Start schedules the job and starts the underlying scheduler. The first run
// happens immediately.
func (w *Watcher) Start() error {
	if _, err := weather.ParseQuery(w.city); err != nil {
		return errEmptyCity
	}

	interval := w.interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	// Singleton mode skips a tick while the previous run is still in flight.
	_, err := w.scheduler.Every(interval).SingletonMode().Do(w.run)
	if err != nil {
		return err
	}

	w.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future runs.
func (w *Watcher) Stop() {
	if w.scheduler != nil {
		w.scheduler.Stop()
	}
}

// State returns the latest render state.
func (w *Watcher) State() view.State {
	return w.slot.State()
}

func (w *Watcher) run() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	w.log.Debug().Str("city", w.city).Msg("scheduler: refreshing")

	st, ok := w.slot.Search(ctx, w.resolver, w.city)
	if !ok {
		w.log.Debug().Str("city", w.city).Msg("scheduler: run skipped")
		return
	}
	if w.onUpdate != nil {
		w.onUpdate(st)
	}
}

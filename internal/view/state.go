// Package view derives what a presentation layer should show from a
// resolution outcome and whether a resolution is in flight.
package view

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/Nithin4045/weather-now/internal/weather"
)

// Phase is the single render state of a search box.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseLoading  Phase = "loading"
	PhaseShowing  Phase = "showing"
	PhaseNotFound Phase = "not_found"
	PhaseFailed   Phase = "failed"
)

// State is what to render. Result is set only in PhaseShowing and Message
// only in PhaseNotFound and PhaseFailed.
type State struct {
	Phase   Phase                  `json:"phase"`
	Result  *weather.WeatherResult `json:"result,omitempty"`
	Message string                 `json:"message,omitempty"`
}

// Derive maps pendency plus the latest outcome to a State. A pending
// resolution hides whatever was shown before.
func Derive(pending bool, outcome *weather.Outcome) State {
	if pending {
		return State{Phase: PhaseLoading}
	}
	if outcome == nil {
		return State{Phase: PhaseIdle}
	}

	switch outcome.Kind {
	case weather.OutcomeSuccess:
		r := outcome.Result
		return State{Phase: PhaseShowing, Result: &r}
	case weather.OutcomeNotFound:
		return State{Phase: PhaseNotFound, Message: weather.NotFoundMessage}
	default:
		msg := outcome.Message
		if msg == "" {
			msg = weather.FallbackFailureMessage
		}
		return State{Phase: PhaseFailed, Message: msg}
	}
}

// Slot is the caller-owned "latest outcome" cell.
type Slot struct {
	mu      sync.RWMutex
	pending bool
	latest  *weather.Outcome
}

// Begin marks a resolution as in flight. It returns false if one already is,
// in which case the caller must not start another.
func (s *Slot) Begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending {
		return false
	}
	s.pending = true
	return true
}

// Finish stores outcome, replacing the previous one, and clears pendency.
func (s *Slot) Finish(outcome weather.Outcome) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = false
	s.latest = &outcome
	return Derive(false, s.latest)
}

// Cancel clears pendency without touching the stored outcome. Used when the
// query turned out to be blank.
func (s *Slot) Cancel() {
	s.mu.Lock()
	s.pending = false
	s.mu.Unlock()
}

// State returns the current render state.
func (s *Slot) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Derive(s.pending, s.latest)
}

// Resolver is the lookup the slot drives.
type Resolver interface {
	Resolve(ctx context.Context, raw string) (weather.Outcome, bool)
}

// Search runs one resolution through the slot. ok is false when a search is
// already in flight or raw is blank; the returned State is then unchanged.
func (s *Slot) Search(ctx context.Context, r Resolver, raw string) (State, bool) {
	if !s.Begin() {
		return s.State(), false
	}

	outcome, ok := r.Resolve(ctx, raw)
	if !ok {
		s.Cancel()
		return s.State(), false
	}
	return s.Finish(outcome), true
}

// Text renders st the way the terminal client prints it.
func Text(st State) string {
	switch st.Phase {
	case PhaseLoading:
		return "Loading..."
	case PhaseShowing:
		r := st.Result
		var b strings.Builder
		fmt.Fprintf(&b, "%s, %s\n", r.City, r.Country)
		fmt.Fprintf(&b, "%s°C\n", formatNumber(r.Temperature))
		fmt.Fprintf(&b, "Windspeed: %s km/h\n", formatNumber(r.WindspeedKmh))
		fmt.Fprintf(&b, "Updated: %s", r.ObservedAt.Local().Format("15:04:05"))
		return b.String()
	case PhaseNotFound, PhaseFailed:
		return st.Message
	default:
		return ""
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

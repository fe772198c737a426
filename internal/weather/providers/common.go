package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
)

// HTTPClientConfig bundles the HTTP client and the upstream endpoint.
type HTTPClientConfig struct {
	Client  *http.Client
	BaseURL string
}

var (
	errUnexpected   = errors.New("unexpected status code")
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
	errMalformed    = errors.New("malformed response")
)

func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:         name,
		MaxRequests:  5,
		Interval:     1 * time.Minute,
		Timeout:      2 * time.Minute,
		IsSuccessful: upstreamHealthy,
	})
}

// upstreamHealthy decides whether err says anything about the upstream's
// health. Caller cancellation and client errors (4xx other than 429) do not.
func upstreamHealthy(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 400 && se.code < 500 && se.code != http.StatusTooManyRequests
	}
	return false
}

// doRequest executes a single GET through the circuit breaker. Non-2xx
// responses are errors; on success the caller owns the body.
func doRequest(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	buildRequest func(ctx context.Context) (*http.Request, error),
) (*http.Response, error) {
	if cfg.Client == nil {
		return nil, errNoHTTPClient
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req, err := buildRequest(ctx)
	if err != nil {
		return nil, err
	}

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := cfg.Client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			defer resp.Body.Close()
			return nil, newStatusError(resp)
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		return nil, err
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return resp, nil
}

// statusError describes a non-2xx response, including Open-Meteo's
// {"error":true,"reason":"..."} body when present.
type statusError struct {
	code   int
	reason string
}

func newStatusError(resp *http.Response) *statusError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))

	var apiErr struct {
		Reason string `json:"reason"`
	}
	se := &statusError{code: resp.StatusCode}
	if json.Unmarshal(body, &apiErr) == nil {
		se.reason = apiErr.Reason
	}
	return se
}

func (e *statusError) Error() string {
	if e.reason != "" {
		return fmt.Sprintf("%v: %d: %s", errUnexpected, e.code, e.reason)
	}
	return fmt.Sprintf("%v: %d", errUnexpected, e.code)
}

func (e *statusError) Unwrap() error {
	return errUnexpected
}

// formatCoord renders a coordinate with the fewest digits that round-trip.
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

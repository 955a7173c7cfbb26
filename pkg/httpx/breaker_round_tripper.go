package httpx

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"kitflip/pkg/logx"
)

var errServerStatus = errors.New("server error status")

// BreakerSettings configures BreakerRoundTripper.
type BreakerSettings struct {
	Name                string
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration
}

// BreakerRoundTripper fails fast while an upstream keeps returning transport
// errors or 5xx responses. Every other status, including 401/404/429, counts
// as success: those are protocol answers, not outages.
type BreakerRoundTripper struct {
	next    http.RoundTripper
	breaker *gobreaker.CircuitBreaker
}

func NewBreakerRoundTripper(next http.RoundTripper, settings BreakerSettings) BreakerRoundTripper {
	failures := settings.ConsecutiveFailures
	if failures == 0 {
		failures = 5
	}

	return BreakerRoundTripper{
		next: next,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        settings.Name,
			MaxRequests: 1,
			Timeout:     settings.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				slog.Default().Warn(
					"circuit breaker state changed",
					slog.String(logx.FieldUpstream, name),
					slog.String("from", from.String()),
					slog.String("to", to.String()),
				)
			},
		}),
	}
}

func (rt BreakerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	result, err := rt.breaker.Execute(func() (interface{}, error) {
		resp, err := rt.next.RoundTrip(req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			return resp, errServerStatus
		}

		return resp, nil
	})

	if errors.Is(err, errServerStatus) {
		return result.(*http.Response), nil //nolint:forcetypeassert
	}

	if err != nil {
		return nil, fmt.Errorf("breaker.Execute: %w", err)
	}

	return result.(*http.Response), nil //nolint:forcetypeassert
}

// State reports the current breaker state, e.g. for readiness checks.
func (rt BreakerRoundTripper) State() gobreaker.State {
	return rt.breaker.State()
}

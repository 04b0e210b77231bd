package openrouter

import (
	"errors"
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"recommender-backend/internal/llm"
	"recommender-backend/internal/shared/metrics"
	"recommender-backend/internal/shared/telemetry"
)

// newBreaker opens after maxFailures consecutive provider failures and sheds calls for openTimeout.
// Client errors (4xx other than 429) do not count against the provider.
func newBreaker(maxFailures uint32, openTimeout time.Duration) *gobreaker.CircuitBreaker[string] {
	if openTimeout <= 0 {
		openTimeout = 30 * time.Second
	}
	metrics.SetBreakerState(breakerName, 0)
	return gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: countsAsSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			telemetry.Warn("llm.breaker_state", map[string]any{
				"name": name,
				"from": from.String(),
				"to":   to.String(),
			})
			metrics.SetBreakerState(name, stateValue(to))
		},
	})
}

func countsAsSuccess(err error) bool {
	if err == nil {
		return true
	}
	var statusErr *llm.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code < http.StatusInternalServerError && statusErr.Code != http.StatusTooManyRequests
	}
	return false
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"recommender-backend/internal/llm"
	"recommender-backend/internal/shared/metrics"
	"recommender-backend/internal/shared/telemetry"
)

const transportFailedMessage = "Failed to get recommendations. Please try again."

// Fetcher runs the recommendation pipeline against a completion provider.
type Fetcher struct {
	LLM llm.Completer
	// Now is overridable in tests.
	Now func() time.Time
}

// NewFetcher constructs a Fetcher.
func NewFetcher(client llm.Completer) *Fetcher {
	return &Fetcher{LLM: client, Now: time.Now}
}

// Fetch builds the prompt, calls the provider once and converts the outcome into a Result.
// It never returns an error; every failure is reported as APIError or ParseError.
func (f *Fetcher) Fetch(ctx context.Context, prefs Preferences) Result {
	res := f.fetch(ctx, prefs)
	metrics.IncRecommendationResult(string(res.Kind))
	return res
}

func (f *Fetcher) fetch(ctx context.Context, prefs Preferences) Result {
	if f == nil || f.LLM == nil {
		return APIError(missingCredentialMsg)
	}
	now := f.Now
	if now == nil {
		now = time.Now
	}

	prompt := BuildPrompt(prefs)
	start := now()
	reply, err := f.LLM.Complete(ctx, prompt)
	elapsed := now().Sub(start)
	if err != nil {
		return apiErrorFor(ctx, err, elapsed)
	}

	items, err := parseModelReply(reply)
	if err != nil {
		telemetry.Warn("recommend.parse_failed", map[string]any{
			"request_id": RequestIDFromContext(ctx),
			"error":      err.Error(),
			"reply_len":  len(reply),
		})
		return ParseError(parseFailedMessage, reply)
	}

	telemetry.Info("recommend.success", map[string]any{
		"request_id":  RequestIDFromContext(ctx),
		"items":       len(items),
		"duration_ms": float64(elapsed.Microseconds()) / 1000.0,
	})
	return Success(items)
}

func apiErrorFor(ctx context.Context, err error, elapsed time.Duration) Result {
	fields := map[string]any{
		"request_id":  RequestIDFromContext(ctx),
		"error":       err.Error(),
		"duration_ms": float64(elapsed.Microseconds()) / 1000.0,
	}

	var statusErr *llm.StatusError
	switch {
	case errors.Is(err, llm.ErrMissingCredential):
		telemetry.Error("recommend.missing_credential", fields)
		return APIError(missingCredentialMsg)
	case errors.As(err, &statusErr):
		fields["status"] = statusErr.Code
		if statusErr.Body != "" {
			fields["body"] = statusErr.Body
		}
		telemetry.Error("recommend.api_error", fields)
		return APIError(fmt.Sprintf("API error: %d %s", statusErr.Code, statusErr.Status))
	case errors.Is(err, llm.ErrUnavailable):
		telemetry.Warn("recommend.provider_unavailable", fields)
		return APIError("API error: " + llm.ErrUnavailable.Error())
	default:
		telemetry.Error("recommend.transport_failed", fields)
		return APIError(transportFailedMessage)
	}
}

type requestIDKey struct{}

// WithRequestID attaches a request ID used to correlate pipeline logs.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request ID set by WithRequestID, if any.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

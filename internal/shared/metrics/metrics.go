package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RecommendationResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_results_total",
			Help: "Recommendation pipeline outcomes by result kind",
		},
		[]string{"kind"},
	)

	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_request_duration_seconds",
			Help:    "Duration of chat-completion requests in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"outcome"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"name"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	UsageRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "usage_limit_rejections_total",
			Help: "Requests rejected because the daily usage limit was reached",
		},
	)
)

// IncRecommendationResult counts one pipeline outcome.
func IncRecommendationResult(kind string) {
	RecommendationResults.WithLabelValues(kind).Inc()
}

// ObserveLLMRequest records a completion call duration. outcome is "ok" or "error".
func ObserveLLMRequest(outcome string, d time.Duration) {
	if d < 0 {
		d = 0
	}
	LLMRequestDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// SetBreakerState records the numeric breaker state for name.
func SetBreakerState(name string, state float64) {
	CircuitBreakerState.WithLabelValues(name).Set(state)
}

// IncHTTPRequest counts a served request.
func IncHTTPRequest(method, route string, status int) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

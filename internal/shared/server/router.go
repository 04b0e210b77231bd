package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recommender-backend/internal/recommendations"
	"recommender-backend/internal/services/health"
	"recommender-backend/internal/shared/config"
	"recommender-backend/internal/shared/metrics"
	"recommender-backend/internal/shared/server/middleware"
	"recommender-backend/internal/shared/server/respond"
	"recommender-backend/internal/usage"
	"recommender-backend/internal/web"
)

// RecommendGroup is the rate limit group for requests that reach the completion provider.
const RecommendGroup = "RECOMMEND"

// RouterDeps carries the handlers the router mounts. Nil handlers are skipped.
type RouterDeps struct {
	Config                config.Config
	RecommendationHandler *recommendations.Handler
	WebHandler            *web.Handler
	UsageHandler          *usage.Handler
	Health                *health.Service
	RateLimiter           *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	if deps.WebHandler != nil {
		r.SetHTMLTemplate(web.Templates())
	}

	r.Use(
		middleware.RequestID(),
		middleware.ClientID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				RecommendGroup: {Rate: deps.Config.RateLimitRPS, Burst: deps.Config.RateLimitBurst},
			},
			GroupFor: rateLimitGroup,
			Limiter:  deps.RateLimiter,
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		st := deps.Health.Status(c.Request.Context())
		status := http.StatusOK
		if !st.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, st)
	})
	if deps.RecommendationHandler != nil {
		deps.RecommendationHandler.RegisterRoutes(api)
	}
	if deps.UsageHandler != nil {
		deps.UsageHandler.RegisterRoutes(api)
	}
	if deps.WebHandler != nil {
		deps.WebHandler.RegisterRoutes(r)
	}

	return r
}

// rateLimitGroup limits only the routes that call the completion provider.
func rateLimitGroup(c *gin.Context) string {
	if c.Request.Method != http.MethodPost {
		return ""
	}
	switch c.FullPath() {
	case "/", "/api/v1/recommendations":
		return RecommendGroup
	}
	return ""
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}

package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"recommender-backend/internal/llm/openrouter"
	"recommender-backend/internal/recommend"
	"recommender-backend/internal/recommendations"
	"recommender-backend/internal/services/health"
	"recommender-backend/internal/shared/config"
	"recommender-backend/internal/shared/server"
	"recommender-backend/internal/shared/server/middleware"
	"recommender-backend/internal/shared/storage/db"
	"recommender-backend/internal/shared/telemetry"
	"recommender-backend/internal/usage"
	"recommender-backend/internal/web"
)

// App holds shared dependencies.
type App struct {
	Config                config.Config
	Router                *gin.Engine
	DB                    *sql.DB
	LLM                   *openrouter.Client
	Fetcher               *recommend.Fetcher
	UsageService          *usage.Service
	RecommendationHandler *recommendations.Handler
	WebHandler            *web.Handler
	UsageHandler          *usage.Handler
	Health                *health.Service
}

// Build prepares dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	telemetry.Init(telemetry.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, DB: sqlDB}
	app.LLM = NewCompleter(cfg)
	app.Fetcher = recommend.NewFetcher(app.LLM)

	if sqlDB != nil {
		app.UsageService = usage.NewPostgresService(usage.NewPGStore(sqlDB), cfg.DailyRequestLimit)
	} else {
		app.UsageService = usage.NewService(cfg.DailyRequestLimit)
	}

	admit := usage.Admitter(app.UsageService)
	app.RecommendationHandler = recommendations.NewHandler(app.Fetcher, admit)
	app.WebHandler = web.NewHandler(app.Fetcher, cfg.AppTitle, admit)
	app.UsageHandler = usage.NewHandler(app.UsageService)
	app.Health = health.NewService(sqlDB, cfg.OpenRouterAPIKey != "")

	if cfg.OpenRouterAPIKey == "" {
		telemetry.Warn("bootstrap.missing_credential", map[string]any{
			"hint": "set OPENROUTER_API_KEY; requests will return api_error results",
		})
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:                cfg,
		RecommendationHandler: app.RecommendationHandler,
		WebHandler:            app.WebHandler,
		UsageHandler:          app.UsageHandler,
		Health:                app.Health,
		RateLimiter:           middleware.NewRateLimiter(nil),
	})

	return app, nil
}

// NewCompleter builds the OpenRouter client from configuration.
func NewCompleter(cfg config.Config) *openrouter.Client {
	return openrouter.NewClient(openrouter.Config{
		APIKey:             cfg.OpenRouterAPIKey,
		BaseURL:            cfg.OpenRouterBaseURL,
		Model:              cfg.LLMModel,
		Origin:             cfg.AppOrigin,
		Title:              cfg.AppTitle,
		Timeout:            cfg.LLMTimeout,
		BreakerMaxFailures: cfg.BreakerMaxFailures,
		BreakerOpenTimeout: cfg.BreakerOpenTimeout,
	})
}

// Close releases the database pool, if any.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) || cfg.DailyRequestLimit == 0 {
			telemetry.Info("bootstrap.memory_usage_store", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required when DAILY_REQUEST_LIMIT is set outside dev")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB)
		if err != nil {
			sqlDB.Close()
			sqlDB = nil
		}
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.database_unavailable", map[string]any{"error": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"recommender-backend/internal/shared/telemetry"
)

// PathEnvVar overrides the YAML config file location.
const PathEnvVar = "CONFIG_PATH"

var defaultPaths = []string{"config.yaml", "config.yml"}

// Config holds application configuration.
type Config struct {
	Port            string   `koanf:"port"`
	Env             string   `koanf:"env"`
	CORSAllowOrigin []string `koanf:"cors_allow_origins"`
	LogLevel        string   `koanf:"log_level"`
	LogFormat       string   `koanf:"log_format"`

	OpenRouterAPIKey  string        `koanf:"openrouter_api_key"`
	OpenRouterBaseURL string        `koanf:"openrouter_base_url"`
	LLMModel          string        `koanf:"llm_model"`
	LLMTimeout        time.Duration `koanf:"llm_timeout"`
	AppOrigin         string        `koanf:"app_origin"`
	AppTitle          string        `koanf:"app_title"`

	BreakerMaxFailures uint32        `koanf:"breaker_max_failures"`
	BreakerOpenTimeout time.Duration `koanf:"breaker_open_timeout"`

	DatabaseURL       string  `koanf:"database_url"`
	DailyRequestLimit int     `koanf:"daily_request_limit"`
	RateLimitRPS      float64 `koanf:"rate_limit_rps"`
	RateLimitBurst    int     `koanf:"rate_limit_burst"`
}

func defaultConfig() Config {
	return Config{
		Port:               "8080",
		Env:                "dev",
		CORSAllowOrigin:    []string{"http://localhost:3000"},
		LogLevel:           "info",
		LogFormat:          "json",
		OpenRouterBaseURL:  "https://openrouter.ai/api/v1",
		LLMModel:           "anthropic/claude-3-haiku",
		AppOrigin:          "http://localhost:3000",
		AppTitle:           "AI Book & Movie Recommender",
		BreakerMaxFailures: 5,
		BreakerOpenTimeout: 30 * time.Second,
		DailyRequestLimit:  50,
		RateLimitRPS:       1,
		RateLimitBurst:     5,
	}
}

// Load reads configuration from defaults, an optional YAML file, .env files and the environment.
// Later sources win.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	cfg, err := load(findConfigFile())
	if err != nil {
		telemetry.Error("config.load_failed", map[string]any{"error": err.Error()})
		return normalize(defaultConfig())
	}
	return cfg
}

func load(path string) (Config, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}
	// VERCEL_URL is the deployment origin on hosted previews; APP_ORIGIN wins when both are set.
	if vercel := strings.TrimSpace(os.Getenv("VERCEL_URL")); vercel != "" && os.Getenv("APP_ORIGIN") == "" {
		if err := k.Set("app_origin", vercel); err != nil {
			return Config{}, err
		}
	}
	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return normalize(cfg), nil
}

var knownKeys = map[string]struct{}{
	"port": {}, "env": {}, "cors_allow_origins": {}, "log_level": {}, "log_format": {},
	"openrouter_api_key": {}, "openrouter_base_url": {}, "llm_model": {}, "llm_timeout": {},
	"app_origin": {}, "app_title": {}, "breaker_max_failures": {}, "breaker_open_timeout": {},
	"database_url": {}, "daily_request_limit": {}, "rate_limit_rps": {}, "rate_limit_burst": {},
}

// envKey maps PORT -> port and drops unrelated variables.
func envKey(key string) string {
	k := strings.ToLower(key)
	if _, ok := knownKeys[k]; !ok {
		return ""
	}
	return k
}

func findConfigFile() string {
	if p := strings.TrimSpace(os.Getenv(PathEnvVar)); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range defaultPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func normalize(cfg Config) Config {
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.CORSAllowOrigin = splitAndTrim(cfg.CORSAllowOrigin)
	cfg.OpenRouterAPIKey = strings.TrimSpace(cfg.OpenRouterAPIKey)
	cfg.AppOrigin = normalizeOrigin(cfg.AppOrigin)
	if cfg.DailyRequestLimit < 0 {
		cfg.DailyRequestLimit = 0
	}
	return cfg
}

func splitAndTrim(raw []string) []string {
	var out []string
	for _, item := range raw {
		for _, p := range strings.Split(item, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}

// normalizeOrigin adds a scheme to bare hosts such as my-app.vercel.app.
func normalizeOrigin(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "http://localhost:3000"
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "https://" + raw
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

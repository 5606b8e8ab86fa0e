package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	Env             string
	DatabaseURL     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration
	CachePrefix   string

	LLMProvider       string
	LLMModel          string
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	EmbeddingProvider string
	EmbeddingModel    string
	EmbeddingDims     int

	FetchTimeout   time.Duration
	FetchMaxBytes  int64
	FetchUserAgent string

	AnalyzeTopK    int
	ChatTopK       int
	ContextBudget  int
	HistoryLimit   int
	DedupeInflight bool

	RateLimitRPS   float64
	RateLimitBurst int

	LogLevel string
	LogFile  string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		slog.Warn("DATABASE_URL is required in production")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		Env:             env,
		DatabaseURL:     dbURL,

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheTTL:      getEnvDuration("CACHE_TTL", time.Hour),
		CachePrefix:   getEnv("CACHE_PREFIX", "seo:analysis:"),

		LLMProvider:       normalizeProvider(getEnv("LLM_PROVIDER", "openai"), "openai", "ollama", "placeholder"),
		LLMModel:          getEnv("LLM_MODEL", "gpt-4o-mini"),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		EmbeddingProvider: normalizeProvider(getEnv("EMBEDDING_PROVIDER", "hash"), "hash", "openai", "ollama"),
		EmbeddingModel:    getEnv("EMBEDDING_MODEL", ""),
		EmbeddingDims:     getEnvInt("EMBEDDING_DIMENSIONS", 256),

		FetchTimeout:   getEnvDuration("FETCH_TIMEOUT", 15*time.Second),
		FetchMaxBytes:  int64(getEnvInt("FETCH_MAX_BYTES", 5<<20)),
		FetchUserAgent: getEnv("FETCH_USER_AGENT", "seo-backend/1.0 (+https://example.com/bot)"),

		AnalyzeTopK:    getEnvInt("ANALYZE_TOP_K", 10),
		ChatTopK:       getEnvInt("CHAT_TOP_K", 5),
		ContextBudget:  getEnvInt("CONTEXT_BUDGET", 500),
		HistoryLimit:   getEnvInt("HISTORY_LIMIT", 10),
		DedupeInflight: getEnvBool("DEDUPE_INFLIGHT", false),

		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 1),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 10),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),
	}
}

// IsDevLike reports whether the environment allows in-memory fallbacks.
func (c Config) IsDevLike() bool {
	switch c.Env {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("invalid int env", "key", key, "value", raw, "error", err)
		return def
	}
	return val
}

func getEnvFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		slog.Warn("invalid float env", "key", key, "value", raw, "error", err)
		return def
	}
	return val
}

func getEnvBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		slog.Warn("invalid bool env", "key", key, "value", raw, "error", err)
		return def
	}
	return val
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := time.ParseDuration(raw)
	if err != nil {
		slog.Warn("invalid duration env", "key", key, "value", raw, "error", err)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

// normalizeProvider lowercases raw and falls back to the first allowed value.
func normalizeProvider(raw string, allowed ...string) string {
	v := strings.ToLower(strings.TrimSpace(raw))
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	return allowed[0]
}

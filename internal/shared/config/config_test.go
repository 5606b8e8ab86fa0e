package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"ENV", "CACHE_TTL", "ANALYZE_TOP_K", "CHAT_TOP_K", "LLM_PROVIDER", "EMBEDDING_PROVIDER", "DEDUPE_INFLIGHT"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Env != "dev" {
		t.Fatalf("expected env dev, got %q", cfg.Env)
	}
	if cfg.CacheTTL != time.Hour {
		t.Fatalf("expected cache ttl 1h, got %s", cfg.CacheTTL)
	}
	if cfg.AnalyzeTopK != 10 || cfg.ChatTopK != 5 {
		t.Fatalf("unexpected top-k defaults: analyze=%d chat=%d", cfg.AnalyzeTopK, cfg.ChatTopK)
	}
	if cfg.ContextBudget != 500 {
		t.Fatalf("expected context budget 500, got %d", cfg.ContextBudget)
	}
	if cfg.LLMProvider != "openai" || cfg.EmbeddingProvider != "hash" {
		t.Fatalf("unexpected providers: llm=%q embedding=%q", cfg.LLMProvider, cfg.EmbeddingProvider)
	}
	if cfg.DedupeInflight {
		t.Fatalf("expected in-flight de-duplication disabled by default")
	}
	if !cfg.IsDevLike() {
		t.Fatalf("expected dev config to allow fallbacks")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("ANALYZE_TOP_K", "3")
	t.Setenv("LLM_PROVIDER", " OLLAMA ")
	t.Setenv("EMBEDDING_PROVIDER", "unknown")
	t.Setenv("DEDUPE_INFLIGHT", "true")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.test, ,http://b.test")

	cfg := Load()
	if cfg.Env != "production" {
		t.Fatalf("expected production env, got %q", cfg.Env)
	}
	if cfg.IsDevLike() {
		t.Fatalf("production must not allow in-memory fallbacks")
	}
	if cfg.CacheTTL != 90*time.Second {
		t.Fatalf("expected cache ttl 90s, got %s", cfg.CacheTTL)
	}
	if cfg.AnalyzeTopK != 3 {
		t.Fatalf("expected analyze top-k 3, got %d", cfg.AnalyzeTopK)
	}
	if cfg.LLMProvider != "ollama" {
		t.Fatalf("expected ollama provider, got %q", cfg.LLMProvider)
	}
	if cfg.EmbeddingProvider != "hash" {
		t.Fatalf("expected unknown embedding provider to fall back to hash, got %q", cfg.EmbeddingProvider)
	}
	if !cfg.DedupeInflight {
		t.Fatalf("expected in-flight de-duplication enabled")
	}
	if len(cfg.CORSAllowOrigin) != 2 {
		t.Fatalf("expected 2 cors origins, got %v", cfg.CORSAllowOrigin)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("CACHE_TTL", "soon")
	t.Setenv("CHAT_TOP_K", "five")

	cfg := Load()
	if cfg.CacheTTL != time.Hour {
		t.Fatalf("expected default ttl on parse error, got %s", cfg.CacheTTL)
	}
	if cfg.ChatTopK != 5 {
		t.Fatalf("expected default chat top-k on parse error, got %d", cfg.ChatTopK)
	}
}

package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"seo-backend/internal/analyses"
	"seo-backend/internal/cache"
	"seo-backend/internal/chat"
	"seo-backend/internal/fetch"
	"seo-backend/internal/knowledge"
	"seo-backend/internal/llm"
	ollamaclient "seo-backend/internal/llm/ollama"
	openai "seo-backend/internal/llm/openai"
	"seo-backend/internal/shared/config"
	"seo-backend/internal/shared/server"
	"seo-backend/internal/shared/storage/db"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Redis  *redis.Client

	Cache     cache.Store
	Embedder  llm.Embedder
	LLM       llm.Completer
	Index     knowledge.Index
	Retriever *knowledge.Retriever

	AnalysesRepo    analyses.Repo
	SessionRepo     chat.SessionRepo
	AnalysesService *analyses.Service
	Assistant       *chat.Assistant
	AnalysisHandler *analyses.Handler
	ChatHandler     *chat.Handler
}

// Build prepares dependencies, seeds the knowledge index when empty and wires routes.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, DB: sqlDB}

	if err := buildCache(ctx, app); err != nil {
		app.Close()
		return nil, err
	}
	if err := buildModels(app); err != nil {
		app.Close()
		return nil, err
	}
	buildServices(app)

	seeded, err := knowledge.SeedIfEmpty(ctx, app.Index, app.Embedder)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("seed knowledge base: %w", err)
	}
	if seeded > 0 {
		slog.Info("bootstrap: seeded knowledge base", "entries", seeded)
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		AnalysisHandler: app.AnalysisHandler,
		ChatHandler:     app.ChatHandler,
	})
	return app, nil
}

// Close releases the database and Redis connections.
func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			slog.Info("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if cfg.IsDevLike() {
			slog.Warn("bootstrap: database connect failed; using in-memory repositories", "error", err)
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildCache(ctx context.Context, app *App) error {
	cfg := app.Config
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		slog.Warn("bootstrap: REDIS_ADDR empty; using in-memory cache")
		app.Cache = cache.NewMemoryStore()
		return nil
	}
	client, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		if cfg.IsDevLike() {
			slog.Warn("bootstrap: redis unavailable; using in-memory cache", "error", err)
			app.Cache = cache.NewMemoryStore()
			return nil
		}
		return err
	}
	app.Redis = client
	app.Cache = &cache.RedisStore{Client: client, Prefix: cfg.CachePrefix}
	return nil
}

func buildModels(app *App) error {
	cfg := app.Config

	switch cfg.EmbeddingProvider {
	case "openai":
		client, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, cfg.EmbeddingModel, cfg.OpenAIBaseURL)
		if err != nil {
			return fmt.Errorf("embedding provider: %w", err)
		}
		app.Embedder = client
	case "ollama":
		client, err := ollamaclient.NewClient(cfg.LLMModel, cfg.EmbeddingModel)
		if err != nil {
			return fmt.Errorf("embedding provider: %w", err)
		}
		app.Embedder = client
	default:
		app.Embedder = llm.NewHashEmbedder(cfg.EmbeddingDims)
	}

	switch cfg.LLMProvider {
	case "openai":
		client, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, cfg.EmbeddingModel, cfg.OpenAIBaseURL)
		if err != nil {
			if !cfg.IsDevLike() {
				return fmt.Errorf("llm provider: %w", err)
			}
			slog.Warn("bootstrap: openai client unavailable; chat uses placeholder", "error", err)
			app.LLM = llm.PlaceholderClient{}
			return nil
		}
		app.LLM = client
	case "ollama":
		client, err := ollamaclient.NewClient(cfg.LLMModel, cfg.EmbeddingModel)
		if err != nil {
			return fmt.Errorf("llm provider: %w", err)
		}
		app.LLM = client
	default:
		app.LLM = llm.PlaceholderClient{}
	}
	return nil
}

func buildServices(app *App) {
	cfg := app.Config

	if app.DB != nil {
		app.AnalysesRepo = &analyses.PGRepo{DB: app.DB}
		app.SessionRepo = &chat.PGSessionRepo{DB: app.DB}
		app.Index = &knowledge.PGIndex{DB: app.DB}
	} else {
		app.AnalysesRepo = analyses.NewMemoryRepo()
		app.SessionRepo = chat.NewMemorySessionRepo()
		app.Index = knowledge.NewMemoryIndex()
	}

	app.Retriever = &knowledge.Retriever{Embedder: app.Embedder, Index: app.Index}

	app.AnalysesService = &analyses.Service{
		Fetcher: fetch.New(fetch.Options{
			Timeout:   cfg.FetchTimeout,
			MaxBytes:  cfg.FetchMaxBytes,
			UserAgent: cfg.FetchUserAgent,
		}),
		Retriever:     app.Retriever,
		Repo:          app.AnalysesRepo,
		Cache:         app.Cache,
		TopK:          cfg.AnalyzeTopK,
		ContextBudget: cfg.ContextBudget,
		CacheTTL:      cfg.CacheTTL,
		HistoryLimit:  cfg.HistoryLimit,
		Dedupe:        cfg.DedupeInflight,
	}
	app.Assistant = &chat.Assistant{
		Retriever: app.Retriever,
		Sessions:  app.SessionRepo,
		LLM:       app.LLM,
		TopK:      cfg.ChatTopK,
	}

	app.AnalysisHandler = analyses.NewHandler(app.AnalysesService)
	app.ChatHandler = chat.NewHandler(app.Assistant)
}

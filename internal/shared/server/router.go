package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"seo-backend/internal/analyses"
	"seo-backend/internal/chat"
	"seo-backend/internal/shared/config"
	"seo-backend/internal/shared/metrics"
	"seo-backend/internal/shared/server/middleware"
	"seo-backend/internal/shared/server/respond"
)

const writeGroup = "WRITE"

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config          config.Config
	AnalysisHandler *analyses.Handler
	ChatHandler     *chat.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	if !cfg.IsDevLike() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				writeGroup: {Rate: cfg.RateLimitRPS, Burst: cfg.RateLimitBurst},
			},
			GroupFor: rateLimitGroup,
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterRoutes(api)
	}
	if deps.ChatHandler != nil {
		deps.ChatHandler.RegisterRoutes(api)
	}

	return r
}

// rateLimitGroup limits POST routes, which trigger fetches and model calls.
func rateLimitGroup(c *gin.Context) string {
	if c.Request.Method == http.MethodPost {
		return writeGroup
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

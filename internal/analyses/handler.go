package analyses

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"seo-backend/internal/fetch"
	"seo-backend/internal/shared/server/middleware"
	"seo-backend/internal/shared/server/respond"
	"seo-backend/internal/shared/telemetry"
)

// Response is a Result plus the cache marker returned to clients.
type Response struct {
	Result
	Cached bool `json:"cached"`
}

type analyzeRequest struct {
	URL string `json:"url"`
}

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyze", h.analyze)
	rg.GET("/history", h.history)
}

func (h *Handler) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "request body must be JSON with a url field", nil)
		return
	}

	ctx := telemetry.WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	result, cached, err := h.Svc.AnalyzeCached(ctx, req.URL)
	if err != nil {
		c.Set(middleware.StatusTransitionKey, "started->"+StatusFailed)
		writeError(c, err)
		return
	}

	c.Set(middleware.CachedKey, cached)
	if cached {
		c.Set(middleware.StatusTransitionKey, "started->"+StatusCacheHit)
	} else {
		c.Set(middleware.StatusTransitionKey, "started->"+StatusCompleted)
	}
	respond.OK(c, Response{Result: result, Cached: cached})
}

func (h *Handler) history(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "limit must be an integer", []map[string]string{
				{"field": "limit", "issue": "not_integer"},
			})
			return
		}
		limit = parsed
	}

	items, err := h.Svc.History(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, items)
}

// writeError maps pipeline failures to the error envelope.
func writeError(c *gin.Context, err error) {
	var fetchErr *fetch.Error
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, err.Error(), nil)
	case errors.As(err, &fetchErr):
		respond.Error(c, http.StatusBadGateway, ErrorCodeFetchFailed, fetchErr.Error(), gin.H{
			"url":        fetchErr.URL,
			"statusCode": fetchErr.StatusCode,
		})
	case IsUpstream(err):
		respond.Error(c, http.StatusBadGateway, ErrorCodeUpstream, err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "failed to analyze page", nil)
	}
}

package chat

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"seo-backend/internal/shared/server/middleware"
	"seo-backend/internal/shared/server/respond"
	"seo-backend/internal/shared/telemetry"
)

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

// Handler wires the chat endpoint to an Assistant.
type Handler struct {
	Assistant *Assistant
}

func NewHandler(a *Assistant) *Handler {
	return &Handler{Assistant: a}
}

// RegisterRoutes attaches chat routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/chat", h.chat)
}

func (h *Handler) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "request body must be JSON with a message field", nil)
		return
	}

	ctx := telemetry.WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	reply, err := h.Assistant.Chat(ctx, req.Message, req.SessionID)
	if reply.SessionID != "" {
		c.Set(middleware.SessionIDKey, reply.SessionID)
	}
	if err != nil {
		var stage *StageError
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.As(err, &stage):
			respond.Error(c, http.StatusBadGateway, "upstream_error", err.Error(), gin.H{"stage": stage.Stage, "sessionId": reply.SessionID})
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to answer", nil)
		}
		return
	}
	respond.OK(c, reply)
}

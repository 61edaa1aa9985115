package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uptc-energy/energy-assistant/internal/intent"
	"github.com/uptc-energy/energy-assistant/internal/logger"
	"github.com/uptc-energy/energy-assistant/pkg/models"
)

// IntentRouter resolves a conversation into a structured action.
type IntentRouter interface {
	Route(ctx context.Context, history []models.ConversationTurn) (intent.Action, error)
}

// ChatHandler proxies raw conversations to the language-model intent service
// and returns the parsed action. State-free; session bookkeeping lives in the
// assistant endpoint.
type ChatHandler struct {
	router IntentRouter
}

func NewChatHandler(router IntentRouter) *ChatHandler {
	return &ChatHandler{router: router}
}

type ChatRequest struct {
	Messages []models.ConversationTurn `json:"messages" binding:"required,min=1"`
}

func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "messages must be a non-empty list"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	action, err := h.router.Route(ctx, req.Messages)
	if err != nil {
		if errors.Is(err, intent.ErrMissingAPIKey) {
			logger.Error("Language-model API key is not configured")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "language-model credential is not configured"})
			return
		}
		logger.Errorf("Intent routing failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "language-model request failed"})
		return
	}

	c.JSON(http.StatusOK, action)
}

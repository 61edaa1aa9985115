package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uptc-energy/energy-assistant/internal/intent"
	"github.com/uptc-energy/energy-assistant/internal/logger"
	"github.com/uptc-energy/energy-assistant/internal/session"
)

// Assistant runs one user message through the full pipeline: intent routing,
// feature assembly and prediction when asked for, session bookkeeping.
type Assistant interface {
	HandleTurn(ctx context.Context, sessionID, message string) (string, string, error)
}

type AssistantHandler struct {
	assistant Assistant
}

func NewAssistantHandler(assistant Assistant) *AssistantHandler {
	return &AssistantHandler{assistant: assistant}
}

type AssistantRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message" binding:"required"`
}

type AssistantResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

func (h *AssistantHandler) Message(c *gin.Context) {
	var req AssistantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	sessionID, reply, err := h.assistant.HandleTurn(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		case errors.Is(err, intent.ErrMissingAPIKey):
			logger.Error("Language-model API key is not configured")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "language-model credential is not configured"})
		default:
			logger.Errorf("Assistant turn failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "assistant request failed"})
		}
		return
	}

	c.JSON(http.StatusOK, AssistantResponse{
		SessionID: sessionID,
		Reply:     reply,
	})
}

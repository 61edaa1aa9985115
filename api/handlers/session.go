package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uptc-energy/energy-assistant/internal/session"
)

// SessionAccess exposes the orchestrator's session lifecycle operations.
type SessionAccess interface {
	History(sessionID string) (session.Context, error)
	Reset(sessionID string) error
}

type SessionHandler struct {
	access SessionAccess
}

func NewSessionHandler(access SessionAccess) *SessionHandler {
	return &SessionHandler{access: access}
}

func (h *SessionHandler) History(c *gin.Context) {
	sc, err := h.access.History(c.Param("id"))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id":      sc.ID,
		"history":         sc.History,
		"last_prediction": sc.LastPrediction,
		"selected_event":  sc.SelectedEvent,
		"created_at":      sc.CreatedAt,
		"updated_at":      sc.UpdatedAt,
	})
}

func (h *SessionHandler) Reset(c *gin.Context) {
	if err := h.access.Reset(c.Param("id")); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session_id": c.Param("id"), "status": "reset"})
}

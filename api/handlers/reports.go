package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/uptc-energy/energy-assistant/internal/reports"
	"github.com/uptc-energy/energy-assistant/internal/session"
	"github.com/uptc-energy/energy-assistant/pkg/models"
)

// EventSelector marks an inefficiency event as a session's explanation focus.
type EventSelector interface {
	SelectEvent(sessionID string, event models.InefficiencyEvent) error
}

type ReportsHandler struct {
	store    *reports.Store
	selector EventSelector
}

func NewReportsHandler(store *reports.Store, selector EventSelector) *ReportsHandler {
	return &ReportsHandler{store: store, selector: selector}
}

func (h *ReportsHandler) Predictions(c *gin.Context) {
	samples := h.store.Samples()
	c.JSON(http.StatusOK, gin.H{
		"data":  samples,
		"count": len(samples),
	})
}

func (h *ReportsHandler) Inefficiencies(c *gin.Context) {
	events := h.store.Events()
	c.JSON(http.StatusOK, gin.H{
		"data":  events,
		"count": len(events),
	})
}

type SelectEventRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

func (h *ReportsHandler) SelectEvent(c *gin.Context) {
	rank, err := strconv.Atoi(c.Param("rank"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rank must be an integer"})
		return
	}

	var req SelectEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}

	event, err := h.store.EventByRank(rank)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "inefficiency event not found"})
		return
	}

	if err := h.selector.SelectEvent(req.SessionID, event); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to select event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": req.SessionID,
		"selected":   event,
	})
}

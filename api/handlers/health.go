package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uptc-energy/energy-assistant/internal/reports"
	"github.com/uptc-energy/energy-assistant/internal/timeseries"
)

type HealthHandler struct {
	store   *timeseries.Store
	reports *reports.Store
}

func NewHealthHandler(store *timeseries.Store, reportStore *reports.Store) *HealthHandler {
	return &HealthHandler{store: store, reports: reportStore}
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

func (h *HealthHandler) Health(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.store == nil || h.store.Len() == 0 {
		checks["dataset"] = "unhealthy: no rows loaded"
		status = "unhealthy"
	} else {
		checks["dataset"] = "healthy"
	}

	if h.reports == nil {
		checks["reports"] = "unhealthy: not loaded"
		status = "unhealthy"
	} else {
		checks["reports"] = "healthy"
	}

	statusCode := http.StatusOK
	if status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}

func (h *HealthHandler) Ready(c *gin.Context) {
	if h.store == nil || h.store.Len() == 0 {
		c.JSON(http.StatusServiceUnavailable, HealthResponse{
			Status:    "not ready",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ready",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "alive",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

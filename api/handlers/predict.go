package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uptc-energy/energy-assistant/internal/logger"
)

// Forwarder relays an opaque request body to the forecasting service.
type Forwarder interface {
	Forward(ctx context.Context, body []byte) (status int, contentType string, respBody []byte, err error)
}

// PredictHandler is the verbatim proxy to the remote forecasting service: the
// caller's body goes upstream untouched and the upstream status, content type
// and body come back untouched.
type PredictHandler struct {
	forwarder Forwarder
}

func NewPredictHandler(forwarder Forwarder) *PredictHandler {
	return &PredictHandler{forwarder: forwarder}
}

func (h *PredictHandler) Predict(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	status, contentType, respBody, err := h.forwarder.Forward(c.Request.Context(), body)
	if err != nil {
		logger.Errorf("Prediction proxy failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "forecasting service unreachable"})
		return
	}

	if contentType == "" {
		contentType = "application/json"
	}
	c.Data(status, contentType, respBody)
}

package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/uptc-energy/energy-assistant/internal/features"
	"github.com/uptc-energy/energy-assistant/internal/logger"
)

var (
	ErrTimeout         = errors.New("prediction request timed out")
	ErrUpstream        = errors.New("prediction service error")
	ErrInvalidResponse = errors.New("invalid response from prediction service")
	ErrRequestFailed   = errors.New("prediction request failed")
)

// Client delivers feature payloads to the remote forecasting service. The
// service may be cold-starting, so the timeout is generous; there is exactly
// one attempt per user-initiated predict.
type Client struct {
	client   *http.Client
	endpoint string
	timeout  time.Duration
}

type Config struct {
	Endpoint string
	Timeout  time.Duration
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 180 * time.Second
	}

	return &Client{
		client: &http.Client{
			Timeout: timeout,
		},
		endpoint: cfg.Endpoint,
		timeout:  timeout,
	}
}

// Result is the parsed success body. Raw carries the verbatim response so
// callers can relay fields this client does not model. The numeric range of
// the prediction is not validated here; that is the remote's responsibility.
type Result struct {
	PredictionKWh float64         `json:"prediccion_kwh"`
	Site          string          `json:"sede"`
	Raw           json.RawMessage `json:"-"`
}

func (c *Client) Predict(ctx context.Context, window *features.Window) (*Result, error) {
	payload, err := json.Marshal(window)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode payload: %v", ErrRequestFailed, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	logger.WithSite(window.Site).Debugf("Sending prediction request for %s (%d bytes)",
		window.TargetTimestamp, len(payload))

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrRequestFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// The raw body is the diagnostic; surface it untouched.
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, string(body))
	}

	var result Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	result.Raw = body

	logger.WithSite(window.Site).Debugf("Prediction for %s: %.4f kWh",
		window.TargetTimestamp, result.PredictionKWh)

	return &result, nil
}

// Forward relays an arbitrary request body to the forecasting service and
// returns its status, content type, and body untouched. Used by the inbound
// proxy endpoint, which must not interpret the payload.
func (c *Client) Forward(ctx context.Context, body []byte) (int, string, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, "", nil, fmt.Errorf("%w: failed to create request: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return 0, "", nil, ErrTimeout
		}
		return 0, "", nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, "", nil, fmt.Errorf("%w: failed to read response body: %v", ErrRequestFailed, err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}

	return resp.StatusCode, contentType, respBody, nil
}

func (c *Client) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

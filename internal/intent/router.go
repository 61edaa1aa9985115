package intent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/uptc-energy/energy-assistant/internal/logger"
	"github.com/uptc-energy/energy-assistant/pkg/models"
)

var (
	ErrMissingAPIKey   = errors.New("language model credential is not configured")
	ErrRequestFailed   = errors.New("language model request failed")
	ErrUpstream        = errors.New("language model service error")
	ErrInvalidResponse = errors.New("invalid response from language model service")
)

// Router turns the latest conversation turns into one recognized Action by
// calling an OpenAI-compatible chat-completions endpoint. Parse failures of
// the model's reply degrade to a clarification action; transport and service
// failures are returned to the caller and not retried.
type Router struct {
	client   *http.Client
	endpoint string
	model    string
	apiKey   string
}

type Config struct {
	Endpoint string
	Model    string
	APIKey   string
	Timeout  time.Duration
}

func NewRouter(cfg Config) *Router {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &Router{
		client: &http.Client{
			Timeout: timeout,
		},
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Route sends the instruction prompt plus the running conversation to the
// model and validates its reply into an Action.
func (r *Router) Route(ctx context.Context, history []models.ConversationTurn) (Action, error) {
	if r.apiKey == "" {
		return Action{}, ErrMissingAPIKey
	}

	messages := make([]chatMessage, 0, len(history)+1)
	messages = append(messages, chatMessage{Role: "system", Content: instruction})
	for _, turn := range history {
		messages = append(messages, chatMessage{Role: string(turn.Role), Content: turn.Content})
	}

	payload, err := json.Marshal(completionRequest{Model: r.model, Messages: messages})
	if err != nil {
		return Action{}, fmt.Errorf("%w: failed to encode request: %v", ErrRequestFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Action{}, fmt.Errorf("%w: failed to create request: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return Action{}, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Action{}, fmt.Errorf("%w: failed to read response body: %v", ErrRequestFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		return Action{}, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, string(body))
	}

	var completion completionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return Action{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if len(completion.Choices) == 0 {
		return Action{}, fmt.Errorf("%w: no choices in completion", ErrInvalidResponse)
	}

	text := completion.Choices[0].Message.Content
	action, ok := ParseAction(text)
	if !ok {
		logger.Debugf("Model reply did not parse as an action, falling back to clarification")
		return FallbackAction(), nil
	}

	return action, nil
}

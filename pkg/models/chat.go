package models

import "time"

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ConversationTurn is one message in a chat session. Turns are append-only
// and ordered; the full sequence is replayed to the language model on every
// request.
type ConversationTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// PredictionRecord holds the most recent successful prediction for a session.
// It is overwritten on each predict and consumed by explanation requests.
type PredictionRecord struct {
	Site      string    `json:"site"`
	Timestamp string    `json:"timestamp"`
	ValueKWh  float64   `json:"value_kwh"`
	CreatedAt time.Time `json:"created_at"`
}

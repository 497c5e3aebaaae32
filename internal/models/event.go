package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// RelayEvent describes one relay invocation for the operator diagnostics
// feed. It never reaches chat callers.
type RelayEvent struct {
	ID           uuid.UUID `json:"id"`
	RequestID    string    `json:"request_id,omitempty"`
	Outcome      string    `json:"outcome"`
	Backend      string    `json:"backend"`
	MessageCount int       `json:"message_count"`
	PromptChars  int       `json:"prompt_chars"`
	ReplyChars   int       `json:"reply_chars"`
	Error        string    `json:"error,omitempty"`
	DurationMS   int64     `json:"duration_ms"`
	At           time.Time `json:"at"`
}

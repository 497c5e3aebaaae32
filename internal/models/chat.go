package models

import "errors"

var (
	ErrNullMessage = errors.New("message entry is null")
	ErrMissingRole = errors.New("message role is missing or null")
)

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "user", "assistant" or "system"; not validated
	Content string `json:"content"`
}

// IncomingMessage is a ChatMessage as it arrives on the wire. Role is a
// pointer so an absent or null role can be told apart from "".
type IncomingMessage struct {
	Role    *string `json:"role"`
	Content string  `json:"content"`
}

// ChatRequest is the payload sent to the chat endpoint.
type ChatRequest struct {
	Messages []*IncomingMessage `json:"messages"`
}

// Conversation converts the wire entries, rejecting null entries and
// entries without a role. Content may be absent.
func (r ChatRequest) Conversation() ([]ChatMessage, error) {
	conversation := make([]ChatMessage, len(r.Messages))
	for i, msg := range r.Messages {
		if msg == nil {
			return nil, ErrNullMessage
		}
		if msg.Role == nil {
			return nil, ErrMissingRole
		}
		conversation[i] = ChatMessage{Role: *msg.Role, Content: msg.Content}
	}
	return conversation, nil
}

// ChatResponse is the reply from the AI chat.
type ChatResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the flat error body returned by every endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}

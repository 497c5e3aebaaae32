package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestChatRequest_Conversation(t *testing.T) {
	req := ChatRequest{Messages: []*IncomingMessage{
		{Role: strPtr("system"), Content: "Ahoy"},
		{Role: strPtr("user")},
	}}

	conversation, err := req.Conversation()

	require.NoError(t, err)
	assert.Equal(t, []ChatMessage{{Role: "system", Content: "Ahoy"}, {Role: "user"}}, conversation)
}

func TestChatRequest_ConversationEmpty(t *testing.T) {
	conversation, err := ChatRequest{Messages: []*IncomingMessage{}}.Conversation()

	require.NoError(t, err)
	assert.NotNil(t, conversation)
	assert.Empty(t, conversation)
}

func TestChatRequest_ConversationRejects(t *testing.T) {
	_, err := ChatRequest{Messages: []*IncomingMessage{nil}}.Conversation()
	assert.ErrorIs(t, err, ErrNullMessage)

	_, err = ChatRequest{Messages: []*IncomingMessage{{Content: "hi"}}}.Conversation()
	assert.ErrorIs(t, err, ErrMissingRole)
}

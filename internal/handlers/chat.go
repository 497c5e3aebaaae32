package handlers

//go:generate mockgen -destination=./relayer_mock_test.go -package=handlers -source=chat.go Relayer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"treasuremap-backend/internal/logging"
	"treasuremap-backend/internal/models"
)

// GenericFailure is the only error text chat callers ever see.
const GenericFailure = "Something went wrong"

var errMissingMessages = errors.New("messages is missing or null")

// Relayer forwards a conversation to the text generator.
type Relayer interface {
	Relay(ctx context.Context, conversation []models.ChatMessage) (string, error)
}

type ChatHandler struct {
	relay Relayer
}

func NewChatHandler(relay Relayer) *ChatHandler {
	return &ChatHandler{relay: relay}
}

// Chat relays the posted conversation. Malformed bodies are not told apart
// from upstream failures: both get the same 500.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Chat request could not be decoded", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: GenericFailure})
		return
	}

	// `[]` decodes to an empty, non-nil slice and is a valid conversation.
	if req.Messages == nil {
		logger.Warn("Chat request rejected", zap.Error(errMissingMessages))
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: GenericFailure})
		return
	}

	conversation, err := req.Conversation()
	if err != nil {
		logger.Warn("Chat request rejected", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: GenericFailure})
		return
	}

	reply, err := h.relay.Relay(r.Context(), conversation)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: GenericFailure})
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{Message: reply})
}

package services

//go:generate mockgen -destination=./generator_mock_test.go -package=services -source=relay.go Generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"treasuremap-backend/internal/logging"
	"treasuremap-backend/internal/models"
)

// ErrRelayFailed is the only error RelayService.Relay returns. The cause is
// logged, never returned.
var ErrRelayFailed = errors.New("relay failed")

var errEmptyReply = errors.New("generator returned empty text")

// Generator produces text for a single prompt.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// RelayService turns a conversation into one generation call.
type RelayService struct {
	generator Generator
	events    EventPublisher
	backend   string
	now       func() time.Time
}

// NewRelayService wires a generator and a diagnostics publisher. backend is
// only used to label diagnostics events. A nil publisher disables events.
func NewRelayService(generator Generator, events EventPublisher, backend string) *RelayService {
	if events == nil {
		events = NopEventPublisher{}
	}
	return &RelayService{
		generator: generator,
		events:    events,
		backend:   backend,
		now:       time.Now,
	}
}

// BuildPrompt renders one "ROLE: content" line per message, in order.
func BuildPrompt(conversation []models.ChatMessage) string {
	lines := make([]string, len(conversation))
	for i, msg := range conversation {
		lines[i] = strings.ToUpper(msg.Role) + ": " + msg.Content
	}
	return strings.Join(lines, "\n")
}

// Relay sends the flattened conversation to the generator exactly once and
// returns its text. Every failure, including an empty reply, is reported as
// ErrRelayFailed.
func (s *RelayService) Relay(ctx context.Context, conversation []models.ChatMessage) (string, error) {
	start := s.now()
	prompt := BuildPrompt(conversation)

	event := models.RelayEvent{
		ID:           uuid.New(),
		RequestID:    chimiddleware.GetReqID(ctx),
		Backend:      s.backend,
		MessageCount: len(conversation),
		PromptChars:  utf8.RuneCountInString(prompt),
		At:           start.UTC(),
	}

	text, cause := s.generate(ctx, prompt)
	if cause == nil && text == "" {
		cause = errEmptyReply
	}
	event.DurationMS = s.now().Sub(start).Milliseconds()

	// The request may already be gone; the event should still go out.
	publishCtx := context.WithoutCancel(ctx)

	if cause != nil {
		logging.FromContext(ctx).Error("Relay failed",
			zap.Error(cause),
			zap.String("backend", s.backend),
			zap.Int("messages", len(conversation)),
			zap.Int64("duration_ms", event.DurationMS),
		)
		event.Outcome = models.OutcomeFailure
		event.Error = cause.Error()
		s.events.Publish(publishCtx, event)
		return "", ErrRelayFailed
	}

	event.Outcome = models.OutcomeSuccess
	event.ReplyChars = utf8.RuneCountInString(text)
	s.events.Publish(publishCtx, event)
	return text, nil
}

// generate calls the generator, turning a panic into an error.
func (s *RelayService) generate(ctx context.Context, prompt string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generator panicked: %v", r)
		}
	}()

	text, err = s.generator.GenerateText(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate text: %w", err)
	}
	return text, nil
}

package assistant

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// FallbackText is returned whenever a completion cannot be produced.
const FallbackText = "I apologize, but I'm experiencing technical difficulties. Please try again or contact our support team."

// SuccessConfidence is reported for every completed reply.
const SuccessConfidence = 0.95

// Completer produces a chat completion for a system prompt and user message.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// Reply is the assistant's answer to one message.
type Reply struct {
	Text       string    `json:"text"`
	Action     *Action   `json:"action"`
	SessionID  string    `json:"sessionId"`
	Timestamp  time.Time `json:"timestamp"`
	Confidence float64   `json:"confidence"`
}

// Assistant answers customer messages through a Completer.
type Assistant struct {
	completer Completer
	timeout   time.Duration
	now       func() time.Time
}

// New creates an Assistant. A zero timeout leaves the caller's deadline in
// charge.
func New(completer Completer, timeout time.Duration) *Assistant {
	return &Assistant{
		completer: completer,
		timeout:   timeout,
		now:       time.Now,
	}
}

// Respond answers message using cc. It never fails: completion errors are
// logged and produce the fallback reply with no action and zero confidence.
func (a *Assistant) Respond(ctx context.Context, message string, cc ConversationContext, sessionID string) Reply {
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	text, err := a.complete(ctx, SystemPrompt(cc), message)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("Chat completion failed")
		return Reply{
			Text:      FallbackText,
			SessionID: sessionID,
			Timestamp: a.now().UTC(),
		}
	}

	action := ClassifyAction(message)
	return Reply{
		Text:       text,
		Action:     &action,
		SessionID:  sessionID,
		Timestamp:  a.now().UTC(),
		Confidence: SuccessConfidence,
	}
}

func (a *Assistant) complete(ctx context.Context, systemPrompt, message string) (string, error) {
	if a.completer == nil {
		return "", errors.New("no completion provider configured")
	}
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	text, err := a.completer.Complete(ctx, systemPrompt, message)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("empty completion")
	}
	return text, nil
}

// Package client implements the chat-side session state: the ordered
// message log, the single in-flight send rule, and the consumption of the
// proxied event stream into a progressively updated assistant message.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"silk/silk/services/stream"
	"silk/silk/types"
	"silk/silk/utils/logging"
)

// ErrTransport is surfaced when the stream read fails mid-exchange. The
// placeholder assistant message has been retracted and the session remains
// usable.
var ErrTransport = errors.New("failed to receive response, please try again")

// Streamer is the upstream half of the pipeline; satisfied by
// gateway.Client and by HTTP shims that go through the server.
type Streamer interface {
	StreamChat(ctx context.Context, history []types.Message) (io.ReadCloser, error)
}

// MessageStore persists raw messages. Calls are fire-and-forget: failures
// are logged and never abort the exchange already shown to the user.
type MessageStore interface {
	Insert(ctx context.Context, conversationID, role, content string) error
}

// Observer is notified after every mutation of the message log, so a UI can
// re-render and scroll to the latest message.
type Observer func(messages []types.Message)

// Session owns the message log for one conversation. It is driven by a
// single caller; the pending flag is advisory gating, not a mutex.
type Session struct {
	ConversationID string

	messages  []types.Message
	pending   bool
	streamer  Streamer
	store     MessageStore
	observers []Observer
}

func NewSession(streamer Streamer, store MessageStore) *Session {
	return &Session{streamer: streamer, store: store}
}

func (s *Session) Subscribe(fn Observer) {
	s.observers = append(s.observers, fn)
}

// Messages returns a copy of the ordered message log.
func (s *Session) Messages() []types.Message {
	out := make([]types.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Session) Pending() bool { return s.pending }

func (s *Session) notify() {
	for _, fn := range s.observers {
		fn(s.messages)
	}
}

func (s *Session) insertMessage(ctx context.Context, role, content string) {
	if s.store == nil || s.ConversationID == "" || content == "" {
		return
	}
	if err := s.store.Insert(ctx, s.ConversationID, role, content); err != nil {
		logging.ErrorLogger.Error("failed to persist message",
			zap.String("role", role), zap.Error(err))
	}
}

// Send runs one full exchange: append the user message, stream the
// assistant reply into a placeholder message, persist both ends
// best-effort. Blank input and sends while an exchange is pending are
// rejected as no-ops. The pending flag clears on every path out.
func (s *Session) Send(ctx context.Context, userText string) error {
	if strings.TrimSpace(userText) == "" || s.pending {
		return nil
	}

	s.messages = append(s.messages, types.Message{Role: "user", Content: userText})
	s.pending = true
	defer func() { s.pending = false }()
	s.notify()

	s.insertMessage(ctx, "user", userText)

	history := s.Messages()
	s.messages = append(s.messages, types.Message{Role: "assistant", Content: ""})
	s.notify()

	body, err := s.streamer.StreamChat(ctx, history)
	if err != nil {
		s.retractPlaceholder()
		return err
	}
	defer body.Close()

	final, err := stream.Consume(ctx, body, func(fragment string) {
		last := len(s.messages) - 1
		s.messages[last].Content += fragment
		s.notify()
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// user-initiated cancellation keeps whatever text arrived
			logging.AppLogger.Info("stream cancelled by caller",
				zap.Int("partial_len", len(final)))
			s.insertMessage(context.WithoutCancel(ctx), "assistant", final)
			return nil
		}
		s.retractPlaceholder()
		logging.ErrorLogger.Error("stream transport failure", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}

	s.insertMessage(ctx, "assistant", final)
	return nil
}

// retractPlaceholder removes the trailing in-progress assistant message.
// This is the only case where a message leaves the log.
func (s *Session) retractPlaceholder() {
	if n := len(s.messages); n > 0 && s.messages[n-1].Role == "assistant" {
		s.messages = s.messages[:n-1]
		s.notify()
	}
}

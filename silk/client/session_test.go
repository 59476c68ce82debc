package client

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"silk/silk/services/gateway"
	"silk/silk/types"
	"silk/silk/utils/logging"
)

func init() {
	logging.InitTestLogger()
}

type fakeStreamer struct {
	body    io.ReadCloser
	err     error
	history []types.Message
	calls   int
}

func (f *fakeStreamer) StreamChat(ctx context.Context, history []types.Message) (io.ReadCloser, error) {
	f.calls++
	f.history = history
	if f.err != nil {
		return nil, f.err
	}
	return f.body, nil
}

type recordingStore struct {
	inserts [][3]string
	err     error
}

func (r *recordingStore) Insert(ctx context.Context, conversationID, role, content string) error {
	r.inserts = append(r.inserts, [3]string{conversationID, role, content})
	return r.err
}

func sseBody(parts ...string) io.ReadCloser {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString("data: {\"choices\":[{\"delta\":{\"content\":\"" + p + "\"}}]}\n")
	}
	b.WriteString("\ndata: [DONE]\n")
	return io.NopCloser(strings.NewReader(b.String()))
}

func TestSendSuccess(t *testing.T) {
	st := &fakeStreamer{body: sseBody("Hel", "lo")}
	store := &recordingStore{}
	s := NewSession(st, store)
	s.ConversationID = "conv-1"

	var renders int
	s.Subscribe(func([]types.Message) { renders++ })

	if err := s.Send(context.Background(), "I need a loan"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	msgs := s.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Role != "user" || msgs[0].Content != "I need a loan" {
		t.Errorf("unexpected user message: %+v", msgs[0])
	}
	if msgs[1].Role != "assistant" || msgs[1].Content != "Hello" {
		t.Errorf("unexpected assistant message: %+v", msgs[1])
	}
	if s.Pending() {
		t.Error("pending not cleared after success")
	}
	// user append, placeholder append, two delta merges
	if renders < 4 {
		t.Errorf("expected at least 4 observer notifications, got %d", renders)
	}
	// history sent upstream excludes the placeholder
	if len(st.history) != 1 || st.history[0].Role != "user" {
		t.Errorf("placeholder leaked into upstream history: %+v", st.history)
	}

	if len(store.inserts) != 2 {
		t.Fatalf("expected 2 persisted messages, got %d", len(store.inserts))
	}
	if store.inserts[0] != [3]string{"conv-1", "user", "I need a loan"} {
		t.Errorf("user message persisted wrong: %v", store.inserts[0])
	}
	if store.inserts[1] != [3]string{"conv-1", "assistant", "Hello"} {
		t.Errorf("assistant message persisted wrong: %v", store.inserts[1])
	}
}

func TestSendRejectsBlank(t *testing.T) {
	st := &fakeStreamer{body: sseBody("x")}
	s := NewSession(st, nil)
	if err := s.Send(context.Background(), "   \t"); err != nil {
		t.Fatalf("blank send should be a no-op, got %v", err)
	}
	if st.calls != 0 {
		t.Error("blank send reached the streamer")
	}
	if len(s.Messages()) != 0 {
		t.Error("blank send mutated the message log")
	}
}

func TestSendRejectedWhilePending(t *testing.T) {
	st := &fakeStreamer{body: sseBody("ok")}
	s := NewSession(st, nil)

	// re-enter Send from an observer firing mid-exchange; the nested call
	// must be rejected because pending is still set
	reentered := false
	s.Subscribe(func([]types.Message) {
		if !reentered {
			reentered = true
			if !s.Pending() {
				t.Error("observer fired with pending unset during exchange")
			}
			if err := s.Send(context.Background(), "second"); err != nil {
				t.Errorf("nested send should be a no-op, got %v", err)
			}
		}
	})

	if err := s.Send(context.Background(), "first"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if st.calls != 1 {
		t.Errorf("nested send reached the streamer: %d calls", st.calls)
	}
	if got := len(s.Messages()); got != 2 {
		t.Errorf("expected 2 messages, got %d", got)
	}

	// and once pending clears, a new send is accepted
	st.body = sseBody("again")
	if err := s.Send(context.Background(), "third"); err != nil {
		t.Fatalf("follow-up send failed: %v", err)
	}
	if st.calls != 2 {
		t.Errorf("follow-up send did not reach the streamer")
	}
}

func TestSendGatewayErrorRetractsPlaceholder(t *testing.T) {
	st := &fakeStreamer{err: gateway.ErrRateLimited}
	s := NewSession(st, nil)

	err := s.Send(context.Background(), "hello")
	if !errors.Is(err, gateway.ErrRateLimited) {
		t.Fatalf("expected rate limit error, got %v", err)
	}
	msgs := s.Messages()
	if len(msgs) != 1 || msgs[0].Role != "user" {
		t.Errorf("placeholder left dangling: %+v", msgs)
	}
	if s.Pending() {
		t.Error("pending not cleared after gateway error")
	}
}

type brokenBody struct {
	data string
	read bool
}

func (b *brokenBody) Read(p []byte) (int, error) {
	if !b.read {
		b.read = true
		return copy(p, b.data), nil
	}
	return 0, errors.New("connection reset")
}

func (b *brokenBody) Close() error { return nil }

func TestSendTransportErrorRollsBack(t *testing.T) {
	st := &fakeStreamer{body: &brokenBody{
		data: "data: {\"choices\":[{\"delta\":{\"content\":\"par\"}}]}\n",
	}}
	s := NewSession(st, nil)

	err := s.Send(context.Background(), "hello")
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	msgs := s.Messages()
	if len(msgs) != 1 || msgs[0].Role != "user" {
		t.Errorf("in-progress message not retracted: %+v", msgs)
	}
	if s.Pending() {
		t.Error("pending not cleared after transport error")
	}

	// session stays usable afterwards
	st.body = sseBody("recovered")
	if err := s.Send(context.Background(), "retry"); err != nil {
		t.Fatalf("send after transport error failed: %v", err)
	}
	msgs = s.Messages()
	if msgs[len(msgs)-1].Content != "recovered" {
		t.Errorf("session unusable after transport error: %+v", msgs)
	}
}

type cancellingBody struct {
	cancel context.CancelFunc
	sent   bool
}

func (b *cancellingBody) Read(p []byte) (int, error) {
	if !b.sent {
		b.sent = true
		return copy(p, "data: {\"choices\":[{\"delta\":{\"content\":\"part\"}}]}\n"), nil
	}
	b.cancel()
	return 0, context.Canceled
}

func (b *cancellingBody) Close() error { return nil }

func TestSendCancellationKeepsPartialText(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	st := &fakeStreamer{body: &cancellingBody{cancel: cancel}}
	s := NewSession(st, nil)

	if err := s.Send(ctx, "hello"); err != nil {
		t.Fatalf("cancellation should not surface an error, got %v", err)
	}
	msgs := s.Messages()
	if len(msgs) != 2 || msgs[1].Content != "part" {
		t.Errorf("partial text discarded on cancellation: %+v", msgs)
	}
	if s.Pending() {
		t.Error("pending not cleared after cancellation")
	}
}

func TestSendStoreFailureDoesNotAbort(t *testing.T) {
	st := &fakeStreamer{body: sseBody("fine")}
	store := &recordingStore{err: errors.New("db down")}
	s := NewSession(st, store)
	s.ConversationID = "conv-2"

	if err := s.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("persistence failure aborted the exchange: %v", err)
	}
	msgs := s.Messages()
	if msgs[len(msgs)-1].Content != "fine" {
		t.Errorf("exchange lost: %+v", msgs)
	}
}

package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"

	"silk/silk/types"
)

type wsFirstFrame struct {
	Token       string            `json:"token"`
	ChatRequest types.ChatRequest `json:"chat_request"`
}

func dialAgentWS(t *testing.T, upstream http.HandlerFunc) (*websocket.Conn, context.Context, func()) {
	t.Helper()
	router, closeUpstream := newAgentRouter(t, upstream)
	srv := httptest.NewServer(router)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	conn, _, err := websocket.Dial(ctx, srv.URL+"/ws", nil)
	if err != nil {
		cancel()
		srv.Close()
		closeUpstream()
		t.Fatalf("websocket dial failed: %v", err)
	}
	cleanup := func() {
		conn.Close(websocket.StatusNormalClosure, "")
		cancel()
		srv.Close()
		closeUpstream()
	}
	return conn, ctx, cleanup
}

func sendFirstFrame(t *testing.T, ctx context.Context, conn *websocket.Conn, token, content string) {
	t.Helper()
	frame, err := json.Marshal(wsFirstFrame{
		Token: token,
		ChatRequest: types.ChatRequest{
			Messages: []types.Message{{Role: "user", Content: content}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := conn.Write(ctx, websocket.MessageText, frame); err != nil {
		t.Fatalf("failed to send first frame: %v", err)
	}
}

func readTextFrame(t *testing.T, ctx context.Context, conn *websocket.Conn) string {
	t.Helper()
	typ, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if typ != websocket.MessageText {
		t.Fatalf("expected text frame, got %v", typ)
	}
	return string(data)
}

func TestAgentWebSocketRelaysDeltas(t *testing.T) {
	conn, ctx, cleanup := dialAgentWS(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n"))
		w.Write([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n\ndata: [DONE]\n"))
	})
	defer cleanup()

	sendFirstFrame(t, ctx, conn, testToken(t), "I need a loan")

	// one text frame per delta, in arrival order
	if got := readTextFrame(t, ctx, conn); got != "Hel" {
		t.Errorf("first delta = %q, want %q", got, "Hel")
	}
	if got := readTextFrame(t, ctx, conn); got != "lo" {
		t.Errorf("second delta = %q, want %q", got, "lo")
	}

	_, _, err := conn.Read(ctx)
	if err == nil {
		t.Fatal("expected the socket to close after the sentinel")
	}
	if status := websocket.CloseStatus(err); status != websocket.StatusNormalClosure {
		t.Errorf("close status = %v, want %v", status, websocket.StatusNormalClosure)
	}
}

func TestAgentWebSocketInvalidToken(t *testing.T) {
	conn, ctx, cleanup := dialAgentWS(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream reached with an invalid token")
	})
	defer cleanup()

	sendFirstFrame(t, ctx, conn, "not-a-token", "hello")

	var payload map[string]string
	if err := json.Unmarshal([]byte(readTextFrame(t, ctx, conn)), &payload); err != nil {
		t.Fatalf("error frame is not JSON: %v", err)
	}
	if payload["error"] != "invalid token" {
		t.Errorf("unexpected error frame: %q", payload["error"])
	}

	_, _, err := conn.Read(ctx)
	if err == nil {
		t.Fatal("expected the socket to close after rejection")
	}
	if status := websocket.CloseStatus(err); status != websocket.StatusPolicyViolation {
		t.Errorf("close status = %v, want %v", status, websocket.StatusPolicyViolation)
	}
}

func TestAgentWebSocketRateLimited(t *testing.T) {
	conn, ctx, cleanup := dialAgentWS(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	defer cleanup()

	sendFirstFrame(t, ctx, conn, testToken(t), "hello")

	var payload map[string]string
	if err := json.Unmarshal([]byte(readTextFrame(t, ctx, conn)), &payload); err != nil {
		t.Fatalf("error frame is not JSON: %v", err)
	}
	if payload["error"] != "Rate limit exceeded. Please try again later." {
		t.Errorf("unexpected error frame: %q", payload["error"])
	}

	_, _, err := conn.Read(ctx)
	if err == nil {
		t.Fatal("expected the socket to close after the gateway error")
	}
	if status := websocket.CloseStatus(err); status != websocket.StatusInternalError {
		t.Errorf("close status = %v, want %v", status, websocket.StatusInternalError)
	}
}

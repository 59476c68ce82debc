package routes

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"silk/silk/config"
	"silk/silk/controllers"
	"silk/silk/middlewares"
	"silk/silk/services/gateway"
	"silk/silk/services/stream"
	"silk/silk/types"
	"silk/silk/utils/logging"
)

func AgentRoutes(ctrl *controllers.AgentController, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))
		// POST /agent/chat : relay the gateway event stream to the caller
		gr.Post("/chat", func(w http.ResponseWriter, r *http.Request) {
			var req types.ChatRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			userID := r.Context().Value(middlewares.UserIDKey).(uuid.UUID)

			body, err := ctrl.StreamChat(r.Context(), userID, req)
			if err != nil {
				status, msg := mapGatewayError(err)
				writeError(w, status, msg)
				return
			}
			defer body.Close()

			relayStream(w, body)
		})
	})

	// websocket transport carries the token in the first frame
	r.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusInternalError, "internal error")

		ctx := r.Context()
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		if typ != websocket.MessageText {
			conn.Close(websocket.StatusUnsupportedData, "unsupported data")
			return
		}
		var input struct {
			Token       string            `json:"token"`
			ChatRequest types.ChatRequest `json:"chat_request"`
		}
		if err := json.Unmarshal(data, &input); err != nil {
			conn.Write(ctx, websocket.MessageText, []byte(`{"error":"invalid json"}`))
			return
		}

		userID, err := middlewares.UserIDFromClaims(cfg, input.Token)
		if err != nil {
			conn.Write(ctx, websocket.MessageText, []byte(`{"error":"invalid token"}`))
			conn.Close(websocket.StatusPolicyViolation, "invalid token")
			return
		}

		body, err := ctrl.StreamChat(ctx, userID, input.ChatRequest)
		if err != nil {
			_, msg := mapGatewayError(err)
			payload, _ := json.Marshal(map[string]string{"error": msg})
			conn.Write(ctx, websocket.MessageText, payload)
			conn.Close(websocket.StatusInternalError, "stream error")
			return
		}
		defer body.Close()

		// decode server-side for this transport: each delta goes out as
		// its own text frame
		var writeErr error
		_, err = stream.Consume(ctx, body, func(fragment string) {
			if writeErr != nil {
				return
			}
			writeErr = conn.Write(ctx, websocket.MessageText, []byte(fragment))
		})
		if err != nil || writeErr != nil {
			logging.ErrorLogger.Error("websocket relay failed",
				zap.NamedError("stream_err", err), zap.NamedError("write_err", writeErr))
			return
		}
		conn.Close(websocket.StatusNormalClosure, "")
	})
	return r
}

// relayStream copies the upstream body to the client as text/event-stream,
// flushing after every chunk so deltas render as they arrive.
func relayStream(w http.ResponseWriter, body io.Reader) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, canFlush := w.(http.Flusher)

	buf := make([]byte, 4096)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return
			}
			if canFlush {
				flusher.Flush()
			}
		}
		if err != nil {
			return
		}
	}
}

func mapGatewayError(err error) (int, string) {
	switch {
	case errors.Is(err, gateway.ErrNotConfigured):
		return http.StatusInternalServerError, gateway.ErrNotConfigured.Error()
	case errors.Is(err, gateway.ErrRateLimited):
		return http.StatusTooManyRequests, "Rate limit exceeded. Please try again later."
	case errors.Is(err, gateway.ErrQuotaExceeded):
		return http.StatusPaymentRequired, "Payment required. Please add credits to continue."
	default:
		return http.StatusInternalServerError, "AI gateway error"
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// Package gateway proxies chat completions to the upstream AI gateway and
// relays the streamed response body untouched.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"silk/silk/config"
	"silk/silk/services/intent"
	"silk/silk/types"
	"silk/silk/utils/logging"
)

type Client struct {
	apiKey     string
	baseURL    string
	model      string
	rules      *intent.Ruleset
	httpClient *http.Client
}

func NewClient(cfg config.Config, rules *intent.Ruleset) *Client {
	if rules == nil {
		rules = intent.DefaultRuleset()
	}
	return &Client{
		apiKey:     cfg.GatewayKey,
		baseURL:    cfg.GatewayURL,
		model:      cfg.GatewayModel,
		rules:      rules,
		httpClient: http.DefaultClient,
	}
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []wireMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

// StreamChat classifies the latest user message, prepends the composed
// system prompt, and issues exactly one streaming completion request. On
// success the response body is returned as-is for the caller to relay; the
// SSE frames inside it are not parsed here. No retries are performed.
func (c *Client) StreamChat(ctx context.Context, history []types.Message) (io.ReadCloser, error) {
	defer logging.LogDuration(ctx, "gateway_stream_chat")()

	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	it := c.rules.Classify(lastUserMessage(history))
	systemPrompt := c.rules.ComposePrompt(it)

	messages := make([]wireMessage, 0, len(history)+1)
	messages = append(messages, wireMessage{Role: "system", Content: systemPrompt})
	for _, m := range history {
		messages = append(messages, wireMessage{Role: m.Role, Content: m.Content})
	}

	body, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   true,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		resp.Body.Close()
		return nil, ErrRateLimited
	case resp.StatusCode == http.StatusPaymentRequired:
		resp.Body.Close()
		return nil, ErrQuotaExceeded
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		logging.ErrorLogger.Error("AI gateway error",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(b)),
			zap.String("intent", string(it)),
		)
		return nil, &UpstreamError{Status: resp.StatusCode, Body: string(b)}
	}

	logging.AppLogger.Info("AI gateway stream opened",
		zap.String("intent", string(it)),
		zap.Int("history_len", len(history)),
	)
	return resp.Body, nil
}

func lastUserMessage(history []types.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == "user" {
			return history[i].Content
		}
	}
	return ""
}

// silk/controllers/agent.go
package controllers

import (
	"context"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"silk/silk/sources/psql/dao"
	"silk/silk/types"
	"silk/silk/utils/logging"
)

// Streamer abstracts the gateway client so route tests can stub it.
type Streamer interface {
	StreamChat(ctx context.Context, history []types.Message) (io.ReadCloser, error)
}

// AgentController is the master agent: it persists the incoming user
// message, then proxies the history to the AI gateway and hands the raw
// event stream back for relaying.
type AgentController struct {
	gateway Streamer
	msgDAO  *dao.ChatMessageDAO
}

func NewAgentController(gateway Streamer, msgDAO *dao.ChatMessageDAO) *AgentController {
	return &AgentController{gateway: gateway, msgDAO: msgDAO}
}

// StreamChat stores the latest user message fire-and-forget, then opens the
// upstream stream. Persistence failures never block the exchange.
func (c *AgentController) StreamChat(ctx context.Context, userID uuid.UUID, req types.ChatRequest) (io.ReadCloser, error) {
	defer logging.LogDuration(ctx, "agent_stream_chat")()

	c.saveUserMessage(ctx, req)
	return c.gateway.StreamChat(ctx, req.Messages)
}

func (c *AgentController) saveUserMessage(ctx context.Context, req types.ChatRequest) {
	if c.msgDAO == nil || req.ConversationID == "" || len(req.Messages) == 0 {
		return
	}
	last := req.Messages[len(req.Messages)-1]
	if last.Role != "user" || last.Content == "" {
		return
	}
	convID, err := uuid.Parse(req.ConversationID)
	if err != nil {
		logging.ErrorLogger.Error("malformed conversation id",
			zap.String("conversation_id", req.ConversationID), zap.Error(err))
		return
	}
	if _, err := c.msgDAO.SaveMessage(ctx, convID, last.Role, last.Content); err != nil {
		logging.ErrorLogger.Error("failed to save user message", zap.Error(err))
	}
}

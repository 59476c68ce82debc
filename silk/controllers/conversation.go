// silk/controllers/conversation.go
package controllers

import (
	"context"

	"github.com/google/uuid"

	"silk/silk/sources/psql/dao"
	"silk/silk/sources/psql/models"
	"silk/silk/types"
)

type ConversationController struct {
	convDAO *dao.ConversationDAO
	msgDAO  *dao.ChatMessageDAO
}

func NewConversationController(convDAO *dao.ConversationDAO, msgDAO *dao.ChatMessageDAO) *ConversationController {
	return &ConversationController{convDAO: convDAO, msgDAO: msgDAO}
}

func (c *ConversationController) Create(ctx context.Context, userID uuid.UUID) (*models.Conversation, error) {
	return c.convDAO.Create(ctx, userID)
}

func (c *ConversationController) List(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error) {
	return c.convDAO.ListByUser(ctx, userID)
}

// GetMessages returns the transcript of a conversation the caller owns.
func (c *ConversationController) GetMessages(ctx context.Context, userID, conversationID uuid.UUID) ([]types.Message, error) {
	if _, err := c.convDAO.GetOwned(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	records, err := c.msgDAO.GetHistoryByConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	msgs := make([]types.Message, 0, len(records))
	for _, m := range records {
		msgs = append(msgs, types.Message{Role: m.Role, Content: m.Content})
	}
	return msgs, nil
}

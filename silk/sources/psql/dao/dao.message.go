package dao

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"silk/silk/sources/psql/models"
)

type ChatMessageDAO struct {
	DB *gorm.DB
}

func NewChatMessageDAO(db *gorm.DB) *ChatMessageDAO {
	return &ChatMessageDAO{DB: db}
}

func (dao *ChatMessageDAO) SaveMessage(ctx context.Context, conversationID uuid.UUID, role, content string) (*models.ChatMessage, error) {
	msg := models.ChatMessage{
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
	}
	if err := dao.DB.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

func (dao *ChatMessageDAO) GetHistoryByConversation(ctx context.Context, conversationID uuid.UUID) ([]models.ChatMessage, error) {
	var msgs []models.ChatMessage
	err := dao.DB.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// Insert satisfies client.MessageStore for conversation ids in string form.
// Parse failures are reported, not swallowed; the caller decides whether to
// ignore them.
func (dao *ChatMessageDAO) Insert(ctx context.Context, conversationID, role, content string) error {
	id, err := uuid.Parse(conversationID)
	if err != nil {
		return err
	}
	_, err = dao.SaveMessage(ctx, id, role, content)
	return err
}

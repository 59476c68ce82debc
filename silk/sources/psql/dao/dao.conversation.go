package dao

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"silk/silk/sources/psql/models"
)

var ErrConversationForbidden = errors.New("conversation not found or forbidden")

type ConversationDAO struct {
	DB *gorm.DB
}

func NewConversationDAO(db *gorm.DB) *ConversationDAO {
	return &ConversationDAO{DB: db}
}

func (dao *ConversationDAO) Create(ctx context.Context, userID uuid.UUID) (*models.Conversation, error) {
	conv := models.Conversation{UserID: userID}
	if err := dao.DB.WithContext(ctx).Create(&conv).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

func (dao *ConversationDAO) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := dao.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&convs).Error
	if err != nil {
		return nil, err
	}
	return convs, nil
}

// GetOwned fetches a conversation only if it belongs to userID.
func (dao *ConversationDAO) GetOwned(ctx context.Context, userID, conversationID uuid.UUID) (*models.Conversation, error) {
	var conv models.Conversation
	err := dao.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", conversationID, userID).
		First(&conv).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrConversationForbidden
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// MarkSanctioned records the approval outcome on the conversation.
func (dao *ConversationDAO) MarkSanctioned(ctx context.Context, conversationID uuid.UUID, loanAmount float64) error {
	return dao.DB.WithContext(ctx).
		Model(&models.Conversation{}).
		Where("id = ?", conversationID).
		Updates(map[string]any{
			"approval_status": "approved",
			"loan_status":     "sanctioned",
			"loan_amount":     loanAmount,
		}).Error
}

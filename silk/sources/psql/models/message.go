package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatMessage struct {
	ID             uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey"`
	ConversationID uuid.UUID    `json:"conversation_id" gorm:"type:uuid;not null;index"`
	Conversation   Conversation `json:"-" gorm:"foreignKey:ConversationID;references:ID;constraint:OnDelete:CASCADE"`
	Role           string       `json:"role" gorm:"type:varchar(50);not null"`
	Content        string       `json:"content" gorm:"type:text;not null"`
	Metadata       string       `json:"metadata,omitempty" gorm:"type:text"`
	CreatedAt      time.Time    `json:"created_at"`
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

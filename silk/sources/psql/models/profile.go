package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerProfile struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex"`
	User             User      `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	FullName         string    `json:"full_name" gorm:"type:varchar(255)"`
	Email            string    `json:"email" gorm:"type:varchar(255)"`
	ExistingProducts []string  `json:"existing_products" gorm:"serializer:json"`
	LoyaltyYears     int       `json:"loyalty_years"`
	CreditScore      int       `json:"credit_score"`
	CreatedAt        time.Time `json:"created_at"`
}

func (p *CustomerProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

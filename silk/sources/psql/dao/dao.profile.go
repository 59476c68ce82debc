package dao

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"silk/silk/sources/psql/models"
)

type CustomerProfileDAO struct {
	DB *gorm.DB
}

func NewCustomerProfileDAO(db *gorm.DB) *CustomerProfileDAO {
	return &CustomerProfileDAO{DB: db}
}

func (dao *CustomerProfileDAO) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.CustomerProfile, error) {
	var profile models.CustomerProfile
	err := dao.DB.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetOrCreate returns the customer profile, creating a default one for
// first-time customers.
func (dao *CustomerProfileDAO) GetOrCreate(ctx context.Context, userID uuid.UUID, email string) (*models.CustomerProfile, error) {
	profile, err := dao.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		return profile, nil
	}

	fullName, _, _ := strings.Cut(email, "@")
	if fullName == "" {
		fullName = "Valued Customer"
	}
	created := models.CustomerProfile{
		UserID:           userID,
		FullName:         fullName,
		Email:            email,
		ExistingProducts: []string{"Savings Account"},
		LoyaltyYears:     1,
		CreditScore:      720,
	}
	if err := dao.DB.WithContext(ctx).Create(&created).Error; err != nil {
		return nil, err
	}
	return &created, nil
}

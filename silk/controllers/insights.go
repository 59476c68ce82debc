// silk/controllers/insights.go
package controllers

import (
	"context"

	"github.com/google/uuid"

	"silk/silk/sources/psql/dao"
	"silk/silk/sources/psql/models"
)

// InsightsController serves the customer profile used to personalize the
// conversation, creating a default profile for first-time customers.
type InsightsController struct {
	profileDAO *dao.CustomerProfileDAO
}

func NewInsightsController(profileDAO *dao.CustomerProfileDAO) *InsightsController {
	return &InsightsController{profileDAO: profileDAO}
}

func (c *InsightsController) GetProfile(ctx context.Context, userID uuid.UUID, email string) (*models.CustomerProfile, error) {
	return c.profileDAO.GetOrCreate(ctx, userID, email)
}

// silk/controllers/auth.go
package controllers

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"silk/silk/config"
	"silk/silk/sources/psql/dao"
)

type AuthController struct {
	userDAO *dao.UserDAO
	cfg     config.Config
}

func NewAuthController(userDAO *dao.UserDAO, cfg config.Config) *AuthController {
	return &AuthController{
		userDAO: userDAO,
		cfg:     cfg,
	}
}

func (c *AuthController) Login(ctx context.Context, email string) (string, error) {
	user, err := c.userDAO.GetUserByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		user, err = c.userDAO.CreateUser(ctx, email, nil)
		if err != nil {
			return "", err
		}
	}
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(c.cfg.JWTSecret))
}

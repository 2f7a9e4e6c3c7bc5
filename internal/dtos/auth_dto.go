package dtos

import (
	"time"

	"github.com/justsurfingit/placement-portal/internal/models"
)

type SignupRequest struct {
	Name     string `json:"name" binding:"required,max=120"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
	Degree   string `json:"degree" binding:"max=120"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	User      *models.User `json:"user"`
	Role      models.Role  `json:"role"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/placement-portal/internal/apperr"
	"github.com/justsurfingit/placement-portal/internal/dtos"
	"github.com/justsurfingit/placement-portal/internal/gate"
	"github.com/justsurfingit/placement-portal/internal/middleware"
	"github.com/justsurfingit/placement-portal/internal/response"
	"github.com/justsurfingit/placement-portal/internal/services"
)

type AuthHandler struct {
	AuthService *services.AuthService
}

func NewAuthHandler(a *services.AuthService) *AuthHandler {
	return &AuthHandler{AuthService: a}
}

// Signup is POST /auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dtos.SignupRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.AuthService.Signup(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login is POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dtos.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.AuthService.Login(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Logout has nothing to revoke; tokens simply expire.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Me returns the caller's profile and where the client should send them.
func (h *AuthHandler) Me(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	user, err := h.AuthService.GetUserProfile(c.Request.Context(), sess.UserID)
	if apperr.Is(err, apperr.CodeNotFound) {
		response.Error(c, apperr.NotFound("User profile not found"))
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":       user,
		"home":       gate.HomeFor(user.Role),
		"avatar_url": services.AvatarURL(user.ID),
	})
}

// Gate is GET /gate?path=/admin
func (h *AuthHandler) Gate(c *gin.Context) {
	c.JSON(http.StatusOK, gate.Decide(c.Query("path"), middleware.SessionFrom(c)))
}

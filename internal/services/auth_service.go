package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/justsurfingit/placement-portal/internal/apperr"
	"github.com/justsurfingit/placement-portal/internal/auth"
	"github.com/justsurfingit/placement-portal/internal/dtos"
	"github.com/justsurfingit/placement-portal/internal/models"
)

type AuthService struct {
	users  UserStore
	tokens *auth.Tokens
}

func NewAuthService(users UserStore, tokens *auth.Tokens) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Signup creates the identity and its profile document in one write.
func (s *AuthService) Signup(ctx context.Context, req *dtos.SignupRequest) (*dtos.AuthResponse, error) {
	if err := auth.ValidateEmail(req.Email); err != nil {
		return nil, err
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("Name is required", map[string]string{"name": "required"})
	}
	role := models.RoleStudent
	if strings.TrimSpace(req.Role) != "" {
		role = models.ParseRole(req.Role)
		if role == "" {
			return nil, apperr.Validation("Role must be student or admin", map[string]string{"role": "invalid"})
		}
	}
	degree := strings.TrimSpace(req.Degree)
	if role == models.RoleStudent && degree == "" {
		return nil, apperr.Validation("Degree is required for students", map[string]string{"degree": "required"})
	}
	if role == models.RoleAdmin {
		degree = ""
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Name:         name,
		Email:        req.Email,
		Role:         role,
		Degree:       degree,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	slog.Info("user signed up", "uid", user.ID, "role", user.Role)
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, req *dtos.LoginRequest) (*dtos.AuthResponse, error) {
	if err := auth.ValidateEmail(req.Email); err != nil {
		return nil, err
	}
	user, err := s.users.GetByEmail(ctx, req.Email)
	if apperr.Is(err, apperr.CodeNotFound) {
		return nil, apperr.New(apperr.CodeUnauthorized, "Invalid email or password", nil)
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, apperr.New(apperr.CodeUnauthorized, "Invalid email or password", nil)
	}
	return s.issue(user)
}

func (s *AuthService) GetUserProfile(ctx context.Context, uid string) (*models.User, error) {
	return s.users.GetByID(ctx, uid)
}

// RestoreSession resolves a bearer token to a session. A valid token whose
// profile has gone missing yields a session with no role.
func (s *AuthService) RestoreSession(ctx context.Context, token string) (*auth.Session, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, apperr.New(apperr.CodeUnauthorized, "Invalid or expired session", err)
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if apperr.Is(err, apperr.CodeNotFound) {
		slog.Warn("session without profile", "uid", claims.UserID)
		return &auth.Session{UserID: claims.UserID}, nil
	}
	if err != nil {
		return nil, err
	}
	return auth.SessionFor(user), nil
}

func (s *AuthService) issue(user *models.User) (*dtos.AuthResponse, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, apperr.New(apperr.CodeInternal, "Failed to issue session", err)
	}
	return &dtos.AuthResponse{User: user, Role: user.Role, Token: token, ExpiresAt: expiresAt}, nil
}

package auth

import "github.com/justsurfingit/placement-portal/internal/models"

// Session is the caller's identity for one request. It is built by the HTTP
// layer and handed to services explicitly; nothing in the process holds a
// "current user".
type Session struct {
	UserID string
	Email  string
	Name   string
	// Empty when the identity exists but its profile document does not.
	Role models.Role
}

func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != ""
}

func (s *Session) HasRole(role models.Role) bool {
	return s.Authenticated() && s.Role == role
}

func (s *Session) IsAdmin() bool   { return s.HasRole(models.RoleAdmin) }
func (s *Session) IsStudent() bool { return s.HasRole(models.RoleStudent) }

// SessionFor builds the session for a loaded profile.
func SessionFor(u *models.User) *Session {
	return &Session{UserID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

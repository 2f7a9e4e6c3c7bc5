package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/placement-portal/internal/apperr"
	"github.com/justsurfingit/placement-portal/internal/auth"
	"github.com/justsurfingit/placement-portal/internal/models"
	"github.com/justsurfingit/placement-portal/internal/response"
)

const sessionKey = "session"

type SessionRestorer interface {
	RestoreSession(ctx context.Context, token string) (*auth.Session, error)
}

type AuthMiddleware struct {
	sessions SessionRestorer
}

func NewAuthMiddleware(sessions SessionRestorer) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// LoadSession attaches a session when a valid bearer token is present and
// leaves the request anonymous otherwise.
func (m *AuthMiddleware) LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if ok {
			if sess, err := m.sessions.RestoreSession(c.Request.Context(), token); err == nil {
				c.Set(sessionKey, sess)
			} else if !apperr.Is(err, apperr.CodeUnauthorized) {
				response.Error(c, err)
				return
			}
		}
		c.Next()
	}
}

// Authenticate requires a valid session.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Error(c, apperr.New(apperr.CodeUnauthorized, "missing authorization header", nil))
			return
		}
		sess, err := m.sessions.RestoreSession(c.Request.Context(), token)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

// RequireRole must run after Authenticate.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := SessionFrom(c)
		if !sess.Authenticated() {
			response.Error(c, apperr.New(apperr.CodeUnauthorized, "Please login first", nil))
			return
		}
		if sess.Role == "" {
			response.Error(c, apperr.New(apperr.CodeForbidden, "role not assigned", nil))
			return
		}
		if sess.Role != role {
			response.Error(c, apperr.New(apperr.CodeForbidden, "insufficient role", nil))
			return
		}
		c.Next()
	}
}

// SessionFrom returns nil for anonymous requests.
func SessionFrom(c *gin.Context) *auth.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*auth.Session)
	return sess
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || strings.TrimSpace(parts[1]) == "" {
		// EventSource cannot set headers, so streams pass the token as a query param.
		if t := c.Query("access_token"); t != "" {
			return t, true
		}
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// Package gate decides what a caller may see for each client route.
package gate

import (
	"strings"

	"github.com/justsurfingit/placement-portal/internal/auth"
	"github.com/justsurfingit/placement-portal/internal/models"
)

type Outcome string

const (
	Allow    Outcome = "allow"
	Redirect Outcome = "redirect"
	Denied   Outcome = "denied"
	NotFound Outcome = "not_found"
)

const (
	LoginPath   = "/login"
	AdminHome   = "/admin"
	StudentHome = "/student"

	DeniedMessage = "Access denied. Your account has no role assigned; contact the placement cell."
)

type Decision struct {
	Outcome  Outcome `json:"outcome"`
	Location string  `json:"location,omitempty"`
	Message  string  `json:"message,omitempty"`
}

type route struct {
	path   string
	prefix bool
	role   models.Role // empty for public routes
}

var routes = []route{
	{path: "/"},
	{path: "/login"},
	{path: "/signup"},
	{path: "/admin", role: models.RoleAdmin},
	{path: "/create-job", role: models.RoleAdmin},
	{path: "/edit-job/", prefix: true, role: models.RoleAdmin},
	{path: "/student", role: models.RoleStudent},
	{path: "/jobs", role: models.RoleStudent},
}

// HomeFor returns the landing route for role, or "" for no role.
func HomeFor(role models.Role) string {
	switch role {
	case models.RoleAdmin:
		return AdminHome
	case models.RoleStudent:
		return StudentHome
	}
	return ""
}

// Decide applies the gate to path for sess, which may be nil.
func Decide(path string, sess *auth.Session) Decision {
	r, ok := match(path)
	if !ok {
		return Decision{Outcome: NotFound}
	}
	if r.role == "" {
		return Decision{Outcome: Allow}
	}
	if !sess.Authenticated() {
		return Decision{Outcome: Redirect, Location: LoginPath}
	}
	if sess.Role == "" {
		return Decision{Outcome: Denied, Message: DeniedMessage}
	}
	if sess.Role != r.role {
		return Decision{Outcome: Redirect, Location: HomeFor(sess.Role)}
	}
	return Decision{Outcome: Allow}
}

func match(path string) (route, bool) {
	if path == "" {
		path = "/"
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	for _, r := range routes {
		if r.prefix {
			if id := strings.TrimPrefix(path, r.path); id != path && id != "" && !strings.Contains(id, "/") {
				return r, true
			}
			continue
		}
		if path == r.path {
			return r, true
		}
	}
	return route{}, false
}

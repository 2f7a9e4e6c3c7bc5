package gate

import (
	"testing"

	"github.com/justsurfingit/placement-portal/internal/auth"
	"github.com/justsurfingit/placement-portal/internal/models"
)

func TestDecide(t *testing.T) {
	admin := &auth.Session{UserID: "a1", Role: models.RoleAdmin}
	student := &auth.Session{UserID: "s1", Role: models.RoleStudent}
	roleless := &auth.Session{UserID: "x1"}

	tests := []struct {
		name string
		path string
		sess *auth.Session
		want Decision
	}{
		{"public landing", "/", nil, Decision{Outcome: Allow}},
		{"public login", "/login", student, Decision{Outcome: Allow}},
		{"anonymous admin", "/admin", nil, Decision{Outcome: Redirect, Location: "/login"}},
		{"anonymous jobs", "/jobs", nil, Decision{Outcome: Redirect, Location: "/login"}},
		{"student on admin", "/admin", student, Decision{Outcome: Redirect, Location: "/student"}},
		{"admin on jobs", "/jobs", admin, Decision{Outcome: Redirect, Location: "/admin"}},
		{"admin on create", "/create-job", admin, Decision{Outcome: Allow}},
		{"admin on edit", "/edit-job/42", admin, Decision{Outcome: Allow}},
		{"student on edit", "/edit-job/42", student, Decision{Outcome: Redirect, Location: "/student"}},
		{"student home", "/student/", student, Decision{Outcome: Allow}},
		{"no role", "/student", roleless, Decision{Outcome: Denied, Message: DeniedMessage}},
		{"edit without id", "/edit-job/", admin, Decision{Outcome: NotFound}},
		{"unknown", "/nope", admin, Decision{Outcome: NotFound}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.path, tt.sess); got != tt.want {
				t.Fatalf("Decide(%q) = %+v, want %+v", tt.path, got, tt.want)
			}
		})
	}
}

func TestHomeFor(t *testing.T) {
	if HomeFor(models.RoleAdmin) != "/admin" || HomeFor(models.RoleStudent) != "/student" || HomeFor("") != "" {
		t.Fatal("unexpected home routes")
	}
}

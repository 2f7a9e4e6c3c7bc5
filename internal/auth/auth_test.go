package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/justsurfingit/placement-portal/internal/apperr"
	"github.com/justsurfingit/placement-portal/internal/models"
)

func TestValidEmail(t *testing.T) {
	cases := map[string]bool{
		"a@b.co":            true,
		"student@uni.ac.in": true,
		"no-at-sign.com":    false,
		"a@b":               false,
		"a b@c.com":         false,
		"@b.com":            false,
		"":                  false,
	}
	for in, want := range cases {
		if got := ValidEmail(in); got != want {
			t.Errorf("ValidEmail(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestValidPassword(t *testing.T) {
	cases := map[string]bool{
		"Abcdefg1":  true,
		"Abcdef1":   false, // seven characters
		"abcdefg1":  false,
		"ABCDEFG1":  false,
		"Abcdefgh":  false,
		"Str0ngPwd": true,
	}
	for in, want := range cases {
		if got := ValidPassword(in); got != want {
			t.Errorf("ValidPassword(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestValidatePasswordListsEveryProblem(t *testing.T) {
	err := ValidatePassword("abc")
	if !apperr.Is(err, apperr.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	var e *apperr.Error
	if !errors.As(err, &e) {
		t.Fatal("expected *apperr.Error")
	}
	want := "at least 8 characters, one uppercase letter, one number"
	if e.Fields["password"] != want {
		t.Fatalf("fields = %q, want %q", e.Fields["password"], want)
	}

	long := "Aa1" + strings.Repeat("x", 80)
	if !errors.As(ValidatePassword(long), &e) || e.Fields["password"] != "at most 72 bytes" {
		t.Fatalf("83-byte password: %v", e)
	}
	if err := ValidatePassword("Aa1" + strings.Repeat("x", 69)); err != nil {
		t.Fatalf("72 bytes is allowed: %v", err)
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(hash, "Secret123") {
		t.Fatal("expected password to match")
	}
	if CheckPassword(hash, "Secret124") {
		t.Fatal("expected mismatch")
	}
}

func TestTokensRoundTrip(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)
	tok, exp, err := tokens.Issue("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatal("expiry should be in the future")
	}
	claims, err := tokens.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("uid = %q", claims.UserID)
	}
}

func TestTokensRejectForeignAndExpired(t *testing.T) {
	other := NewTokens("other-secret", time.Hour)
	tok, _, _ := other.Issue("user-1")
	if _, err := NewTokens("test-secret", time.Hour).Parse(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("foreign token: got %v", err)
	}

	expired := NewTokens("test-secret", -time.Minute)
	tok, _, _ = expired.Issue("user-1")
	if _, err := expired.Parse(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token: got %v", err)
	}
}

func TestSessionRoles(t *testing.T) {
	var anon *Session
	if anon.Authenticated() || anon.IsAdmin() {
		t.Fatal("nil session must be anonymous")
	}
	roleless := &Session{UserID: "u1"}
	if !roleless.Authenticated() || roleless.IsStudent() || roleless.IsAdmin() {
		t.Fatal("roleless session should be authenticated with no role")
	}
	admin := SessionFor(&models.User{ID: "a1", Role: models.RoleAdmin})
	if !admin.IsAdmin() || admin.IsStudent() {
		t.Fatal("expected admin session")
	}
}

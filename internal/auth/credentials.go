package auth

import (
	"regexp"
	"strings"

	"github.com/justsurfingit/placement-portal/internal/apperr"
	"golang.org/x/crypto/bcrypt"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	upperPattern = regexp.MustCompile(`[A-Z]`)
	lowerPattern = regexp.MustCompile(`[a-z]`)
	digitPattern = regexp.MustCompile(`\d`)
)

const (
	minPasswordLength = 8
	// bcrypt only accepts up to 72 bytes.
	maxPasswordBytes = 72
)

func ValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// PasswordProblems lists every rule the password breaks, empty when it passes.
func PasswordProblems(password string) []string {
	var problems []string
	if len(password) < minPasswordLength {
		problems = append(problems, "at least 8 characters")
	}
	if len(password) > maxPasswordBytes {
		problems = append(problems, "at most 72 bytes")
	}
	if !upperPattern.MatchString(password) {
		problems = append(problems, "one uppercase letter")
	}
	if !lowerPattern.MatchString(password) {
		problems = append(problems, "one lowercase letter")
	}
	if !digitPattern.MatchString(password) {
		problems = append(problems, "one number")
	}
	return problems
}

func ValidPassword(password string) bool {
	return len(PasswordProblems(password)) == 0
}

// ValidateEmail returns a validation error for malformed addresses.
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return apperr.Validation("Email is required", map[string]string{"email": "required"})
	}
	if !ValidEmail(email) {
		return apperr.Validation("Please enter a valid email address", map[string]string{"email": "invalid format"})
	}
	return nil
}

func ValidatePassword(password string) error {
	problems := PasswordProblems(password)
	if len(problems) == 0 {
		return nil
	}
	return apperr.Validation(
		"Password must contain "+strings.Join(problems, ", "),
		map[string]string{"password": strings.Join(problems, ", ")},
	)
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperr.New(apperr.CodeInternal, "Failed to hash password", err)
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

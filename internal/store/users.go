// Package store holds the gorm-backed profile, job and application stores.
package store

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/justsurfingit/placement-portal/internal/apperr"
	"github.com/justsurfingit/placement-portal/internal/models"
	"gorm.io/gorm"
)

const EmailInUseMessage = "This email is already registered. Please login instead."

// validID reports whether id can be a primary key at all. Anything else would
// reach PostgreSQL as a uuid syntax error.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

type UserStore struct {
	DB *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{DB: db}
}

func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	err := apperr.FromStore("Failed to create user profile", s.DB.WithContext(ctx).Create(u).Error)
	if apperr.Is(err, apperr.CodeConflict) {
		return apperr.New(apperr.CodeEmailInUse, EmailInUseMessage, err)
	}
	return err
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	if !validID(id) {
		return nil, apperr.NotFound("User not found")
	}
	var u models.User
	err := s.DB.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, apperr.FromStore("Failed to load user profile", err)
	}
	return &u, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.DB.WithContext(ctx).First(&u, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, apperr.FromStore("Failed to load user profile", err)
	}
	return &u, nil
}

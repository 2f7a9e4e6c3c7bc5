package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// ParseRole lower-cases the input. Unknown values come back as "".
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleStudent:
		return RoleStudent
	case RoleAdmin:
		return RoleAdmin
	}
	return ""
}

type Status string

const (
	StatusApplied  Status = "applied"
	StatusSelected Status = "selected"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusApplied, StatusSelected, StatusRejected:
		return true
	}
	return false
}

// User is the profile document. Written once at sign-up.
type User struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"uid"`
	CreatedAt time.Time `json:"created_at"`

	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	Role         Role   `gorm:"type:varchar(16);not null" json:"role"`
	Degree       string `json:"degree,omitempty"`
	PasswordHash string `gorm:"not null" json:"-"`
}

type Job struct {
	ID string `gorm:"primaryKey;type:uuid" json:"id"`
	// Pointer so rows imported without a timestamp can be told apart; they sort last.
	CreatedAt *time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Eligibility string    `gorm:"type:text" json:"eligibility"`
	Location    string    `json:"location"`
	LastDate    time.Time `gorm:"type:date" json:"last_date"`
	PostedBy    string    `gorm:"index;type:uuid" json:"posted_by"`
}

type Application struct {
	ID        string     `gorm:"primaryKey;type:uuid" json:"id"`
	CreatedAt *time.Time `json:"created_at"`

	// No foreign keys: jobs may be deleted while their applications stay behind.
	JobID     string `gorm:"index;type:uuid" json:"job_id"`
	UserID    string `gorm:"index;type:uuid" json:"user_id"`
	ResumeURL string `gorm:"type:text" json:"resume_url"`
	UserName  string `json:"user_name"`
	Status    Status `gorm:"type:varchar(16);default:'applied'" json:"status"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	return nil
}

func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

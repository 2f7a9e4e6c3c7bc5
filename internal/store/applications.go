package store

import (
	"context"
	"errors"
	"time"

	"github.com/justsurfingit/placement-portal/internal/apperr"
	"github.com/justsurfingit/placement-portal/internal/models"
	"gorm.io/gorm"
)

type ApplicationStore struct {
	DB *gorm.DB
}

func NewApplicationStore(db *gorm.DB) *ApplicationStore {
	return &ApplicationStore{DB: db}
}

func (s *ApplicationStore) Create(ctx context.Context, app *models.Application) error {
	if app.CreatedAt == nil {
		now := time.Now().UTC()
		app.CreatedAt = &now
	}
	return apperr.FromStore("Failed to submit application", s.DB.WithContext(ctx).Create(app).Error)
}

func (s *ApplicationStore) Get(ctx context.Context, id string) (*models.Application, error) {
	if !validID(id) {
		return nil, apperr.NotFound("Application not found")
	}
	var app models.Application
	err := s.DB.WithContext(ctx).First(&app, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Application not found")
	}
	if err != nil {
		return nil, apperr.FromStore("Failed to fetch application", err)
	}
	return &app, nil
}

// Exists reports whether any application links jobID and userID.
func (s *ApplicationStore) Exists(ctx context.Context, jobID, userID string) (bool, error) {
	if !validID(jobID) || !validID(userID) {
		return false, nil
	}
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.Application{}).
		Where("job_id = ? AND user_id = ?", jobID, userID).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, apperr.FromStore("Failed to check existing application", err)
	}
	return count > 0, nil
}

func (s *ApplicationStore) ListByJob(ctx context.Context, jobID string) ([]models.Application, error) {
	if !validID(jobID) {
		return nil, nil
	}
	var apps []models.Application
	if err := s.DB.WithContext(ctx).Where("job_id = ?", jobID).Find(&apps).Error; err != nil {
		return nil, apperr.FromStore("Failed to fetch applications", err)
	}
	return apps, nil
}

func (s *ApplicationStore) ListByUser(ctx context.Context, userID string) ([]models.Application, error) {
	var apps []models.Application
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&apps).Error; err != nil {
		return nil, apperr.FromStore("Failed to fetch student applications", err)
	}
	return apps, nil
}

func (s *ApplicationStore) UpdateStatus(ctx context.Context, id string, status models.Status) error {
	if !validID(id) {
		return apperr.NotFound("Application not found")
	}
	res := s.DB.WithContext(ctx).Model(&models.Application{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return apperr.FromStore("Failed to update application status", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Application not found")
	}
	return nil
}

func (s *ApplicationStore) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return apperr.NotFound("Application not found")
	}
	res := s.DB.WithContext(ctx).Delete(&models.Application{}, "id = ?", id)
	if res.Error != nil {
		return apperr.FromStore("Failed to delete application", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Application not found")
	}
	return nil
}

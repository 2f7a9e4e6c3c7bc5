package store

import (
	"context"
	"errors"
	"time"

	"github.com/justsurfingit/placement-portal/internal/apperr"
	"github.com/justsurfingit/placement-portal/internal/models"
	"gorm.io/gorm"
)

type JobStore struct {
	DB *gorm.DB
}

func NewJobStore(db *gorm.DB) *JobStore {
	return &JobStore{DB: db}
}

func (s *JobStore) Create(ctx context.Context, job *models.Job) error {
	if job.CreatedAt == nil {
		now := time.Now().UTC()
		job.CreatedAt = &now
	}
	return apperr.FromStore("Failed to create job", s.DB.WithContext(ctx).Create(job).Error)
}

func (s *JobStore) Get(ctx context.Context, id string) (*models.Job, error) {
	if !validID(id) {
		return nil, apperr.NotFound("Job not found")
	}
	var job models.Job
	err := s.DB.WithContext(ctx).First(&job, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Job not found")
	}
	if err != nil {
		return nil, apperr.FromStore("Failed to fetch job", err)
	}
	return &job, nil
}

// Update writes the editable fields only; PostedBy and CreatedAt never change.
func (s *JobStore) Update(ctx context.Context, job *models.Job) error {
	if !validID(job.ID) {
		return apperr.NotFound("Job not found")
	}
	res := s.DB.WithContext(ctx).Model(&models.Job{}).Where("id = ?", job.ID).Updates(map[string]any{
		"title":       job.Title,
		"description": job.Description,
		"eligibility": job.Eligibility,
		"location":    job.Location,
		"last_date":   job.LastDate,
		"updated_at":  time.Now().UTC(),
	})
	if res.Error != nil {
		return apperr.FromStore("Failed to update job", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Job not found")
	}
	return nil
}

func (s *JobStore) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return apperr.NotFound("Job not found")
	}
	res := s.DB.WithContext(ctx).Delete(&models.Job{}, "id = ?", id)
	if res.Error != nil {
		return apperr.FromStore("Failed to delete job", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Job not found")
	}
	return nil
}

// List returns jobs in store order; callers sort.
func (s *JobStore) List(ctx context.Context) ([]models.Job, error) {
	var jobs []models.Job
	if err := s.DB.WithContext(ctx).Find(&jobs).Error; err != nil {
		return nil, apperr.FromStore("Failed to fetch jobs", err)
	}
	return jobs, nil
}

func (s *JobStore) ListByPostedBy(ctx context.Context, adminID string) ([]models.Job, error) {
	var jobs []models.Job
	if err := s.DB.WithContext(ctx).Where("posted_by = ?", adminID).Find(&jobs).Error; err != nil {
		return nil, apperr.FromStore("Failed to fetch admin jobs", err)
	}
	return jobs, nil
}

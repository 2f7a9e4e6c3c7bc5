package services

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/justsurfingit/placement-portal/internal/apperr"
	"github.com/justsurfingit/placement-portal/internal/auth"
	"github.com/justsurfingit/placement-portal/internal/dtos"
	"github.com/justsurfingit/placement-portal/internal/events"
	"github.com/justsurfingit/placement-portal/internal/models"
)

const lastDateLayout = "2006-01-02"

type JobService struct {
	jobs JobStore
	hub  *events.Hub
}

func NewJobService(jobs JobStore, hub *events.Hub) *JobService {
	return &JobService{jobs: jobs, hub: hub}
}

func (s *JobService) CreateJob(ctx context.Context, sess *auth.Session, req *dtos.JobRequest) (*models.Job, error) {
	if !sess.IsAdmin() {
		return nil, apperr.New(apperr.CodeForbidden, "Only admins can post jobs", nil)
	}
	job, err := jobFromRequest(req)
	if err != nil {
		return nil, err
	}
	job.PostedBy = sess.UserID
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	slog.Info("job created", "job_id", job.ID, "posted_by", job.PostedBy)
	s.publish(ctx, events.TypeJobCreated, job)
	return job, nil
}

func (s *JobService) GetJob(ctx context.Context, id string) (*models.Job, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperr.Validation("Job id is required", nil)
	}
	return s.jobs.Get(ctx, id)
}

// UpdateJob rewrites the editable fields of a job owned by the caller.
func (s *JobService) UpdateJob(ctx context.Context, sess *auth.Session, id string, req *dtos.JobRequest) (*models.Job, error) {
	existing, err := s.ownedJob(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	patch, err := jobFromRequest(req)
	if err != nil {
		return nil, err
	}
	patch.ID = existing.ID
	if err := s.jobs.Update(ctx, patch); err != nil {
		return nil, err
	}
	updated, err := s.jobs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.TypeJobUpdated, updated)
	return updated, nil
}

func (s *JobService) DeleteJob(ctx context.Context, sess *auth.Session, id string) error {
	existing, err := s.ownedJob(ctx, sess, id)
	if err != nil {
		return err
	}
	if err := s.jobs.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("job deleted", "job_id", id)
	s.publish(ctx, events.TypeJobDeleted, existing)
	return nil
}

func (s *JobService) GetAllJobs(ctx context.Context) ([]models.Job, error) {
	jobs, err := s.jobs.List(ctx)
	if err != nil {
		return nil, err
	}
	SortJobsNewestFirst(jobs)
	return jobs, nil
}

func (s *JobService) GetJobsByAdmin(ctx context.Context, adminID string) ([]models.Job, error) {
	jobs, err := s.jobs.ListByPostedBy(ctx, adminID)
	if err != nil {
		return nil, err
	}
	SortJobsNewestFirst(jobs)
	return jobs, nil
}

func (s *JobService) ownedJob(ctx context.Context, sess *auth.Session, id string) (*models.Job, error) {
	if !sess.IsAdmin() {
		return nil, apperr.New(apperr.CodeForbidden, "Only admins can modify jobs", nil)
	}
	job, err := s.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.PostedBy != sess.UserID {
		return nil, apperr.New(apperr.CodeForbidden, "You can only modify jobs you posted", nil)
	}
	return job, nil
}

func (s *JobService) publish(ctx context.Context, typ string, job *models.Job) {
	if s.hub == nil {
		return
	}
	evt := events.MakeEvent(events.RequestIDFrom(ctx), typ, 1, map[string]string{"job_id": job.ID})
	evt.PostedBy = job.PostedBy
	s.hub.Publish(evt)
}

// SortJobsNewestFirst orders by CreatedAt descending. Jobs without a
// timestamp go last and keep their relative order.
func SortJobsNewestFirst(jobs []models.Job) {
	sort.SliceStable(jobs, func(i, j int) bool {
		a, b := jobs[i].CreatedAt, jobs[j].CreatedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return a.After(*b)
	})
}

func jobFromRequest(req *dtos.JobRequest) (*models.Job, error) {
	job := &models.Job{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Eligibility: strings.TrimSpace(req.Eligibility),
		Location:    strings.TrimSpace(req.Location),
	}
	switch {
	case job.Title == "":
		return nil, apperr.Validation("Job title is required", map[string]string{"title": "required"})
	case job.Description == "":
		return nil, apperr.Validation("Job description is required", map[string]string{"description": "required"})
	case job.Eligibility == "":
		return nil, apperr.Validation("Eligibility criteria is required", map[string]string{"eligibility": "required"})
	case job.Location == "":
		return nil, apperr.Validation("Location is required", map[string]string{"location": "required"})
	case strings.TrimSpace(req.LastDate) == "":
		return nil, apperr.Validation("Last date is required", map[string]string{"last_date": "required"})
	}
	lastDate, err := time.Parse(lastDateLayout, strings.TrimSpace(req.LastDate))
	if err != nil {
		return nil, apperr.Validation("Last date must be YYYY-MM-DD", map[string]string{"last_date": "invalid format"})
	}
	job.LastDate = lastDate
	return job, nil
}

package services

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/justsurfingit/placement-portal/internal/apperr"
	"github.com/justsurfingit/placement-portal/internal/auth"
	"github.com/justsurfingit/placement-portal/internal/dtos"
	"github.com/justsurfingit/placement-portal/internal/models"
	"github.com/justsurfingit/placement-portal/internal/storage"
)

const AlreadyAppliedMessage = "You have already applied for this job"

type ApplicationService struct {
	apps    ApplicationStore
	jobs    JobStore
	resumes *ResumeService
	// strictStatus turns the status setter into applied -> selected|rejected.
	strictStatus bool
}

func NewApplicationService(apps ApplicationStore, jobs JobStore, resumes *ResumeService, strictStatus bool) *ApplicationService {
	return &ApplicationService{apps: apps, jobs: jobs, resumes: resumes, strictStatus: strictStatus}
}

// CheckDuplicateApplication reports whether userID already applied to jobID.
// It is a plain read; a concurrent submit can still slip in after it unless the
// unique index is enabled.
func (s *ApplicationService) CheckDuplicateApplication(ctx context.Context, jobID, userID string) (bool, error) {
	if jobID == "" || userID == "" {
		return false, apperr.Validation("Job and user are required", nil)
	}
	return s.apps.Exists(ctx, jobID, userID)
}

// SubmitApplication writes one application in the applied state and returns
// its id. Store failures are returned as is.
func (s *ApplicationService) SubmitApplication(ctx context.Context, jobID, userID, resumeRef, displayName string) (string, error) {
	if jobID == "" || userID == "" {
		return "", apperr.Validation("Job and user are required", nil)
	}
	if strings.TrimSpace(resumeRef) == "" {
		return "", apperr.Validation("Resume is required", map[string]string{"resume": "required"})
	}
	app := &models.Application{
		JobID:     jobID,
		UserID:    userID,
		ResumeURL: resumeRef,
		UserName:  displayName,
		Status:    models.StatusApplied,
	}
	if err := s.apps.Create(ctx, app); err != nil {
		if apperr.Is(err, apperr.CodeConflict) {
			return "", apperr.New(apperr.CodeConflict, AlreadyAppliedMessage, err)
		}
		return "", err
	}
	slog.Info("application submitted", "application_id", app.ID, "job_id", jobID, "uid", userID)
	return app.ID, nil
}

// Apply is the full student flow: file checks, duplicate check, resume
// transfer, then the write. Nothing is uploaded or written for a duplicate.
func (s *ApplicationService) Apply(ctx context.Context, sess *auth.Session, jobID string, f ResumeFile, progress storage.ProgressFunc) (*dtos.ApplyResponse, error) {
	if !sess.IsStudent() {
		return nil, apperr.New(apperr.CodeForbidden, "Only students can apply", nil)
	}
	if err := s.resumes.Validate(f); err != nil {
		return nil, err
	}
	dup, err := s.CheckDuplicateApplication(ctx, jobID, sess.UserID)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, apperr.New(apperr.CodeConflict, AlreadyAppliedMessage, nil)
	}
	if _, err := s.jobs.Get(ctx, jobID); err != nil {
		return nil, err
	}
	stored, err := s.resumes.Store(ctx, sess.UserID, f, progress)
	if err != nil {
		return nil, err
	}
	name := sess.Name
	if name == "" {
		name = sess.Email
	}
	id, err := s.SubmitApplication(ctx, jobID, sess.UserID, stored.Ref, name)
	if err != nil {
		return nil, err
	}
	return &dtos.ApplyResponse{ApplicationID: id, ResumeURL: stored.Ref, Fallback: stored.Fallback}, nil
}

// ResumeStrategy names how new resumes are stored: inline or blob.
func (s *ApplicationService) ResumeStrategy() string {
	return s.resumes.Strategy()
}

func (s *ApplicationService) GetApplication(ctx context.Context, id string) (*models.Application, error) {
	return s.apps.Get(ctx, id)
}

func (s *ApplicationService) GetApplicationsForJob(ctx context.Context, jobID string) ([]models.Application, error) {
	apps, err := s.apps.ListByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	sortApplicationsNewestFirst(apps)
	return apps, nil
}

func (s *ApplicationService) GetApplicationsByStudent(ctx context.Context, userID string) ([]models.Application, error) {
	apps, err := s.apps.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sortApplicationsNewestFirst(apps)
	return apps, nil
}

// UpdateApplicationStatus sets the status. Any of the three values is accepted
// from any state unless strict transitions are configured. Job ownership is
// not checked.
func (s *ApplicationService) UpdateApplicationStatus(ctx context.Context, sess *auth.Session, id, status string) error {
	if !sess.IsAdmin() {
		return apperr.New(apperr.CodeForbidden, "Only admins can change application status", nil)
	}
	next := models.Status(strings.ToLower(strings.TrimSpace(status)))
	if !next.Valid() {
		return apperr.Validation("Status must be applied, selected or rejected", map[string]string{"status": "invalid"})
	}
	if s.strictStatus {
		app, err := s.apps.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := checkTransition(app.Status, next); err != nil {
			return err
		}
	}
	if err := s.apps.UpdateStatus(ctx, id, next); err != nil {
		return err
	}
	slog.Info("application status updated", "application_id", id, "status", next, "by", sess.UserID)
	return nil
}

func checkTransition(from, to models.Status) error {
	if from == models.StatusApplied && (to == models.StatusSelected || to == models.StatusRejected) {
		return nil
	}
	if from == to {
		return nil
	}
	return apperr.New(apperr.CodeConflict, "Cannot move application from "+string(from)+" to "+string(to), nil)
}

// DeleteApplication lets a student withdraw their own application and an
// admin remove any.
func (s *ApplicationService) DeleteApplication(ctx context.Context, sess *auth.Session, id string) error {
	app, err := s.viewable(ctx, sess, id)
	if err != nil {
		return err
	}
	if err := s.apps.Delete(ctx, app.ID); err != nil {
		return err
	}
	slog.Info("application deleted", "application_id", id, "by", sess.UserID)
	return nil
}

// OpenApplicationResume resolves the stored resume for its owner or an admin.
func (s *ApplicationService) OpenApplicationResume(ctx context.Context, sess *auth.Session, id string) (ResumeView, error) {
	app, err := s.viewable(ctx, sess, id)
	if err != nil {
		return ResumeView{}, err
	}
	return OpenResume(app.ResumeURL)
}

func (s *ApplicationService) viewable(ctx context.Context, sess *auth.Session, id string) (*models.Application, error) {
	if !sess.Authenticated() {
		return nil, apperr.New(apperr.CodeUnauthorized, "Please login first", nil)
	}
	app, err := s.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.IsAdmin() || (sess.IsStudent() && app.UserID == sess.UserID) {
		return app, nil
	}
	return nil, apperr.New(apperr.CodeForbidden, "You do not have access to this application", nil)
}

func sortApplicationsNewestFirst(apps []models.Application) {
	sort.SliceStable(apps, func(i, j int) bool {
		a, b := apps[i].CreatedAt, apps[j].CreatedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return a.After(*b)
	})
}

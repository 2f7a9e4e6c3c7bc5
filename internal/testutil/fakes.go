// Package testutil holds in-memory stores for service and handler tests.
package testutil

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/justsurfingit/placement-portal/internal/apperr"
	"github.com/justsurfingit/placement-portal/internal/models"
)

type FakeUserStore struct {
	mu    sync.Mutex
	users map[string]models.User
}

func NewFakeUserStore() *FakeUserStore {
	return &FakeUserStore{users: make(map[string]models.User)}
}

func (s *FakeUserStore) Create(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return apperr.New(apperr.CodeEmailInUse, "This email is already registered. Please login instead.", nil)
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = time.Now().UTC()
	s.users[u.ID] = *u
	return nil
}

func (s *FakeUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, apperr.NotFound("User not found")
	}
	return &u, nil
}

func (s *FakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, apperr.NotFound("User not found")
}

// Remove drops a profile, leaving any issued tokens valid.
func (s *FakeUserStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

type FakeJobStore struct {
	mu   sync.Mutex
	jobs map[string]models.Job
	err  error
}

func NewFakeJobStore() *FakeJobStore {
	return &FakeJobStore{jobs: make(map[string]models.Job)}
}

func (s *FakeJobStore) Create(ctx context.Context, job *models.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.CreatedAt == nil {
		now := time.Now().UTC()
		job.CreatedAt = &now
	}
	s.jobs[job.ID] = *job
	return nil
}

// FailLists makes every list call return err until called again with nil.
func (s *FakeJobStore) FailLists(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Put stores job as given, timestamp included or not.
func (s *FakeJobStore) Put(job models.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *FakeJobStore) Get(ctx context.Context, id string) (*models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, apperr.NotFound("Job not found")
	}
	return &job, nil
}

func (s *FakeJobStore) Update(ctx context.Context, job *models.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.jobs[job.ID]
	if !ok {
		return apperr.NotFound("Job not found")
	}
	existing.Title = job.Title
	existing.Description = job.Description
	existing.Eligibility = job.Eligibility
	existing.Location = job.Location
	existing.LastDate = job.LastDate
	existing.UpdatedAt = time.Now().UTC()
	s.jobs[job.ID] = existing
	return nil
}

func (s *FakeJobStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[id]; !ok {
		return apperr.NotFound("Job not found")
	}
	delete(s.jobs, id)
	return nil
}

func (s *FakeJobStore) List(ctx context.Context) ([]models.Job, error) {
	return s.list(func(models.Job) bool { return true })
}

func (s *FakeJobStore) ListByPostedBy(ctx context.Context, adminID string) ([]models.Job, error) {
	return s.list(func(j models.Job) bool { return j.PostedBy == adminID })
}

func (s *FakeJobStore) list(keep func(models.Job) bool) ([]models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		if keep(j) {
			out = append(out, j)
		}
	}
	return out, nil
}

type FakeApplicationStore struct {
	mu   sync.Mutex
	apps map[string]models.Application
	// Unique mimics the (job_id, user_id) unique index.
	Unique bool
	// ListErr, when set, is returned by ListByJob.
	ListErr error
	creates int
}

func NewFakeApplicationStore() *FakeApplicationStore {
	return &FakeApplicationStore{apps: make(map[string]models.Application)}
}

func (s *FakeApplicationStore) Create(ctx context.Context, app *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Unique {
		for _, a := range s.apps {
			if a.JobID == app.JobID && a.UserID == app.UserID {
				return apperr.New(apperr.CodeConflict, "Failed to submit application: already exists", nil)
			}
		}
	}
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if app.CreatedAt == nil {
		now := time.Now().UTC()
		app.CreatedAt = &now
	}
	s.apps[app.ID] = *app
	s.creates++
	return nil
}

// Creates counts successful writes.
func (s *FakeApplicationStore) Creates() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creates
}

func (s *FakeApplicationStore) Get(ctx context.Context, id string) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[id]
	if !ok {
		return nil, apperr.NotFound("Application not found")
	}
	return &app, nil
}

func (s *FakeApplicationStore) Exists(ctx context.Context, jobID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.apps {
		if a.JobID == jobID && a.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *FakeApplicationStore) ListByJob(ctx context.Context, jobID string) ([]models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	var out []models.Application
	for _, a := range s.apps {
		if a.JobID == jobID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *FakeApplicationStore) ListByUser(ctx context.Context, userID string) ([]models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Application
	for _, a := range s.apps {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *FakeApplicationStore) UpdateStatus(ctx context.Context, id string, status models.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[id]
	if !ok {
		return apperr.NotFound("Application not found")
	}
	app.Status = status
	s.apps[id] = app
	return nil
}

func (s *FakeApplicationStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.apps[id]; !ok {
		return apperr.NotFound("Application not found")
	}
	delete(s.apps, id)
	return nil
}

// FakeUploader records uploads. Block, when non-nil, holds every upload until
// it is closed or the context ends.
type FakeUploader struct {
	mu      sync.Mutex
	Keys    []string
	Data    map[string][]byte
	Err     error
	Block   chan struct{}
	BaseURL string
}

func NewFakeUploader() *FakeUploader {
	return &FakeUploader{Data: make(map[string][]byte), BaseURL: "https://f000.backblazeb2.com/file/resumes-bucket"}
}

func (u *FakeUploader) UploadFile(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	if u.Block != nil {
		select {
		case <-u.Block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if u.Err != nil {
		return "", u.Err
	}
	if contentType != "application/pdf" {
		return "", errors.New("unexpected content type " + contentType)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.Keys = append(u.Keys, key)
	u.Data[key] = data
	return u.BaseURL + "/" + key, nil
}

func (u *FakeUploader) Uploads() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.Keys)
}

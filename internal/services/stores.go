package services

import (
	"context"
	"io"

	"github.com/justsurfingit/placement-portal/internal/models"
)

// The interfaces below are what the services need from persistence. The gorm
// implementations live in internal/store; tests use in-memory fakes.

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type JobStore interface {
	Create(ctx context.Context, job *models.Job) error
	Get(ctx context.Context, id string) (*models.Job, error)
	Update(ctx context.Context, job *models.Job) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Job, error)
	ListByPostedBy(ctx context.Context, adminID string) ([]models.Job, error)
}

type ApplicationStore interface {
	Create(ctx context.Context, app *models.Application) error
	Get(ctx context.Context, id string) (*models.Application, error)
	Exists(ctx context.Context, jobID, userID string) (bool, error)
	ListByJob(ctx context.Context, jobID string) ([]models.Application, error)
	ListByUser(ctx context.Context, userID string) ([]models.Application, error)
	UpdateStatus(ctx context.Context, id string, status models.Status) error
	Delete(ctx context.Context, id string) error
}

// BlobUploader is satisfied by storage.B2Storage.
type BlobUploader interface {
	UploadFile(ctx context.Context, key, contentType string, r io.Reader) (string, error)
}

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/justsurfingit/placement-portal/internal/apperr"
	"github.com/justsurfingit/placement-portal/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Discard,
	})
	if err != nil {
		t.Fatal(err)
	}
	return db, mock
}

func checkExpectations(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestNoRowsAffectedIsNotFound(t *testing.T) {
	id := uuid.NewString()
	tests := []struct {
		name    string
		pattern string
		call    func(db *gorm.DB) error
		message string
	}{
		{"update job", `UPDATE "jobs" SET`, func(db *gorm.DB) error {
			return NewJobStore(db).Update(context.Background(), &models.Job{ID: id, Title: "SDE"})
		}, "Job not found"},
		{"delete job", `DELETE FROM "jobs"`, func(db *gorm.DB) error {
			return NewJobStore(db).Delete(context.Background(), id)
		}, "Job not found"},
		{"update status", `UPDATE "applications" SET "status"`, func(db *gorm.DB) error {
			return NewApplicationStore(db).UpdateStatus(context.Background(), id, models.StatusSelected)
		}, "Application not found"},
		{"delete application", `DELETE FROM "applications"`, func(db *gorm.DB) error {
			return NewApplicationStore(db).Delete(context.Background(), id)
		}, "Application not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			mock.ExpectExec(tt.pattern).WillReturnResult(sqlmock.NewResult(0, 0))
			err := tt.call(db)
			if !apperr.Is(err, apperr.CodeNotFound) || apperr.Message(err) != tt.message {
				t.Fatalf("err = %v", err)
			}
			checkExpectations(t, mock)
		})
	}
}

func TestDeleteJobOneRow(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`DELETE FROM "jobs"`).WillReturnResult(sqlmock.NewResult(0, 1))
	if err := NewJobStore(db).Delete(context.Background(), uuid.NewString()); err != nil {
		t.Fatal(err)
	}
	checkExpectations(t, mock)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`INSERT INTO "users"`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: `duplicate key value violates unique constraint "idx_users_email"`})

	u := &models.User{Name: "Asha", Email: " Asha@Uni.edu ", Role: models.RoleStudent, PasswordHash: "x"}
	err := NewUserStore(db).Create(context.Background(), u)
	if !apperr.Is(err, apperr.CodeEmailInUse) || apperr.Message(err) != EmailInUseMessage {
		t.Fatalf("err = %v", err)
	}
	if u.Email != "asha@uni.edu" {
		t.Fatalf("email not normalised: %q", u.Email)
	}
	checkExpectations(t, mock)
}

func TestExistsCountsWithLimit(t *testing.T) {
	for _, tt := range []struct {
		count int
		want  bool
	}{{0, false}, {1, true}} {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT count\(\*\) FROM "applications" WHERE .*job_id.*user_id.*LIMIT`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(tt.count))
		got, err := NewApplicationStore(db).Exists(context.Background(), uuid.NewString(), uuid.NewString())
		if err != nil || got != tt.want {
			t.Fatalf("count %d: got %v, %v", tt.count, got, err)
		}
		checkExpectations(t, mock)
	}
}

func TestMalformedIDsNeverReachTheDatabase(t *testing.T) {
	db, mock := newMockDB(t)
	ctx := context.Background()
	jobs := NewJobStore(db)
	apps := NewApplicationStore(db)

	if _, err := jobs.Get(ctx, "abc"); !apperr.Is(err, apperr.CodeNotFound) || apperr.Message(err) != "Job not found" {
		t.Fatalf("job get: %v", err)
	}
	if err := jobs.Delete(ctx, "abc"); !apperr.Is(err, apperr.CodeNotFound) {
		t.Fatalf("job delete: %v", err)
	}
	if _, err := apps.Get(ctx, "abc"); !apperr.Is(err, apperr.CodeNotFound) || apperr.Message(err) != "Application not found" {
		t.Fatalf("application get: %v", err)
	}
	if err := apps.UpdateStatus(ctx, "abc", models.StatusRejected); !apperr.Is(err, apperr.CodeNotFound) {
		t.Fatalf("status: %v", err)
	}
	if ok, err := apps.Exists(ctx, "abc", uuid.NewString()); ok || err != nil {
		t.Fatalf("exists = %v, %v", ok, err)
	}
	if _, err := NewUserStore(db).GetByID(ctx, "abc"); !apperr.Is(err, apperr.CodeNotFound) {
		t.Fatalf("user: %v", err)
	}
	checkExpectations(t, mock)
}

func TestGetApplicationMissingRow(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "applications"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	if _, err := NewApplicationStore(db).Get(context.Background(), uuid.NewString()); !apperr.Is(err, apperr.CodeNotFound) {
		t.Fatalf("err = %v", err)
	}
	checkExpectations(t, mock)
}

func TestListJobsPermissionDenied(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "jobs"`).
		WillReturnError(&pgconn.PgError{Code: "42501", Message: "permission denied for table jobs"})
	_, err := NewJobStore(db).List(context.Background())
	if !apperr.Is(err, apperr.CodePermission) {
		t.Fatalf("err = %v", err)
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		t.Fatal("original driver error should stay wrapped")
	}
	checkExpectations(t, mock)
}

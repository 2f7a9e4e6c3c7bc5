package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/justsurfingit/placement-portal/internal/apperr"
	"github.com/justsurfingit/placement-portal/internal/auth"
	"github.com/justsurfingit/placement-portal/internal/config"
	"github.com/justsurfingit/placement-portal/internal/models"
	"github.com/justsurfingit/placement-portal/internal/testutil"
)

type appFixture struct {
	apps     *testutil.FakeApplicationStore
	jobs     *testutil.FakeJobStore
	uploader *testutil.FakeUploader
	svc      *ApplicationService
	job      models.Job
	student  *auth.Session
	admin    *auth.Session
}

func newAppFixture(t *testing.T, strategy string, strict bool) *appFixture {
	t.Helper()
	f := &appFixture{
		apps:     testutil.NewFakeApplicationStore(),
		jobs:     testutil.NewFakeJobStore(),
		uploader: testutil.NewFakeUploader(),
		student:  &auth.Session{UserID: "s1", Name: "Asha", Email: "asha@uni.edu", Role: models.RoleStudent},
		admin:    &auth.Session{UserID: "a1", Name: "Recruiter", Role: models.RoleAdmin},
	}
	f.svc = NewApplicationService(f.apps, f.jobs, NewResumeService(strategy, f.uploader, time.Second), strict)
	f.job = models.Job{ID: "j1", Title: "SDE", PostedBy: "a1"}
	f.jobs.Put(f.job)
	return f
}

func smallPDF() ResumeFile {
	data := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("a"), 256)...)
	return ResumeFile{Filename: "cv.pdf", ContentType: ResumeContentType, Size: int64(len(data)), Data: bytes.NewReader(data)}
}

func TestSubmitApplication(t *testing.T) {
	f := newAppFixture(t, config.ResumeInline, false)
	ctx := context.Background()

	id, err := f.svc.SubmitApplication(ctx, "j1", "s1", "https://files.example/cv.pdf", "Asha")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	app, err := f.apps.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if app.Status != models.StatusApplied || app.CreatedAt == nil || app.UserName != "Asha" {
		t.Fatalf("app = %+v", app)
	}
	dup, err := f.svc.CheckDuplicateApplication(ctx, "j1", "s1")
	if err != nil || !dup {
		t.Fatalf("dup = %v, err = %v", dup, err)
	}
	dup, _ = f.svc.CheckDuplicateApplication(ctx, "j2", "s1")
	if dup {
		t.Fatal("different job must not count")
	}
	if _, err := f.svc.SubmitApplication(ctx, "", "s1", "x", "Asha"); !apperr.Is(err, apperr.CodeValidation) {
		t.Fatalf("missing job id: %v", err)
	}
}

func TestSubmitWithoutCheckCanDuplicate(t *testing.T) {
	// Without the unique index two submits that both passed the check both land.
	f := newAppFixture(t, config.ResumeInline, false)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := f.svc.SubmitApplication(ctx, "j1", "s1", "ref", "Asha"); err != nil {
			t.Fatal(err)
		}
	}
	if f.apps.Creates() != 2 {
		t.Fatalf("creates = %d", f.apps.Creates())
	}

	f = newAppFixture(t, config.ResumeInline, false)
	f.apps.Unique = true
	if _, err := f.svc.SubmitApplication(ctx, "j1", "s1", "ref", "Asha"); err != nil {
		t.Fatal(err)
	}
	_, err := f.svc.SubmitApplication(ctx, "j1", "s1", "ref", "Asha")
	if !apperr.Is(err, apperr.CodeConflict) || apperr.Message(err) != AlreadyAppliedMessage {
		t.Fatalf("err = %v", err)
	}
}

func TestApplyRejectsDuplicateBeforeUpload(t *testing.T) {
	f := newAppFixture(t, config.ResumeBlob, false)
	ctx := context.Background()

	resp, err := f.svc.Apply(ctx, f.student, "j1", smallPDF(), nil)
	if err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if resp.ApplicationID == "" || resp.Fallback {
		t.Fatalf("resp = %+v", resp)
	}
	if f.uploader.Uploads() != 1 {
		t.Fatalf("uploads = %d", f.uploader.Uploads())
	}

	_, err = f.svc.Apply(ctx, f.student, "j1", smallPDF(), nil)
	if !apperr.Is(err, apperr.CodeConflict) || apperr.Message(err) != AlreadyAppliedMessage {
		t.Fatalf("second apply: %v", err)
	}
	if f.uploader.Uploads() != 1 || f.apps.Creates() != 1 {
		t.Fatal("duplicate must not upload or write")
	}
}

func TestApplyValidatesFileFirst(t *testing.T) {
	f := newAppFixture(t, config.ResumeInline, false)
	bad := smallPDF()
	bad.ContentType = "image/png"
	_, err := f.svc.Apply(context.Background(), f.student, "missing-job", bad, nil)
	if !apperr.Is(err, apperr.CodeValidation) {
		t.Fatalf("expected validation before job lookup, got %v", err)
	}
}

func TestApplyUnknownJobAndRoles(t *testing.T) {
	f := newAppFixture(t, config.ResumeInline, false)
	ctx := context.Background()
	if _, err := f.svc.Apply(ctx, f.student, "nope", smallPDF(), nil); !apperr.Is(err, apperr.CodeNotFound) {
		t.Fatalf("unknown job: %v", err)
	}
	if _, err := f.svc.Apply(ctx, f.admin, "j1", smallPDF(), nil); !apperr.Is(err, apperr.CodeForbidden) {
		t.Fatalf("admin apply: %v", err)
	}
	if _, err := f.svc.Apply(ctx, nil, "j1", smallPDF(), nil); !apperr.Is(err, apperr.CodeForbidden) {
		t.Fatalf("anonymous apply: %v", err)
	}
}

func TestApplySurfacesStoreErrors(t *testing.T) {
	f := newAppFixture(t, config.ResumeInline, false)
	f.svc.apps = failingCreate{f.apps}
	_, err := f.svc.Apply(context.Background(), f.student, "j1", smallPDF(), nil)
	if !apperr.Is(err, apperr.CodePermission) {
		t.Fatalf("err = %v", err)
	}
}

type failingCreate struct{ *testutil.FakeApplicationStore }

func (failingCreate) Create(context.Context, *models.Application) error {
	return apperr.New(apperr.CodePermission, apperr.PermissionMessage, errors.New("permission denied for table applications"))
}

func TestUpdateStatusIsUnconstrainedByDefault(t *testing.T) {
	f := newAppFixture(t, config.ResumeInline, false)
	ctx := context.Background()
	id, _ := f.svc.SubmitApplication(ctx, "j1", "s1", "ref", "Asha")

	for _, s := range []string{"selected", "applied", "rejected", "selected"} {
		if err := f.svc.UpdateApplicationStatus(ctx, f.admin, id, s); err != nil {
			t.Fatalf("set %s: %v", s, err)
		}
	}
	app, _ := f.apps.Get(ctx, id)
	if app.Status != models.StatusSelected {
		t.Fatalf("status = %s", app.Status)
	}
	if err := f.svc.UpdateApplicationStatus(ctx, f.admin, id, "hired"); !apperr.Is(err, apperr.CodeValidation) {
		t.Fatalf("unknown status: %v", err)
	}
	if err := f.svc.UpdateApplicationStatus(ctx, f.student, id, "selected"); !apperr.Is(err, apperr.CodeForbidden) {
		t.Fatalf("student setter: %v", err)
	}
}

func TestUpdateStatusStrictTransitions(t *testing.T) {
	f := newAppFixture(t, config.ResumeInline, true)
	ctx := context.Background()
	id, _ := f.svc.SubmitApplication(ctx, "j1", "s1", "ref", "Asha")

	if err := f.svc.UpdateApplicationStatus(ctx, f.admin, id, "rejected"); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.UpdateApplicationStatus(ctx, f.admin, id, "selected"); !apperr.Is(err, apperr.CodeConflict) {
		t.Fatalf("rejected is terminal: %v", err)
	}
	if err := f.svc.UpdateApplicationStatus(ctx, f.admin, id, "rejected"); err != nil {
		t.Fatalf("same-state write should pass: %v", err)
	}
}

func TestDeleteApplicationPermissions(t *testing.T) {
	f := newAppFixture(t, config.ResumeInline, false)
	ctx := context.Background()
	id, _ := f.svc.SubmitApplication(ctx, "j1", "s1", "ref", "Asha")

	other := &auth.Session{UserID: "s2", Role: models.RoleStudent}
	if err := f.svc.DeleteApplication(ctx, other, id); !apperr.Is(err, apperr.CodeForbidden) {
		t.Fatalf("other student: %v", err)
	}
	if err := f.svc.DeleteApplication(ctx, f.student, id); err != nil {
		t.Fatalf("owner: %v", err)
	}
	if _, err := f.apps.Get(ctx, id); !apperr.Is(err, apperr.CodeNotFound) {
		t.Fatal("application should be gone")
	}
}

func TestOpenApplicationResume(t *testing.T) {
	f := newAppFixture(t, config.ResumeInline, false)
	ctx := context.Background()
	resp, err := f.svc.Apply(ctx, f.student, "j1", smallPDF(), nil)
	if err != nil {
		t.Fatal(err)
	}
	view, err := f.svc.OpenApplicationResume(ctx, f.admin, resp.ApplicationID)
	if err != nil || view.Kind != ResumeInlineData || !bytes.HasPrefix(view.Data, []byte("%PDF")) {
		t.Fatalf("admin view = %+v, err = %v", view.Kind, err)
	}
	if _, err := f.svc.OpenApplicationResume(ctx, &auth.Session{UserID: "s9", Role: models.RoleStudent}, resp.ApplicationID); !apperr.Is(err, apperr.CodeForbidden) {
		t.Fatalf("stranger: %v", err)
	}
}

func TestApplicationsSortedNewestFirst(t *testing.T) {
	f := newAppFixture(t, config.ResumeInline, false)
	ctx := context.Background()
	older := time.Now().Add(-time.Hour)
	newer := time.Now()
	_ = f.apps.Create(ctx, &models.Application{ID: "old", JobID: "j1", UserID: "s1", CreatedAt: &older})
	_ = f.apps.Create(ctx, &models.Application{ID: "new", JobID: "j2", UserID: "s1", CreatedAt: &newer})

	apps, err := f.svc.GetApplicationsByStudent(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(apps) != 2 || apps[0].ID != "new" || apps[1].ID != "old" {
		t.Fatalf("got %d applications in wrong order: %+v", len(apps), apps)
	}
}

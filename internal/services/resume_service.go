package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/justsurfingit/placement-portal/internal/apperr"
	"github.com/justsurfingit/placement-portal/internal/config"
	"github.com/justsurfingit/placement-portal/internal/storage"
)

const (
	ResumeContentType    = "application/pdf"
	MaxInlineResumeBytes = 1 << 20
	InlineResumePrefix   = "data:application/pdf;base64,"
	// LegacyResumePrefix marks references written when an upload could not
	// complete. They point at nothing.
	LegacyResumePrefix = "https://demo-resume-fallback.com"

	LegacyResumeNotice = "This resume was submitted before file storage was available and can no longer be viewed."
)

// ResumeFile is an uploaded resume as received from the client.
type ResumeFile struct {
	Filename    string
	ContentType string
	Size        int64
	Data        io.Reader
}

// StoredResume is the reference to persist on the application.
type StoredResume struct {
	Ref string
	// Fallback is set when the placeholder was stored instead of the file.
	Fallback bool
}

type ResumeService struct {
	strategy string
	uploader BlobUploader
	timeout  time.Duration
	now      func() time.Time
}

// NewResumeService picks the transfer strategy. uploader is only used by the
// blob strategy and may be nil for inline.
func NewResumeService(strategy string, uploader BlobUploader, timeout time.Duration) *ResumeService {
	return &ResumeService{strategy: strategy, uploader: uploader, timeout: timeout, now: time.Now}
}

func (s *ResumeService) Strategy() string { return s.strategy }

// Validate runs before any store or network call.
func (s *ResumeService) Validate(f ResumeFile) error {
	if f.Data == nil {
		return apperr.Validation("Please upload your resume", map[string]string{"resume": "required"})
	}
	if f.ContentType != ResumeContentType {
		return apperr.Validation("Please upload a PDF file", map[string]string{"resume": "must be application/pdf"})
	}
	if s.strategy == config.ResumeInline && f.Size > MaxInlineResumeBytes {
		return apperr.Validation("File size must be less than 1MB", map[string]string{"resume": "too large"})
	}
	return nil
}

// Store transfers the resume and returns the reference to save. progress may
// be nil; only the blob strategy reports it.
func (s *ResumeService) Store(ctx context.Context, userID string, f ResumeFile, progress storage.ProgressFunc) (StoredResume, error) {
	if err := s.Validate(f); err != nil {
		return StoredResume{}, err
	}
	if s.strategy == config.ResumeBlob {
		return s.storeBlob(ctx, userID, f, progress)
	}
	return storeInline(f)
}

func storeInline(f ResumeFile) (StoredResume, error) {
	// The declared size can lie; read one byte past the cap to find out.
	data, err := io.ReadAll(io.LimitReader(f.Data, MaxInlineResumeBytes+1))
	if err != nil {
		return StoredResume{}, apperr.New(apperr.CodeInternal, "Failed to read resume", err)
	}
	if len(data) > MaxInlineResumeBytes {
		return StoredResume{}, apperr.Validation("File size must be less than 1MB", map[string]string{"resume": "too large"})
	}
	return StoredResume{Ref: EncodeInlineResume(data)}, nil
}

type uploadResult struct {
	url string
	err error
}

func (s *ResumeService) storeBlob(ctx context.Context, userID string, f ResumeFile, progress storage.ProgressFunc) (StoredResume, error) {
	if s.uploader == nil {
		return StoredResume{}, apperr.New(apperr.CodeUnavailable, "Resume storage is not configured", nil)
	}
	key := ResumeObjectKey(userID, s.now(), f.Filename)

	uploadCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	result := make(chan uploadResult, 1)
	go func() {
		url, err := s.uploader.UploadFile(uploadCtx, key, ResumeContentType, storage.NewProgressReader(f.Data, f.Size, progress))
		result <- uploadResult{url: url, err: err}
	}()

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	select {
	case r := <-result:
		if r.err != nil {
			slog.Warn("resume upload failed, storing placeholder", "uid", userID, "key", key, "err", r.err)
			return StoredResume{Ref: PlaceholderResume(userID), Fallback: true}, nil
		}
		return StoredResume{Ref: r.url}, nil
	case <-timer.C:
		slog.Warn("resume upload timed out, storing placeholder", "uid", userID, "key", key, "timeout", s.timeout)
		return StoredResume{Ref: PlaceholderResume(userID), Fallback: true}, nil
	case <-ctx.Done():
		return StoredResume{}, apperr.New(apperr.CodeInternal, "Resume upload cancelled", ctx.Err())
	}
}

// ResumeObjectKey is resumes/{userId}/{unixMillis}_{filename}.
func ResumeObjectKey(userID string, at time.Time, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	if name == "." || name == "/" || name == "" {
		name = "resume.pdf"
	}
	return fmt.Sprintf("resumes/%s/%d_%s", userID, at.UnixMilli(), name)
}

func PlaceholderResume(userID string) string {
	return LegacyResumePrefix + "/resumes/" + userID + ".pdf"
}

func EncodeInlineResume(data []byte) string {
	return InlineResumePrefix + base64.StdEncoding.EncodeToString(data)
}

type ResumeKind int

const (
	ResumeURL ResumeKind = iota
	ResumeInlineData
	ResumeLegacy
)

type ResumeView struct {
	Kind   ResumeKind
	URL    string
	Data   []byte
	Notice string
}

// OpenResume decides how a stored reference is shown. Legacy placeholders are
// not an error; the caller shows the notice instead.
func OpenResume(ref string) (ResumeView, error) {
	switch {
	case strings.HasPrefix(ref, LegacyResumePrefix):
		return ResumeView{Kind: ResumeLegacy, Notice: LegacyResumeNotice}, nil
	case strings.HasPrefix(ref, InlineResumePrefix):
		data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(ref, InlineResumePrefix))
		if err != nil {
			return ResumeView{}, apperr.New(apperr.CodeInternal, "Stored resume could not be decoded", err)
		}
		return ResumeView{Kind: ResumeInlineData, Data: data}, nil
	case strings.TrimSpace(ref) == "":
		return ResumeView{}, apperr.NotFound("No resume on file")
	}
	return ResumeView{Kind: ResumeURL, URL: ref}, nil
}


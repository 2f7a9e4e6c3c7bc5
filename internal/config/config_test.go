package config

import (
	"strings"
	"testing"
	"time"
)

func setBase(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/portal")
	t.Setenv("JWT_SECRET", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setBase(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || cfg.ResumeStrategy != ResumeInline {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.UploadTimeout != 30*time.Second || cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("unexpected durations: %+v", cfg)
	}
	if cfg.EnforceUniqueApplications || cfg.StrictStatusTransitions {
		t.Fatal("permissive behaviour should be the default")
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Fatalf("cors = %v", cfg.CORSOrigins)
	}
}

func TestLoadCollectsEveryProblem(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("RESUME_STRATEGY", "blob")
	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"DATABASE_URL", "JWT_SECRET", "B2_BUCKET"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	setBase(t)
	t.Setenv("UPLOAD_TIMEOUT", "soon")
	t.Setenv("ENFORCE_UNIQUE_APPLICATIONS", "maybe")
	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "UPLOAD_TIMEOUT") || !strings.Contains(err.Error(), "ENFORCE_UNIQUE_APPLICATIONS") {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadReportsParseAndValidationErrorsTogether(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("TOKEN_TTL", "a day")
	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"TOKEN_TTL", "DATABASE_URL"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestValidateStrategy(t *testing.T) {
	c := &Config{DatabaseURL: "x", JWTSecret: "y", ResumeStrategy: "ftp", UploadTimeout: time.Second, FunnelConcurrency: 1}
	if err := c.Validate(); err == nil || !strings.Contains(err.Error(), "RESUME_STRATEGY") {
		t.Fatalf("err = %v", err)
	}
	c.ResumeStrategy = ResumeBlob
	c.B2KeyID, c.B2AppKey, c.B2Bucket = "k", "a", "b"
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
}

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ResumeInline = "inline"
	ResumeBlob   = "blob"
)

type Config struct {
	Port        string
	DatabaseURL string
	CORSOrigins []string

	JWTSecret string
	TokenTTL  time.Duration

	ResumeStrategy string
	B2KeyID        string
	B2AppKey       string
	B2Bucket       string
	UploadTimeout  time.Duration

	// Both default to the permissive behaviour the portal shipped with.
	EnforceUniqueApplications bool
	StrictStatusTransitions   bool

	RedisURL        string
	ApplyRateLimit  int
	ApplyRateWindow time.Duration

	FunnelConcurrency int

	GeminiAPIKey string
	GeminiModel  string
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	} else if err != nil {
		slog.Info("no .env file found, using process environment")
	}

	var errs []error
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "*")),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		ResumeStrategy: strings.ToLower(getEnv("RESUME_STRATEGY", ResumeInline)),
		B2KeyID:        os.Getenv("B2_KEY_ID"),
		B2AppKey:       os.Getenv("B2_APP_KEY"),
		B2Bucket:       os.Getenv("B2_BUCKET"),
		RedisURL:       os.Getenv("REDIS_URL"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
	}
	cfg.TokenTTL = durationEnv("TOKEN_TTL", 24*time.Hour, &errs)
	cfg.UploadTimeout = durationEnv("UPLOAD_TIMEOUT", 30*time.Second, &errs)
	cfg.ApplyRateWindow = durationEnv("APPLY_RATE_WINDOW", time.Minute, &errs)
	cfg.ApplyRateLimit = intEnv("APPLY_RATE_LIMIT", 5, &errs)
	cfg.FunnelConcurrency = intEnv("FUNNEL_CONCURRENCY", 4, &errs)
	cfg.EnforceUniqueApplications = boolEnv("ENFORCE_UNIQUE_APPLICATIONS", false, &errs)
	cfg.StrictStatusTransitions = boolEnv("STRICT_STATUS_TRANSITIONS", false, &errs)

	// Fields that failed to parse hold their defaults, so Validate still
	// reports the remaining problems alongside the parse errors.
	if err := errors.Join(append(errs, cfg.Validate())...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	switch c.ResumeStrategy {
	case ResumeInline:
	case ResumeBlob:
		if c.B2KeyID == "" || c.B2AppKey == "" || c.B2Bucket == "" {
			errs = append(errs, errors.New("B2_KEY_ID, B2_APP_KEY and B2_BUCKET are required for the blob resume strategy"))
		}
	default:
		errs = append(errs, fmt.Errorf("RESUME_STRATEGY must be %q or %q, got %q", ResumeInline, ResumeBlob, c.ResumeStrategy))
	}
	if c.UploadTimeout <= 0 {
		errs = append(errs, errors.New("UPLOAD_TIMEOUT must be positive"))
	}
	if c.ApplyRateLimit < 0 {
		errs = append(errs, errors.New("APPLY_RATE_LIMIT must not be negative"))
	}
	if c.FunnelConcurrency < 1 {
		errs = append(errs, errors.New("FUNNEL_CONCURRENCY must be at least 1"))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration, errs *[]error) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}

func intEnv(key string, fallback int, errs *[]error) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

func boolEnv(key string, fallback bool, errs *[]error) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return b
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

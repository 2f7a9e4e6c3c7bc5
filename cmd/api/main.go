package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justsurfingit/placement-portal/internal/auth"
	"github.com/justsurfingit/placement-portal/internal/config"
	"github.com/justsurfingit/placement-portal/internal/database"
	"github.com/justsurfingit/placement-portal/internal/events"
	"github.com/justsurfingit/placement-portal/internal/handlers"
	"github.com/justsurfingit/placement-portal/internal/middleware"
	"github.com/justsurfingit/placement-portal/internal/services"
	"github.com/justsurfingit/placement-portal/internal/storage"
	"github.com/justsurfingit/placement-portal/internal/store"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	if err := run(); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// 2. Database Connection
	db, err := database.Connect(cfg.DatabaseURL, cfg.EnforceUniqueApplications)
	if err != nil {
		return err
	}
	users := store.NewUserStore(db)
	jobs := store.NewJobStore(db)
	apps := store.NewApplicationStore(db)

	// 3. Resume storage
	var uploader services.BlobUploader
	if cfg.ResumeStrategy == config.ResumeBlob {
		b2, err := storage.Init(ctx, cfg.B2KeyID, cfg.B2AppKey, cfg.B2Bucket)
		if err != nil {
			return err
		}
		uploader = b2
		slog.Info("resume blob storage ready", "bucket", cfg.B2Bucket)
	}

	// 4. Rate limiting: shared through Redis when configured
	var limiter middleware.Limiter = middleware.NewRateLimiter()
	if cfg.RedisURL != "" {
		rl, err := middleware.NewRedisLimiterFromURL(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rl.Close()
		limiter = rl
	}

	// 5. Core Services
	hub := events.NewHub()
	llmService, err := services.NewLLMService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return err
	}
	authService := services.NewAuthService(users, auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL))
	jobService := services.NewJobService(jobs, hub)
	resumeService := services.NewResumeService(cfg.ResumeStrategy, uploader, cfg.UploadTimeout)
	appService := services.NewApplicationService(apps, jobs, resumeService, cfg.StrictStatusTransitions)
	dashService := services.NewDashboardService(jobService, apps, cfg.FunnelConcurrency)

	// 6. Router
	r := handlers.NewRouter(handlers.RouterDeps{
		Auth:         authService,
		Jobs:         jobService,
		Applications: appService,
		Dashboard:    dashService,
		LLM:          llmService,
		Demo:         services.NewDemoService(),
		Limiter:      limiter,
		ApplyLimit:   cfg.ApplyRateLimit,
		ApplyWindow:  cfg.ApplyRateWindow,
		CORSOrigins:  cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		// Streams end when the signal context is cancelled.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("🚀 server starting", "port", cfg.Port, "resume_strategy", cfg.ResumeStrategy)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

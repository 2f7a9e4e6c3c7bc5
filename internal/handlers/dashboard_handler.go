package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/placement-portal/internal/events"
	"github.com/justsurfingit/placement-portal/internal/middleware"
	"github.com/justsurfingit/placement-portal/internal/models"
	"github.com/justsurfingit/placement-portal/internal/response"
	"github.com/justsurfingit/placement-portal/internal/services"
)

const keepAliveEvery = 25 * time.Second

type DashboardHandler struct {
	DashboardService *services.DashboardService
	JobService       *services.JobService
	DemoService      *services.DemoService
}

func NewDashboardHandler(d *services.DashboardService, j *services.JobService, demo *services.DemoService) *DashboardHandler {
	return &DashboardHandler{DashboardService: d, JobService: j, DemoService: demo}
}

func (h *DashboardHandler) Admin(c *gin.Context) {
	d, err := h.DashboardService.AdminDashboard(c.Request.Context(), middleware.SessionFrom(c).UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *DashboardHandler) Student(c *gin.Context) {
	d, err := h.DashboardService.StudentDashboard(c.Request.Context(), middleware.SessionFrom(c).UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *DashboardHandler) Landing(c *gin.Context) {
	c.JSON(http.StatusOK, h.DemoService.Landing())
}

// JobsStream is GET /jobs/stream: a "jobs" event with the full board after
// every change.
func (h *DashboardHandler) JobsStream(c *gin.Context) {
	sub := h.JobService.SubscribeAllJobs(c.Request.Context())
	stream(c, sub, func(_ context.Context, jobs []models.Job) (string, any, error) {
		return "jobs", gin.H{"jobs": jobs}, nil
	})
}

// AdminStream is GET /admin/dashboard/stream: the funnel is recomputed for
// every snapshot of the admin's jobs.
func (h *DashboardHandler) AdminStream(c *gin.Context) {
	sub := h.JobService.SubscribeAdminJobs(c.Request.Context(), middleware.SessionFrom(c).UserID)
	stream(c, sub, func(ctx context.Context, jobs []models.Job) (string, any, error) {
		d, err := h.DashboardService.Aggregate(ctx, jobs)
		return "dashboard", d, err
	})
}

type renderFunc func(ctx context.Context, jobs []models.Job) (typ string, data any, err error)

func stream(c *gin.Context, sub *services.Subscription, render renderFunc) {
	defer sub.Release()

	ctx := c.Request.Context()
	reqID := events.RequestIDFrom(ctx)
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	ticker := time.NewTicker(keepAliveEvery)
	defer ticker.Stop()

	c.SSEvent("message", events.MakeEvent(reqID, events.TypePing, 1, nil).String())
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case jobs, ok := <-sub.C:
			if !ok {
				return false
			}
			typ, data, err := render(ctx, jobs)
			if err != nil {
				slog.Error("stream render failed", "request_id", reqID, "err", err)
				return true
			}
			c.SSEvent("message", events.MakeEvent(reqID, typ, 1, data).String())
			return true
		case <-ticker.C:
			c.SSEvent("message", events.MakeEvent(reqID, events.TypePing, 1, nil).String())
			return true
		}
	})
}

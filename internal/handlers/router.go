package handlers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/placement-portal/internal/middleware"
	"github.com/justsurfingit/placement-portal/internal/models"
	"github.com/justsurfingit/placement-portal/internal/services"
)

type RouterDeps struct {
	Auth         *services.AuthService
	Jobs         *services.JobService
	Applications *services.ApplicationService
	Dashboard    *services.DashboardService
	LLM          *services.LLMService
	Demo         *services.DemoService

	Limiter     middleware.Limiter
	ApplyLimit  int
	ApplyWindow time.Duration
	CORSOrigins []string
}

func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.AccessLog(), gin.Recovery())

	config := cors.DefaultConfig()
	if len(d.CORSOrigins) == 0 || (len(d.CORSOrigins) == 1 && d.CORSOrigins[0] == "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = d.CORSOrigins
	}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", middleware.RequestIDHeader}
	config.ExposeHeaders = []string{middleware.RequestIDHeader}
	r.Use(cors.New(config))

	authMW := middleware.NewAuthMiddleware(d.Auth)
	authHandler := NewAuthHandler(d.Auth)
	jobHandler := NewJobHandler(d.LLM, d.Jobs)
	appHandler := NewApplicationHandler(d.Applications)
	dashHandler := NewDashboardHandler(d.Dashboard, d.Jobs, d.Demo)

	api := r.Group("/api/v1")
	{
		api.GET("/health", HealthCheck(d.Applications.ResumeStrategy()))
		api.GET("/landing", dashHandler.Landing)
		api.GET("/gate", authMW.LoadSession(), authHandler.Gate)

		api.POST("/auth/signup", authHandler.Signup)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)
	}

	authed := api.Group("", authMW.Authenticate())
	{
		authed.GET("/auth/me", authHandler.Me)
		authed.GET("/jobs/:id", jobHandler.GetJob)
		authed.DELETE("/applications/:id", appHandler.Delete)
		authed.GET("/applications/:id/resume", appHandler.Resume)
	}

	student := api.Group("", authMW.Authenticate(), middleware.RequireRole(models.RoleStudent))
	{
		student.GET("/jobs", jobHandler.ListJobs)
		student.GET("/jobs/stream", dashHandler.JobsStream)
		student.GET("/jobs/:id/applied", appHandler.Applied)
		student.POST("/jobs/:id/apply",
			middleware.RateLimit(d.Limiter, middleware.SessionKey("apply"), d.ApplyLimit, d.ApplyWindow),
			appHandler.Apply)
		student.GET("/student/applications", appHandler.ListMine)
		student.GET("/student/dashboard", dashHandler.Student)
	}

	admin := api.Group("/admin", authMW.Authenticate(), middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/jobs", jobHandler.ListMyJobs)
		admin.POST("/jobs", jobHandler.CreateJob)
		admin.POST("/jobs/extract", jobHandler.ParseJob)
		admin.PUT("/jobs/:id", jobHandler.UpdateJob)
		admin.DELETE("/jobs/:id", jobHandler.DeleteJob)
		admin.GET("/jobs/:id/applications", appHandler.ListForJob)
		admin.PATCH("/applications/:id/status", appHandler.UpdateStatus)
		admin.GET("/dashboard", dashHandler.Admin)
		admin.GET("/dashboard/stream", dashHandler.AdminStream)
	}
	return r
}

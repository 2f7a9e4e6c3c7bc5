package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/placement-portal/internal/dtos"
	"github.com/justsurfingit/placement-portal/internal/middleware"
	"github.com/justsurfingit/placement-portal/internal/response"
	"github.com/justsurfingit/placement-portal/internal/services"
)

type JobHandler struct {
	LLMService *services.LLMService
	JobService *services.JobService
}

// NewJobHandler creates the handler with dependencies
func NewJobHandler(llm *services.LLMService, j *services.JobService) *JobHandler {
	return &JobHandler{LLMService: llm,
		JobService: j,
	}
}

// ParseJob is the POST /admin/jobs/extract endpoint. The draft is returned
// for review; nothing is saved.
func (h *JobHandler) ParseJob(c *gin.Context) {
	var req dtos.JobExtractionRequest
	if !bindJSON(c, &req) {
		return
	}
	draft, err := h.LLMService.ExtractJobDetails(c.Request.Context(), req.RawHTML)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    draft,
	})
}

// CreateJob is POST /admin/jobs
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dtos.JobRequest
	if !bindJSON(c, &req) {
		return
	}
	job, err := h.JobService.CreateJob(c.Request.Context(), middleware.SessionFrom(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

// UpdateJob is PUT /admin/jobs/:id
func (h *JobHandler) UpdateJob(c *gin.Context) {
	var req dtos.JobRequest
	if !bindJSON(c, &req) {
		return
	}
	job, err := h.JobService.UpdateJob(c.Request.Context(), middleware.SessionFrom(c), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) DeleteJob(c *gin.Context) {
	if err := h.JobService.DeleteJob(c.Request.Context(), middleware.SessionFrom(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *JobHandler) GetJob(c *gin.Context) {
	job, err := h.JobService.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// ListJobs is the student's board: every job, newest first.
func (h *JobHandler) ListJobs(c *gin.Context) {
	jobs, err := h.JobService.GetAllJobs(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

// ListMyJobs is the admin's own postings.
func (h *JobHandler) ListMyJobs(c *gin.Context) {
	jobs, err := h.JobService.GetJobsByAdmin(c.Request.Context(), middleware.SessionFrom(c).UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

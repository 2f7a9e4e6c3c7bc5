package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/placement-portal/internal/apperr"
	"github.com/justsurfingit/placement-portal/internal/dtos"
	"github.com/justsurfingit/placement-portal/internal/middleware"
	"github.com/justsurfingit/placement-portal/internal/response"
	"github.com/justsurfingit/placement-portal/internal/services"
	"github.com/justsurfingit/placement-portal/internal/storage"
)

type ApplicationHandler struct {
	ApplicationService *services.ApplicationService
}

func NewApplicationHandler(a *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{ApplicationService: a}
}

// Apply is POST /jobs/:id/apply with the PDF in the "resume" form field.
func (h *ApplicationHandler) Apply(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	header, err := c.FormFile("resume")
	if err != nil {
		response.Error(c, apperr.Validation("Please upload your resume", map[string]string{"resume": "required"}))
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, apperr.New(apperr.CodeInternal, "Failed to read upload", err))
		return
	}
	defer file.Close()

	resume := services.ResumeFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Data:        file,
	}
	resp, err := h.ApplicationService.Apply(c.Request.Context(), sess, c.Param("id"), resume, logProgress(sess.UserID))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// logProgress logs each quarter of an upload once.
func logProgress(uid string) storage.ProgressFunc {
	next := 0.25
	return func(f float64) {
		for f >= next && next <= 1 {
			slog.Debug("resume upload progress", "uid", uid, "pct", int(next*100))
			next += 0.25
		}
	}
}

// Applied is GET /jobs/:id/applied
func (h *ApplicationHandler) Applied(c *gin.Context) {
	applied, err := h.ApplicationService.CheckDuplicateApplication(c.Request.Context(), c.Param("id"), middleware.SessionFrom(c).UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.AppliedResponse{Applied: applied})
}

func (h *ApplicationHandler) ListForJob(c *gin.Context) {
	apps, err := h.ApplicationService.GetApplicationsForJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

func (h *ApplicationHandler) ListMine(c *gin.Context) {
	apps, err := h.ApplicationService.GetApplicationsByStudent(c.Request.Context(), middleware.SessionFrom(c).UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

// UpdateStatus is PATCH /admin/applications/:id/status
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	var req dtos.StatusUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.ApplicationService.UpdateApplicationStatus(c.Request.Context(), middleware.SessionFrom(c), c.Param("id"), req.Status); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "status": req.Status})
}

func (h *ApplicationHandler) Delete(c *gin.Context) {
	if err := h.ApplicationService.DeleteApplication(c.Request.Context(), middleware.SessionFrom(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Resume serves the stored resume: PDF bytes for inline data, a redirect for
// uploaded files and a notice for legacy placeholders.
func (h *ApplicationHandler) Resume(c *gin.Context) {
	view, err := h.ApplicationService.OpenApplicationResume(c.Request.Context(), middleware.SessionFrom(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	switch view.Kind {
	case services.ResumeLegacy:
		c.JSON(http.StatusGone, gin.H{"notice": view.Notice})
	case services.ResumeInlineData:
		c.Header("Content-Disposition", `inline; filename="resume.pdf"`)
		c.Data(http.StatusOK, services.ResumeContentType, view.Data)
	default:
		c.Redirect(http.StatusFound, view.URL)
	}
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/placement-portal/internal/dtos"
	"github.com/justsurfingit/placement-portal/internal/response"
)

// HealthCheck also reports the resume strategy so clients know whether the
// 1MB inline cap applies.
func HealthCheck(resumeStrategy string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "resume_strategy": resumeStrategy})
	}
}

// bindJSON reports binding failures itself and returns false.
func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		response.Error(c, dtos.BindingError(err))
		return false
	}
	return true
}

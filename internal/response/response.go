package response

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/placement-portal/internal/apperr"
	"github.com/justsurfingit/placement-portal/internal/events"
)

type APIError struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code      apperr.Code       `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// Error writes err as the JSON error envelope and aborts the chain.
func Error(c *gin.Context, err error) {
	code := apperr.CodeOf(err)
	body := ErrorBody{
		Code:      code,
		Message:   apperr.Message(err),
		RequestID: events.RequestIDFrom(c.Request.Context()),
	}
	var coded *apperr.Error
	if errors.As(err, &coded) {
		body.Fields = coded.Fields
	}
	c.AbortWithStatusJSON(apperr.Status(code), APIError{Error: body})
}

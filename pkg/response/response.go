package response

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-posts-api/pkg/apperror"
	"github.com/oksasatya/go-posts-api/pkg/validation"
)

// APIResponse is the error envelope. Successful responses carry the resource
// itself as the body.
type APIResponse struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Error     interface{} `json:"error,omitempty"`
}

// ErrorBody is the machine readable part of an error response.
type ErrorBody struct {
	Kind    apperror.Kind     `json:"kind"`
	Details map[string]string `json:"details,omitempty"`
}

func Success[T any](c *gin.Context, status int, data T) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, data)
}

// Message writes {"message": msg}.
func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func Error(c *gin.Context, status int, message string, body ErrorBody) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	c.AbortWithStatusJSON(status, APIResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		RequestID: c.GetString("request_id"),
		Success:   false,
		Message:   message,
		Error:     body,
	})
}

// Fail classifies err and writes the matching error response. Internal
// errors are recorded on the context for the access log and reported
// without their cause.
func Fail(c *gin.Context, err error) {
	status := apperror.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	Error(c, status, apperror.Message(err), ErrorBody{Kind: apperror.KindOf(err)})
}

// Invalid reports a request body or query that failed binding.
func Invalid(c *gin.Context, err error) {
	var ae *apperror.Error
	if errors.As(err, &ae) {
		Fail(c, err)
		return
	}
	Error(c, http.StatusUnprocessableEntity, "invalid request", ErrorBody{
		Kind:    apperror.KindValidation,
		Details: validation.ToDetails(err),
	})
}

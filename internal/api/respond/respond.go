// Package respond writes API responses and the shared error body.
package respond

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/apperror"
)

// ErrorBody is returned for every failed request.
type ErrorBody struct {
	Status    int       `json:"status"`
	Message   string    `json:"message"`
	Details   []string  `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
	ErrorType string    `json:"errorType,omitempty"`
}

// StatusOf maps an error type onto an HTTP status. Conflicts are reported as
// 400 like other client mistakes.
func StatusOf(t apperror.Type) int {
	switch t {
	case apperror.NotFound:
		return http.StatusNotFound
	case apperror.BadRequest, apperror.Conflict:
		return http.StatusBadRequest
	case apperror.Unauthorized:
		return http.StatusUnauthorized
	case apperror.Forbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func body(c *gin.Context, err error) ErrorBody {
	b := ErrorBody{Timestamp: time.Now().UTC(), Path: c.Request.URL.Path}
	var ae *apperror.Error
	if errors.As(err, &ae) {
		b.Status = StatusOf(ae.Type)
		b.Message = ae.Message
		b.Details = ae.Details
		b.ErrorType = ae.ErrorType
	} else {
		b.Status = http.StatusInternalServerError
		b.Message = "internal server error"
	}
	if b.ErrorType == "" && b.Status != http.StatusInternalServerError {
		b.ErrorType = ae.Type.String()
	}
	return b
}

// Error writes err as an ErrorBody and records it on the context for the request log.
func Error(c *gin.Context, err error) {
	b := body(c, err)
	_ = c.Error(err)
	c.JSON(b.Status, b)
}

// Abort is Error for middleware: the rest of the chain is skipped.
func Abort(c *gin.Context, err error) {
	b := body(c, err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(b.Status, b)
}

// BindError turns a binding or validation failure into a BadRequest whose
// details hold one line per failed field.
func BindError(err error) *apperror.Error {
	var details []string
	for _, line := range strings.Split(err.Error(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			details = append(details, line)
		}
	}
	return apperror.Wrap(apperror.BadRequest, err, "invalid request").
		WithCode("VALIDATION_ERROR").
		WithDetails(details...)
}

package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/studyplan/internal/lifecycle"
	"github.com/abhisek/studyplan/internal/schedule"
	"github.com/abhisek/studyplan/internal/store"
	"github.com/abhisek/studyplan/internal/syllabus"
)

// errBadRequest marks malformed input caught before the service is called.
var errBadRequest = errors.New("bad request")

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// statusFor maps service errors onto HTTP statuses and error codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, errBadRequest),
		syllabus.IsValidation(err),
		errors.Is(err, syllabus.ErrInvalidSyllabus),
		errors.Is(err, schedule.ErrInvalidConfig):
		return http.StatusBadRequest, "invalid_argument"
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, lifecycle.ErrBlockNotFound),
		errors.Is(err, lifecycle.ErrTopicNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		return http.StatusConflict, "invalid_transition"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (h *handler) respondError(c *gin.Context, err error) {
	status, code := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.log.Error("request failed", "path", c.FullPath(), "tenant", tenantOf(c), "error", err)
		msg = "internal error"
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}

func respondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// Package response renders service errors as JSON error bodies.
package response

import (
	"CourseMarket/internal/app_errors"
	"CourseMarket/pkg/logger"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	CodeAlreadySubscribed = "already_subscribed"
	CodeInsufficientFunds = "insufficient_funds"
	CodeBadRequest        = "bad_request"
	CodeUnauthorized      = "unauthorized"
	CodeForbidden         = "forbidden"
	CodeNotFound          = "not_found"
	CodeConflict          = "conflict"
	CodeTooLarge          = "too_large"
	CodeUnavailable       = "unavailable"
	CodeInternal          = "internal"
)

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type mapping struct {
	err    error
	status int
	code   string
}

var mappings = []mapping{
	{app_errors.ErrAlreadySubscribed, http.StatusBadRequest, CodeAlreadySubscribed},
	{app_errors.ErrInsufficientFunds, http.StatusBadRequest, CodeInsufficientFunds},
	{app_errors.ErrInvalidAmount, http.StatusBadRequest, CodeBadRequest},
	{app_errors.ErrValidation, http.StatusBadRequest, CodeBadRequest},
	{app_errors.ErrNotImage, http.StatusBadRequest, CodeBadRequest},
	{app_errors.ErrIncorrectPassword, http.StatusBadRequest, CodeBadRequest},
	{app_errors.ErrFileSize, http.StatusRequestEntityTooLarge, CodeTooLarge},
	{app_errors.ErrUserExists, http.StatusBadRequest, CodeConflict},
	{app_errors.ErrForbidden, http.StatusForbidden, CodeForbidden},
	{app_errors.ErrTokenExpired, http.StatusUnauthorized, CodeUnauthorized},
	{app_errors.ErrTokenNotFound, http.StatusUnauthorized, CodeUnauthorized},
	{app_errors.ErrInvalidToken, http.StatusUnauthorized, CodeUnauthorized},
	{app_errors.ErrUserNotFound, http.StatusNotFound, CodeNotFound},
	{app_errors.ErrCourseNotFound, http.StatusNotFound, CodeNotFound},
	{app_errors.ErrLessonNotFound, http.StatusNotFound, CodeNotFound},
	{app_errors.ErrGroupNotFound, http.StatusNotFound, CodeNotFound},
	{app_errors.ErrSubscriptionNotFound, http.StatusNotFound, CodeNotFound},
	{app_errors.ErrBalanceNotFound, http.StatusNotFound, CodeNotFound},
	{app_errors.ErrLogoStorageDisabled, http.StatusServiceUnavailable, CodeUnavailable},
}

// Status returns the HTTP status and code for err. Unknown errors are internal.
func Status(err error) (int, string) {
	for _, m := range mappings {
		if errors.Is(err, m.err) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, CodeInternal
}

func Abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": ErrorBody{Code: code, Message: message}})
}

// Error writes err. Internal errors are attached to the context for the
// logging middleware and their text is not exposed.
func Error(c *gin.Context, log logger.Log, err error) {
	status, code := Status(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		message = "internal server error"
	} else {
		log.Debug("request rejected", "path", c.FullPath(), "code", code, "error", message)
	}
	Abort(c, status, code, message)
}

func BadRequest(c *gin.Context, message string) {
	Abort(c, http.StatusBadRequest, CodeBadRequest, message)
}

// UUIDParam parses a path parameter, answering 400 when it is not a UUID.
func UUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		BadRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

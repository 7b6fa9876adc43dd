package util

import (
	"aula_virtual_backend/pkg/logger"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response is the uniform JSON envelope.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Resource not found")
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error", zap.Error(err))
	InternalServerError(c)
}

// FromError maps a domain error to its HTTP shape. Lookup misses all share
// the same 404 body so callers cannot tell an unknown code from an unissued
// one.
func FromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrMalformedSubmission):
		BadRequest(c, err.Error())
	case errors.Is(err, ErrQuizUnavailable), errors.Is(err, ErrCourseUnavailable):
		BadRequest(c, err.Error())
	case errors.Is(err, ErrAttemptNotFound), errors.Is(err, ErrCertificateNotFound):
		NotFound(c)
	case errors.Is(err, ErrPermissionDenied):
		Forbidden(c)
	case FatalConfiguration(err):
		logger.Log.Error("fatal configuration defect", zap.Error(err))
		InternalServerError(c)
	default:
		LogInternalError(c, err)
	}
}

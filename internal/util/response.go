package util

import (
	"errors"
	"net/http"

	"edu_platform_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrorBody is the only error envelope: {"message": "..."} with a non-2xx
// status. Success bodies are plain JSON objects with no wrapper.
type ErrorBody struct {
	Message string `json:"message"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, ErrorBody{Message: message})
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, ErrRoleForbidden.Error())
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, ErrNotFound.Error())
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("internal server error",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	InternalServerError(c)
}

// RespondError maps the error taxonomy onto HTTP statuses. Anything outside
// the taxonomy is treated as a store failure: logged, 500, never retried
// here, and never leaked to the response body.
func RespondError(c *gin.Context, err error) {
	var ve *ValidationError

	switch {
	case IsAuthError(err):
		Unauthorized(c, err.Error())
	case errors.Is(err, ErrRoleForbidden):
		Forbidden(c)
	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		NotFound(c)
	case errors.As(err, &ve):
		BadRequest(c, ve.Message)
	case errors.Is(err, ErrEmailRegistered):
		Error(c, http.StatusConflict, err.Error())
	default:
		LogInternalError(c, err)
	}
}

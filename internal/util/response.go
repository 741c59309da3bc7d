package util

import (
	"errors"
	"net/http"

	"fyp_portal_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response is the envelope every endpoint returns. The success/msg field
// names are part of the wire contract consumed by the portal frontend.
type Response struct {
	Success bool        `json:"success"`
	Msg     string      `json:"msg"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Msg:     msg,
		Data:    data,
	})
}

func Created(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Msg:     msg,
		Data:    data,
	})
}

func Error(c *gin.Context, code int, msg string) {
	c.JSON(code, Response{
		Success: false,
		Msg:     msg,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, msg string) {
	Error(c, http.StatusBadRequest, msg)
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

// FromError maps a workflow error to its HTTP status. Unrecognized errors are
// treated as storage-layer failures and logged.
func FromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrForbidden):
		Error(c, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrSelfReference),
		errors.Is(err, ErrUnsupportedType):
		Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrConflict),
		errors.Is(err, ErrAlreadyResolved),
		errors.Is(err, ErrAlreadyGrouped),
		errors.Is(err, ErrDuplicatePending),
		errors.Is(err, ErrSlotLocked),
		errors.Is(err, ErrCapacityExceeded):
		Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrConsistency):
		logger.Log.Error("workflow invariant violated", zap.Error(err))
		Error(c, http.StatusInternalServerError, err.Error())
	default:
		LogInternalError(c, err)
	}
}

package handler

import (
	"errors"
	"net/http"

	"sacra/internal/service"
	"sacra/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// statusFor maps service error kinds to HTTP statuses. The derived auth
// errors are checked before ErrAuth.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrDuplicateUsername):
		return http.StatusConflict
	case errors.Is(err, service.ErrForbiddenRole):
		return http.StatusForbidden
	case errors.Is(err, service.ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err in the error envelope. Unknown errors are logged
// and hidden behind a generic message.
func writeError(c *gin.Context, log logrus.FieldLogger, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		_ = c.Error(err)
		log.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).WithError(err).Error("request failed")
		c.JSON(code, response.Error(code, "Internal server error"))
		return
	}
	c.JSON(code, response.Error(code, err.Error()))
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
}

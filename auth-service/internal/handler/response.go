package handler

import (
	"errors"
	"fmt"
	"net/http"

	"complaint-portal/auth-service/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func respondWithData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondWithError(c *gin.Context, log *logrus.Entry, err error) {
	status, code := http.StatusInternalServerError, "INTERNAL_ERROR"
	switch {
	case errors.Is(err, models.ErrValidation):
		status, code = http.StatusBadRequest, "VALIDATION_ERROR"
	case errors.Is(err, models.ErrUnauthorized):
		status, code = http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, models.ErrForbidden):
		status, code = http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, models.ErrNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, models.ErrConflict):
		status, code = http.StatusConflict, "CONFLICT"
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
		msg = "internal server error"
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"success": false, "code": code, "error": msg})
}

func invalidBody(c *gin.Context, log *logrus.Entry) {
	respondWithError(c, log, fmt.Errorf("%w: invalid request body", models.ErrValidation))
}

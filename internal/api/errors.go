package api

import (
	"ecommerce_api/internal/service" // Service errors
	"errors"                         // Error matching
	"net/http"                       // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// statusForError maps service sentinel errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrDenied):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError translates a service error into a JSON error response.
// Unexpected failures are logged and returned as a generic server error.
func respondError(c *gin.Context, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		// Log the details, hide them from the client
		logrus.WithFields(logrus.Fields{
			"path":  c.FullPath(),
			"error": err.Error(),
		}).Error("Request failed")
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ehsas/internal/admin"
	"ehsas/internal/alumni"
	"ehsas/internal/cloudinary"
	"ehsas/internal/content"
	"ehsas/internal/notify"
)

func writeError(c *gin.Context, status int, code, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"error": code, "detail": detail})
}

// fail maps a service error to its HTTP response. notFound is the detail
// used for the resource the handler addresses.
func (s *server) fail(c *gin.Context, err error, notFound string) {
	var (
		alumniErr  *alumni.ValidationError
		contentErr *content.ValidationError
	)
	switch {
	case errors.As(err, &alumniErr):
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.As(err, &contentErr):
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, alumni.ErrDuplicateEmail):
		writeError(c, http.StatusBadRequest, "DUPLICATE_EMAIL", "Email already registered")
	case errors.Is(err, alumni.ErrDuplicateMembershipID):
		writeError(c, http.StatusConflict, "CONFLICT", "Membership id already issued, retry the approval")
	case errors.Is(err, alumni.ErrNotFound), errors.Is(err, content.ErrNotFound), errors.Is(err, notify.ErrNotFound):
		writeError(c, http.StatusNotFound, "NOT_FOUND", notFound)
	case errors.Is(err, admin.ErrInvalidCredentials):
		writeError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials")
	case errors.Is(err, cloudinary.ErrNotImage):
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Upload must be an image")
	case errors.Is(err, cloudinary.ErrNotConfigured):
		writeError(c, http.StatusServiceUnavailable, "UNAVAILABLE", "Image storage not configured")
	default:
		_ = c.Error(err)
		s.Log.Error().Err(err).Str("route", c.FullPath()).Msg("request failed")
		writeError(c, http.StatusInternalServerError, "INTERNAL", "Internal server error")
	}
}

// badRequest reports a payload that could not be decoded.
func badRequest(c *gin.Context, detail string) {
	writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", detail)
}

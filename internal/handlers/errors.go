package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"social-service/internal/apperrors"
)

// respondError maps service errors onto HTTP responses. Partial failures
// report the steps that did land so clients know a retry is worthwhile.
func respondError(c *gin.Context, err error) {
	var partial *apperrors.PartialFailureError
	if errors.As(err, &partial) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":           "operation partially completed, retry to finish",
			"completed_steps": partial.Completed,
		})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, apperrors.ErrDuplicateRequest):
		c.JSON(http.StatusConflict, gin.H{"error": "request already pending"})
	case errors.Is(err, apperrors.ErrRelationshipNotFound):
		c.JSON(http.StatusConflict, gin.H{"error": "no such relationship"})
	case errors.Is(err, apperrors.ErrInvalidCoordinate):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coordinates"})
	case errors.Is(err, apperrors.ErrCancelled):
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "request cancelled"})
	case errors.Is(err, apperrors.ErrDataUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "data temporarily unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

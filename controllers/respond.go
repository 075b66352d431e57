package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/greencycle/greencycle-api/middleware"
	"github.com/greencycle/greencycle-api/models"
	"github.com/greencycle/greencycle-api/services"
	"github.com/greencycle/greencycle-api/utils"
)

// serviceError maps a typed service error to the stable response
// envelope. Anything unrecognized is treated as a persistence failure.
func serviceError(c *gin.Context, err error) {
	var (
		validationErr *services.ValidationError
		notFoundErr   *services.NotFoundError
		conflictErr   *services.ConflictError
		pointsErr     *services.InsufficientPointsError
		collectorErr  *services.NoCollectorError
		uploadErr     *utils.FileUploadError
	)

	switch {
	case errors.As(err, &validationErr):
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", validationErr.Message)
	case errors.As(err, &notFoundErr):
		respondError(c, http.StatusNotFound, "NOT_FOUND", notFoundErr.Message)
	case errors.As(err, &conflictErr):
		respondError(c, http.StatusConflict, "CONFLICT", conflictErr.Message)
	case errors.As(err, &pointsErr):
		respondError(c, http.StatusBadRequest, "INSUFFICIENT_POINTS", pointsErr.Message)
	case errors.As(err, &collectorErr):
		respondError(c, http.StatusPreconditionFailed, "NO_COLLECTOR_AVAILABLE", collectorErr.Message)
	case errors.As(err, &uploadErr):
		respondError(c, http.StatusBadRequest, uploadErr.Code, uploadErr.Message)
	default:
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "An internal error occurred")
	}
}

// requireSelfOrAdmin lets the request through when the caller is the
// target user or an admin. Otherwise it writes the error response and
// returns false.
func requireSelfOrAdmin(c *gin.Context, targetID uuid.UUID, message string) bool {
	callerID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return false
	}
	role, _ := middleware.GetUserRole(c)
	if role != models.RoleAdmin && callerID != targetID {
		respondError(c, http.StatusForbidden, "FORBIDDEN", message)
		return false
	}
	return true
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

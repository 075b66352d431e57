package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/greencycle/greencycle-api/config"
	"github.com/greencycle/greencycle-api/middleware"
	"github.com/greencycle/greencycle-api/models"
	"github.com/greencycle/greencycle-api/services"
)

// LogWasteRequest represents the request body for logging a waste item
type LogWasteRequest struct {
	Material   string  `json:"material" binding:"required"`
	Weight     float64 `json:"weight" binding:"required"`
	PhotoS3Key *string `json:"photo_s3_key"`
}

// UpdateWasteStatusRequest represents the request body for the admin
// status transition endpoint
type UpdateWasteStatusRequest struct {
	Status      string  `json:"status" binding:"required"`
	CollectorID *string `json:"collector_id"`
}

// LogWaste handles POST /api/v1/waste/log - citizen logs a recyclable batch
// and earns EcoPoints for the estimated weight
func LogWaste(c *gin.Context) {
	citizenID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	var req LogWasteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	waste, points, err := services.LogWaste(db, citizenID, req.Material, req.Weight, req.PhotoS3Key)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"id":             waste.ID,
			"material":       waste.Material,
			"weight":         waste.Weight,
			"status":         waste.Status,
			"points_awarded": points,
		},
	})
}

// UpdateWasteStatus handles PUT /api/v1/waste/:id/status - admin accepts,
// rejects or resets a waste item. Collection is not reachable from here;
// it only happens through verification or report submission.
func UpdateWasteStatus(c *gin.Context) {
	wasteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Waste item not found")
		return
	}

	var req UpdateWasteStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	var waste *models.WasteItem

	switch req.Status {
	case models.WasteStatusAccepted:
		var collectorID *uuid.UUID
		if req.CollectorID != nil {
			id, err := uuid.Parse(*req.CollectorID)
			if err != nil {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid collector id")
				return
			}
			collectorID = &id
		}
		waste, err = services.AcceptWaste(db, wasteID, collectorID, nil)
	case models.WasteStatusRejected:
		waste, err = services.RejectWaste(db, wasteID)
	case models.WasteStatusPending:
		waste, err = services.ResetWaste(db, wasteID)
	default:
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Status must be Accepted, Rejected or Pending")
		return
	}
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    waste,
	})
}

// GetPendingWaste handles GET /api/v1/waste/pending - admin view of all
// waste items awaiting a decision, newest first
func GetPendingWaste(c *gin.Context) {
	db := config.GetDB()
	var wastes []models.WasteItem
	if err := db.Preload("Citizen").
		Where("status = ?", models.WasteStatusPending).
		Order("created_at DESC").
		Find(&wastes).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch pending waste items")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    wastes,
	})
}

// GetUserWasteHistory handles GET /api/v1/waste/user/:userId - all waste
// logged by a citizen, newest first. Users can only read their own
// history; admins can read any.
func GetUserWasteHistory(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "User not found")
		return
	}
	if !requireSelfOrAdmin(c, userID, "Users can only view their own waste history") {
		return
	}

	db := config.GetDB()
	var history []models.WasteItem
	if err := db.Where("citizen_id = ?", userID).
		Order("created_at DESC").
		Find(&history).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch waste history")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    history,
	})
}

// GetUserStats handles GET /api/v1/waste/stats/:userId - the citizen's
// points balance and count of logged items (rejected excluded). Users
// can only read their own stats; admins can read any.
func GetUserStats(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "User not found")
		return
	}
	if !requireSelfOrAdmin(c, userID, "Users can only view their own stats") {
		return
	}

	db := config.GetDB()
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		respondError(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
		return
	}

	var itemsLogged int64
	if err := db.Model(&models.WasteItem{}).
		Where("citizen_id = ? AND status <> ?", userID, models.WasteStatusRejected).
		Count(&itemsLogged).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to count waste items")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"points":       user.Points,
			"items_logged": itemsLogged,
		},
	})
}

// UploadWastePhoto handles POST /api/v1/waste/:id/photo - attaches a PNG
// photo to the citizen's own waste item via the photo storage service
func UploadWastePhoto(c *gin.Context) {
	citizenID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	wasteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Waste item not found")
		return
	}

	db := config.GetDB()
	var waste models.WasteItem
	if err := db.First(&waste, "id = ? AND citizen_id = ?", wasteID, citizenID).Error; err != nil {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Waste item not found")
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "A photo file is required")
		return
	}

	photoService := services.GetPhotoService()
	photoKey, err := photoService.UploadPhoto(fileHeader)
	if err != nil {
		serviceError(c, err)
		return
	}

	if err := db.Model(&waste).Update("photo_s3_key", photoKey).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save photo reference")
		return
	}

	photoURL, err := photoService.GetPhotoURL(photoKey)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to generate photo URL")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"photo_s3_key": photoKey,
			"photo_url":    photoURL,
		},
	})
}

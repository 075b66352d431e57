package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/greencycle/greencycle-api/config"
	"github.com/greencycle/greencycle-api/middleware"
	"github.com/greencycle/greencycle-api/services"
)

// SchedulePickupRequest represents the request body for scheduling a pickup
type SchedulePickupRequest struct {
	WasteID       string `json:"waste_id" binding:"required"`
	Address       string `json:"address" binding:"required"`
	ScheduledDate string `json:"scheduled_date" binding:"required"`
	TimeSlot      string `json:"time_slot" binding:"required"`
}

// SchedulePickup handles POST /api/v1/pickups/schedule - citizen books a
// collection appointment for an accepted waste item
func SchedulePickup(c *gin.Context) {
	citizenID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	var req SchedulePickupRequest
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

	wasteID, err := uuid.Parse(req.WasteID)
	if err != nil {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Waste item not found")
		return
	}

	db := config.GetDB()
	pickup, err := services.SchedulePickup(db, citizenID, wasteID, req.Address, req.ScheduledDate, req.TimeSlot)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    pickup,
	})
}

// GetCitizenPickups handles GET /api/v1/pickups/user/:userId - the
// citizen's pickup requests joined with their waste items, newest
// first. Users can only read their own pickups; admins can read any.
func GetCitizenPickups(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "User not found")
		return
	}
	if !requireSelfOrAdmin(c, userID, "Users can only view their own pickups") {
		return
	}

	db := config.GetDB()
	pickups, err := services.GetCitizenPickups(db, userID)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    pickups,
	})
}

// GetCollectorQueue handles GET /api/v1/pickups/collector/:collectorId -
// the collector's open queue with derived display statuses. Collectors
// can only read their own queue; admins can read any.
func GetCollectorQueue(c *gin.Context) {
	collectorID, err := uuid.Parse(c.Param("collectorId"))
	if err != nil {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Collector not found")
		return
	}

	if !requireSelfOrAdmin(c, collectorID, "Collectors can only view their own queue") {
		return
	}

	db := config.GetDB()
	queue, err := services.GetCollectorQueue(db, collectorID)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    queue,
	})
}

// GetLivePickupStatus handles GET /api/v1/pickups/status - the display
// status of the caller's most recent pickup request. A citizen with no
// requests gets the "No pickup yet" sentinel.
func GetLivePickupStatus(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	db := config.GetDB()
	status, err := services.LivePickupStatus(db, userID)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"status": status,
		},
	})
}

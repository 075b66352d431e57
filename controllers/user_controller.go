package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/greencycle/greencycle-api/config"
	"github.com/greencycle/greencycle-api/models"
)

// GetCitizens handles GET /api/v1/users/citizens - admin view of all citizens
func GetCitizens(c *gin.Context) {
	db := config.GetDB()
	var citizens []models.User
	if err := db.Where("role = ?", models.RoleCitizen).Find(&citizens).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch citizens")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    citizens,
	})
}

// GetCollectors handles GET /api/v1/users/collectors - admin view of all
// collectors, used for explicit assignment
func GetCollectors(c *gin.Context) {
	db := config.GetDB()
	var collectors []models.User
	if err := db.Select("id", "name", "email").
		Where("role = ?", models.RoleCollector).
		Find(&collectors).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch collectors")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    collectors,
	})
}

// DeleteUser handles DELETE /api/v1/users/:id - admin removes an account
func DeleteUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
		return
	}

	db := config.GetDB()
	res := db.Delete(&models.User{}, "id = ?", userID)
	if res.Error != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete user")
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User deleted successfully",
	})
}

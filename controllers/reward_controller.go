package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/greencycle/greencycle-api/config"
	"github.com/greencycle/greencycle-api/models"
	"github.com/greencycle/greencycle-api/services"
)

// IssueVoucherRequest represents the request body for issuing a voucher
type IssueVoucherRequest struct {
	UserID         string  `json:"user_id" binding:"required"`
	ShopName       string  `json:"shop_name" binding:"required"`
	DiscountAmount float64 `json:"discount_amount" binding:"required"`
	PointsRequired int     `json:"points_required" binding:"required,gt=0"`
	Code           string  `json:"code" binding:"required"`
}

// GetCitizenPoints handles GET /api/v1/rewards/users-points - admin view
// of every citizen's current balance
func GetCitizenPoints(c *gin.Context) {
	db := config.GetDB()
	var citizens []models.User
	if err := db.Select("id", "name", "email", "points").
		Where("role = ?", models.RoleCitizen).
		Find(&citizens).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch citizen points")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    citizens,
	})
}

// IssueVoucher handles POST /api/v1/rewards/vouchers - admin issues a
// voucher, atomically deducting the citizen's points
func IssueVoucher(c *gin.Context) {
	var req IssueVoucherRequest
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

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "User not found")
		return
	}

	db := config.GetDB()
	voucher, err := services.IssueVoucher(db, userID, req.ShopName, req.DiscountAmount, req.PointsRequired, req.Code)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    voucher,
	})
}

// GetUserVouchers handles GET /api/v1/rewards/vouchers/user/:userId -
// vouchers assigned to a user, newest first. Users can only read their
// own vouchers; admins can read any.
func GetUserVouchers(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "User not found")
		return
	}
	if !requireSelfOrAdmin(c, userID, "Users can only view their own vouchers") {
		return
	}

	db := config.GetDB()
	var vouchers []models.Voucher
	if err := db.Where("assigned_to_id = ?", userID).
		Order("created_at DESC").
		Find(&vouchers).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch vouchers")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    vouchers,
	})
}

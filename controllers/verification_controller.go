package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/greencycle/greencycle-api/config"
	"github.com/greencycle/greencycle-api/models"
	"github.com/greencycle/greencycle-api/services"
	qrcode "github.com/skip2/go-qrcode"
)

// VerifyCode handles POST /api/v1/qrcode/verify/:code - collector
// confirms a physical pickup by scanning the waste item's code
func VerifyCode(c *gin.Context) {
	code := c.Param("code")

	db := config.GetDB()
	wasteID, err := services.VerifyByCode(db, code)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"waste_id": wasteID,
		},
	})
}

// GetWasteQRCode handles GET /api/v1/qrcode/:wasteId/image - renders the
// waste item's verification code as a PNG for the citizen to present
func GetWasteQRCode(c *gin.Context) {
	wasteID, err := uuid.Parse(c.Param("wasteId"))
	if err != nil {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Waste item not found")
		return
	}

	db := config.GetDB()
	var waste models.WasteItem
	if err := db.First(&waste, "id = ?", wasteID).Error; err != nil {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Waste item not found")
		return
	}

	png, err := qrcode.Encode(waste.ID.String(), qrcode.Medium, 256)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "QRCODE_ERROR", "Failed to generate QR code")
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

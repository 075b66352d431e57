package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/greencycle/greencycle-api/config"
	"github.com/greencycle/greencycle-api/middleware"
	"github.com/greencycle/greencycle-api/models"
	"github.com/greencycle/greencycle-api/services"
	"github.com/xuri/excelize/v2"
)

// SubmitReportRequest represents the request body for a collection report
type SubmitReportRequest struct {
	WasteID        string  `json:"waste_id" binding:"required"`
	WeightMeasured float64 `json:"weight_measured" binding:"required"`
	Notes          string  `json:"notes"`
}

// SubmitCollectionReport handles POST /api/v1/collection-reports -
// collector records the measured weight and closes the waste item
func SubmitCollectionReport(c *gin.Context) {
	collectorID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	var req SubmitReportRequest
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
	report, err := services.SubmitCollectionReport(db, collectorID, wasteID, req.WeightMeasured, req.Notes)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"report_id": report.ID,
		},
	})
}

// ExportCollectionReports handles GET /api/v1/collection-reports/export -
// admin download of all collection reports as an Excel workbook
func ExportCollectionReports(c *gin.Context) {
	db := config.GetDB()
	var reports []models.CollectionReport
	if err := db.Preload("Collector").Preload("WasteItem").
		Order("created_at DESC").
		Find(&reports).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch collection reports")
		return
	}

	file := excelize.NewFile()
	sheet := "Collection Reports"
	file.SetSheetName("Sheet1", sheet)

	headers := []string{"Report ID", "Waste ID", "Material", "Collector", "Measured Weight (kg)", "Notes", "Reported At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		file.SetCellValue(sheet, cell, h)
	}

	for row, report := range reports {
		values := []interface{}{
			report.ID.String(),
			report.WasteItemID.String(),
			report.WasteItem.Material,
			report.Collector.Name,
			report.WeightMeasured,
			report.Notes,
			report.CreatedAt.Format(time.RFC3339),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			file.SetCellValue(sheet, cell, v)
		}
	}

	buffer, err := file.WriteToBuffer()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to generate Excel file")
		return
	}

	filename := fmt.Sprintf("collection_reports_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buffer.Bytes())
}

package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/greencycle/greencycle-api/config"
	"github.com/greencycle/greencycle-api/controllers"
	"github.com/greencycle/greencycle-api/middleware"
	"github.com/greencycle/greencycle-api/models"
	"github.com/greencycle/greencycle-api/services"
)

func main() {
	log.Println("Starting GreenCycle API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.WasteItem{},
		&models.PickupRequest{},
		&models.CollectionReport{},
		&models.Voucher{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Initialize photo storage
	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.InitS3Service()
		if err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
		services.InitPhotoService(s3Service)
	} else {
		log.Println("AWS_S3_BUCKET not set, photo uploads disabled")
	}

	router := setupRouter()

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the Gin engine with all API routes
func setupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Authentication
		v1.POST("/auth/register", controllers.Register)
		v1.POST("/auth/login", controllers.Login)

		authed := v1.Group("")
		authed.Use(middleware.RequireAuth())
		{
			// Waste ledger
			authed.POST("/waste/log", middleware.RequireRole(models.RoleCitizen), controllers.LogWaste)
			authed.POST("/waste/:id/photo", middleware.RequireRole(models.RoleCitizen), controllers.UploadWastePhoto)
			authed.GET("/waste/pending", middleware.RequireRole(models.RoleAdmin), controllers.GetPendingWaste)
			authed.PUT("/waste/:id/status", middleware.RequireRole(models.RoleAdmin), controllers.UpdateWasteStatus)
			authed.GET("/waste/user/:userId", controllers.GetUserWasteHistory)
			authed.GET("/waste/stats/:userId", controllers.GetUserStats)

			// Pickup scheduling
			authed.POST("/pickups/schedule", middleware.RequireRole(models.RoleCitizen), controllers.SchedulePickup)
			authed.GET("/pickups/user/:userId", controllers.GetCitizenPickups)
			authed.GET("/pickups/collector/:collectorId", middleware.RequireRole(models.RoleCollector, models.RoleAdmin), controllers.GetCollectorQueue)
			authed.GET("/pickups/status", controllers.GetLivePickupStatus)

			// Verification
			authed.POST("/qrcode/verify/:code", middleware.RequireRole(models.RoleCollector), controllers.VerifyCode)
			authed.GET("/qrcode/:wasteId/image", controllers.GetWasteQRCode)

			// Collection reports
			authed.POST("/collection-reports", middleware.RequireRole(models.RoleCollector), controllers.SubmitCollectionReport)
			authed.GET("/collection-reports/export", middleware.RequireRole(models.RoleAdmin), controllers.ExportCollectionReports)

			// Rewards
			authed.GET("/rewards/users-points", middleware.RequireRole(models.RoleAdmin), controllers.GetCitizenPoints)
			authed.POST("/rewards/vouchers", middleware.RequireRole(models.RoleAdmin), controllers.IssueVoucher)
			authed.GET("/rewards/vouchers/user/:userId", controllers.GetUserVouchers)

			// User directory
			authed.GET("/users/citizens", middleware.RequireRole(models.RoleAdmin), controllers.GetCitizens)
			authed.GET("/users/collectors", middleware.RequireRole(models.RoleAdmin), controllers.GetCollectors)
			authed.DELETE("/users/:id", middleware.RequireRole(models.RoleAdmin), controllers.DeleteUser)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "GreenCycle API is running",
	})
}

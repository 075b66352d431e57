package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/greencycle/greencycle-api/config"
	"github.com/greencycle/greencycle-api/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func seedAcceptedWaste(t *testing.T, db *gorm.DB, citizen, collector *models.User) *models.WasteItem {
	t.Helper()
	return seedWaste(t, db, citizen, models.WasteStatusAccepted, &collector.ID)
}

func TestSchedulePickupEndpoint(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)
	setupTestConfig()

	citizen := seedUser(t, db, "citizen1", models.RoleCitizen, 0)
	collector := seedUser(t, db, "collector1", models.RoleCollector, 0)

	tests := []struct {
		name           string
		wasteStatus    string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
	}{
		{
			name:        "Schedule pickup successfully",
			wasteStatus: models.WasteStatusAccepted,
			requestBody: map[string]interface{}{
				"address":        "12 Green Street",
				"scheduled_date": "2026-09-15",
				"time_slot":      "Morning",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:        "Pending waste cannot be scheduled",
			wasteStatus: models.WasteStatusPending,
			requestBody: map[string]interface{}{
				"address":        "12 Green Street",
				"scheduled_date": "2026-09-15",
				"time_slot":      "Morning",
			},
			expectedStatus: http.StatusConflict,
			expectedError:  "CONFLICT",
		},
		{
			name:        "Malformed date",
			wasteStatus: models.WasteStatusAccepted,
			requestBody: map[string]interface{}{
				"address":        "12 Green Street",
				"scheduled_date": "September 15",
				"time_slot":      "Morning",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:        "Unknown time slot",
			wasteStatus: models.WasteStatusAccepted,
			requestBody: map[string]interface{}{
				"address":        "12 Green Street",
				"scheduled_date": "2026-09-15",
				"time_slot":      "Midnight",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:        "Missing address",
			wasteStatus: models.WasteStatusAccepted,
			requestBody: map[string]interface{}{
				"scheduled_date": "2026-09-15",
				"time_slot":      "Morning",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			waste := seedWaste(t, db, citizen, tt.wasteStatus, &collector.ID)
			tt.requestBody["waste_id"] = waste.ID.String()

			router := setupTestRouter()
			router.POST("/pickups/schedule",
				mockAuthMiddleware(citizen.ID, citizen.Name, citizen.Role),
				SchedulePickup,
			)

			body, _ := json.Marshal(tt.requestBody)
			req, _ := http.NewRequest(http.MethodPost, "/pickups/schedule", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			err := json.Unmarshal(w.Body.Bytes(), &response)
			assert.NoError(t, err)

			if tt.expectedError != "" {
				assert.False(t, response["success"].(bool))
				errorData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedError, errorData["code"])
			} else {
				data := response["data"].(map[string]interface{})
				assert.Equal(t, "Pending", data["status"])
				assert.Equal(t, "2026-09-15", data["scheduled_date"])
			}
		})
	}
}

func TestSchedulePickupEndpoint_UnknownWaste(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)
	setupTestConfig()

	citizen := seedUser(t, db, "citizen1", models.RoleCitizen, 0)

	router := setupTestRouter()
	router.POST("/pickups/schedule",
		mockAuthMiddleware(citizen.ID, citizen.Name, citizen.Role),
		SchedulePickup,
	)

	body, _ := json.Marshal(map[string]interface{}{
		"waste_id":       uuid.New().String(),
		"address":        "12 Green Street",
		"scheduled_date": "2026-09-15",
		"time_slot":      "Morning",
	})
	req, _ := http.NewRequest(http.MethodPost, "/pickups/schedule", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetCollectorQueueEndpoint(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)
	setupTestConfig()

	citizen := seedUser(t, db, "citizen1", models.RoleCitizen, 0)
	collector := seedUser(t, db, "collector1", models.RoleCollector, 0)
	otherCollector := seedUser(t, db, "collector2", models.RoleCollector, 0)
	admin := seedUser(t, db, "admin1", models.RoleAdmin, 0)

	waste := seedAcceptedWaste(t, db, citizen, collector)
	db.Model(waste).Updates(map[string]interface{}{
		"pickup_requested": true,
		"pickup_address":   "12 Green Street",
	})
	pickup := models.PickupRequest{
		CitizenID:     citizen.ID,
		WasteItemID:   waste.ID,
		Address:       "12 Green Street",
		ScheduledDate: "2026-09-15",
		TimeSlot:      models.TimeSlotAfternoon,
		Status:        models.PickupStatusPending,
	}
	db.Create(&pickup)

	makeRequest := func(caller *models.User, collectorID string) *httptest.ResponseRecorder {
		router := setupTestRouter()
		router.GET("/pickups/collector/:collectorId",
			mockAuthMiddleware(caller.ID, caller.Name, caller.Role),
			GetCollectorQueue,
		)

		req, _ := http.NewRequest(http.MethodGet, "/pickups/collector/"+collectorID, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("Collector reads own queue", func(t *testing.T) {
		w := makeRequest(collector, collector.ID.String())

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)
		data := response["data"].([]interface{})
		assert.Equal(t, 1, len(data))

		item := data[0].(map[string]interface{})
		assert.Equal(t, waste.ID.String(), item["waste_id"])
		assert.Equal(t, "Assigned", item["pickup_status"])
		assert.Equal(t, "12 Green Street", item["address"])
		assert.Equal(t, "Afternoon", item["time_slot"])
	})

	t.Run("Collector cannot read another queue", func(t *testing.T) {
		w := makeRequest(otherCollector, collector.ID.String())
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Admin can read any queue", func(t *testing.T) {
		w := makeRequest(admin, collector.ID.String())
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestGetLivePickupStatusEndpoint(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)
	setupTestConfig()

	citizen := seedUser(t, db, "citizen1", models.RoleCitizen, 0)
	collector := seedUser(t, db, "collector1", models.RoleCollector, 0)

	makeRequest := func() map[string]interface{} {
		router := setupTestRouter()
		router.GET("/pickups/status",
			mockAuthMiddleware(citizen.ID, citizen.Name, citizen.Role),
			GetLivePickupStatus,
		)

		req, _ := http.NewRequest(http.MethodGet, "/pickups/status", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)
		return response["data"].(map[string]interface{})
	}

	// No pickup requests yet
	assert.Equal(t, "No pickup yet", makeRequest()["status"])

	// With a request against an accepted item the status derives from the waste
	waste := seedAcceptedWaste(t, db, citizen, collector)
	pickup := models.PickupRequest{
		CitizenID:     citizen.ID,
		WasteItemID:   waste.ID,
		Address:       "12 Green Street",
		ScheduledDate: "2026-09-15",
		TimeSlot:      models.TimeSlotMorning,
		Status:        models.PickupStatusPending,
	}
	db.Create(&pickup)

	assert.Equal(t, "Assigned", makeRequest()["status"])

	db.Model(&models.WasteItem{}).Where("id = ?", waste.ID).
		Update("status", models.WasteStatusCollected)
	assert.Equal(t, "Completed", makeRequest()["status"])
}

func TestGetCitizenPickupsEndpoint(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)
	setupTestConfig()

	citizen := seedUser(t, db, "citizen1", models.RoleCitizen, 0)
	collector := seedUser(t, db, "collector1", models.RoleCollector, 0)

	waste := seedAcceptedWaste(t, db, citizen, collector)
	pickup := models.PickupRequest{
		CitizenID:     citizen.ID,
		WasteItemID:   waste.ID,
		Address:       "12 Green Street",
		ScheduledDate: "2026-09-15",
		TimeSlot:      models.TimeSlotEvening,
		Status:        models.PickupStatusPending,
	}
	db.Create(&pickup)

	router := setupTestRouter()
	router.GET("/pickups/user/:userId",
		mockAuthMiddleware(citizen.ID, citizen.Name, citizen.Role),
		GetCitizenPickups,
	)

	req, _ := http.NewRequest(http.MethodGet, "/pickups/user/"+citizen.ID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	data := response["data"].([]interface{})
	assert.Equal(t, 1, len(data))

	item := data[0].(map[string]interface{})
	assert.Equal(t, "Evening", item["time_slot"])

	// Waste relationship is preloaded
	wasteData := item["waste_item"].(map[string]interface{})
	assert.Equal(t, waste.ID.String(), wasteData["id"])
}

func TestGetCitizenPickupsEndpoint_SelfOrAdmin(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)
	setupTestConfig()

	citizen := seedUser(t, db, "citizen1", models.RoleCitizen, 0)
	other := seedUser(t, db, "citizen2", models.RoleCitizen, 0)
	admin := seedUser(t, db, "admin1", models.RoleAdmin, 0)

	tests := []struct {
		name           string
		caller         *models.User
		expectedStatus int
	}{
		{"Another citizen cannot read the pickups", other, http.StatusForbidden},
		{"Admin can read any citizen's pickups", admin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.GET("/pickups/user/:userId",
				mockAuthMiddleware(tt.caller.ID, tt.caller.Name, tt.caller.Role),
				GetCitizenPickups,
			)

			req, _ := http.NewRequest(http.MethodGet, "/pickups/user/"+citizen.ID.String(), nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusForbidden {
				var response map[string]interface{}
				json.Unmarshal(w.Body.Bytes(), &response)
				errData := response["error"].(map[string]interface{})
				assert.Equal(t, "FORBIDDEN", errData["code"])
			}
		})
	}
}

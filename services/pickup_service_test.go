package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/greencycle/greencycle-api/models"
	"github.com/stretchr/testify/assert"
)

func TestSchedulePickup(t *testing.T) {
	db := setupServiceTestDB(t)
	citizen := createTestUser(t, db, "citizen1", models.RoleCitizen)
	collector := createTestUser(t, db, "collector1", models.RoleCollector)

	newAcceptedWaste := func(t *testing.T) uuid.UUID {
		waste, _, err := LogWaste(db, citizen.ID, "Plastic", 1.0, nil)
		assert.NoError(t, err)
		_, err = AcceptWaste(db, waste.ID, &collector.ID, nil)
		assert.NoError(t, err)
		return waste.ID
	}

	tests := []struct {
		name          string
		address       string
		scheduledDate string
		timeSlot      string
		expectedErr   interface{}
	}{
		{
			name:          "Schedule pickup successfully",
			address:       "12 Green Street",
			scheduledDate: "2026-09-15",
			timeSlot:      models.TimeSlotMorning,
		},
		{
			name:          "Missing address",
			address:       "",
			scheduledDate: "2026-09-15",
			timeSlot:      models.TimeSlotMorning,
			expectedErr:   &ValidationError{},
		},
		{
			name:          "Malformed date",
			address:       "12 Green Street",
			scheduledDate: "15/09/2026",
			timeSlot:      models.TimeSlotMorning,
			expectedErr:   &ValidationError{},
		},
		{
			name:          "Unknown time slot",
			address:       "12 Green Street",
			scheduledDate: "2026-09-15",
			timeSlot:      "Midnight",
			expectedErr:   &ValidationError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wasteID := newAcceptedWaste(t)

			pickup, err := SchedulePickup(db, citizen.ID, wasteID, tt.address, tt.scheduledDate, tt.timeSlot)

			if tt.expectedErr != nil {
				assert.Error(t, err)
				assert.IsType(t, tt.expectedErr, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, models.PickupStatusPending, pickup.Status)
			assert.Equal(t, tt.scheduledDate, pickup.ScheduledDate)
			assert.Equal(t, wasteID, pickup.WasteItemID)

			// The waste item carries the request flag and address
			var waste models.WasteItem
			db.First(&waste, "id = ?", wasteID)
			assert.True(t, waste.PickupDetails.Requested)
			assert.Equal(t, tt.address, waste.PickupDetails.Address)
			assert.NotNil(t, waste.PickupDetails.RequestedAt)
		})
	}
}

func TestSchedulePickup_WrongStatus(t *testing.T) {
	db := setupServiceTestDB(t)
	citizen := createTestUser(t, db, "citizen1", models.RoleCitizen)

	// Still Pending, never accepted
	waste, _, err := LogWaste(db, citizen.ID, "Plastic", 1.0, nil)
	assert.NoError(t, err)

	_, err = SchedulePickup(db, citizen.ID, waste.ID, "12 Green Street", "2026-09-15", models.TimeSlotMorning)
	assert.Error(t, err)
	assert.IsType(t, &ConflictError{}, err)
}

func TestSchedulePickup_AlreadyRequested(t *testing.T) {
	db := setupServiceTestDB(t)
	citizen := createTestUser(t, db, "citizen1", models.RoleCitizen)
	collector := createTestUser(t, db, "collector1", models.RoleCollector)

	waste := acceptedWasteWithPickup(t, db, citizen, collector)

	_, err := SchedulePickup(db, citizen.ID, waste.ID, "34 Oak Avenue", "2026-09-16", models.TimeSlotEvening)
	assert.Error(t, err)
	assert.IsType(t, &ConflictError{}, err)

	// Only the first request exists
	var count int64
	db.Model(&models.PickupRequest{}).Where("waste_item_id = ?", waste.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSchedulePickup_NotOwner(t *testing.T) {
	db := setupServiceTestDB(t)
	owner := createTestUser(t, db, "owner", models.RoleCitizen)
	other := createTestUser(t, db, "other", models.RoleCitizen)
	collector := createTestUser(t, db, "collector1", models.RoleCollector)

	waste, _, err := LogWaste(db, owner.ID, "Plastic", 1.0, nil)
	assert.NoError(t, err)
	_, err = AcceptWaste(db, waste.ID, &collector.ID, nil)
	assert.NoError(t, err)

	_, err = SchedulePickup(db, other.ID, waste.ID, "12 Green Street", "2026-09-15", models.TimeSlotMorning)
	assert.Error(t, err)
	assert.IsType(t, &NotFoundError{}, err)
}

func TestSchedulePickup_WasteNotFound(t *testing.T) {
	db := setupServiceTestDB(t)
	citizen := createTestUser(t, db, "citizen1", models.RoleCitizen)

	_, err := SchedulePickup(db, citizen.ID, uuid.New(), "12 Green Street", "2026-09-15", models.TimeSlotMorning)
	assert.Error(t, err)
	assert.IsType(t, &NotFoundError{}, err)
}

func TestGetCitizenPickups(t *testing.T) {
	db := setupServiceTestDB(t)
	citizen := createTestUser(t, db, "citizen1", models.RoleCitizen)
	other := createTestUser(t, db, "citizen2", models.RoleCitizen)
	collector := createTestUser(t, db, "collector1", models.RoleCollector)

	acceptedWasteWithPickup(t, db, citizen, collector)
	acceptedWasteWithPickup(t, db, citizen, collector)
	acceptedWasteWithPickup(t, db, other, collector)

	pickups, err := GetCitizenPickups(db, citizen.ID)
	assert.NoError(t, err)
	assert.Len(t, pickups, 2, "Citizen should only see their own pickups")
	for _, p := range pickups {
		assert.Equal(t, citizen.ID, p.CitizenID)
		assert.Equal(t, p.WasteItemID, p.WasteItem.ID, "Waste item should be preloaded")
	}
}

func TestGetCollectorQueue(t *testing.T) {
	db := setupServiceTestDB(t)
	citizen := createTestUser(t, db, "citizen1", models.RoleCitizen)
	collector := createTestUser(t, db, "collector1", models.RoleCollector)
	otherCollector := createTestUser(t, db, "collector2", models.RoleCollector)

	scheduled := acceptedWasteWithPickup(t, db, citizen, collector)

	// Accepted but no pickup requested yet, must not appear
	unscheduled, _, err := LogWaste(db, citizen.ID, "Metal", 1.0, nil)
	assert.NoError(t, err)
	_, err = AcceptWaste(db, unscheduled.ID, &collector.ID, nil)
	assert.NoError(t, err)

	// Assigned to someone else
	acceptedWasteWithPickup(t, db, citizen, otherCollector)

	queue, err := GetCollectorQueue(db, collector.ID)
	assert.NoError(t, err)
	assert.Len(t, queue, 1)

	item := queue[0]
	assert.Equal(t, scheduled.ID, item.WasteID)
	assert.Equal(t, models.WasteStatusAccepted, item.WasteStatus)
	assert.Equal(t, "Assigned", item.PickupStatus)
	assert.Equal(t, "12 Green Street", item.Address)
	assert.Equal(t, "2026-09-15", item.ScheduledDate)
	assert.Equal(t, models.TimeSlotMorning, item.TimeSlot)
	assert.NotNil(t, item.PickupID)
	assert.Equal(t, citizen.Email, item.Citizen.Email)
}

func TestGetCollectorQueue_Empty(t *testing.T) {
	db := setupServiceTestDB(t)
	collector := createTestUser(t, db, "collector1", models.RoleCollector)

	queue, err := GetCollectorQueue(db, collector.ID)
	assert.NoError(t, err)
	assert.NotNil(t, queue)
	assert.Len(t, queue, 0)
}

func TestLivePickupStatus(t *testing.T) {
	db := setupServiceTestDB(t)
	citizen := createTestUser(t, db, "citizen1", models.RoleCitizen)
	collector := createTestUser(t, db, "collector1", models.RoleCollector)

	// No requests yet
	status, err := LivePickupStatus(db, citizen.ID)
	assert.NoError(t, err)
	assert.Equal(t, NoPickupStatus, status)

	waste := acceptedWasteWithPickup(t, db, citizen, collector)

	// Accepted waste reads as Assigned
	status, err = LivePickupStatus(db, citizen.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Assigned", status)

	// Collected waste reads as Completed
	_, err = VerifyByCode(db, waste.ID.String())
	assert.NoError(t, err)

	status, err = LivePickupStatus(db, citizen.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Completed", status)
}

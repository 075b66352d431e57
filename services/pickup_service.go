package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/greencycle/greencycle-api/models"
	"gorm.io/gorm"
)

// CollectorQueueItem is one row of a collector's dashboard queue: a
// waste item assigned to the collector with an open pickup request,
// annotated with the latest request's appointment details and the
// derived display status.
type CollectorQueueItem struct {
	WasteID       uuid.UUID   `json:"waste_id"`
	Material      string      `json:"material"`
	Weight        float64     `json:"weight"`
	WasteStatus   string      `json:"waste_status"`
	PickupStatus  string      `json:"pickup_status"` // derived, never persisted
	Address       string      `json:"address"`
	ScheduledDate string      `json:"scheduled_date"`
	TimeSlot      string      `json:"time_slot"`
	PickupID      *uuid.UUID  `json:"pickup_id"`
	Citizen       models.User `json:"citizen"`
}

// SchedulePickup creates a pickup appointment for an accepted waste item
// owned by the citizen. The not-yet-requested guard is part of the
// UPDATE, so two concurrent schedules for the same item yield one
// success and one ConflictError.
func SchedulePickup(db *gorm.DB, citizenID, wasteID uuid.UUID, address, scheduledDate, timeSlot string) (*models.PickupRequest, error) {
	if address == "" {
		return nil, &ValidationError{Message: "Address is required"}
	}
	if _, err := time.Parse(models.ScheduledDateLayout, scheduledDate); err != nil {
		return nil, &ValidationError{Message: "Scheduled date must be in YYYY-MM-DD format"}
	}
	if !models.IsValidTimeSlot(timeSlot) {
		return nil, &ValidationError{Message: fmt.Sprintf("Unknown time slot %q", timeSlot)}
	}

	var waste models.WasteItem
	if err := db.First(&waste, "id = ?", wasteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "Waste item not found"}
		}
		return nil, persistence("Failed to load waste item", err)
	}
	if waste.CitizenID != citizenID {
		return nil, &NotFoundError{Message: "Waste item not found for this citizen"}
	}

	requestedAt, _ := time.Parse(models.ScheduledDateLayout, scheduledDate)
	pickup := models.PickupRequest{
		CitizenID:     citizenID,
		WasteItemID:   wasteID,
		Address:       address,
		ScheduledDate: scheduledDate,
		TimeSlot:      timeSlot,
		Status:        models.PickupStatusPending,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.WasteItem{}).
			Where("id = ? AND status = ? AND pickup_requested = ?", wasteID, models.WasteStatusAccepted, false).
			Updates(map[string]interface{}{
				"pickup_requested":    true,
				"pickup_address":      address,
				"pickup_requested_at": requestedAt,
			})
		if res.Error != nil {
			return persistence("Failed to update waste pickup details", res.Error)
		}
		if res.RowsAffected == 0 {
			var current models.WasteItem
			if err := tx.First(&current, "id = ?", wasteID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &NotFoundError{Message: "Waste item not found"}
				}
				return persistence("Failed to load waste item", err)
			}
			if current.Status != models.WasteStatusAccepted {
				return &ConflictError{Message: fmt.Sprintf("Waste status is %q. Must be %q before a pickup can be scheduled.", current.Status, models.WasteStatusAccepted)}
			}
			return &ConflictError{Message: "A pickup has already been requested for this waste item"}
		}

		if err := tx.Create(&pickup).Error; err != nil {
			return persistence("Failed to create pickup request", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &pickup, nil
}

// GetCitizenPickups returns the citizen's pickup requests joined with
// their waste items, newest first.
func GetCitizenPickups(db *gorm.DB, citizenID uuid.UUID) ([]models.PickupRequest, error) {
	var pickups []models.PickupRequest
	if err := db.Preload("WasteItem").
		Where("citizen_id = ?", citizenID).
		Order("created_at DESC").
		Find(&pickups).Error; err != nil {
		return nil, persistence("Failed to fetch pickups", err)
	}
	return pickups, nil
}

// GetCollectorQueue returns the collector's open queue: waste items
// assigned to them with a requested pickup, each annotated with the
// latest matching pickup request (if any) and the derived display
// status. Read-only; a missing pickup request falls back to the waste
// item's own embedded address.
func GetCollectorQueue(db *gorm.DB, collectorID uuid.UUID) ([]CollectorQueueItem, error) {
	var wastes []models.WasteItem
	if err := db.Preload("Citizen").
		Where("collector_id = ? AND pickup_requested = ?", collectorID, true).
		Order("updated_at DESC").
		Find(&wastes).Error; err != nil {
		return nil, persistence("Failed to fetch collector queue", err)
	}

	if len(wastes) == 0 {
		return []CollectorQueueItem{}, nil
	}

	wasteIDs := make([]uuid.UUID, 0, len(wastes))
	for _, w := range wastes {
		wasteIDs = append(wasteIDs, w.ID)
	}

	var pickups []models.PickupRequest
	if err := db.Where("waste_item_id IN ?", wasteIDs).
		Order("created_at DESC").
		Find(&pickups).Error; err != nil {
		return nil, persistence("Failed to fetch pickup requests", err)
	}

	// newest request wins per waste item
	latest := make(map[uuid.UUID]models.PickupRequest, len(pickups))
	for _, p := range pickups {
		if _, ok := latest[p.WasteItemID]; !ok {
			latest[p.WasteItemID] = p
		}
	}

	queue := make([]CollectorQueueItem, 0, len(wastes))
	for _, w := range wastes {
		item := CollectorQueueItem{
			WasteID:      w.ID,
			Material:     w.Material,
			Weight:       w.Weight,
			WasteStatus:  w.Status,
			PickupStatus: DisplayStatus(w.Status),
			Address:      w.PickupDetails.Address,
			Citizen:      w.Citizen,
		}
		if p, ok := latest[w.ID]; ok {
			id := p.ID
			item.PickupID = &id
			item.Address = p.Address
			item.ScheduledDate = p.ScheduledDate
			item.TimeSlot = p.TimeSlot
		}
		queue = append(queue, item)
	}

	return queue, nil
}

// LivePickupStatus derives the display status of the citizen's most
// recent pickup request. A citizen with no requests gets the
// NoPickupStatus sentinel, not an error. The stored pickup status is
// only used if the referenced waste item cannot be loaded.
func LivePickupStatus(db *gorm.DB, citizenID uuid.UUID) (string, error) {
	var pickup models.PickupRequest
	err := db.Where("citizen_id = ?", citizenID).
		Order("created_at DESC").
		First(&pickup).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NoPickupStatus, nil
		}
		return "", persistence("Failed to fetch pickup request", err)
	}

	var waste models.WasteItem
	if err := db.First(&waste, "id = ?", pickup.WasteItemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// stored status stands in when the waste row is gone
			return pickup.Status, nil
		}
		return "", persistence("Failed to load waste item", err)
	}

	return DisplayStatus(waste.Status), nil
}

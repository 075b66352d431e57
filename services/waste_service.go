package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/greencycle/greencycle-api/models"
	"gorm.io/gorm"
)

// PointsPerKilogram is the accrual rate applied to the citizen's
// self-reported weight at logging time. The later measured weight does
// not adjust already-awarded points.
const PointsPerKilogram = 10

// Sources converging on the shared collected transition
const (
	collectedByVerification = "verify"
	collectedByReport       = "report"
)

// LogWaste creates a Pending waste item for the citizen and credits
// floor(weight * 10) EcoPoints in the same transaction. Returns the
// created item and the points awarded.
func LogWaste(db *gorm.DB, citizenID uuid.UUID, material string, weight float64, photoS3Key *string) (*models.WasteItem, int, error) {
	if !models.IsValidMaterial(material) {
		return nil, 0, &ValidationError{Message: fmt.Sprintf("Unknown material %q", material)}
	}
	if weight < models.MinimumWeight {
		return nil, 0, &ValidationError{Message: fmt.Sprintf("Weight must be at least %.1f kg", models.MinimumWeight)}
	}

	var citizen models.User
	if err := db.First(&citizen, "id = ?", citizenID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, &NotFoundError{Message: "Citizen not found"}
		}
		return nil, 0, persistence("Failed to load citizen", err)
	}

	points := int(math.Floor(weight * PointsPerKilogram))
	waste := models.WasteItem{
		CitizenID:  citizenID,
		Material:   material,
		Weight:     weight,
		PhotoS3Key: photoS3Key,
		Status:     models.WasteStatusPending,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&waste).Error; err != nil {
			return persistence("Failed to create waste item", err)
		}
		return awardPoints(tx, citizenID, points)
	})
	if err != nil {
		return nil, 0, err
	}

	return &waste, points, nil
}

// AcceptWaste transitions Pending -> Accepted and assigns a collector.
// When collectorID is nil the injected policy picks one (least-loaded by
// default). The guard and the write are one compare-and-swap: under
// concurrent accepts exactly one caller wins and the rest get a
// ConflictError.
func AcceptWaste(db *gorm.DB, wasteID uuid.UUID, collectorID *uuid.UUID, policy AssignmentPolicy) (*models.WasteItem, error) {
	var collector *models.User
	if collectorID != nil {
		var u models.User
		if err := db.First(&u, "id = ? AND role = ?", *collectorID, models.RoleCollector).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &NotFoundError{Message: "Collector not found"}
			}
			return nil, persistence("Failed to load collector", err)
		}
		collector = &u
	} else {
		if policy == nil {
			policy = LeastLoadedCollector
		}
		var err error
		collector, err = policy(db)
		if err != nil {
			return nil, err
		}
	}

	res := db.Model(&models.WasteItem{}).
		Where("id = ? AND status = ?", wasteID, models.WasteStatusPending).
		Updates(map[string]interface{}{
			"status":       models.WasteStatusAccepted,
			"collector_id": collector.ID,
		})
	if res.Error != nil {
		return nil, persistence("Failed to accept waste item", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, transitionFailure(db, wasteID, models.WasteStatusPending, "accept")
	}

	return loadWaste(db, wasteID)
}

// RejectWaste transitions a not-yet-collected item to Rejected, clears
// the collector assignment and pickup-request flag, and closes any open
// pickup request so none outlives the cleared flag.
func RejectWaste(db *gorm.DB, wasteID uuid.UUID) (*models.WasteItem, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.WasteItem{}).
			Where("id = ? AND status <> ?", wasteID, models.WasteStatusCollected).
			Updates(map[string]interface{}{
				"status":           models.WasteStatusRejected,
				"collector_id":     nil,
				"pickup_requested": false,
			})
		if res.Error != nil {
			return persistence("Failed to reject waste item", res.Error)
		}
		if res.RowsAffected == 0 {
			if _, err := loadWaste(tx, wasteID); err != nil {
				return err
			}
			return &ConflictError{Message: "Waste item is already collected and cannot be rejected"}
		}
		return closePickupRequests(tx, wasteID)
	})
	if err != nil {
		return nil, err
	}

	return loadWaste(db, wasteID)
}

// ResetWaste returns a not-yet-collected item to Pending, clearing the
// collector and pickup-request flag and closing any open pickup request.
// Administrative correction only; this is also the only path out of
// Rejected.
func ResetWaste(db *gorm.DB, wasteID uuid.UUID) (*models.WasteItem, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.WasteItem{}).
			Where("id = ? AND status <> ?", wasteID, models.WasteStatusCollected).
			Updates(map[string]interface{}{
				"status":           models.WasteStatusPending,
				"collector_id":     nil,
				"pickup_requested": false,
			})
		if res.Error != nil {
			return persistence("Failed to reset waste item", res.Error)
		}
		if res.RowsAffected == 0 {
			if _, err := loadWaste(tx, wasteID); err != nil {
				return err
			}
			return &ConflictError{Message: "Waste item is already collected and cannot be reset"}
		}
		return closePickupRequests(tx, wasteID)
	})
	if err != nil {
		return nil, err
	}

	return loadWaste(db, wasteID)
}

// markCollected is the single Accepted -> Collected transition shared by
// code verification and report submission. The status guard (and, for
// verification, the scheduled-pickup guard) is part of the UPDATE's
// WHERE clause, so concurrent callers converge on exactly one winner.
// It stamps the collection timestamps, overwrites the weight when a
// measured value is supplied, clears the pickup-request flag and flips
// matching pickup requests to Completed.
func markCollected(tx *gorm.DB, wasteID uuid.UUID, measuredWeight *float64, source string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"status":           models.WasteStatusCollected,
		"pickup_requested": false,
		"collected_at":     now,
	}
	if source == collectedByVerification {
		updates["verified_at"] = now
	}
	if measuredWeight != nil {
		updates["weight"] = *measuredWeight
	}

	query := tx.Model(&models.WasteItem{}).
		Where("id = ? AND status = ?", wasteID, models.WasteStatusAccepted)
	if source == collectedByVerification {
		// A pickup must have been scheduled before verification succeeds
		query = query.Where("pickup_requested = ?", true)
	}

	res := query.Updates(updates)
	if res.Error != nil {
		return persistence("Failed to mark waste item collected", res.Error)
	}
	if res.RowsAffected == 0 {
		var waste models.WasteItem
		if err := tx.First(&waste, "id = ?", wasteID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Message: "Waste item not found"}
			}
			return persistence("Failed to load waste item", err)
		}
		if waste.Status == models.WasteStatusCollected {
			return &ConflictError{Message: "Waste item is already collected"}
		}
		if waste.Status != models.WasteStatusAccepted {
			return &ConflictError{Message: fmt.Sprintf("Waste status is %q. Must be %q to collect.", waste.Status, models.WasteStatusAccepted)}
		}
		return &ConflictError{Message: "A pickup must be scheduled before the item can be verified"}
	}

	return closePickupRequests(tx, wasteID)
}

// closePickupRequests flips every pickup request for the item to
// Completed. Every path that clears the pickup-request flag must also
// close the requests, or an open request would outlive the flag.
func closePickupRequests(tx *gorm.DB, wasteID uuid.UUID) error {
	if err := tx.Model(&models.PickupRequest{}).
		Where("waste_item_id = ?", wasteID).
		Update("status", models.PickupStatusCompleted).Error; err != nil {
		return persistence("Failed to update pickup request status", err)
	}
	return nil
}

// transitionFailure turns a zero-RowsAffected compare-and-swap into the
// documented NotFoundError or ConflictError by inspecting the record's
// post-transition state.
func transitionFailure(db *gorm.DB, wasteID uuid.UUID, requiredStatus, action string) error {
	var waste models.WasteItem
	if err := db.First(&waste, "id = ?", wasteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Message: "Waste item not found"}
		}
		return persistence("Failed to load waste item", err)
	}
	return &ConflictError{Message: fmt.Sprintf("Waste status is %q. Must be %q to %s.", waste.Status, requiredStatus, action)}
}

func loadWaste(db *gorm.DB, wasteID uuid.UUID) (*models.WasteItem, error) {
	var waste models.WasteItem
	if err := db.Preload("Citizen").Preload("Collector").First(&waste, "id = ?", wasteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "Waste item not found"}
		}
		return nil, persistence("Failed to load waste item", err)
	}
	return &waste, nil
}

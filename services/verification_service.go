package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/greencycle/greencycle-api/models"
	"gorm.io/gorm"
)

// VerifyByCode confirms a physical pickup. The code is the waste item's
// id (the payload of the QR shown to the collector). The item must be
// exactly Accepted with a scheduled pickup; the transition itself runs
// through the shared markCollected compare-and-swap, so a concurrent
// verify or report leaves exactly one winner. Returns the waste id.
func VerifyByCode(db *gorm.DB, code string) (uuid.UUID, error) {
	wasteID, err := uuid.Parse(code)
	if err != nil {
		return uuid.Nil, &NotFoundError{Message: "Invalid code, waste item not found"}
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		return markCollected(tx, wasteID, nil, collectedByVerification)
	})
	if err != nil {
		return uuid.Nil, err
	}

	return wasteID, nil
}

// SubmitCollectionReport records the collector's measured weight and
// closes the waste item. The collected transition and the report insert
// are one transaction: if the item was already collected no report row
// is created, so at most one report ever exists per item.
func SubmitCollectionReport(db *gorm.DB, collectorID, wasteID uuid.UUID, weightMeasured float64, notes string) (*models.CollectionReport, error) {
	if weightMeasured <= 0 {
		return nil, &ValidationError{Message: "Measured weight must be greater than zero"}
	}

	var collector models.User
	if err := db.First(&collector, "id = ?", collectorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "Collector not found"}
		}
		return nil, persistence("Failed to load collector", err)
	}

	report := models.CollectionReport{
		CollectorID:    collectorID,
		WasteItemID:    wasteID,
		WeightMeasured: weightMeasured,
		Notes:          notes,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := markCollected(tx, wasteID, &weightMeasured, collectedByReport); err != nil {
			return err
		}
		if err := tx.Create(&report).Error; err != nil {
			return persistence("Failed to create collection report", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &report, nil
}

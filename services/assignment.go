package services

import (
	"errors"

	"github.com/greencycle/greencycle-api/models"
	"gorm.io/gorm"
)

// AssignmentPolicy picks a collector for a waste item when the admin
// does not name one explicitly. Injected so the policy can be swapped
// without touching the accept transition.
type AssignmentPolicy func(db *gorm.DB) (*models.User, error)

// LeastLoadedCollector returns the collector with the fewest open
// (Accepted) waste items, breaking ties by account age so the choice is
// deterministic under concurrent inserts.
func LeastLoadedCollector(db *gorm.DB) (*models.User, error) {
	var collector models.User
	err := db.Model(&models.User{}).
		Select("users.*").
		Joins("LEFT JOIN waste_items ON waste_items.collector_id = users.id AND waste_items.status = ? AND waste_items.deleted_at IS NULL", models.WasteStatusAccepted).
		Where("users.role = ?", models.RoleCollector).
		Group("users.id").
		Order("COUNT(waste_items.id) ASC, users.created_at ASC").
		First(&collector).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NoCollectorError{Message: "No collector account exists in the system"}
		}
		return nil, persistence("Failed to query collectors", err)
	}
	return &collector, nil
}

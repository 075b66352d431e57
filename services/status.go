package services

import "github.com/greencycle/greencycle-api/models"

// NoPickupStatus is the sentinel returned by LivePickupStatus for a
// citizen with no pickup requests. It is a normal response, not an error.
const NoPickupStatus = "No pickup yet"

// DisplayStatus derives the human-facing status label from a waste
// item's authoritative status. Every projection (collector queue, live
// status poll, citizen activity) goes through this mapping; the label is
// never persisted as truth.
func DisplayStatus(wasteStatus string) string {
	switch wasteStatus {
	case models.WasteStatusPending:
		return "Pending"
	case models.WasteStatusAccepted:
		return "Assigned"
	case models.WasteStatusCollected:
		return "Completed"
	case models.WasteStatusRejected:
		return "Rejected"
	}
	return wasteStatus
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Stored pickup request statuses. The waste item's status is the source
// of truth; this field is advisory and only flipped to Completed when the
// item is collected. Display status is always derived on read.
const (
	PickupStatusPending   = "Pending"
	PickupStatusAssigned  = "Assigned"
	PickupStatusCompleted = "Completed"
)

// Pickup time slots
const (
	TimeSlotMorning   = "Morning"
	TimeSlotAfternoon = "Afternoon"
	TimeSlotEvening   = "Evening"
)

// ScheduledDateLayout is the wire format for pickup dates (YYYY-MM-DD)
const ScheduledDateLayout = "2006-01-02"

// PickupRequest represents one scheduled collection appointment for a waste item
type PickupRequest struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CitizenID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"citizen_id"` // must equal the waste item's citizen
	Citizen       User           `gorm:"foreignKey:CitizenID" json:"citizen,omitempty"`
	WasteItemID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"waste_item_id"`
	WasteItem     WasteItem      `gorm:"foreignKey:WasteItemID" json:"waste_item,omitempty"`
	Address       string         `gorm:"not null" json:"address"`
	ScheduledDate string         `gorm:"not null" json:"scheduled_date"` // YYYY-MM-DD
	TimeSlot      string         `gorm:"not null" json:"time_slot"`
	Status        string         `gorm:"not null;default:'Pending'" json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the PickupRequest model
func (PickupRequest) TableName() string {
	return "pickup_requests"
}

// BeforeCreate assigns a UUID primary key
func (p *PickupRequest) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// IsValidTimeSlot reports whether slot is one of the pickup windows
func IsValidTimeSlot(slot string) bool {
	switch slot {
	case TimeSlotMorning, TimeSlotAfternoon, TimeSlotEvening:
		return true
	}
	return false
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WasteItem lifecycle statuses. Pending -> Accepted -> Collected, with
// Pending -> Rejected and an administrative reset back to Pending.
const (
	WasteStatusPending   = "Pending"
	WasteStatusAccepted  = "Accepted"
	WasteStatusCollected = "Collected"
	WasteStatusRejected  = "Rejected"
)

// MinimumWeight is the smallest loggable weight in kilograms
const MinimumWeight = 0.1

// PickupDetails is embedded in WasteItem and tracks the citizen's pickup
// request window. Requested is true only between a successful schedule
// call and a successful verify/report call.
type PickupDetails struct {
	Requested   bool       `gorm:"column:pickup_requested;not null;default:false" json:"is_requested"`
	Address     string     `gorm:"column:pickup_address" json:"address,omitempty"`
	RequestedAt *time.Time `gorm:"column:pickup_requested_at" json:"requested_time,omitempty"`
	CollectedAt *time.Time `gorm:"column:collected_at" json:"collected_at,omitempty"`
	VerifiedAt  *time.Time `gorm:"column:verified_at" json:"verified_at,omitempty"`
}

// WasteItem represents one logged recyclable batch tracked through its lifecycle
type WasteItem struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CitizenID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"citizen_id"` // immutable after creation
	Citizen       User           `gorm:"foreignKey:CitizenID" json:"citizen,omitempty"`
	Material      string         `gorm:"not null" json:"material"`
	Weight        float64        `gorm:"not null" json:"weight"` // citizen estimate until a measured weight supersedes it
	PhotoS3Key    *string        `json:"photo_s3_key,omitempty"`
	PhotoURL      *string        `gorm:"-" json:"photo_url,omitempty"` // computed field, presigned URL
	Status        string         `gorm:"not null;default:'Pending';index" json:"status"`
	CollectorID   *uuid.UUID     `gorm:"type:uuid;index" json:"collector_id"` // set iff status is Accepted or Collected
	Collector     *User          `gorm:"foreignKey:CollectorID" json:"collector,omitempty"`
	PickupDetails PickupDetails  `gorm:"embedded" json:"pickup_details"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the WasteItem model
func (WasteItem) TableName() string {
	return "waste_items"
}

// BeforeCreate assigns a UUID primary key
func (w *WasteItem) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// Materials accepted by the waste ledger
var validMaterials = map[string]bool{
	"Plastic": true,
	"Paper":   true,
	"Metal":   true,
	"Glass":   true,
	"E-Waste": true,
	"Organic": true,
	"Other":   true,
}

// IsValidMaterial reports whether material is in the accepted enum
func IsValidMaterial(material string) bool {
	return validMaterials[material]
}

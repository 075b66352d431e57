package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CollectionReport is the collector's measured-weight attestation for a
// collected waste item. Created exactly once per item, never mutated.
type CollectionReport struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CollectorID    uuid.UUID `gorm:"type:uuid;not null;index" json:"collector_id"`
	Collector      User      `gorm:"foreignKey:CollectorID" json:"collector,omitempty"`
	WasteItemID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"waste_item_id"`
	WasteItem      WasteItem `gorm:"foreignKey:WasteItemID" json:"waste_item,omitempty"`
	WeightMeasured float64   `gorm:"not null" json:"weight_measured"`
	Notes          string    `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName specifies the table name for the CollectionReport model
func (CollectionReport) TableName() string {
	return "collection_reports"
}

// BeforeCreate assigns a UUID primary key
func (r *CollectionReport) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

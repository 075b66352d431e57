package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Voucher is a reward instrument issued against a citizen's EcoPoints.
// Creation is atomic with the owning user's point deduction.
type Voucher struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Code           string     `gorm:"uniqueIndex;not null" json:"code"`
	ShopName       string     `gorm:"not null" json:"shop_name"`
	DiscountAmount float64    `gorm:"not null" json:"discount_amount"`
	PointsRequired int        `gorm:"not null" json:"points_required"`
	IsRedeemed     bool       `gorm:"not null;default:false" json:"is_redeemed"`
	AssignedToID   *uuid.UUID `gorm:"type:uuid;index" json:"assigned_to_id"`
	AssignedTo     *User      `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the Voucher model
func (Voucher) TableName() string {
	return "vouchers"
}

// BeforeCreate assigns a UUID primary key
func (v *Voucher) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

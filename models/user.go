package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles. Each account carries exactly one role.
const (
	RoleCitizen   = "citizen"
	RoleCollector = "collector"
	RoleAdmin     = "admin"
)

// User represents an account in the system (citizen, collector or admin)
type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Mobile    string         `json:"mobile"`
	Username  string         `gorm:"uniqueIndex;not null" json:"username"`
	Password  string         `gorm:"not null" json:"-"` // bcrypt hash, never serialized
	Role      string         `gorm:"not null;default:'citizen'" json:"role"`
	Points    int            `gorm:"not null;default:0" json:"points"` // EcoPoints balance, never below zero
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID primary key
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsValidRole reports whether role is one of the three known roles
func IsValidRole(role string) bool {
	switch role {
	case RoleCitizen, RoleCollector, RoleAdmin:
		return true
	}
	return false
}

package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationCategoryMaintenance = "maintenance"
	NotificationCategoryDocument    = "document"
	NotificationCategorySystem      = "system"
)

type Notification struct {
	gorm.Model
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"index;not null;column:user_id" json:"user_id"`
	User   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`

	Title    string `gorm:"not null;column:title" json:"title"`
	Message  string `gorm:"not null;column:message" json:"message"`
	Category string `gorm:"index;not null;column:category" json:"category"`

	// ReferenceID points at the vehicle or document the notification is
	// about; the dedup gate keys its trailing window on it.
	ReferenceID uuid.UUID `gorm:"index;column:reference_id" json:"reference_id"`

	Read      bool      `gorm:"not null;default:false;column:read" json:"read"`
	CreatedAt time.Time `gorm:"index;not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Notification) TableName() string {
	return "notification"
}

package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ServiceRecord is one workshop service-log entry. The mileage ladder task
// measures elapsed distance from the most recent entry's odometer reading.
type ServiceRecord struct {
	gorm.Model
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VehicleID uuid.UUID `gorm:"index;not null;column:vehicle_id" json:"vehicle_id"`
	Vehicle   *Vehicle  `gorm:"constraint:OnDelete:CASCADE;foreignKey:VehicleID;references:ID" json:"vehicle,omitempty"`

	PerformedAt time.Time      `gorm:"not null;column:performed_at" json:"performed_at"`
	Odometer    int            `gorm:"not null;column:odometer" json:"odometer"`
	Description string         `gorm:"column:description" json:"description"`
	Details     datatypes.JSON `gorm:"column:details" json:"details"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (ServiceRecord) TableName() string {
	return "service_record"
}

package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentType string

const (
	DocumentTypeSOAT  DocumentType = "soat"
	DocumentTypeTecno DocumentType = "tecnomecanica"
	DocumentTypeOther DocumentType = "other"
)

type VehicleDocument struct {
	gorm.Model
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VehicleID uuid.UUID `gorm:"index;not null;column:vehicle_id" json:"vehicle_id"`
	Vehicle   *Vehicle  `gorm:"constraint:OnDelete:CASCADE;foreignKey:VehicleID;references:ID" json:"vehicle,omitempty"`

	Type       DocumentType `gorm:"not null;column:type" json:"type"`
	ExpiryDate time.Time    `gorm:"not null;column:expiry_date" json:"expiry_date"`

	// NotifiedOfExpiry flips to true the first time a near-expiry
	// notification goes out and never flips back for this document row;
	// a re-issued document is a new row.
	NotifiedOfExpiry bool `gorm:"not null;default:false;column:notified_of_expiry" json:"notified_of_expiry"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (VehicleDocument) TableName() string {
	return "vehicle_document"
}

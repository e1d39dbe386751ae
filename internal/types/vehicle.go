package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UsageProfile string

const (
	UsageProfileDaily      UsageProfile = "daily"
	UsageProfileOccasional UsageProfile = "occasional"
)

type OilType string

const (
	OilTypeMineral       OilType = "mineral"
	OilTypeSemiSynthetic OilType = "semi_synthetic"
	OilTypeSynthetic     OilType = "synthetic"
)

type UsageIntensity string

const (
	UsageIntensityNormal    UsageIntensity = "normal"
	UsageIntensityStopAndGo UsageIntensity = "stop_and_go_city"
	UsageIntensityHighway   UsageIntensity = "highway"
)

// Vehicle carries the odometer plus one (date, odometer) pair per tracked
// maintenance category. A nil date means the work was never performed on
// record, which the evaluator treats as maximally overdue.
type Vehicle struct {
	gorm.Model
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OwnerID uuid.UUID `gorm:"index;not null;column:owner_id" json:"owner_id"`
	Owner   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:OwnerID;references:ID" json:"owner,omitempty"`

	Plate string `gorm:"uniqueIndex;not null;column:plate" json:"plate"`
	Brand string `gorm:"column:brand" json:"brand"`
	Line  string `gorm:"column:line" json:"line"`
	Year  int    `gorm:"column:year" json:"year"`

	Odometer       int            `gorm:"not null;default:0;column:odometer" json:"odometer"`
	UsageProfile   UsageProfile   `gorm:"not null;default:'daily';column:usage_profile" json:"usage_profile"`
	OilType        OilType        `gorm:"not null;default:'mineral';column:oil_type" json:"oil_type"`
	UsageIntensity UsageIntensity `gorm:"not null;default:'normal';column:usage_intensity" json:"usage_intensity"`

	LastOilChangeAt           *time.Time `gorm:"column:last_oil_change_at" json:"last_oil_change_at"`
	LastOilChangeOdometer     int        `gorm:"column:last_oil_change_odometer" json:"last_oil_change_odometer"`
	LastPreventiveAt          *time.Time `gorm:"column:last_preventive_at" json:"last_preventive_at"`
	LastPreventiveOdometer    int        `gorm:"column:last_preventive_odometer" json:"last_preventive_odometer"`
	LastFilterChangeAt        *time.Time `gorm:"column:last_filter_change_at" json:"last_filter_change_at"`
	LastFilterChangeOdometer  int        `gorm:"column:last_filter_change_odometer" json:"last_filter_change_odometer"`
	LastBrakeServiceAt        *time.Time `gorm:"column:last_brake_service_at" json:"last_brake_service_at"`
	LastBrakeServiceOdometer  int        `gorm:"column:last_brake_service_odometer" json:"last_brake_service_odometer"`
	LastBrakeFluidAt          *time.Time `gorm:"column:last_brake_fluid_at" json:"last_brake_fluid_at"`
	LastBrakeFluidOdometer    int        `gorm:"column:last_brake_fluid_odometer" json:"last_brake_fluid_odometer"`
	LastBatteryChangeAt       *time.Time `gorm:"column:last_battery_change_at" json:"last_battery_change_at"`
	LastBatteryChangeOdometer int        `gorm:"column:last_battery_change_odometer" json:"last_battery_change_odometer"`
	LastTireCheckAt           *time.Time `gorm:"column:last_tire_check_at" json:"last_tire_check_at"`

	SOATPurchaseDate  *time.Time `gorm:"column:soat_purchase_date" json:"soat_purchase_date"`
	TecnoPurchaseDate *time.Time `gorm:"column:tecno_purchase_date" json:"tecno_purchase_date"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Vehicle) TableName() string {
	return "vehicle"
}

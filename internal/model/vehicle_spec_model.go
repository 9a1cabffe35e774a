package model

import (
	"time"

	"github.com/google/uuid"
)

type VehicleSpec struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Brand        string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_vehicle_specs_key" json:"brand"`
	Model        string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_vehicle_specs_key" json:"model"`
	VehicleType  string    `gorm:"type:varchar(20)" json:"vehicleType"`
	Segment      string    `gorm:"type:varchar(50)" json:"segment"`
	PriceRange   string    `gorm:"type:varchar(100)" json:"priceRange"`
	RangeKm      *int      `json:"rangeKm"`
	BatteryKwh   *float64  `json:"batteryKwh"`
	PowerKw      *float64  `json:"powerKw"`
	TorqueNm     *float64  `json:"torqueNm"`
	Acceleration *float64  `json:"acceleration"`
	TopSpeed     *int      `json:"topSpeed"`
	LengthMm     *int      `json:"lengthMm"`
	WidthMm      *int      `json:"widthMm"`
	HeightMm     *int      `json:"heightMm"`
	WheelbaseMm  *int      `json:"wheelbaseMm"`
	Seats        *int      `json:"seats"`
	Drivetrain   string    `gorm:"type:varchar(20)" json:"drivetrain"`
	SourceURL    string    `gorm:"type:text" json:"sourceUrl"`
	SourceTitle  string    `gorm:"type:text" json:"sourceTitle"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (VehicleSpec) TableName() string {
	return "vehicle_specs"
}

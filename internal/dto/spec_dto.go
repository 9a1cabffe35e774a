package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateVehicleSpecRequest struct {
	Brand        string   `json:"brand" validate:"required"`
	Model        string   `json:"model" validate:"required"`
	VehicleType  string   `json:"vehicleType" validate:"omitempty,oneof=BEV EREV PHEV HEV"`
	Segment      string   `json:"segment"`
	PriceRange   string   `json:"priceRange"`
	RangeKm      *int     `json:"rangeKm" validate:"omitempty,min=0"`
	BatteryKwh   *float64 `json:"batteryKwh" validate:"omitempty,min=0"`
	PowerKw      *float64 `json:"powerKw" validate:"omitempty,min=0"`
	TorqueNm     *float64 `json:"torqueNm" validate:"omitempty,min=0"`
	Acceleration *float64 `json:"acceleration" validate:"omitempty,min=0"`
	TopSpeed     *int     `json:"topSpeed" validate:"omitempty,min=0"`
	LengthMm     *int     `json:"lengthMm" validate:"omitempty,min=0"`
	WidthMm      *int     `json:"widthMm" validate:"omitempty,min=0"`
	HeightMm     *int     `json:"heightMm" validate:"omitempty,min=0"`
	WheelbaseMm  *int     `json:"wheelbaseMm" validate:"omitempty,min=0"`
	Seats        *int     `json:"seats" validate:"omitempty,min=1,max=9"`
	Drivetrain   string   `json:"drivetrain"`
	SourceURL    string   `json:"sourceUrl"`
	SourceTitle  string   `json:"sourceTitle"`
}

type VehicleSpecResponse struct {
	Id           uuid.UUID `json:"id"`
	Brand        string    `json:"brand"`
	Model        string    `json:"model"`
	VehicleType  string    `json:"vehicleType,omitempty"`
	Segment      string    `json:"segment,omitempty"`
	PriceRange   string    `json:"priceRange,omitempty"`
	RangeKm      *int      `json:"rangeKm,omitempty"`
	BatteryKwh   *float64  `json:"batteryKwh,omitempty"`
	PowerKw      *float64  `json:"powerKw,omitempty"`
	TorqueNm     *float64  `json:"torqueNm,omitempty"`
	Acceleration *float64  `json:"acceleration,omitempty"`
	TopSpeed     *int      `json:"topSpeed,omitempty"`
	LengthMm     *int      `json:"lengthMm,omitempty"`
	WidthMm      *int      `json:"widthMm,omitempty"`
	HeightMm     *int      `json:"heightMm,omitempty"`
	WheelbaseMm  *int      `json:"wheelbaseMm,omitempty"`
	Seats        *int      `json:"seats,omitempty"`
	Drivetrain   string    `json:"drivetrain,omitempty"`
	SourceURL    string    `json:"sourceUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

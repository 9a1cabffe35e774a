package entity

import (
	"time"

	"github.com/google/uuid"
)

// VehicleSpec holds the technical sheet of one model, keyed by Brand+Model.
// Numeric fields are pointers because OCR extraction rarely yields all of them.
type VehicleSpec struct {
	Id           uuid.UUID
	Brand        string
	Model        string
	VehicleType  string
	Segment      string
	PriceRange   string
	RangeKm      *int
	BatteryKwh   *float64
	PowerKw      *float64
	TorqueNm     *float64
	Acceleration *float64
	TopSpeed     *int
	LengthMm     *int
	WidthMm      *int
	HeightMm     *int
	WheelbaseMm  *int
	Seats        *int
	Drivetrain   string
	SourceURL    string
	SourceTitle  string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

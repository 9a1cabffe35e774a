package entity

import (
	"time"

	"github.com/google/uuid"
)

// EVMetric is one brand-level data point (deliveries, sales, registrations,
// production...). Brand+Metric+Period+VehicleModel+Region identify it; a
// re-submission for the same key overwrites the value fields.
type EVMetric struct {
	Id           uuid.UUID
	Brand        string
	Metric       string
	Value        float64
	Unit         string
	Period       string
	PeriodType   string
	Year         int
	Month        *int
	YoYChange    *float64
	MoMChange    *float64
	MarketShare  *float64
	VehicleModel string
	Region       string
	VehicleType  string
	SourceURL    string
	SourceTitle  string
	PostId       *uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

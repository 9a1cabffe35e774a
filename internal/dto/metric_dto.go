package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateMetricRequest struct {
	Brand        string   `json:"brand" validate:"required"`
	Metric       string   `json:"metric" validate:"required"`
	Value        float64  `json:"value" validate:"required"`
	Unit         string   `json:"unit"`
	Period       string   `json:"period" validate:"required"`
	PeriodType   string   `json:"periodType" validate:"omitempty,oneof=monthly quarterly yearly weekly"`
	Year         int      `json:"year" validate:"omitempty,min=2000,max=2100"`
	Month        *int     `json:"month" validate:"omitempty,min=1,max=12"`
	YoYChange    *float64 `json:"yoyChange"`
	MoMChange    *float64 `json:"momChange"`
	MarketShare  *float64 `json:"marketShare"`
	VehicleModel string   `json:"vehicleModel"`
	Region       string   `json:"region"`
	VehicleType  string   `json:"vehicleType"`
	SourceURL    string   `json:"sourceUrl"`
	SourceTitle  string   `json:"sourceTitle"`
}

type MetricResponse struct {
	Id           uuid.UUID `json:"id"`
	Brand        string    `json:"brand"`
	Metric       string    `json:"metric"`
	Value        float64   `json:"value"`
	Unit         string    `json:"unit"`
	Period       string    `json:"period"`
	PeriodType   string    `json:"periodType"`
	Year         int       `json:"year"`
	Month        *int      `json:"month,omitempty"`
	YoYChange    *float64  `json:"yoyChange,omitempty"`
	MoMChange    *float64  `json:"momChange,omitempty"`
	MarketShare  *float64  `json:"marketShare,omitempty"`
	VehicleModel string    `json:"vehicleModel,omitempty"`
	Region       string    `json:"region,omitempty"`
	VehicleType  string    `json:"vehicleType,omitempty"`
	SourceURL    string    `json:"sourceUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type UpsertResponse struct {
	Created bool      `json:"created"`
	Id      uuid.UUID `json:"id"`
}

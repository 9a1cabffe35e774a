package model

import (
	"time"

	"github.com/google/uuid"
)

// EVMetric doubles as the wire shape for /api/ev-metrics and the explorer,
// so every column keeps a json tag. Key columns default to '' rather than
// NULL so the composite unique index actually deduplicates.
type EVMetric struct {
	Id           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Brand        string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_ev_metrics_key" json:"brand"`
	Metric       string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_ev_metrics_key" json:"metric"`
	Value        float64    `gorm:"not null" json:"value"`
	Unit         string     `gorm:"type:varchar(50)" json:"unit"`
	Period       string     `gorm:"type:varchar(50);not null;uniqueIndex:idx_ev_metrics_key" json:"period"`
	PeriodType   string     `gorm:"type:varchar(20)" json:"periodType"`
	Year         int        `gorm:"index" json:"year"`
	Month        *int       `json:"month"`
	YoYChange    *float64   `gorm:"column:yoy_change" json:"yoyChange"`
	MoMChange    *float64   `gorm:"column:mom_change" json:"momChange"`
	MarketShare  *float64   `json:"marketShare"`
	VehicleModel string     `gorm:"type:varchar(100);not null;default:'';uniqueIndex:idx_ev_metrics_key" json:"vehicleModel"`
	Region       string     `gorm:"type:varchar(100);not null;default:'';uniqueIndex:idx_ev_metrics_key" json:"region"`
	VehicleType  string     `gorm:"type:varchar(50)" json:"vehicleType"`
	SourceURL    string     `gorm:"type:text" json:"sourceUrl"`
	SourceTitle  string     `gorm:"type:text" json:"sourceTitle"`
	PostId       *uuid.UUID `gorm:"type:uuid;index" json:"postId"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (EVMetric) TableName() string {
	return "ev_metrics"
}

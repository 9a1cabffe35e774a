package model

import (
	"time"

	"github.com/google/uuid"
)

type XRateLimit struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Day         string    `gorm:"type:varchar(10);not null;uniqueIndex"`
	PostedCount int       `gorm:"not null;default:0"`
	DailyLimit  int       `gorm:"not null;default:100"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (XRateLimit) TableName() string {
	return "x_rate_limits"
}

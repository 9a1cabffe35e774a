package model

import (
	"time"

	"github.com/google/uuid"
)

type AIUsage struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Type         string    `gorm:"type:varchar(20);not null;index"`
	Model        string    `gorm:"type:varchar(100);not null;index"`
	Cost         float64   `gorm:"not null;default:0"`
	Success      bool      `gorm:"not null;default:true"`
	InputTokens  int       `gorm:"default:0"`
	OutputTokens int       `gorm:"default:0"`
	Source       string    `gorm:"type:varchar(100)"`
	ErrorMsg     *string   `gorm:"type:text"`
	DurationMs   int       `gorm:"default:0"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index"`
}

func (AIUsage) TableName() string {
	return "ai_usage"
}

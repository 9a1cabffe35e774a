package model

import (
	"time"

	"github.com/google/uuid"
)

// SystemLog stores operational events surfaced in the admin log viewer.
type SystemLog struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Level     string    `gorm:"type:varchar(20);not null;index"`
	Source    *string   `gorm:"type:varchar(100);index"`
	Message   string    `gorm:"type:text;not null"`
	Details   *string   `gorm:"type:jsonb"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

func (SystemLog) TableName() string {
	return "system_logs"
}

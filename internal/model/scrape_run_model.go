package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ScrapeRun struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BatchId         string    `gorm:"type:varchar(50);not null;index"`
	StartedAt       time.Time `gorm:"not null"`
	FinishedAt      *time.Time
	SourceStats     datatypes.JSON
	TotalReceived   int       `gorm:"default:0"`
	TotalCreated    int       `gorm:"default:0"`
	TotalDuplicates int       `gorm:"default:0"`
	TotalSkipped    int       `gorm:"default:0"`
	Status          string    `gorm:"type:varchar(20);not null;default:'completed'"`
	Error           string    `gorm:"type:text"`
	CreatedAt       time.Time `gorm:"autoCreateTime;index"`
}

func (ScrapeRun) TableName() string {
	return "scrape_runs"
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Post struct {
	Id                uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SourceId          string         `gorm:"type:varchar(64);not null;index"`
	Source            string         `gorm:"type:varchar(50);not null;index"`
	SourceURL         string         `gorm:"type:text;not null"`
	URLHash           string         `gorm:"type:varchar(64);not null;uniqueIndex"`
	SourceAuthor      string         `gorm:"type:varchar(255)"`
	SourceDate        time.Time      `gorm:"index"`
	OriginalTitle     string         `gorm:"type:text"`
	OriginalContent   string         `gorm:"type:text"`
	OriginalMediaURLs datatypes.JSON `gorm:"column:original_media_urls"`
	TranslatedTitle   string         `gorm:"type:text"`
	TranslatedContent string         `gorm:"type:text"`
	TranslatedSummary string         `gorm:"type:text"`
	XSummary          string         `gorm:"type:varchar(500)"`
	Categories        datatypes.JSON
	RelevanceScore    int            `gorm:"default:50;index"`
	Status            string         `gorm:"type:varchar(20);not null;default:'pending';index"`
	BatchId           string         `gorm:"type:varchar(50);index"`
	ScheduledAt       *time.Time     `gorm:"index"`
	PostedAt          *time.Time
	XPostId           string         `gorm:"type:varchar(50)"`
	FailReason        string         `gorm:"type:text"`
	Attempts          int            `gorm:"default:0"`
	CreatedAt         time.Time      `gorm:"autoCreateTime"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime"`
	DeletedAt         gorm.DeletedAt `gorm:"index"`
}

func (Post) TableName() string {
	return "posts"
}

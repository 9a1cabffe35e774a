package entity

import (
	"time"

	"github.com/google/uuid"
)

// SystemLog is one operational event surfaced in the admin log viewer
// (publish failures, scrape errors, webhook rejections).
type SystemLog struct {
	Id        uuid.UUID
	Level     string
	Source    *string
	Message   string
	Details   *string
	CreatedAt time.Time
}

package entity

import (
	"time"

	"github.com/google/uuid"
)

// XRateLimit tracks how many posts went out on one calendar day
// (Day is "YYYY-MM-DD" in UTC).
type XRateLimit struct {
	Id          uuid.UUID
	Day         string
	PostedCount int
	DailyLimit  int
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

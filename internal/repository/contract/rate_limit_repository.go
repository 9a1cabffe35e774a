package contract

import (
	"context"

	"ev-platform-be/internal/entity"
)

// RateLimitRepository tracks the daily X posting quota. Day is "YYYY-MM-DD"
// in UTC.
type RateLimitRepository interface {
	// EnsureDay creates the day's row with the given limit if it does not
	// exist yet.
	EnsureDay(ctx context.Context, day string, dailyLimit int) error
	GetDay(ctx context.Context, day string) (*entity.XRateLimit, error)
	// IncDay atomically adds n to the day's posted count. The row must
	// already exist.
	IncDay(ctx context.Context, day string, n int) error
}

package contract

import (
	"context"
	"time"

	"ev-platform-be/internal/entity"
	"ev-platform-be/internal/repository/specification"
)

// UsageTotals aggregates AI spend over a window.
type UsageTotals struct {
	Cost         float64
	Calls        int64
	SuccessCalls int64
	InputTokens  int64
	OutputTokens int64
}

// UsageBucket is UsageTotals grouped by one key (a usage type or a model).
type UsageBucket struct {
	Key string
	UsageTotals
}

// UsageDaily is one day of the usage series (Day is "YYYY-MM-DD").
type UsageDaily struct {
	Day   string
	Cost  float64
	Calls int64
}

type UsageRepository interface {
	Create(ctx context.Context, usage *entity.AIUsage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AIUsage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	Totals(ctx context.Context, since, until time.Time) (*UsageTotals, error)
	// GroupedTotals groups by "type" or "model".
	GroupedTotals(ctx context.Context, since, until time.Time, groupBy string) ([]*UsageBucket, error)
	DailySeries(ctx context.Context, since, until time.Time) ([]*UsageDaily, error)
}

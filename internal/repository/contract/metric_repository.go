package contract

import (
	"context"

	"ev-platform-be/internal/entity"
	"ev-platform-be/internal/repository/specification"
)

type MetricRepository interface {
	// Upsert creates or overwrites on (brand, metric, period, vehicleModel,
	// region). Reports whether a new row was created.
	Upsert(ctx context.Context, metric *entity.EVMetric) (bool, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.EVMetric, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.EVMetric, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

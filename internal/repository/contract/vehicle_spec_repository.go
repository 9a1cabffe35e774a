package contract

import (
	"context"

	"ev-platform-be/internal/entity"
	"ev-platform-be/internal/repository/specification"
)

type VehicleSpecRepository interface {
	// Upsert creates or overwrites on (brand, model).
	Upsert(ctx context.Context, spec *entity.VehicleSpec) (bool, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.VehicleSpec, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.VehicleSpec, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

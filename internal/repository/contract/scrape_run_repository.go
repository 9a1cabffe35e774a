package contract

import (
	"context"

	"ev-platform-be/internal/entity"
	"ev-platform-be/internal/repository/specification"
)

type ScrapeRunRepository interface {
	Create(ctx context.Context, run *entity.ScrapeRun) error
	Update(ctx context.Context, run *entity.ScrapeRun) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ScrapeRun, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ScrapeRun, error)
}

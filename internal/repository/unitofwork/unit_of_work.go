package unitofwork

import (
	"context"

	"ev-platform-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	PostRepository() contract.PostRepository
	PostEmbeddingRepository() contract.PostEmbeddingRepository
	MetricRepository() contract.MetricRepository
	VehicleSpecRepository() contract.VehicleSpecRepository
	IndustryRepository() contract.IndustryRepository

	AdminUserRepository() contract.AdminUserRepository
	RefreshTokenRepository() contract.RefreshTokenRepository

	UsageRepository() contract.UsageRepository
	RateLimitRepository() contract.RateLimitRepository
	ScrapeRunRepository() contract.ScrapeRunRepository
	SystemLogRepository() contract.SystemLogRepository
}

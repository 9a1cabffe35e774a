package unitofwork

import (
	"context"
	"fmt"

	"ev-platform-be/internal/repository/contract"
	"ev-platform-be/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository Accessors

func (u *UnitOfWorkImpl) PostRepository() contract.PostRepository {
	return implementation.NewPostRepository(u.getDB())
}

func (u *UnitOfWorkImpl) PostEmbeddingRepository() contract.PostEmbeddingRepository {
	return implementation.NewPostEmbeddingRepository(u.getDB())
}

func (u *UnitOfWorkImpl) MetricRepository() contract.MetricRepository {
	return implementation.NewMetricRepository(u.getDB())
}

func (u *UnitOfWorkImpl) VehicleSpecRepository() contract.VehicleSpecRepository {
	return implementation.NewVehicleSpecRepository(u.getDB())
}

func (u *UnitOfWorkImpl) IndustryRepository() contract.IndustryRepository {
	return implementation.NewIndustryRepository(u.getDB())
}

func (u *UnitOfWorkImpl) AdminUserRepository() contract.AdminUserRepository {
	return implementation.NewAdminUserRepository(u.getDB())
}

func (u *UnitOfWorkImpl) RefreshTokenRepository() contract.RefreshTokenRepository {
	return implementation.NewRefreshTokenRepository(u.getDB())
}

func (u *UnitOfWorkImpl) UsageRepository() contract.UsageRepository {
	return implementation.NewUsageRepository(u.getDB())
}

func (u *UnitOfWorkImpl) RateLimitRepository() contract.RateLimitRepository {
	return implementation.NewRateLimitRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ScrapeRunRepository() contract.ScrapeRunRepository {
	return implementation.NewScrapeRunRepository(u.getDB())
}

func (u *UnitOfWorkImpl) SystemLogRepository() contract.SystemLogRepository {
	return implementation.NewSystemLogRepository(u.getDB())
}

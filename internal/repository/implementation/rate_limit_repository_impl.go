package implementation

import (
	"context"
	"errors"
	"fmt"

	"ev-platform-be/internal/entity"
	"ev-platform-be/internal/mapper"
	"ev-platform-be/internal/model"
	"ev-platform-be/internal/repository/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RateLimitRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RateLimitMapper
}

func NewRateLimitRepository(db *gorm.DB) contract.RateLimitRepository {
	return &RateLimitRepositoryImpl{
		db:     db,
		mapper: mapper.NewRateLimitMapper(),
	}
}

func (r *RateLimitRepositoryImpl) EnsureDay(ctx context.Context, day string, dailyLimit int) error {
	m := &model.XRateLimit{Day: day, DailyLimit: dailyLimit}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "day"}},
			DoNothing: true,
		}).
		Create(m).Error
}

func (r *RateLimitRepositoryImpl) GetDay(ctx context.Context, day string) (*entity.XRateLimit, error) {
	var m model.XRateLimit
	if err := r.db.WithContext(ctx).Where("day = ?", day).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *RateLimitRepositoryImpl) IncDay(ctx context.Context, day string, n int) error {
	tx := r.db.WithContext(ctx).
		Model(&model.XRateLimit{}).
		Where("day = ?", day).
		Update("posted_count", gorm.Expr("posted_count + ?", n))
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("rate limit row missing for %s", day)
	}
	return nil
}

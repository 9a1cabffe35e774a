package implementation

import (
	"context"
	"fmt"
	"time"

	"ev-platform-be/internal/entity"
	"ev-platform-be/internal/mapper"
	"ev-platform-be/internal/model"
	"ev-platform-be/internal/repository/contract"
	"ev-platform-be/internal/repository/specification"

	"gorm.io/gorm"
)

const usageTotalsSelect = "coalesce(sum(cost), 0) as cost, count(*) as calls, " +
	"count(*) filter (where success) as success_calls, " +
	"coalesce(sum(input_tokens), 0) as input_tokens, " +
	"coalesce(sum(output_tokens), 0) as output_tokens"

type UsageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UsageMapper
}

func NewUsageRepository(db *gorm.DB) contract.UsageRepository {
	return &UsageRepositoryImpl{
		db:     db,
		mapper: mapper.NewUsageMapper(),
	}
}

func (r *UsageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *UsageRepositoryImpl) Create(ctx context.Context, usage *entity.AIUsage) error {
	m := r.mapper.ToModel(usage)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*usage = *r.mapper.ToEntity(m)
	return nil
}

func (r *UsageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AIUsage, error) {
	var models []*model.AIUsage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *UsageRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.AIUsage{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *UsageRepositoryImpl) Totals(ctx context.Context, since, until time.Time) (*contract.UsageTotals, error) {
	var row contract.UsageTotals
	err := r.db.WithContext(ctx).
		Model(&model.AIUsage{}).
		Select(usageTotalsSelect).
		Where("created_at >= ? AND created_at < ?", since, until).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *UsageRepositoryImpl) GroupedTotals(ctx context.Context, since, until time.Time, groupBy string) ([]*contract.UsageBucket, error) {
	if groupBy != "type" && groupBy != "model" {
		return nil, fmt.Errorf("unsupported group: %s", groupBy)
	}

	var rows []struct {
		Key string
		contract.UsageTotals
	}
	err := r.db.WithContext(ctx).
		Model(&model.AIUsage{}).
		Select(fmt.Sprintf("%s as key, %s", groupBy, usageTotalsSelect)).
		Where("created_at >= ? AND created_at < ?", since, until).
		Group(groupBy).
		Order("cost DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	buckets := make([]*contract.UsageBucket, len(rows))
	for i, row := range rows {
		buckets[i] = &contract.UsageBucket{Key: row.Key, UsageTotals: row.UsageTotals}
	}
	return buckets, nil
}

func (r *UsageRepositoryImpl) DailySeries(ctx context.Context, since, until time.Time) ([]*contract.UsageDaily, error) {
	var rows []struct {
		Day   string
		Cost  float64
		Calls int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.AIUsage{}).
		Select("to_char(created_at, 'YYYY-MM-DD') as day, coalesce(sum(cost), 0) as cost, count(*) as calls").
		Where("created_at >= ? AND created_at < ?", since, until).
		Group("day").
		Order("day").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	series := make([]*contract.UsageDaily, len(rows))
	for i, row := range rows {
		series[i] = &contract.UsageDaily{Day: row.Day, Cost: row.Cost, Calls: row.Calls}
	}
	return series, nil
}

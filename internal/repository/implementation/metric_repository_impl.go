package implementation

import (
	"context"
	"errors"

	"ev-platform-be/internal/entity"
	"ev-platform-be/internal/mapper"
	"ev-platform-be/internal/model"
	"ev-platform-be/internal/repository/contract"
	"ev-platform-be/internal/repository/specification"

	"gorm.io/gorm"
)

type MetricRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MetricMapper
}

func NewMetricRepository(db *gorm.DB) contract.MetricRepository {
	return &MetricRepositoryImpl{
		db:     db,
		mapper: mapper.NewMetricMapper(),
	}
}

func (r *MetricRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MetricRepositoryImpl) Upsert(ctx context.Context, metric *entity.EVMetric) (bool, error) {
	m := r.mapper.ToModel(metric)

	var existing model.EVMetric
	err := r.db.WithContext(ctx).
		Where("brand = ? AND metric = ? AND period = ? AND vehicle_model = ? AND region = ?",
			m.Brand, m.Metric, m.Period, m.VehicleModel, m.Region).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
			return false, err
		}
		*metric = *r.mapper.ToEntity(m)
		return true, nil
	}
	if err != nil {
		return false, err
	}

	m.Id = existing.Id
	m.CreatedAt = existing.CreatedAt
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return false, err
	}
	*metric = *r.mapper.ToEntity(m)
	return false, nil
}

func (r *MetricRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.EVMetric, error) {
	var m model.EVMetric
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *MetricRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.EVMetric, error) {
	var models []*model.EVMetric
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *MetricRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.EVMetric{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

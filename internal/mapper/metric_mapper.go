package mapper

import (
	"time"

	"ev-platform-be/internal/entity"
	"ev-platform-be/internal/model"
)

type MetricMapper struct{}

func NewMetricMapper() *MetricMapper {
	return &MetricMapper{}
}

func (m *MetricMapper) ToEntity(e *model.EVMetric) *entity.EVMetric {
	if e == nil {
		return nil
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.EVMetric{
		Id:           e.Id,
		Brand:        e.Brand,
		Metric:       e.Metric,
		Value:        e.Value,
		Unit:         e.Unit,
		Period:       e.Period,
		PeriodType:   e.PeriodType,
		Year:         e.Year,
		Month:        e.Month,
		YoYChange:    e.YoYChange,
		MoMChange:    e.MoMChange,
		MarketShare:  e.MarketShare,
		VehicleModel: e.VehicleModel,
		Region:       e.Region,
		VehicleType:  e.VehicleType,
		SourceURL:    e.SourceURL,
		SourceTitle:  e.SourceTitle,
		PostId:       e.PostId,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *MetricMapper) ToModel(e *entity.EVMetric) *model.EVMetric {
	if e == nil {
		return nil
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.EVMetric{
		Id:           e.Id,
		Brand:        e.Brand,
		Metric:       e.Metric,
		Value:        e.Value,
		Unit:         e.Unit,
		Period:       e.Period,
		PeriodType:   e.PeriodType,
		Year:         e.Year,
		Month:        e.Month,
		YoYChange:    e.YoYChange,
		MoMChange:    e.MoMChange,
		MarketShare:  e.MarketShare,
		VehicleModel: e.VehicleModel,
		Region:       e.Region,
		VehicleType:  e.VehicleType,
		SourceURL:    e.SourceURL,
		SourceTitle:  e.SourceTitle,
		PostId:       e.PostId,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *MetricMapper) ToEntities(metrics []*model.EVMetric) []*entity.EVMetric {
	entities := make([]*entity.EVMetric, len(metrics))
	for i, e := range metrics {
		entities[i] = m.ToEntity(e)
	}
	return entities
}

func (m *MetricMapper) ToModels(metrics []*entity.EVMetric) []*model.EVMetric {
	models := make([]*model.EVMetric, len(metrics))
	for i, e := range metrics {
		models[i] = m.ToModel(e)
	}
	return models
}

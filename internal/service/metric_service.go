package service

import (
	"context"
	"time"

	"ev-platform-be/internal/dto"
	"ev-platform-be/internal/entity"
	"ev-platform-be/internal/repository/specification"
	"ev-platform-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// MetricListFilter narrows the metric list; zero values mean no filter.
type MetricListFilter struct {
	Brand      string
	Metric     string
	PeriodType string
	Year       int
	Month      int
	Model      string
	Limit      int
	Offset     int
}

type IMetricService interface {
	Upsert(ctx context.Context, req *dto.CreateMetricRequest) (*dto.UpsertResponse, error)
	List(ctx context.Context, filter MetricListFilter) ([]*dto.MetricResponse, int64, error)
}

type metricService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewMetricService(uowFactory unitofwork.RepositoryFactory) IMetricService {
	return &metricService{
		uowFactory: uowFactory,
	}
}

func (s *metricService) Upsert(ctx context.Context, req *dto.CreateMetricRequest) (*dto.UpsertResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	metric := &entity.EVMetric{
		Id:           uuid.New(),
		Brand:        req.Brand,
		Metric:       req.Metric,
		Value:        req.Value,
		Unit:         req.Unit,
		Period:       req.Period,
		PeriodType:   req.PeriodType,
		Year:         req.Year,
		Month:        req.Month,
		YoYChange:    req.YoYChange,
		MoMChange:    req.MoMChange,
		MarketShare:  req.MarketShare,
		VehicleModel: req.VehicleModel,
		Region:       req.Region,
		VehicleType:  req.VehicleType,
		SourceURL:    req.SourceURL,
		SourceTitle:  req.SourceTitle,
		CreatedAt:    time.Now(),
	}

	created, err := uow.MetricRepository().Upsert(ctx, metric)
	if err != nil {
		return nil, err
	}
	return &dto.UpsertResponse{Created: created, Id: metric.Id}, nil
}

func (s *metricService) List(ctx context.Context, filter MetricListFilter) ([]*dto.MetricResponse, int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	var specs []specification.Specification
	if filter.Brand != "" {
		specs = append(specs, specification.ByBrand{Brand: filter.Brand})
	}
	if filter.Metric != "" {
		specs = append(specs, specification.ByMetric{Metric: filter.Metric})
	}
	if filter.PeriodType != "" {
		specs = append(specs, specification.ByPeriodType{PeriodType: filter.PeriodType})
	}
	if filter.Year != 0 {
		specs = append(specs, specification.ByYear{Year: filter.Year})
	}
	if filter.Month != 0 {
		specs = append(specs, specification.ByMonth{Month: filter.Month})
	}
	if filter.Model != "" {
		specs = append(specs, specification.ByVehicleModel{Model: filter.Model})
	}

	total, err := uow.MetricRepository().Count(ctx, specs...)
	if err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}
	specs = append(specs,
		specification.OrderBy{Field: "year", Desc: true},
		specification.OrderBy{Field: "month", Desc: true},
		specification.Pagination{Limit: limit, Offset: filter.Offset},
	)

	metrics, err := uow.MetricRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, 0, err
	}

	res := make([]*dto.MetricResponse, len(metrics))
	for i, m := range metrics {
		res[i] = toMetricResponse(m)
	}
	return res, total, nil
}

func toMetricResponse(m *entity.EVMetric) *dto.MetricResponse {
	return &dto.MetricResponse{
		Id:           m.Id,
		Brand:        m.Brand,
		Metric:       m.Metric,
		Value:        m.Value,
		Unit:         m.Unit,
		Period:       m.Period,
		PeriodType:   m.PeriodType,
		Year:         m.Year,
		Month:        m.Month,
		YoYChange:    m.YoYChange,
		MoMChange:    m.MoMChange,
		MarketShare:  m.MarketShare,
		VehicleModel: m.VehicleModel,
		Region:       m.Region,
		VehicleType:  m.VehicleType,
		SourceURL:    m.SourceURL,
		CreatedAt:    m.CreatedAt,
	}
}

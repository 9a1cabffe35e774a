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

type VehicleSpecListFilter struct {
	Brand       string
	VehicleType string
	Limit       int
	Offset      int
}

type IVehicleSpecService interface {
	Upsert(ctx context.Context, req *dto.CreateVehicleSpecRequest) (*dto.UpsertResponse, error)
	List(ctx context.Context, filter VehicleSpecListFilter) ([]*dto.VehicleSpecResponse, int64, error)
}

type vehicleSpecService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewVehicleSpecService(uowFactory unitofwork.RepositoryFactory) IVehicleSpecService {
	return &vehicleSpecService{
		uowFactory: uowFactory,
	}
}

func (s *vehicleSpecService) Upsert(ctx context.Context, req *dto.CreateVehicleSpecRequest) (*dto.UpsertResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	spec := &entity.VehicleSpec{
		Id:           uuid.New(),
		Brand:        req.Brand,
		Model:        req.Model,
		VehicleType:  req.VehicleType,
		Segment:      req.Segment,
		PriceRange:   req.PriceRange,
		RangeKm:      req.RangeKm,
		BatteryKwh:   req.BatteryKwh,
		PowerKw:      req.PowerKw,
		TorqueNm:     req.TorqueNm,
		Acceleration: req.Acceleration,
		TopSpeed:     req.TopSpeed,
		LengthMm:     req.LengthMm,
		WidthMm:      req.WidthMm,
		HeightMm:     req.HeightMm,
		WheelbaseMm:  req.WheelbaseMm,
		Seats:        req.Seats,
		Drivetrain:   req.Drivetrain,
		SourceURL:    req.SourceURL,
		SourceTitle:  req.SourceTitle,
		CreatedAt:    time.Now(),
	}

	created, err := uow.VehicleSpecRepository().Upsert(ctx, spec)
	if err != nil {
		return nil, err
	}
	return &dto.UpsertResponse{Created: created, Id: spec.Id}, nil
}

func (s *vehicleSpecService) List(ctx context.Context, filter VehicleSpecListFilter) ([]*dto.VehicleSpecResponse, int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	var specs []specification.Specification
	if filter.Brand != "" {
		specs = append(specs, specification.ByBrand{Brand: filter.Brand})
	}
	if filter.VehicleType != "" {
		specs = append(specs, specification.Filter("vehicle_type", filter.VehicleType))
	}

	total, err := uow.VehicleSpecRepository().Count(ctx, specs...)
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
		specification.OrderBy{Field: "brand"},
		specification.OrderBy{Field: "model"},
		specification.Pagination{Limit: limit, Offset: filter.Offset},
	)

	rows, err := uow.VehicleSpecRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, 0, err
	}

	res := make([]*dto.VehicleSpecResponse, len(rows))
	for i, row := range rows {
		res[i] = toVehicleSpecResponse(row)
	}
	return res, total, nil
}

func toVehicleSpecResponse(v *entity.VehicleSpec) *dto.VehicleSpecResponse {
	return &dto.VehicleSpecResponse{
		Id:           v.Id,
		Brand:        v.Brand,
		Model:        v.Model,
		VehicleType:  v.VehicleType,
		Segment:      v.Segment,
		PriceRange:   v.PriceRange,
		RangeKm:      v.RangeKm,
		BatteryKwh:   v.BatteryKwh,
		PowerKw:      v.PowerKw,
		TorqueNm:     v.TorqueNm,
		Acceleration: v.Acceleration,
		TopSpeed:     v.TopSpeed,
		LengthMm:     v.LengthMm,
		WidthMm:      v.WidthMm,
		HeightMm:     v.HeightMm,
		WheelbaseMm:  v.WheelbaseMm,
		Seats:        v.Seats,
		Drivetrain:   v.Drivetrain,
		SourceURL:    v.SourceURL,
		CreatedAt:    v.CreatedAt,
	}
}

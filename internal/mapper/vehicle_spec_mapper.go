package mapper

import (
	"time"

	"ev-platform-be/internal/entity"
	"ev-platform-be/internal/model"
)

type VehicleSpecMapper struct{}

func NewVehicleSpecMapper() *VehicleSpecMapper {
	return &VehicleSpecMapper{}
}

func (m *VehicleSpecMapper) ToEntity(s *model.VehicleSpec) *entity.VehicleSpec {
	if s == nil {
		return nil
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.VehicleSpec{
		Id:           s.Id,
		Brand:        s.Brand,
		Model:        s.Model,
		VehicleType:  s.VehicleType,
		Segment:      s.Segment,
		PriceRange:   s.PriceRange,
		RangeKm:      s.RangeKm,
		BatteryKwh:   s.BatteryKwh,
		PowerKw:      s.PowerKw,
		TorqueNm:     s.TorqueNm,
		Acceleration: s.Acceleration,
		TopSpeed:     s.TopSpeed,
		LengthMm:     s.LengthMm,
		WidthMm:      s.WidthMm,
		HeightMm:     s.HeightMm,
		WheelbaseMm:  s.WheelbaseMm,
		Seats:        s.Seats,
		Drivetrain:   s.Drivetrain,
		SourceURL:    s.SourceURL,
		SourceTitle:  s.SourceTitle,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *VehicleSpecMapper) ToModel(e *entity.VehicleSpec) *model.VehicleSpec {
	if e == nil {
		return nil
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.VehicleSpec{
		Id:           e.Id,
		Brand:        e.Brand,
		Model:        e.Model,
		VehicleType:  e.VehicleType,
		Segment:      e.Segment,
		PriceRange:   e.PriceRange,
		RangeKm:      e.RangeKm,
		BatteryKwh:   e.BatteryKwh,
		PowerKw:      e.PowerKw,
		TorqueNm:     e.TorqueNm,
		Acceleration: e.Acceleration,
		TopSpeed:     e.TopSpeed,
		LengthMm:     e.LengthMm,
		WidthMm:      e.WidthMm,
		HeightMm:     e.HeightMm,
		WheelbaseMm:  e.WheelbaseMm,
		Seats:        e.Seats,
		Drivetrain:   e.Drivetrain,
		SourceURL:    e.SourceURL,
		SourceTitle:  e.SourceTitle,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *VehicleSpecMapper) ToEntities(specs []*model.VehicleSpec) []*entity.VehicleSpec {
	entities := make([]*entity.VehicleSpec, len(specs))
	for i, s := range specs {
		entities[i] = m.ToEntity(s)
	}
	return entities
}

func (m *VehicleSpecMapper) ToModels(specs []*entity.VehicleSpec) []*model.VehicleSpec {
	models := make([]*model.VehicleSpec, len(specs))
	for i, s := range specs {
		models[i] = m.ToModel(s)
	}
	return models
}

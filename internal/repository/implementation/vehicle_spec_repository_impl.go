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

type VehicleSpecRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.VehicleSpecMapper
}

func NewVehicleSpecRepository(db *gorm.DB) contract.VehicleSpecRepository {
	return &VehicleSpecRepositoryImpl{
		db:     db,
		mapper: mapper.NewVehicleSpecMapper(),
	}
}

func (r *VehicleSpecRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *VehicleSpecRepositoryImpl) Upsert(ctx context.Context, spec *entity.VehicleSpec) (bool, error) {
	m := r.mapper.ToModel(spec)

	var existing model.VehicleSpec
	err := r.db.WithContext(ctx).
		Where("brand = ? AND model = ?", m.Brand, m.Model).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
			return false, err
		}
		*spec = *r.mapper.ToEntity(m)
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
	*spec = *r.mapper.ToEntity(m)
	return false, nil
}

func (r *VehicleSpecRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.VehicleSpec, error) {
	var m model.VehicleSpec
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *VehicleSpecRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.VehicleSpec, error) {
	var models []*model.VehicleSpec
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *VehicleSpecRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.VehicleSpec{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

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

type ScrapeRunRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ScrapeRunMapper
}

func NewScrapeRunRepository(db *gorm.DB) contract.ScrapeRunRepository {
	return &ScrapeRunRepositoryImpl{
		db:     db,
		mapper: mapper.NewScrapeRunMapper(),
	}
}

func (r *ScrapeRunRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ScrapeRunRepositoryImpl) Create(ctx context.Context, run *entity.ScrapeRun) error {
	m := r.mapper.ToModel(run)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*run = *r.mapper.ToEntity(m)
	return nil
}

func (r *ScrapeRunRepositoryImpl) Update(ctx context.Context, run *entity.ScrapeRun) error {
	m := r.mapper.ToModel(run)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*run = *r.mapper.ToEntity(m)
	return nil
}

func (r *ScrapeRunRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ScrapeRun, error) {
	var m model.ScrapeRun
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ScrapeRunRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ScrapeRun, error) {
	var models []*model.ScrapeRun
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

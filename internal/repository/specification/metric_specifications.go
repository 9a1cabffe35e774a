package specification

import "gorm.io/gorm"

type ByBrand struct {
	Brand string
}

func (s ByBrand) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("brand = ?", s.Brand)
}

type ByMetric struct {
	Metric string
}

func (s ByMetric) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("metric = ?", s.Metric)
}

type ByPeriodType struct {
	PeriodType string
}

func (s ByPeriodType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("period_type = ?", s.PeriodType)
}

type ByYear struct {
	Year int
}

func (s ByYear) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("year = ?", s.Year)
}

type ByMonth struct {
	Month int
}

func (s ByMonth) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("month = ?", s.Month)
}

type ByVehicleModel struct {
	Model string
}

func (s ByVehicleModel) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("vehicle_model = ?", s.Model)
}

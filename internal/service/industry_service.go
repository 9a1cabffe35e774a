package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ev-platform-be/internal/dto"
	"ev-platform-be/internal/pkg/logger"
	"ev-platform-be/internal/repository/specification"
	"ev-platform-be/internal/repository/unitofwork"
	"ev-platform-be/pkg/evtables"
)

var (
	ErrUnknownIndustryTable = errors.New("unknown industry table")
	ErrInvalidRecord        = errors.New("invalid record")
)

// IIndustryService is the generic surface behind every industry-table
// endpoint. Submissions are maps keyed by the registry model's json names.
type IIndustryService interface {
	// Submit accepts either a single record or the bulk
	// {rows: [...], baseInfo: {...}} shape.
	Submit(ctx context.Context, table string, body []byte) (*dto.IndustrySubmitResponse, error)
	List(ctx context.Context, table string, limit int) (*dto.IndustryListResponse, error)
}

type industryService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewIndustryService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IIndustryService {
	return &industryService{
		uowFactory: uowFactory,
		logger:     log,
	}
}

// bulkProbe distinguishes the bulk shape from a single record. A single
// record never carries a "rows" key.
type bulkProbe struct {
	Rows     []map[string]any `json:"rows"`
	BaseInfo map[string]any   `json:"baseInfo"`
}

func (s *industryService) Submit(ctx context.Context, table string, body []byte) (*dto.IndustrySubmitResponse, error) {
	canonical, ok := evtables.Normalize(table)
	if !ok || !evtables.IsIndustry(canonical) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownIndustryTable, table)
	}

	var probe bulkProbe
	if err := json.Unmarshal(body, &probe); err == nil && probe.Rows != nil {
		return s.submitBulk(ctx, canonical, probe.Rows, probe.BaseInfo)
	}

	var record map[string]any
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if err := validateIndustryRecord(canonical, record); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	created, err := uow.IndustryRepository().Upsert(ctx, canonical, record)
	if err != nil {
		return nil, err
	}
	return &dto.IndustrySubmitResponse{Created: created}, nil
}

// submitBulk upserts every row, merging baseInfo fields into rows that
// lack them. Rows failing validation are skipped, not fatal: a ranking
// OCR batch with one bad row should still land the rest.
func (s *industryService) submitBulk(ctx context.Context, table string, rows []map[string]any, baseInfo map[string]any) (*dto.IndustrySubmitResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	res := &dto.IndustrySubmitResponse{Rows: len(rows)}
	for i, row := range rows {
		merged := make(map[string]any, len(row)+len(baseInfo))
		for k, v := range baseInfo {
			merged[k] = v
		}
		for k, v := range row {
			merged[k] = v
		}

		if err := validateIndustryRecord(table, merged); err != nil {
			s.logger.Warn("Industry", "Skipping invalid row", map[string]interface{}{
				"table": table,
				"row":   i,
				"error": err.Error(),
			})
			res.SkippedRows++
			continue
		}

		created, err := uow.IndustryRepository().Upsert(ctx, table, merged)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", table, i, err)
		}
		if created {
			res.CreatedRows++
		} else {
			res.UpdatedRows++
		}
	}
	res.Created = res.CreatedRows > 0
	return res, nil
}

func (s *industryService) List(ctx context.Context, table string, limit int) (*dto.IndustryListResponse, error) {
	canonical, ok := evtables.Normalize(table)
	if !ok || !evtables.IsIndustry(canonical) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownIndustryTable, table)
	}

	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.IndustryRepository().List(ctx, canonical,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit},
	)
	if err != nil {
		return nil, err
	}
	return &dto.IndustryListResponse{Table: canonical, Rows: rows}, nil
}

// validateIndustryRecord checks required fields and period ranges before
// the record reaches the repository's strict bind.
func validateIndustryRecord(table string, record map[string]any) error {
	required, _ := evtables.RequiredFields(table)
	for _, field := range required {
		if v, ok := record[field]; !ok || v == nil {
			return fmt.Errorf("%w: missing %s", ErrInvalidRecord, field)
		}
	}

	if year, ok := numberField(record, "year"); ok && (year < 2000 || year > 2100) {
		return fmt.Errorf("%w: year %d out of range", ErrInvalidRecord, year)
	}
	if month, ok := numberField(record, "month"); ok && (month < 1 || month > 12) {
		return fmt.Errorf("%w: month %d out of range", ErrInvalidRecord, month)
	}
	return nil
}

// numberField reads an int-valued json field; json numbers arrive as
// float64.
func numberField(record map[string]any, key string) (int, bool) {
	v, ok := record[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	default:
		return 0, false
	}
}

package service

import (
	"context"
	"math"
	"time"

	"ev-platform-be/internal/dto"
	"ev-platform-be/internal/entity"
	"ev-platform-be/internal/repository/contract"
	"ev-platform-be/internal/repository/specification"
	"ev-platform-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// UsageListFilter narrows the usage list.
type UsageListFilter struct {
	Type   string
	Model  string
	Limit  int
	Offset int
}

type IUsageService interface {
	Track(ctx context.Context, req *dto.TrackUsageRequest) (*dto.UsageResponse, error)
	List(ctx context.Context, filter UsageListFilter) (*dto.UsageListResponse, error)
	// Summary aggregates the current calendar month.
	Summary(ctx context.Context) (*dto.UsageSummaryResponse, error)
}

type usageService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewUsageService(uowFactory unitofwork.RepositoryFactory) IUsageService {
	return &usageService{
		uowFactory: uowFactory,
	}
}

// roundCost keeps money math stable at 6 decimals; model pricing is
// per-million-token so real values go well below a cent.
func roundCost(cost float64) float64 {
	return math.Round(cost*1e6) / 1e6
}

func (s *usageService) Track(ctx context.Context, req *dto.TrackUsageRequest) (*dto.UsageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	record := &entity.AIUsage{
		Id:           uuid.New(),
		Type:         entity.UsageType(req.Type),
		Model:        req.Model,
		Cost:         roundCost(req.Cost),
		Success:      req.Success,
		InputTokens:  req.InputTokens,
		OutputTokens: req.OutputTokens,
		Source:       req.Source,
		DurationMs:   req.DurationMs,
		CreatedAt:    time.Now(),
	}
	if req.ErrorMsg != "" {
		msg := req.ErrorMsg
		record.ErrorMsg = &msg
	}

	if err := uow.UsageRepository().Create(ctx, record); err != nil {
		return nil, err
	}
	res := toUsageResponse(record)
	return &res, nil
}

func (s *usageService) List(ctx context.Context, filter UsageListFilter) (*dto.UsageListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	var specs []specification.Specification
	if filter.Type != "" {
		specs = append(specs, specification.Filter("type", filter.Type))
	}
	if filter.Model != "" {
		specs = append(specs, specification.Filter("model", filter.Model))
	}

	total, err := uow.UsageRepository().Count(ctx, specs...)
	if err != nil {
		return nil, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	specs = append(specs,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: filter.Offset},
	)

	rows, err := uow.UsageRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	res := &dto.UsageListResponse{
		Usage: make([]dto.UsageResponse, len(rows)),
		Total: total,
	}
	for i, row := range rows {
		res.Usage[i] = toUsageResponse(row)
	}
	return res, nil
}

func (s *usageService) Summary(ctx context.Context) (*dto.UsageSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	totals, err := uow.UsageRepository().Totals(ctx, monthStart, now)
	if err != nil {
		return nil, err
	}
	byType, err := uow.UsageRepository().GroupedTotals(ctx, monthStart, now, "type")
	if err != nil {
		return nil, err
	}
	byModel, err := uow.UsageRepository().GroupedTotals(ctx, monthStart, now, "model")
	if err != nil {
		return nil, err
	}
	daily, err := uow.UsageRepository().DailySeries(ctx, monthStart, now)
	if err != nil {
		return nil, err
	}

	res := &dto.UsageSummaryResponse{
		Month:        monthStart.Format("2006-01"),
		TotalCost:    roundCost(totals.Cost),
		TotalCalls:   totals.Calls,
		SuccessRate:  successRate(totals.SuccessCalls, totals.Calls),
		InputTokens:  totals.InputTokens,
		OutputTokens: totals.OutputTokens,
		ByType:       toBuckets(byType),
		ByModel:      toBuckets(byModel),
		Daily:        make([]dto.UsageDailyResponse, len(daily)),
	}
	for i, day := range daily {
		res.Daily[i] = dto.UsageDailyResponse{
			Day:   day.Day,
			Cost:  roundCost(day.Cost),
			Calls: day.Calls,
		}
	}
	return res, nil
}

func toBuckets(buckets []*contract.UsageBucket) []dto.UsageBucketResponse {
	out := make([]dto.UsageBucketResponse, len(buckets))
	for i, b := range buckets {
		out[i] = dto.UsageBucketResponse{
			Key:          b.Key,
			Cost:         roundCost(b.Cost),
			Calls:        b.Calls,
			SuccessRate:  successRate(b.SuccessCalls, b.Calls),
			InputTokens:  b.InputTokens,
			OutputTokens: b.OutputTokens,
		}
	}
	return out
}

func successRate(success, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(success)/float64(total)*10000) / 10000
}

func toUsageResponse(u *entity.AIUsage) dto.UsageResponse {
	res := dto.UsageResponse{
		Id:           u.Id,
		Type:         string(u.Type),
		Model:        u.Model,
		Cost:         u.Cost,
		Success:      u.Success,
		InputTokens:  u.InputTokens,
		OutputTokens: u.OutputTokens,
		Source:       u.Source,
		DurationMs:   u.DurationMs,
		CreatedAt:    u.CreatedAt,
	}
	if u.ErrorMsg != nil {
		res.ErrorMsg = *u.ErrorMsg
	}
	return res
}
